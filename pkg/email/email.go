package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// Config holds SMTP configuration
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Service handles email sending over SMTP
type Service struct {
	config Config
}

// NewService creates a new email service
func NewService(config Config) *Service {
	return &Service{config: config}
}

// SummaryRow is one line of the daily sales summary email.
type SummaryRow struct {
	Period     string
	Quantity   string
	NetValue   string
	TaxFinance string
}

// SendSalesSummary renders and sends the daily sales summary to the recipient.
func (s *Service) SendSalesSummary(toEmail, companyName string, rows []SummaryRow) error {
	htmlContent, err := s.renderSalesSummary(companyName, rows)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Daily sales summary - " + companyName
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)
	return s.sendEmail(toEmail, message)
}

func (s *Service) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *Service) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)
	return []byte(headers + htmlBody)
}

func (s *Service) renderSalesSummary(companyName string, rows []SummaryRow) (string, error) {
	tmpl, err := template.New("sales_summary").Parse(salesSummaryTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		CompanyName string
		Rows        []SummaryRow
	}{
		CompanyName: companyName,
		Rows:        rows,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const salesSummaryTemplate = `
<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Daily Sales Summary</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.CompanyName}} — daily sales summary</h2>
  <table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr style="background: #f0f0f0;">
      <th>Date</th><th>Quantity</th><th>Net value</th><th>VAT</th>
    </tr>
    {{range .Rows}}
    <tr>
      <td>{{.Period}}</td>
      <td align="right">{{.Quantity}}</td>
      <td align="right">{{.NetValue}}</td>
      <td align="right">{{.TaxFinance}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>
`
