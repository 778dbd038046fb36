package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/items"+query, nil)
	return Parse(c)
}

func TestParseDefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, 20, 0},
		{"explicit", "?page=3&limit=10", 3, 10, 20},
		{"zero page", "?page=0", 1, 20, 0},
		{"negative limit", "?limit=-5", 1, 20, 0},
		{"limit above cap", "?limit=500", 1, 100, 0},
		{"garbage", "?page=abc&limit=xyz", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := parseQuery(t, tt.query)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset)
		})
	}
}

func TestMetaComputesTotalPages(t *testing.T) {
	meta := Params{Page: 2, Limit: 20}.Meta(41)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, int64(41), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, Params{Page: 1, Limit: 20}.Meta(0).TotalPages)
	assert.Equal(t, 1, Params{Page: 1, Limit: 20}.Meta(20).TotalPages)
}
