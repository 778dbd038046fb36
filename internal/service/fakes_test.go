package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They reproduce only the behavior the services
// rely on: ID assignment on create, not-found as gorm.ErrRecordNotFound, and
// tenant filtering where the real repositories apply TenantScope.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- taxes ---

type fakeTaxRepo struct {
	taxes []model.Tax
}

func (f *fakeTaxRepo) Create(ctx context.Context, tax *model.Tax) error {
	if tax.ID == uuid.Nil {
		tax.ID = uuid.New()
	}
	f.taxes = append(f.taxes, *tax)
	return nil
}

func (f *fakeTaxRepo) Update(ctx context.Context, tax *model.Tax) error {
	for i := range f.taxes {
		if f.taxes[i].ID == tax.ID {
			f.taxes[i] = *tax
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTaxRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tax, error) {
	for i := range f.taxes {
		if f.taxes[i].ID == id {
			tax := f.taxes[i]
			return &tax, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTaxRepo) List(ctx context.Context, page, limit int) ([]model.Tax, int64, error) {
	return f.taxes, int64(len(f.taxes)), nil
}

func (f *fakeTaxRepo) FindValid(ctx context.Context, targetDate time.Time) ([]model.Tax, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return nil, nil
	}
	var valid []model.Tax
	for _, t := range f.taxes {
		if t.TenantID != tenantID {
			continue
		}
		if t.ValidFrom.After(targetDate) {
			continue
		}
		if t.ValidTo != nil && t.ValidTo.Before(targetDate) {
			continue
		}
		valid = append(valid, t)
	}
	return valid, nil
}

// --- items ---

type fakeItemRepo struct {
	items map[uuid.UUID]model.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]model.Item)}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *model.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *model.Item) error {
	f.items[item.ID] = *item
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	if item, ok := f.items[id]; ok {
		return &item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	if item, ok := f.items[id]; ok && item.Status == model.ItemStatusActive {
		return &item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepo) FindByCode(ctx context.Context, code string) (*model.Item, error) {
	for _, item := range f.items {
		if item.Code == code {
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Item, error) {
	for _, item := range f.items {
		if item.Barcode == barcode {
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepo) List(ctx context.Context, page, limit int) ([]model.Item, int64, error) {
	var items []model.Item
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, int64(len(items)), nil
}

// --- calculations ---

type fakeCalculationRepo struct {
	calcs map[uuid.UUID]*model.Calculation
}

func newFakeCalculationRepo() *fakeCalculationRepo {
	return &fakeCalculationRepo{calcs: make(map[uuid.UUID]*model.Calculation)}
}

func (f *fakeCalculationRepo) Create(ctx context.Context, calc *model.Calculation) error {
	if calc.ID == uuid.Nil {
		calc.ID = uuid.New()
	}
	stored := *calc
	f.calcs[calc.ID] = &stored
	return nil
}

func (f *fakeCalculationRepo) UpdateHeader(ctx context.Context, calc *model.Calculation) error {
	stored, ok := f.calcs[calc.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.InputMode = calc.InputMode
	stored.Status = calc.Status
	stored.TotalFinanceMP = calc.TotalFinanceMP
	stored.Note = calc.Note
	return nil
}

func (f *fakeCalculationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Calculation, error) {
	return f.FindByIDWithChildren(ctx, id)
}

func (f *fakeCalculationRepo) FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*model.Calculation, error) {
	stored, ok := f.calcs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stored
	copied.Items = append([]model.CalculationItem(nil), stored.Items...)
	copied.Expenses = append([]model.CalculationExpense(nil), stored.Expenses...)
	return &copied, nil
}

func (f *fakeCalculationRepo) List(ctx context.Context, page, limit int) ([]model.Calculation, int64, error) {
	var calcs []model.Calculation
	for _, c := range f.calcs {
		calcs = append(calcs, *c)
	}
	return calcs, int64(len(calcs)), nil
}

func (f *fakeCalculationRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	return int64(len(f.calcs)), nil
}

func (f *fakeCalculationRepo) CreateItem(ctx context.Context, item *model.CalculationItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	calc, ok := f.calcs[item.CalculationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	calc.Items = append(calc.Items, *item)
	return nil
}

func (f *fakeCalculationRepo) SaveItem(ctx context.Context, item *model.CalculationItem) error {
	calc, ok := f.calcs[item.CalculationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range calc.Items {
		if calc.Items[i].ID == item.ID {
			calc.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCalculationRepo) DeleteItem(ctx context.Context, calcID, itemID uuid.UUID) error {
	calc, ok := f.calcs[calcID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range calc.Items {
		if calc.Items[i].ID == itemID {
			calc.Items = append(calc.Items[:i], calc.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCalculationRepo) CreateExpense(ctx context.Context, expense *model.CalculationExpense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	calc, ok := f.calcs[expense.CalculationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	calc.Expenses = append(calc.Expenses, *expense)
	return nil
}

func (f *fakeCalculationRepo) SaveExpense(ctx context.Context, expense *model.CalculationExpense) error {
	calc, ok := f.calcs[expense.CalculationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range calc.Expenses {
		if calc.Expenses[i].ID == expense.ID {
			calc.Expenses[i] = *expense
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCalculationRepo) DeleteExpense(ctx context.Context, calcID, expenseID uuid.UUID) error {
	calc, ok := f.calcs[calcID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range calc.Expenses {
		if calc.Expenses[i].ID == expenseID {
			calc.Expenses = append(calc.Expenses[:i], calc.Expenses[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- receipts ---

type fakeReceiptRepo struct {
	receipts map[uuid.UUID]model.Receipt
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]model.Receipt)}
}

func (f *fakeReceiptRepo) Create(ctx context.Context, receipt *model.Receipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	for i := range receipt.Items {
		if receipt.Items[i].ID == uuid.Nil {
			receipt.Items[i].ID = uuid.New()
		}
		receipt.Items[i].ReceiptID = receipt.ID
	}
	for i := range receipt.Payments {
		if receipt.Payments[i].ID == uuid.Nil {
			receipt.Payments[i].ID = uuid.New()
		}
		receipt.Payments[i].ReceiptID = receipt.ID
	}
	f.receipts[receipt.ID] = *receipt
	return nil
}

func (f *fakeReceiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	if receipt, ok := f.receipts[id]; ok {
		return &receipt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReceiptRepo) List(ctx context.Context, page, limit int) ([]model.Receipt, int64, error) {
	var receipts []model.Receipt
	for _, r := range f.receipts {
		receipts = append(receipts, r)
	}
	return receipts, int64(len(receipts)), nil
}

func (f *fakeReceiptRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	return int64(len(f.receipts)), nil
}

// --- categories ---

type fakeCategoryRepo struct {
	categories map[uuid.UUID]model.Category
	relations  []model.CategoryRelation
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]model.Category)}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) Save(ctx context.Context, category *model.Category) error {
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	if category, ok := f.categories[id]; ok {
		return &category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	for _, c := range f.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (f *fakeCategoryRepo) AncestorsOf(ctx context.Context, id uuid.UUID) ([]model.CategoryRelation, error) {
	var out []model.CategoryRelation
	for _, rel := range f.relations {
		if rel.DescendantID == id && rel.Depth > 0 {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) SubtreeOf(ctx context.Context, id uuid.UUID) ([]model.CategoryRelation, error) {
	var out []model.CategoryRelation
	for _, rel := range f.relations {
		if rel.AncestorID == id {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) InsertRelations(ctx context.Context, relations []model.CategoryRelation) error {
	f.relations = append(f.relations, relations...)
	return nil
}

func (f *fakeCategoryRepo) DeleteRelationsAbove(ctx context.Context, subtreeIDs []uuid.UUID) error {
	inSubtree := make(map[uuid.UUID]bool, len(subtreeIDs))
	for _, id := range subtreeIDs {
		inSubtree[id] = true
	}
	var kept []model.CategoryRelation
	for _, rel := range f.relations {
		if inSubtree[rel.DescendantID] && !inSubtree[rel.AncestorID] {
			continue
		}
		kept = append(kept, rel)
	}
	f.relations = kept
	return nil
}
