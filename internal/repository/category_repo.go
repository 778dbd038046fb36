package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Save(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)

	// AncestorsOf returns relation rows leading to the category, nearest
	// first (depth ascending, excluding the self row).
	AncestorsOf(ctx context.Context, id uuid.UUID) ([]model.CategoryRelation, error)
	// SubtreeOf returns relation rows rooted at the category, including the
	// depth-0 self row.
	SubtreeOf(ctx context.Context, id uuid.UUID) ([]model.CategoryRelation, error)
	InsertRelations(ctx context.Context, relations []model.CategoryRelation) error
	// DeleteRelationsAbove removes every link between any ancestor outside
	// the subtree and any node inside it, prior to re-attaching the subtree.
	DeleteRelationsAbove(ctx context.Context, subtreeIDs []uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) Save(ctx context.Context, category *model.Category) error {
	return GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Save(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := GetDB(ctx, r.db).Scopes(TenantScope(ctx)).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) AncestorsOf(ctx context.Context, id uuid.UUID) ([]model.CategoryRelation, error) {
	var relations []model.CategoryRelation
	if err := GetDB(ctx, r.db).
		Where("descendant_id = ? AND depth > 0", id).
		Order("depth").
		Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *categoryRepository) SubtreeOf(ctx context.Context, id uuid.UUID) ([]model.CategoryRelation, error) {
	var relations []model.CategoryRelation
	if err := GetDB(ctx, r.db).
		Where("ancestor_id = ?", id).
		Order("depth").
		Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *categoryRepository) InsertRelations(ctx context.Context, relations []model.CategoryRelation) error {
	if len(relations) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&relations).Error
}

func (r *categoryRepository) DeleteRelationsAbove(ctx context.Context, subtreeIDs []uuid.UUID) error {
	if len(subtreeIDs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).
		Where("descendant_id IN ? AND ancestor_id NOT IN ?", subtreeIDs, subtreeIDs).
		Delete(&model.CategoryRelation{}).Error
}
