package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID string `json:"parent_id"`
}

type MoveCategoryRequest struct {
	// Empty makes the category a root.
	NewParentID string `json:"new_parent_id"`
}

type CategoryResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

type CategoryTreeNode struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Children []CategoryTreeNode `json:"children,omitempty"`
}

// --- Interface ---

type CategoryService interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error)
	MoveCategory(ctx context.Context, id string, req MoveCategoryRequest) (CategoryResponse, error)
	GetTree(ctx context.Context) ([]CategoryTreeNode, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	txManager    repository.TransactionManager
}

func NewCategoryService(categoryRepo repository.CategoryRepository, txManager repository.TransactionManager) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, txManager: txManager}
}

// --- Implementation ---

func (s *categoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (CategoryResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return CategoryResponse{}, apperror.Validation("missing tenant context")
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		parsed, err := uuid.Parse(req.ParentID)
		if err != nil {
			return CategoryResponse{}, apperror.Validation("invalid parent_id")
		}
		parentID = &parsed
	}

	var category model.Category
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if parentID != nil {
			if _, err := s.categoryRepo.FindByID(txCtx, *parentID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NotFound("parent category")
				}
				return fmt.Errorf("failed to fetch parent category: %w", err)
			}
		}

		category = model.Category{
			TenantID: tenantID,
			Name:     req.Name,
			ParentID: parentID,
		}
		if err := s.categoryRepo.Create(txCtx, &category); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		// Closure rows: self at depth 0 plus one row per ancestor of the
		// parent, shifted one level down.
		relations := []model.CategoryRelation{
			{AncestorID: category.ID, DescendantID: category.ID, Depth: 0},
		}
		if parentID != nil {
			relations = append(relations, model.CategoryRelation{
				AncestorID: *parentID, DescendantID: category.ID, Depth: 1,
			})
			ancestors, err := s.categoryRepo.AncestorsOf(txCtx, *parentID)
			if err != nil {
				return fmt.Errorf("failed to fetch ancestors: %w", err)
			}
			for _, a := range ancestors {
				relations = append(relations, model.CategoryRelation{
					AncestorID: a.AncestorID, DescendantID: category.ID, Depth: a.Depth + 1,
				})
			}
		}

		return s.categoryRepo.InsertRelations(txCtx, relations)
	})
	if err != nil {
		return CategoryResponse{}, err
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) MoveCategory(ctx context.Context, id string, req MoveCategoryRequest) (CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return CategoryResponse{}, apperror.Validation("invalid category id")
	}

	var newParentID *uuid.UUID
	if req.NewParentID != "" {
		parsed, err := uuid.Parse(req.NewParentID)
		if err != nil {
			return CategoryResponse{}, apperror.Validation("invalid new_parent_id")
		}
		if parsed == categoryID {
			return CategoryResponse{}, apperror.Validation("category cannot be its own parent")
		}
		newParentID = &parsed
	}

	var category *model.Category
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		category, err = s.categoryRepo.FindByID(txCtx, categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("category")
			}
			return fmt.Errorf("failed to fetch category: %w", err)
		}

		subtree, err := s.categoryRepo.SubtreeOf(txCtx, categoryID)
		if err != nil {
			return fmt.Errorf("failed to fetch subtree: %w", err)
		}
		subtreeIDs := make([]uuid.UUID, 0, len(subtree))
		for _, rel := range subtree {
			subtreeIDs = append(subtreeIDs, rel.DescendantID)
		}

		if newParentID != nil {
			for _, descID := range subtreeIDs {
				if descID == *newParentID {
					return apperror.Validation("cannot move category under its own subtree")
				}
			}
			if _, err := s.categoryRepo.FindByID(txCtx, *newParentID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NotFound("parent category")
				}
				return fmt.Errorf("failed to fetch parent category: %w", err)
			}
		}

		// Detach the subtree from everything above it, then re-link every
		// ancestor of the new parent to every subtree node.
		if err := s.categoryRepo.DeleteRelationsAbove(txCtx, subtreeIDs); err != nil {
			return fmt.Errorf("failed to detach subtree: %w", err)
		}

		if newParentID != nil {
			newAncestors := []model.CategoryRelation{
				{AncestorID: *newParentID, DescendantID: *newParentID, Depth: 0},
			}
			above, err := s.categoryRepo.AncestorsOf(txCtx, *newParentID)
			if err != nil {
				return fmt.Errorf("failed to fetch new ancestors: %w", err)
			}
			newAncestors = append(newAncestors, above...)

			var relations []model.CategoryRelation
			for _, anc := range newAncestors {
				for _, desc := range subtree {
					relations = append(relations, model.CategoryRelation{
						AncestorID:   anc.AncestorID,
						DescendantID: desc.DescendantID,
						Depth:        anc.Depth + desc.Depth + 1,
					})
				}
			}
			if err := s.categoryRepo.InsertRelations(txCtx, relations); err != nil {
				return fmt.Errorf("failed to attach subtree: %w", err)
			}
		}

		category.ParentID = newParentID
		return s.categoryRepo.Save(txCtx, category)
	})
	if err != nil {
		return CategoryResponse{}, err
	}

	return toCategoryResponse(*category), nil
}

func (s *categoryService) GetTree(ctx context.Context) ([]CategoryTreeNode, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return buildTree(categories), nil
}

// buildTree assembles the response tree from the flat parent_id edges.
func buildTree(categories []model.Category) []CategoryTreeNode {
	children := make(map[uuid.UUID][]model.Category)
	var roots []model.Category
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var build func(c model.Category) CategoryTreeNode
	build = func(c model.Category) CategoryTreeNode {
		node := CategoryTreeNode{ID: c.ID.String(), Name: c.Name}
		for _, child := range children[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	result := make([]CategoryTreeNode, 0, len(roots))
	for _, root := range roots {
		result = append(result, build(root))
	}
	return result
}

// --- Mapping ---

func toCategoryResponse(category model.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:   category.ID.String(),
		Name: category.Name,
	}
	if category.ParentID != nil {
		s := category.ParentID.String()
		resp.ParentID = &s
	}
	return resp
}
