package service

import (
	"context"
	"testing"

	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relationSet(repo *fakeCategoryRepo) map[[2]string]int {
	set := make(map[[2]string]int, len(repo.relations))
	for _, rel := range repo.relations {
		set[[2]string{rel.AncestorID.String(), rel.DescendantID.String()}] = rel.Depth
	}
	return set
}

func TestCategoryServiceCreateMaintainsClosure(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo, fakeTxManager{})

	root, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Beverages"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Juices", ParentID: root.ID})
	require.NoError(t, err)
	grandchild, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Citrus", ParentID: child.ID})
	require.NoError(t, err)

	set := relationSet(repo)
	// 3 self rows, 3 parent edges at depth 1 and 2, and the root-grandchild
	// transitive row.
	require.Len(t, set, 6)
	assert.Equal(t, 0, set[[2]string{root.ID, root.ID}])
	assert.Equal(t, 1, set[[2]string{root.ID, child.ID}])
	assert.Equal(t, 1, set[[2]string{child.ID, grandchild.ID}])
	assert.Equal(t, 2, set[[2]string{root.ID, grandchild.ID}])
}

func TestCategoryServiceMoveReparentsSubtree(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo, fakeTxManager{})

	rootA, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Food"})
	require.NoError(t, err)
	rootB, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Non-Food"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Snacks", ParentID: rootA.ID})
	require.NoError(t, err)
	grandchild, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Chips", ParentID: child.ID})
	require.NoError(t, err)

	moved, err := svc.MoveCategory(ctx, child.ID, MoveCategoryRequest{NewParentID: rootB.ID})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, rootB.ID, *moved.ParentID)

	set := relationSet(repo)
	// The whole subtree hangs under rootB now; no link to rootA survives.
	assert.Equal(t, 1, set[[2]string{rootB.ID, child.ID}])
	assert.Equal(t, 2, set[[2]string{rootB.ID, grandchild.ID}])
	assert.Equal(t, 1, set[[2]string{child.ID, grandchild.ID}])
	_, staleChild := set[[2]string{rootA.ID, child.ID}]
	_, staleGrandchild := set[[2]string{rootA.ID, grandchild.ID}]
	assert.False(t, staleChild)
	assert.False(t, staleGrandchild)
}

func TestCategoryServiceMoveToRoot(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo, fakeTxManager{})

	root, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Hand Tools", ParentID: root.ID})
	require.NoError(t, err)

	moved, err := svc.MoveCategory(ctx, child.ID, MoveCategoryRequest{})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	set := relationSet(repo)
	_, stale := set[[2]string{root.ID, child.ID}]
	assert.False(t, stale)
	assert.Equal(t, 0, set[[2]string{child.ID, child.ID}])
}

func TestCategoryServiceRejectsCycle(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo, fakeTxManager{})

	root, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "B", ParentID: root.ID})
	require.NoError(t, err)

	_, err = svc.MoveCategory(ctx, root.ID, MoveCategoryRequest{NewParentID: child.ID})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)

	_, err = svc.MoveCategory(ctx, root.ID, MoveCategoryRequest{NewParentID: root.ID})
	require.Error(t, err)
}

func TestCategoryServiceTree(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo, fakeTxManager{})

	root, err := svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Root"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CreateCategoryRequest{Name: "Leaf", ParentID: root.ID})
	require.NoError(t, err)

	tree, err := svc.GetTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Root", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Leaf", tree[0].Children[0].Name)
}
