package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/dept"
	"github.com/fisker/zadmin-backend/pkg/distributed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertDept(t *testing.T, repo *DeptRepository, id, parentID int64, ancestors model.AncestorPath, status int8) {
	t.Helper()
	require.NoError(t, repo.CreateDept(context.Background(), &model.Dept{
		ID:        id,
		ParentID:  parentID,
		Ancestors: ancestors,
		DeptName:  "dept",
		Status:    status,
	}))
}

func TestFindDescendantsMatchesWholeSegments(t *testing.T) {
	ctx := context.Background()
	repo := NewDeptRepository(newTestDB(t))

	insertDept(t, repo, 1, 0, model.AncestorPath{}, model.StatusEnabled)
	insertDept(t, repo, 2, 1, model.AncestorPath{1}, model.StatusEnabled)
	insertDept(t, repo, 3, 2, model.AncestorPath{1, 2}, model.StatusEnabled)
	insertDept(t, repo, 4, 3, model.AncestorPath{1, 2, 3}, model.StatusEnabled)
	insertDept(t, repo, 20, 1, model.AncestorPath{1}, model.StatusEnabled)
	insertDept(t, repo, 21, 20, model.AncestorPath{1, 20}, model.StatusEnabled)

	got, err := repo.FindDescendants(ctx, model.AncestorPath{1, 2})
	require.NoError(t, err)
	ids := make([]int64, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int64{3, 4}, ids)

	d, err := repo.FindDeptByID(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, model.AncestorPath{1, 2, 3}, d.Ancestors)
}

func TestDeptRepositoryCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewDeptRepository(db)

	insertDept(t, repo, 1, 0, model.AncestorPath{}, model.StatusEnabled)
	insertDept(t, repo, 2, 1, model.AncestorPath{1}, model.StatusEnabled)
	insertDept(t, repo, 3, 1, model.AncestorPath{1}, model.StatusDisabled)
	require.NoError(t, NewUserRepository(db).Create(ctx, &model.User{Mobile: "1", UserName: "u", Password: "x", DeptID: 2}))

	children, err := repo.CountChildDepts(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, children)

	enabled, err := repo.CountEnabledChildDepts(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, enabled)

	members, err := repo.CountUsersInDept(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, members)

	require.NoError(t, repo.BulkUpdateStatus(ctx, []int64{2, 3}, model.StatusDisabled))
	enabled, err = repo.CountEnabledChildDepts(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, enabled)
}

func TestDeptTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewDeptRepository(newTestDB(t))
	insertDept(t, repo, 1, 0, model.AncestorPath{}, model.StatusEnabled)
	insertDept(t, repo, 2, 1, model.AncestorPath{1}, model.StatusEnabled)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(st dept.Store) error {
		if err := st.UpdateAncestors(ctx, 2, model.AncestorPath{9}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	d, err := repo.FindDeptByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.AncestorPath{1}, d.Ancestors)
}

func TestCascadeServiceOnDatabase(t *testing.T) {
	ctx := context.Background()
	repo := NewDeptRepository(newTestDB(t))
	svc := dept.NewCascadeService(repo, distributed.NewStructureLock(nil, "lock:dept", 0))

	create := func(parentID int64, name string) *model.Dept {
		d := &model.Dept{ParentID: parentID, DeptName: name, Status: model.StatusEnabled}
		require.NoError(t, svc.OnCreate(ctx, d))
		return d
	}

	root := create(0, "总公司")
	a := create(root.ID, "研发")
	b := create(a.ID, "后端")
	c := create(b.ID, "存储")
	other := create(root.ID, "市场")

	require.NoError(t, svc.OnMove(ctx, b.ID, other.ID))

	moved, err := repo.FindDeptByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AncestorPath{root.ID, other.ID}, moved.Ancestors)
	assert.Equal(t, other.ID, moved.ParentID)

	leaf, err := repo.FindDeptByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AncestorPath{root.ID, other.ID, b.ID}, leaf.Ancestors)

	err = svc.OnMove(ctx, other.ID, c.ID)
	assert.ErrorIs(t, err, dept.ErrParentIsDescendant)

	require.NoError(t, svc.UpdateStatus(ctx, []int64{root.ID, other.ID, b.ID}, model.StatusDisabled))
	require.NoError(t, svc.OnEnable(ctx, c.ID))
	for _, id := range []int64{root.ID, other.ID, b.ID, c.ID} {
		d, err := repo.FindDeptByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, d.IsEnabled(), "dept %d", id)
	}

	assert.ErrorIs(t, svc.CanDelete(ctx, b.ID), dept.ErrHasChildren)
	require.NoError(t, svc.Delete(ctx, c.ID))
	gone, err := repo.FindDeptByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
