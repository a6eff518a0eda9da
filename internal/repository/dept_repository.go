package repository

import (
	"context"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/dept"
	"gorm.io/gorm"
)

type DeptRepository struct {
	db *gorm.DB
}

func NewDeptRepository(db *gorm.DB) *DeptRepository {
	return &DeptRepository{db: db}
}

var _ dept.Store = (*DeptRepository)(nil)

// deptColumns 更新时写入的列，零值也会写入
var deptColumns = []string{
	"parent_id", "ancestors", "dept_name", "sort", "leader", "phone", "email", "status",
}

// Transaction 在同一个数据库事务中执行 fn
func (r *DeptRepository) Transaction(ctx context.Context, fn func(store dept.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DeptRepository{db: tx})
	})
}

// CreateDept 创建部门
func (r *DeptRepository) CreateDept(ctx context.Context, d *model.Dept) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// SaveDept 更新部门
func (r *DeptRepository) SaveDept(ctx context.Context, d *model.Dept) error {
	return r.db.WithContext(ctx).Model(&model.Dept{}).
		Where("id = ?", d.ID).
		Select(deptColumns).
		Updates(d).Error
}

// DeleteDept 删除部门
func (r *DeptRepository) DeleteDept(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Dept{}, "id = ?", id).Error
}

// FindDeptByID 根据ID查找部门，不存在时返回 nil
func (r *DeptRepository) FindDeptByID(ctx context.Context, id int64) (*model.Dept, error) {
	var d model.Dept
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	return notFound(&d, err)
}

// FindDeptsByIDs 根据ID批量查找部门
func (r *DeptRepository) FindDeptsByIDs(ctx context.Context, ids []int64) ([]model.Dept, error) {
	if len(ids) == 0 {
		return []model.Dept{}, nil
	}
	var depts []model.Dept
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&depts).Error
	return depts, err
}

// FindDeptByName 同一上级下按名称查找部门
func (r *DeptRepository) FindDeptByName(ctx context.Context, parentID int64, name string) (*model.Dept, error) {
	var d model.Dept
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND dept_name = ?", parentID, name).
		First(&d).Error
	return notFound(&d, err)
}

// FindChildDepts 直接下级部门
func (r *DeptRepository) FindChildDepts(ctx context.Context, id int64) ([]model.Dept, error) {
	var depts []model.Dept
	err := r.db.WithContext(ctx).Where("parent_id = ?", id).Order("sort ASC, id ASC").Find(&depts).Error
	return depts, err
}

// FindDescendants 祖级列表以 prefix 开头的全部部门
func (r *DeptRepository) FindDescendants(ctx context.Context, prefix model.AncestorPath) ([]model.Dept, error) {
	if len(prefix) == 0 {
		return []model.Dept{}, nil
	}
	p := prefix.String()
	var depts []model.Dept
	err := r.db.WithContext(ctx).
		Where("ancestors = ? OR ancestors LIKE ?", p, p+",%").
		Order("id ASC").
		Find(&depts).Error
	return depts, err
}

// FindDepts 按条件查询部门列表
func (r *DeptRepository) FindDepts(ctx context.Context, req model.DeptListRequest) ([]model.Dept, error) {
	query := r.db.WithContext(ctx).Model(&model.Dept{})
	if req.DeptName != "" {
		query = query.Where("dept_name LIKE ?", "%"+req.DeptName+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	var depts []model.Dept
	err := query.Order("sort ASC, id ASC").Find(&depts).Error
	return depts, err
}

// CountChildDepts 直接下级部门数量
func (r *DeptRepository) CountChildDepts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Dept{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

// CountEnabledChildDepts 启用状态的直接下级部门数量
func (r *DeptRepository) CountEnabledChildDepts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Dept{}).
		Where("parent_id = ? AND status = ?", id, model.StatusEnabled).
		Count(&count).Error
	return count, err
}

// CountUsersInDept 部门成员数量
func (r *DeptRepository) CountUsersInDept(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("dept_id = ?", id).Count(&count).Error
	return count, err
}

// BulkUpdateStatus 批量修改状态
func (r *DeptRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status int8) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Dept{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

// UpdateAncestors 改写单个部门的祖级列表
func (r *DeptRepository) UpdateAncestors(ctx context.Context, id int64, ancestors model.AncestorPath) error {
	return r.db.WithContext(ctx).Model(&model.Dept{}).
		Where("id = ?", id).
		Update("ancestors", ancestors).Error
}
