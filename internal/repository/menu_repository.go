package repository

import (
	"context"

	"github.com/fisker/zadmin-backend/internal/model"
	"gorm.io/gorm"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// menuColumns 更新时写入的列，包含零值
var menuColumns = []string{
	"menu_name", "menu_type", "visible", "status", "sort",
	"parent_id", "menu_url", "api_url", "menu_icon", "remark",
}

// Create 创建菜单
func (r *MenuRepository) Create(ctx context.Context, menu *model.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

// Update 更新菜单
func (r *MenuRepository) Update(ctx context.Context, menu *model.Menu) error {
	return r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("id = ?", menu.ID).
		Select(menuColumns).
		Updates(menu).Error
}

// UpdateStatus 批量修改状态
func (r *MenuRepository) UpdateStatus(ctx context.Context, ids []int64, status int8) error {
	return r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

// Delete 删除菜单，同时删除角色菜单关联
func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.RoleMenu{}, "menu_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Menu{}, "id = ?", id).Error
	})
}

// FindByID 根据ID查找菜单，不存在时返回 nil
func (r *MenuRepository) FindByID(ctx context.Context, id int64) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&menu).Error
	return notFound(&menu, err)
}

// FindByName 同级菜单中按名称查找
func (r *MenuRepository) FindByName(ctx context.Context, parentID int64, name string) (*model.Menu, error) {
	var menu model.Menu
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND menu_name = ?", parentID, name).
		First(&menu).Error
	return notFound(&menu, err)
}

// FindAllMenus 查找所有菜单（不区分状态）
func (r *MenuRepository) FindAllMenus(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	err := r.db.WithContext(ctx).Order("sort ASC, id ASC").Find(&menus).Error
	return menus, err
}

// FindMenusByIDs 根据ID批量查找菜单（不区分状态）
func (r *MenuRepository) FindMenusByIDs(ctx context.Context, ids []int64) ([]model.Menu, error) {
	if len(ids) == 0 {
		return []model.Menu{}, nil
	}
	var menus []model.Menu
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("sort ASC, id ASC").
		Find(&menus).Error
	return menus, err
}

// FindMenusByRoleIDs 查找角色关联的菜单，多个角色关联同一菜单时只返回一次
func (r *MenuRepository) FindMenusByRoleIDs(ctx context.Context, roleIDs []int64) ([]model.Menu, error) {
	if len(roleIDs) == 0 {
		return []model.Menu{}, nil
	}
	var menus []model.Menu
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&model.RoleMenu{}).Select("menu_id").Where("role_id IN ?", roleIDs)).
		Order("sort ASC, id ASC").
		Find(&menus).Error
	return menus, err
}

// FindList 按条件查询菜单列表
func (r *MenuRepository) FindList(ctx context.Context, req model.MenuListRequest) ([]model.Menu, error) {
	query := r.db.WithContext(ctx).Model(&model.Menu{})
	if req.MenuName != "" {
		query = query.Where("menu_name LIKE ?", "%"+req.MenuName+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	var menus []model.Menu
	err := query.Order("sort ASC, id ASC").Find(&menus).Error
	return menus, err
}

// CountChildren 子菜单数量
func (r *MenuRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}
