package system

import (
	"context"
	"fmt"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/internal/service/permission"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrMenuNotFound       = model.NewNotFoundError("menu not found")
	ErrMenuParentNotFound = model.NewValidationError("parent menu not found")
	ErrMenuParentIsSelf   = model.NewValidationError("parent menu cannot be itself")
	ErrMenuParentIsChild  = model.NewValidationError("parent menu cannot be a descendant")
	ErrMenuParentIsButton = model.NewValidationError("parent menu cannot be a button")
	ErrMenuNameExists     = model.NewValidationError("menu name already exists")
	ErrMenuHasChildren    = model.NewBusinessError("has child menus, cannot delete")
)

// MenuService 菜单管理
type MenuService struct {
	menus MenuStore
}

func NewMenuService(menus MenuStore) *MenuService {
	return &MenuService{menus: menus}
}

// AddMenu 添加菜单
func (s *MenuService) AddMenu(ctx context.Context, req *model.AddMenuRequest) (*model.Menu, error) {
	menu := newMenu(req)
	if err := s.validate(ctx, menu); err != nil {
		return nil, err
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, fmt.Errorf("create menu: %w", err)
	}
	return menu, nil
}

// UpdateMenu 更新菜单
func (s *MenuService) UpdateMenu(ctx context.Context, req *model.UpdateMenuRequest) error {
	existing, err := s.menus.FindByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrMenuNotFound
	}

	menu := newMenu(&req.AddMenuRequest)
	menu.ID = req.ID
	if err := s.validate(ctx, menu); err != nil {
		return err
	}
	if err := s.menus.Update(ctx, menu); err != nil {
		return fmt.Errorf("update menu: %w", err)
	}
	return nil
}

// UpdateMenuStatus 批量修改菜单状态
func (s *MenuService) UpdateMenuStatus(ctx context.Context, ids []int64, status int8) error {
	return s.menus.UpdateStatus(ctx, uniqueIDs(ids), status)
}

// DeleteMenu 删除菜单，有下级菜单时不能删除
func (s *MenuService) DeleteMenu(ctx context.Context, id int64) error {
	n, err := s.menus.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrMenuHasChildren
	}
	if err := s.menus.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	logger.Info("menu deleted", zap.Int64("id", id))
	return nil
}

// GetMenu 菜单详情
func (s *MenuService) GetMenu(ctx context.Context, id int64) (*model.Menu, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, ErrMenuNotFound
	}
	return menu, nil
}

// ListMenus 菜单列表
func (s *MenuService) ListMenus(ctx context.Context, req model.MenuListRequest) ([]model.Menu, error) {
	menus, err := s.menus.FindList(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.Tree {
		return permission.BuildTree(menus), nil
	}
	return menus, nil
}

// validate 校验上级菜单与同级名称
func (s *MenuService) validate(ctx context.Context, menu *model.Menu) error {
	if menu.ID != 0 && menu.ParentID == menu.ID {
		return ErrMenuParentIsSelf
	}

	if menu.ParentID != model.RootParentID {
		parent, err := s.menus.FindByID(ctx, menu.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrMenuParentNotFound
		}
		if parent.IsButton() {
			return ErrMenuParentIsButton
		}
		if menu.ID != 0 {
			if err := s.checkNotDescendant(ctx, menu.ID, parent); err != nil {
				return err
			}
		}
	}

	existing, err := s.menus.FindByName(ctx, menu.ParentID, menu.MenuName)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != menu.ID {
		return ErrMenuNameExists
	}
	return nil
}

// checkNotDescendant 沿父链向上查找，确认新上级不在 id 的子树中
func (s *MenuService) checkNotDescendant(ctx context.Context, id int64, parent *model.Menu) error {
	seen := map[int64]bool{}
	for cur := parent; cur != nil && cur.ParentID != model.RootParentID; {
		if cur.ParentID == id {
			return ErrMenuParentIsChild
		}
		if seen[cur.ID] {
			return nil
		}
		seen[cur.ID] = true

		next, err := s.menus.FindByID(ctx, cur.ParentID)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func newMenu(req *model.AddMenuRequest) *model.Menu {
	return &model.Menu{
		MenuName: req.MenuName,
		MenuType: req.MenuType,
		Visible:  req.Visible,
		Status:   req.Status,
		Sort:     req.Sort,
		ParentID: req.ParentID,
		MenuURL:  req.MenuURL,
		APIURL:   req.APIURL,
		MenuIcon: req.MenuIcon,
		Remark:   req.Remark,
	}
}
