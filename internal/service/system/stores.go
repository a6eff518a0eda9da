package system

import (
	"context"

	"github.com/fisker/zadmin-backend/internal/model"
)

// RoleStore 角色及其关联数据访问
type RoleStore interface {
	Create(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, ids []int64) error
	FindByID(ctx context.Context, id int64) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	FindAll(ctx context.Context) ([]model.Role, error)
	CountUsers(ctx context.Context, roleIDs []int64) (int64, error)
	FindRoleIDsByUserID(ctx context.Context, userID int64) ([]int64, error)
	ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
	FindMenuIDsByRoleID(ctx context.Context, roleID int64) ([]int64, error)
	ReplaceRoleMenus(ctx context.Context, roleID int64, menuIDs []int64) error
}

// MenuStore 菜单数据访问
type MenuStore interface {
	Create(ctx context.Context, menu *model.Menu) error
	Update(ctx context.Context, menu *model.Menu) error
	UpdateStatus(ctx context.Context, ids []int64, status int8) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Menu, error)
	FindByName(ctx context.Context, parentID int64, name string) (*model.Menu, error)
	FindAllMenus(ctx context.Context) ([]model.Menu, error)
	FindMenusByIDs(ctx context.Context, ids []int64) ([]model.Menu, error)
	FindList(ctx context.Context, req model.MenuListRequest) ([]model.Menu, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
}

// UserStore 用户数据访问
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
