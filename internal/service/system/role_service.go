package system

import (
	"context"
	"fmt"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrRoleNotFound      = model.NewNotFoundError("role not found")
	ErrRoleNameExists    = model.NewValidationError("role name already exists")
	ErrRoleInUse         = model.NewBusinessError("role is assigned to users, cannot delete")
	ErrSuperAdminRole    = model.NewValidationError("superadmin role cannot be deleted")
	ErrMenuIDsNotFound   = model.NewValidationError("some menus do not exist")
	ErrRoleIDsNotFound   = model.NewValidationError("some roles do not exist")
	ErrReservedUserRoles = model.NewValidationError("cannot modify roles of the superadmin user")
	ErrUserNotFound      = model.NewNotFoundError("user not found")
)

// RoleService 角色管理
// 角色与菜单的变更在用户重新登录后才会反映到令牌中
type RoleService struct {
	roles RoleStore
	menus MenuStore
	users UserStore
}

func NewRoleService(roles RoleStore, menus MenuStore, users UserStore) *RoleService {
	return &RoleService{roles: roles, menus: menus, users: users}
}

// AddRole 添加角色
func (s *RoleService) AddRole(ctx context.Context, req *model.AddRoleRequest) (*model.Role, error) {
	existing, err := s.roles.FindByName(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRoleNameExists
	}

	role := &model.Role{
		RoleName: req.RoleName,
		RoleKey:  req.RoleKey,
		Sort:     req.Sort,
		Status:   req.Status,
		Remark:   req.Remark,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

// DeleteRoles 删除角色，已分配给用户的角色不能删除
func (s *RoleService) DeleteRoles(ctx context.Context, ids []int64) error {
	ids = uniqueIDs(ids)
	for _, id := range ids {
		if id == model.SuperAdminRoleID {
			return ErrSuperAdminRole
		}
	}

	n, err := s.roles.CountUsers(ctx, ids)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRoleInUse
	}
	if err := s.roles.Delete(ctx, ids); err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}
	logger.Info("roles deleted", zap.Int64s("ids", ids))
	return nil
}

// ListRoles 全部角色
func (s *RoleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roles.FindAll(ctx)
}

// QueryRoleMenu 全部菜单以及角色已分配的菜单ID；超级管理员视为拥有全部菜单
func (s *RoleService) QueryRoleMenu(ctx context.Context, roleID int64) (*model.RoleMenuResponse, error) {
	menus, err := s.menus.FindAllMenus(ctx)
	if err != nil {
		return nil, err
	}

	var menuIDs []int64
	if roleID == model.SuperAdminRoleID {
		menuIDs = make([]int64, 0, len(menus))
		for _, m := range menus {
			menuIDs = append(menuIDs, m.ID)
		}
	} else {
		menuIDs, err = s.roles.FindMenuIDsByRoleID(ctx, roleID)
		if err != nil {
			return nil, err
		}
	}
	return &model.RoleMenuResponse{MenuList: menus, MenuIDs: menuIDs}, nil
}

// UpdateRoleMenu 替换角色的菜单
func (s *RoleService) UpdateRoleMenu(ctx context.Context, roleID int64, menuIDs []int64) error {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	menuIDs = uniqueIDs(menuIDs)
	found, err := s.menus.FindMenusByIDs(ctx, menuIDs)
	if err != nil {
		return err
	}
	if len(found) != len(menuIDs) {
		return ErrMenuIDsNotFound
	}

	if err := s.roles.ReplaceRoleMenus(ctx, roleID, menuIDs); err != nil {
		return fmt.Errorf("replace role menus: %w", err)
	}
	logger.Info("role menus updated", zap.Int64("roleId", roleID), zap.Int("menus", len(menuIDs)))
	return nil
}

// QueryUserRole 全部角色以及用户已分配的角色ID
func (s *RoleService) QueryUserRole(ctx context.Context, userID int64) (*model.UserRoleResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	roleIDs, err := s.roles.FindRoleIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserRoleResponse{SysRoleList: roles, UserRoleIDs: roleIDs}, nil
}

// UpdateUserRole 替换用户的角色，系统预留用户不能修改
func (s *RoleService) UpdateUserRole(ctx context.Context, userID int64, roleIDs []int64) error {
	if userID == model.ReservedUserID {
		return ErrReservedUserRoles
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	roleIDs = uniqueIDs(roleIDs)
	if len(roleIDs) > 0 {
		all, err := s.roles.FindAll(ctx)
		if err != nil {
			return err
		}
		exists := make(map[int64]struct{}, len(all))
		for _, r := range all {
			exists[r.ID] = struct{}{}
		}
		for _, id := range roleIDs {
			if _, ok := exists[id]; !ok {
				return ErrRoleIDsNotFound
			}
		}
	}

	if err := s.roles.ReplaceUserRoles(ctx, userID, roleIDs); err != nil {
		return fmt.Errorf("replace user roles: %w", err)
	}
	logger.Info("user roles updated", zap.Int64("userId", userID), zap.Int64s("roles", roleIDs))
	return nil
}
