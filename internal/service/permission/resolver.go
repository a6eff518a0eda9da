package permission

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/pkg/metrics"
)

// RoleStore 用户角色数据访问
type RoleStore interface {
	FindRoleIDsByUserID(ctx context.Context, userID int64) ([]int64, error)
}

// MenuStore 菜单数据访问
type MenuStore interface {
	FindMenusByRoleIDs(ctx context.Context, roleIDs []int64) ([]model.Menu, error)
	FindAllMenus(ctx context.Context) ([]model.Menu, error)
	FindMenusByIDs(ctx context.Context, ids []int64) ([]model.Menu, error)
}

// Resolver 计算用户可调用的接口集合
type Resolver struct {
	roles           RoleStore
	menus           MenuStore
	includeDisabled bool
}

// NewResolver includeDisabled 为 false 时，普通用户不获得已停用菜单的接口权限
func NewResolver(roles RoleStore, menus MenuStore, includeDisabled bool) *Resolver {
	return &Resolver{roles: roles, menus: menus, includeDisabled: includeDisabled}
}

// Resolve 返回排序去重后的接口路径；没有角色时返回空集合
func (r *Resolver) Resolve(ctx context.Context, userID int64) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.PermissionResolveDuration.Observe(time.Since(start).Seconds())
	}()

	roleIDs, err := r.roles.FindRoleIDsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find roles for user %d: %w", userID, err)
	}
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	// 超级管理员获得全部接口，不区分菜单状态
	if IsSuperAdmin(roleIDs) {
		menus, err := r.menus.FindAllMenus(ctx)
		if err != nil {
			return nil, fmt.Errorf("find all menus: %w", err)
		}
		return collectURLs(menus, true), nil
	}

	menus, err := r.menus.FindMenusByRoleIDs(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("find menus for roles %v: %w", roleIDs, err)
	}
	return collectURLs(menus, r.includeDisabled), nil
}

// RoleIDs 用户的角色，供菜单树判断是否超级管理员
func (r *Resolver) RoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.roles.FindRoleIDsByUserID(ctx, userID)
}

func collectURLs(menus []model.Menu, includeDisabled bool) []string {
	set := make(map[string]struct{}, len(menus))
	for _, m := range menus {
		if m.APIURL == "" {
			continue
		}
		if !includeDisabled && !m.IsEnabled() {
			continue
		}
		set[m.APIURL] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
