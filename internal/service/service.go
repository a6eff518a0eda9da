// Package service 提供统一的 service 导出
// 所有 service 按功能模块分类到子目录中
package service

import (
	// Auth services
	authService "github.com/fisker/zadmin-backend/internal/service/auth"
	// Dept services
	deptService "github.com/fisker/zadmin-backend/internal/service/dept"
	// Permission services
	permissionService "github.com/fisker/zadmin-backend/internal/service/permission"
	// System services
	systemService "github.com/fisker/zadmin-backend/internal/service/system"
)

// Auth services
type AuthService = authService.AuthService
type TokenService = authService.TokenService

var NewAuthService = authService.NewAuthService
var NewTokenService = authService.NewTokenService

// Permission services
type PermissionResolver = permissionService.Resolver
type MenuTreeBuilder = permissionService.MenuTreeBuilder

var NewPermissionResolver = permissionService.NewResolver
var NewMenuTreeBuilder = permissionService.NewMenuTreeBuilder

// Dept services
type DeptCascadeService = deptService.CascadeService

var NewDeptCascadeService = deptService.NewCascadeService

// System services
type RoleService = systemService.RoleService
type MenuService = systemService.MenuService

var NewRoleService = systemService.NewRoleService
var NewMenuService = systemService.NewMenuService
