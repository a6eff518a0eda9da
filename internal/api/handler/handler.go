// Package handler 提供统一的 handler 导出
// 所有 handler 按功能模块分类到子目录中
package handler

import (
	// Auth handlers
	authHandler "github.com/fisker/zadmin-backend/internal/api/handler/auth"
	// Permission handlers
	permissionHandler "github.com/fisker/zadmin-backend/internal/api/handler/permission"
	// System handlers
	systemHandler "github.com/fisker/zadmin-backend/internal/api/handler/system"
)

// Auth handlers
type AuthHandler = authHandler.AuthHandler

var NewAuthHandler = authHandler.NewAuthHandler

// Permission handlers
type RoleHandler = permissionHandler.RoleHandler

var NewRoleHandler = permissionHandler.NewRoleHandler

// System handlers
type UserHandler = systemHandler.UserHandler
type MenuHandler = systemHandler.MenuHandler
type DeptHandler = systemHandler.DeptHandler

var NewUserHandler = systemHandler.NewUserHandler
var NewMenuHandler = systemHandler.NewMenuHandler
var NewDeptHandler = systemHandler.NewDeptHandler
