package model

import (
	"time"
)

// SuperAdminRoleID 超级管理员角色，拥有全部接口权限
const SuperAdminRoleID int64 = 1

// Role 角色模型
type Role struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RoleName  string    `json:"roleName" gorm:"type:varchar(50);uniqueIndex;not null"`
	RoleKey   string    `json:"roleKey" gorm:"type:varchar(100)"`
	Sort      int       `json:"sort" gorm:"default:0"`
	Status    int8      `json:"status" gorm:"not null"`
	Remark    string    `json:"remark" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Role) TableName() string {
	return "sys_role"
}

// RoleMenu 角色与菜单关联，普通用户权限的唯一来源
type RoleMenu struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RoleID    int64     `json:"roleId" gorm:"not null;uniqueIndex:idx_role_menu"`
	MenuID    int64     `json:"menuId" gorm:"not null;uniqueIndex:idx_role_menu;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (RoleMenu) TableName() string {
	return "sys_role_menu"
}

// AddRoleRequest 添加角色请求
type AddRoleRequest struct {
	RoleName string `json:"roleName" binding:"required"`
	RoleKey  string `json:"roleKey"`
	Sort     int    `json:"sort"`
	Status   int8   `json:"status" binding:"oneof=0 1"`
	Remark   string `json:"remark"`
}

// RoleMenuResponse 全部菜单以及角色已分配的菜单
type RoleMenuResponse struct {
	MenuList []Menu  `json:"menuList"`
	MenuIDs  []int64 `json:"menuIds"`
}

// UpdateRoleMenuRequest 更新角色菜单
type UpdateRoleMenuRequest struct {
	RoleID  int64   `json:"roleId" binding:"required"`
	MenuIDs []int64 `json:"menuIds"`
}
