package model

import (
	"time"
)

// ReservedUserID 系统预留的超级管理员账号，不能删除，也不能修改其角色
const ReservedUserID int64 = 1

// User 用户模型
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Mobile    string    `json:"mobile" gorm:"type:varchar(20);uniqueIndex;not null"`
	UserName  string    `json:"userName" gorm:"type:varchar(50);not null"`
	NickName  string    `json:"nickName" gorm:"type:varchar(50)"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	DeptID    int64     `json:"deptId" gorm:"not null;default:0;index"`
	Status    int8      `json:"status" gorm:"not null"`
	Remark    string    `json:"remark" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "sys_user"
}

// UserRole 用户与角色关联
type UserRole struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"userId" gorm:"not null;uniqueIndex:idx_user_role"`
	RoleID    int64     `json:"roleId" gorm:"not null;uniqueIndex:idx_user_role;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (UserRole) TableName() string {
	return "sys_user_role"
}

// LoginRequest 登录请求
type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// QueryUserRoleRequest 查询用户角色
type QueryUserRoleRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

// UserRoleResponse 全部角色以及用户已分配的角色
type UserRoleResponse struct {
	SysRoleList []Role  `json:"sysRoleList"`
	UserRoleIDs []int64 `json:"userRoleIds"`
}

// UpdateUserRoleRequest 更新用户角色
type UpdateUserRoleRequest struct {
	UserID  int64   `json:"userId" binding:"required"`
	RoleIDs []int64 `json:"roleIds"`
}
