package model

import (
	"time"
)

// 菜单类型
const (
	MenuTypeDirectory int8 = 1 // 目录
	MenuTypePage      int8 = 2 // 菜单
	MenuTypeButton    int8 = 3 // 按钮
)

// 通用状态
const (
	StatusDisabled int8 = 0
	StatusEnabled  int8 = 1
)

// RootParentID 顶级节点的父ID
const RootParentID int64 = 0

// Menu 菜单模型
type Menu struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MenuName  string    `json:"menuName" gorm:"type:varchar(50);not null"`
	MenuType  int8      `json:"menuType" gorm:"not null"` // 1:目录 2:菜单 3:按钮
	Visible   int8      `json:"visible" gorm:"not null"`  // 0:隐藏 1:显示
	Status    int8      `json:"status" gorm:"not null;index"`
	Sort      int       `json:"sort" gorm:"default:0;index"`
	ParentID  int64     `json:"parentId" gorm:"not null;default:0;index"` // 0 表示顶级菜单
	MenuURL   string    `json:"menuUrl" gorm:"type:varchar(255)"`         // 前端路由
	APIURL    string    `json:"apiUrl" gorm:"type:varchar(255);index"`    // 后端接口，空表示不参与授权
	MenuIcon  string    `json:"menuIcon" gorm:"type:varchar(255)"`
	Remark    string    `json:"remark" gorm:"type:varchar(255)"`
	Children  []Menu    `json:"children,omitempty" gorm:"-"` // 子菜单（不存储）
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Menu) TableName() string {
	return "sys_menu"
}

// IsButton 按钮只参与权限，不出现在菜单树中
func (m Menu) IsButton() bool {
	return m.MenuType == MenuTypeButton
}

// IsEnabled 是否启用
func (m Menu) IsEnabled() bool {
	return m.Status == StatusEnabled
}

// AddMenuRequest 添加菜单请求
type AddMenuRequest struct {
	MenuName string `json:"menuName" binding:"required"`
	MenuType int8   `json:"menuType" binding:"required,oneof=1 2 3"`
	Visible  int8   `json:"visible" binding:"oneof=0 1"`
	Status   int8   `json:"status" binding:"oneof=0 1"`
	Sort     int    `json:"sort"`
	ParentID int64  `json:"parentId" binding:"min=0"`
	MenuURL  string `json:"menuUrl"`
	APIURL   string `json:"apiUrl"`
	MenuIcon string `json:"menuIcon"`
	Remark   string `json:"remark"`
}

// UpdateMenuRequest 更新菜单请求
type UpdateMenuRequest struct {
	ID int64 `json:"id" binding:"required"`
	AddMenuRequest
}

// UpdateMenuStatusRequest 批量修改菜单状态
type UpdateMenuStatusRequest struct {
	IDs    []int64 `json:"ids" binding:"required,min=1"`
	Status int8    `json:"status" binding:"oneof=0 1"`
}

// MenuListRequest 查询菜单列表
type MenuListRequest struct {
	MenuName string `json:"menuName"`
	Status   *int8  `json:"status"`
	Tree     bool   `json:"tree"`
}

// UserMenuResponse 当前用户的菜单与按钮权限
type UserMenuResponse struct {
	SysMenu []Menu   `json:"sysMenu"`
	BtnMenu []string `json:"btnMenu"`
	Name    string   `json:"name"`
}
