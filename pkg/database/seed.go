package database

import (
	"errors"
	"fmt"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminMobile 初始超级管理员的登录手机号
const AdminMobile = "18613030352"

type seedMenu struct {
	name     string
	menuType int8
	menuURL  string
	apiURL   string
	icon     string
	children []seedMenu
}

func button(name, api string) seedMenu {
	return seedMenu{name: name, menuType: model.MenuTypeButton, apiURL: api}
}

// defaultMenus 系统管理菜单，每个受保护接口对应一个 api_url
var defaultMenus = []seedMenu{
	{
		name: "系统管理", menuType: model.MenuTypeDirectory, menuURL: "/system", icon: "SettingOutlined",
		children: []seedMenu{
			{
				name: "用户管理", menuType: model.MenuTypePage, menuURL: "/system/user", icon: "UserOutlined",
				apiURL: "/api/system/user/queryUserRole",
				children: []seedMenu{
					button("更新用户角色", "/api/system/user/updateUserRole"),
					button("当前用户菜单", "/api/system/user/queryUserMenu"),
				},
			},
			{
				name: "角色管理", menuType: model.MenuTypePage, menuURL: "/system/role", icon: "TeamOutlined",
				apiURL: "/api/system/role/queryRoleList",
				children: []seedMenu{
					button("添加角色", "/api/system/role/addRole"),
					button("删除角色", "/api/system/role/deleteRole"),
					button("查询角色菜单", "/api/system/role/queryRoleMenu"),
					button("更新角色菜单", "/api/system/role/updateRoleMenu"),
				},
			},
			{
				name: "菜单管理", menuType: model.MenuTypePage, menuURL: "/system/menu", icon: "MenuOutlined",
				apiURL: "/api/system/menu/queryMenuList",
				children: []seedMenu{
					button("添加菜单", "/api/system/menu/addMenu"),
					button("更新菜单", "/api/system/menu/updateMenu"),
					button("更新菜单状态", "/api/system/menu/updateMenuStatus"),
					button("删除菜单", "/api/system/menu/deleteMenu"),
					button("菜单详情", "/api/system/menu/queryMenuDetail"),
				},
			},
			{
				name: "部门管理", menuType: model.MenuTypePage, menuURL: "/system/dept", icon: "ApartmentOutlined",
				apiURL: "/api/system/dept/queryDeptList",
				children: []seedMenu{
					button("添加部门", "/api/system/dept/addDept"),
					button("更新部门", "/api/system/dept/updateDept"),
					button("更新部门状态", "/api/system/dept/updateDeptStatus"),
					button("删除部门", "/api/system/dept/deleteDept"),
					button("部门详情", "/api/system/dept/queryDeptDetail"),
				},
			},
		},
	},
}

// Seed 初始化超级管理员角色、管理员账号、根部门与系统菜单，已存在的数据不会重复写入
func Seed(db *gorm.DB, adminPassword string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedRole(tx); err != nil {
			return err
		}
		if err := seedAdmin(tx, adminPassword); err != nil {
			return err
		}
		if err := seedDept(tx); err != nil {
			return err
		}
		return seedMenus(tx)
	})
}

func seedRole(tx *gorm.DB) error {
	var existing model.Role
	err := tx.First(&existing, model.SuperAdminRoleID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("query superadmin role: %w", err)
	}

	role := model.Role{
		RoleName: "超级管理员",
		RoleKey:  "admin",
		Status:   model.StatusEnabled,
		Remark:   "拥有全部权限",
	}
	if err := tx.Create(&role).Error; err != nil {
		return fmt.Errorf("create superadmin role: %w", err)
	}
	// 自增主键必须落在预留ID上，否则说明表中已有其他数据
	if role.ID != model.SuperAdminRoleID {
		return fmt.Errorf("superadmin role got id %d, expected %d", role.ID, model.SuperAdminRoleID)
	}
	return nil
}

func seedAdmin(tx *gorm.DB, adminPassword string) error {
	var admin model.User
	err := tx.First(&admin, model.ReservedUserID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("query admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin = model.User{
		Mobile:   AdminMobile,
		UserName: "admin",
		NickName: "超级管理员",
		Password: string(hash),
		DeptID:   1,
		Status:   model.StatusEnabled,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if admin.ID != model.ReservedUserID {
		return fmt.Errorf("admin user got id %d, expected %d", admin.ID, model.ReservedUserID)
	}
	if err := tx.Create(&model.UserRole{UserID: admin.ID, RoleID: model.SuperAdminRoleID}).Error; err != nil {
		return fmt.Errorf("bind admin role: %w", err)
	}
	logger.Infof("Created admin user (mobile: %s)", AdminMobile)
	return nil
}

func seedDept(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.Dept{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count departments: %w", err)
	}
	if count > 0 {
		return nil
	}
	root := model.Dept{
		ParentID:  model.RootParentID,
		Ancestors: model.AncestorPath{},
		DeptName:  "总公司",
		Status:    model.StatusEnabled,
	}
	if err := tx.Create(&root).Error; err != nil {
		return fmt.Errorf("create root department: %w", err)
	}
	return nil
}

func seedMenus(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.Menu{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count menus: %w", err)
	}
	if count > 0 {
		return nil
	}
	n, err := createMenus(tx, model.RootParentID, defaultMenus)
	if err != nil {
		return err
	}
	logger.Infof("Seeded %d menus", n)
	return nil
}

func createMenus(tx *gorm.DB, parentID int64, items []seedMenu) (int, error) {
	created := 0
	for i, item := range items {
		menu := model.Menu{
			MenuName: item.name,
			MenuType: item.menuType,
			Visible:  1,
			Status:   model.StatusEnabled,
			Sort:     i + 1,
			ParentID: parentID,
			MenuURL:  item.menuURL,
			APIURL:   item.apiURL,
			MenuIcon: item.icon,
		}
		if err := tx.Create(&menu).Error; err != nil {
			return created, fmt.Errorf("create menu %s: %w", item.name, err)
		}
		created++

		n, err := createMenus(tx, menu.ID, item.children)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}
