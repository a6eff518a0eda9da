package app

import (
	"github.com/fisker/zadmin-backend/internal/repository"
	"gorm.io/gorm"
)

// Repositories 所有仓储层实例
type Repositories struct {
	User *repository.UserRepository
	Role *repository.RoleRepository
	Menu *repository.MenuRepository
	Dept *repository.DeptRepository
}

// InitializeRepositories 初始化所有仓储
func InitializeRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User: repository.NewUserRepository(db),
		Role: repository.NewRoleRepository(db),
		Menu: repository.NewMenuRepository(db),
		Dept: repository.NewDeptRepository(db),
	}
}
