package app

import (
	"github.com/fisker/zadmin-backend/internal/api/handler"
)

// Handlers 所有处理器实例
type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
	Role *handler.RoleHandler
	Menu *handler.MenuHandler
	Dept *handler.DeptHandler
}

// InitializeHandlers 初始化所有处理器
func InitializeHandlers(services *Services) *Handlers {
	return &Handlers{
		Auth: handler.NewAuthHandler(services.Auth),
		User: handler.NewUserHandler(services.Role),
		Role: handler.NewRoleHandler(services.Role),
		Menu: handler.NewMenuHandler(services.Menu),
		Dept: handler.NewDeptHandler(services.Dept),
	}
}
