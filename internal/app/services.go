package app

import (
	"github.com/fisker/zadmin-backend/internal/service"
	"github.com/fisker/zadmin-backend/pkg/config"
	"github.com/fisker/zadmin-backend/pkg/distributed"
	pkgredis "github.com/fisker/zadmin-backend/pkg/redis"
)

// structureLockKey 部门结构写锁在 Redis 中的键
const structureLockKey = "zadmin:lock:dept_structure"

// Services 所有服务层实例
type Services struct {
	Tokens   *service.TokenService
	Resolver *service.PermissionResolver
	MenuTree *service.MenuTreeBuilder
	Auth     *service.AuthService
	Role     *service.RoleService
	Menu     *service.MenuService
	Dept     *service.DeptCascadeService
}

// InitializeServices 初始化所有服务
func InitializeServices(repos *Repositories, cfg *config.Config) *Services {
	sec := &cfg.Security

	tokens := service.NewTokenService(sec.JWTSecret, sec.TokenLifetime())
	resolver := service.NewPermissionResolver(repos.Role, repos.Menu, sec.IncludeDisabledMenus)
	menuTree := service.NewMenuTreeBuilder(repos.Menu)

	// Redis 未启用时 Client 为 nil，结构写锁只在进程内生效
	lock := distributed.NewStructureLock(pkgredis.Client, structureLockKey, sec.LockTTL())

	return &Services{
		Tokens:   tokens,
		Resolver: resolver,
		MenuTree: menuTree,
		Auth:     service.NewAuthService(repos.User, repos.Menu, resolver, menuTree, tokens, sec.IncludeDisabledMenus),
		Role:     service.NewRoleService(repos.Role, repos.Menu, repos.User),
		Menu:     service.NewMenuService(repos.Menu),
		Dept:     service.NewDeptCascadeService(repos.Dept, lock),
	}
}
