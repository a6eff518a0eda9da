package router

import (
	"net/http"

	"github.com/fisker/zadmin-backend/internal/api/handler"
	"github.com/fisker/zadmin-backend/internal/api/middleware"
	"github.com/fisker/zadmin-backend/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	menuHandler *handler.MenuHandler,
	deptHandler *handler.DeptHandler,
	tokens *auth.TokenService,
	loginPaths []string,
	mode string,
) *gin.Engine {
	r := gin.New()

	// 使用自定义的 recovery 中间件（打印详细错误信息）
	r.Use(middleware.RecoveryMiddleware())
	if mode == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.MetricsMiddleware())

	// 除登录接口外，所有接口都需要令牌，且路径必须在令牌的权限快照中
	system := r.Group("/api/system")
	system.Use(middleware.AuthorizationMiddleware(tokens, loginPaths))
	{
		user := system.Group("/user")
		{
			user.POST("/login", authHandler.Login)
			user.GET("/queryUserMenu", authHandler.QueryUserMenu)
			user.POST("/queryUserRole", userHandler.QueryUserRole)
			user.POST("/updateUserRole", userHandler.UpdateUserRole)
		}

		role := system.Group("/role")
		{
			role.POST("/queryRoleList", roleHandler.ListRoles)
			role.POST("/addRole", roleHandler.AddRole)
			role.POST("/deleteRole", roleHandler.DeleteRoles)
			role.POST("/queryRoleMenu", roleHandler.QueryRoleMenu)
			role.POST("/updateRoleMenu", roleHandler.UpdateRoleMenu)
		}

		menu := system.Group("/menu")
		{
			menu.POST("/queryMenuList", menuHandler.ListMenus)
			menu.POST("/queryMenuDetail", menuHandler.GetMenu)
			menu.POST("/addMenu", menuHandler.AddMenu)
			menu.POST("/updateMenu", menuHandler.UpdateMenu)
			menu.POST("/updateMenuStatus", menuHandler.UpdateMenuStatus)
			menu.POST("/deleteMenu", menuHandler.DeleteMenu)
		}

		dept := system.Group("/dept")
		{
			dept.POST("/queryDeptList", deptHandler.ListDepts)
			dept.POST("/queryDeptDetail", deptHandler.GetDept)
			dept.POST("/addDept", deptHandler.AddDept)
			dept.POST("/updateDept", deptHandler.UpdateDept)
			dept.POST("/updateDeptStatus", deptHandler.UpdateDeptStatus)
			dept.POST("/deleteDept", deptHandler.DeleteDept)
		}
	}

	// Prometheus Metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check (支持 GET 和 HEAD 方法)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"type":   "api-server",
		})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(200)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found.",
		})
	})

	return r
}
