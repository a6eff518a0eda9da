package main

import (
	"github.com/fisker/zadmin-backend/internal/app"
)

// @title           ZAdmin API
// @version         1.0
// @description     ZAdmin 后台权限管理 API 文档

// @BasePath  /api/system

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize application
	application, err := app.Initialize("")
	if err != nil {
		panic(err)
	}

	// Start server
	application.Run()
}
