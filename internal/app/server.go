package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fisker/zadmin-backend/internal/api/router"
	"github.com/fisker/zadmin-backend/pkg/config"
	"github.com/fisker/zadmin-backend/pkg/database"
	"github.com/fisker/zadmin-backend/pkg/logger"
	pkgredis "github.com/fisker/zadmin-backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewEngine 按配置组装路由
func NewEngine(cfg *config.Config, handlers *Handlers, services *Services) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return router.Setup(
		handlers.Auth,
		handlers.User,
		handlers.Role,
		handlers.Menu,
		handlers.Dept,
		services.Tokens,
		cfg.Security.LoginPaths,
		cfg.Server.Mode,
	)
}

// StartServer 启动 HTTP 服务器
func StartServer(cfg *config.Config, db *gorm.DB, handlers *Handlers, services *Services) {
	r := NewEngine(cfg, handlers, services)

	addr := fmt.Sprintf(":%d", cfg.Server.APIPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printStartupBanner(cfg)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 1. Shutdown HTTP server
	logger.Infof("  → Stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("  HTTP server shutdown error: %v", err)
	} else {
		logger.Infof("  ✓ HTTP server stopped")
	}

	// 2. Close database
	logger.Infof("  → Closing database...")
	if err := database.Close(db); err != nil {
		logger.Warnf("  Database close error: %v", err)
	} else {
		logger.Infof("  ✓ Database closed")
	}

	// 3. Close Redis if enabled
	if pkgredis.IsEnabled() {
		logger.Infof("  → Closing Redis...")
		_ = pkgredis.Close()
		logger.Infof("  ✓ Redis closed")
	}

	logger.Infof("Shutdown complete")
	logger.Sync()
}

// printStartupBanner 打印启动横幅
func printStartupBanner(cfg *config.Config) {
	logger.Infof("")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("ZAdmin RBAC Server")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("   • HTTP API      :%d (mode: %s)", cfg.Server.APIPort, cfg.Server.Mode)
	logger.Infof("   • Database      %s", cfg.Database.Driver)
	logger.Infof("   • Token TTL     %s", cfg.Security.TokenLifetime())
	if pkgredis.IsEnabled() {
		logger.Infof("   • Structure lock  redis + local")
	} else {
		logger.Infof("   • Structure lock  local only")
	}
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
}
