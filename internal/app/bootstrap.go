package app

import (
	"fmt"
	"log"
	"os"

	"github.com/fisker/zadmin-backend/pkg/config"
	"github.com/fisker/zadmin-backend/pkg/database"
	"github.com/fisker/zadmin-backend/pkg/logger"
	pkgredis "github.com/fisker/zadmin-backend/pkg/redis"
	"gorm.io/gorm"
)

// Bootstrap 初始化基础设施（logger, database, redis），并完成建表与初始数据
func Bootstrap(cfgPath string) (*config.Config, *gorm.DB, error) {
	// 支持通过环境变量指定配置文件路径
	if cfgPath == "" {
		cfgPath = os.Getenv("ZADMIN_CONFIG")
		if cfgPath == "" {
			cfgPath = "config/config.yaml"
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Infof("Database initialized successfully")

	if err := database.AutoMigrateAll(db); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	if err := database.Seed(db, cfg.Security.AdminPassword); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("failed to seed database: %w", err)
	}

	// Initialize Redis (optional, for the cross-instance structure lock)
	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("Redis initialization failed: %v", err)
		logger.Info("   → Structure lock falls back to single-server mode")
	} else if cfg.Redis.Enabled {
		logger.Infof("Redis initialized successfully - distributed structure lock enabled")
	}

	return cfg, db, nil
}
