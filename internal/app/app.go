package app

import (
	"github.com/fisker/zadmin-backend/pkg/config"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"gorm.io/gorm"
)

// App 应用程序上下文
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Repos    *Repositories
	Services *Services
	Handlers *Handlers
}

// Initialize 初始化应用程序
func Initialize(cfgPath string) (*App, error) {
	// 1. Bootstrap (logger, database, redis)
	cfg, db, err := Bootstrap(cfgPath)
	if err != nil {
		return nil, err
	}

	// 2. Initialize repositories
	repos := InitializeRepositories(db)
	logger.Infof("Repositories initialized")

	// 3. Initialize services
	services := InitializeServices(repos, cfg)
	logger.Infof("Services initialized")

	// 4. Initialize handlers
	handlers := InitializeHandlers(services)
	logger.Infof("Handlers initialized")

	return &App{
		Config:   cfg,
		DB:       db,
		Repos:    repos,
		Services: services,
		Handlers: handlers,
	}, nil
}

// Run 启动 HTTP 服务并阻塞到收到退出信号
func (a *App) Run() {
	StartServer(a.Config, a.DB, a.Handlers, a.Services)
}
