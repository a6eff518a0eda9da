package database

import (
	"fmt"

	"github.com/fisker/zadmin-backend/internal/model"
	"github.com/fisker/zadmin-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models 需要迁移的全部表
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.Menu{},
		&model.RoleMenu{},
		&model.Dept{},
	}
}

// AutoMigrateAll 自动迁移所有表（仅在表不存在时创建）
func AutoMigrateAll(db *gorm.DB) error {
	logger.Info("Checking database tables...")

	var tablesToMigrate []interface{}
	for _, table := range Models() {
		if db.Migrator().HasTable(table) {
			continue
		}
		tablesToMigrate = append(tablesToMigrate, table)
	}

	if len(tablesToMigrate) == 0 {
		logger.Info("All database tables already exist, no migration needed")
		return nil
	}

	logger.Infof("Starting auto-migration for %d table(s)...", len(tablesToMigrate))
	if err := db.AutoMigrate(tablesToMigrate...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	logger.Infof("Successfully migrated %d table(s)", len(tablesToMigrate))
	return nil
}
