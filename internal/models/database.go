package models

import (
	"errors"
	"fmt"

	"github.com/haaslab/hwtracker/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ErrNotReady is returned by Ready when no database connection has been
// established. Services surface it as a storage-unavailable condition
// instead of touching a nil handle.
var ErrNotReady = errors.New("database not connected")

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Project{},
		&ProjectMember{},
		&HardwareSet{},
		&ProjectUsage{},
		&UserUsage{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// Ready returns the shared handle, or ErrNotReady when startup ran in
// degraded mode (no DSN, unreachable server). Every service operation goes
// through this check rather than assuming a connection exists.
func Ready() (*gorm.DB, error) {
	if DB == nil {
		return nil, ErrNotReady
	}
	return DB, nil
}
