package database

import (
	"fmt"
	"time"

	"creospace/internal/config"
	"creospace/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// readDB is an optional read-replica connection. Repositories route read
// queries here when set; writes always go to the primary.
var readDB *gorm.DB

// GetReadDB returns the read-replica connection, or nil when none is configured.
func GetReadDB() *gorm.DB {
	return readDB
}

// ConnectReadReplica opens the read-replica connection when DB_READ_HOST is
// configured. It is best-effort: on failure the app keeps serving reads from
// the primary.
func ConnectReadReplica(cfg *config.Config) {
	if cfg.DBReadHost == "" {
		return
	}

	port := cfg.DBReadPort
	if port == "" {
		port = cfg.DBPort
	}
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBReadHost,
		port,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		sslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: &CustomGormLogger{
			logger: middleware.Logger,
			Config: logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		},
	})
	if err != nil {
		middleware.Logger.Warn("Read replica connection failed; reads stay on primary")
		return
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	readDB = db
	middleware.Logger.Info("Read replica connected")
}
