package app

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/martlabs/stockmate/config"
)

// getDatabase opens the gorm handle for the configured backend. Postgres
// is the production default; sqlite serves development and tests.
func getDatabase(dbConfig config.DBConfig, workdir string) *gorm.DB {
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch dbConfig.Type {
	case "sqlite":
		dsn := filepath.Join(workdir, fmt.Sprintf("%s.db", dbConfig.Name))
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			dbConfig.Host, dbConfig.Port, dbConfig.User, dbConfig.Passwd, dbConfig.Name, time.Local.String())
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	}
	if err != nil {
		zap.S().Panicf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Panicf("failed to access sql.DB: %v", err)
	}
	if dbConfig.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	}
	if dbConfig.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(dbConfig.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
