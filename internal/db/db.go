// Package db persists the tool-call usage ledger in PostgreSQL.
package db

import (
	"database/sql"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to dsn and migrates the ledger table.
func Open(dsn string) (*gorm.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse DATABASE_URL")
	}

	sqlDB := stdlib.OpenDB(*cfg)
	database, err := openGorm(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := database.AutoMigrate(&ToolCall{}); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return database, nil
}

// openGorm wraps an existing pool. Inserts run without gorm's implicit transaction.
func openGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return database, nil
}
