// Package db persists the word book: saved vocabulary entries and the sample
// sentences attached to them.
package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gormigrate/gormigrate/v2"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed schema.sql
var migrationsSQL string

// Config holds database configuration.
type Config struct {
	Path     string          // Path to SQLite database file, or ":memory:"
	MaxConns int             // Maximum number of open connections (default: 1)
	LogLevel logger.LogLevel // GORM log level (logger.Silent unless debugging)
}

// Store wraps the GORM handle and the change feed.
type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB
	hub   *hub
}

// Open opens the database, enables foreign keys and runs migrations.
func Open(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("database path must be non-empty")
	}
	dsn := cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite is single-writer; an in-memory database also needs one
	// connection so every query sees the same database.
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)
	sqlDB.SetConnMaxLifetime(0)

	level := cfg.LogLevel
	if level == 0 {
		level = logger.Silent
	}
	gdb, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: gdb, sqlDB: sqlDB, hub: newHub()}, nil
}

// Close closes the change feed and the database connection.
func (s *Store) Close() error {
	s.hub.close()
	return s.sqlDB.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.sqlDB.Ping()
}

// GormDB exposes the GORM handle for batched writers.
func (s *Store) GormDB() *gorm.DB {
	return s.db
}

// initSchema runs the embedded schema statements inside tx.
func initSchema(tx *gorm.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if err := tx.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}

func runMigrations(gdb *gorm.DB) error {
	m := gormigrate.New(gdb, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID:      "001_vocabulary_and_sample_sentence",
			Migrate: initSchema,
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("sample_sentence", "vocabulary")
			},
		},
	})
	return m.Migrate()
}
