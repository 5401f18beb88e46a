package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type DB struct {
	*gorm.DB
	driver string
}

// Options selects and tunes the database connection
type Options struct {
	Driver          string
	Path            string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Verbose         bool
}

// Initialize opens the SQLite database at dbPath
func Initialize(dbPath string, verbose bool) (*DB, error) {
	return Open(Options{Driver: DriverSQLite, Path: dbPath, Verbose: verbose})
}

// Open creates a new database connection with the provided options
func Open(opts Options) (*DB, error) {
	logLevel := logger.Error
	if opts.Verbose {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", DriverSQLite:
		opts.Driver = DriverSQLite
		if opts.Path == "" {
			opts.Path = ":memory:"
		}
		dir := filepath.Dir(opts.Path)
		if opts.Path != ":memory:" && dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(opts.Path)
	case DriverMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("mysql driver requires a dsn")
		}
		dialector = mysql.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// One connection keeps a ":memory:" database shared and serializes writers
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		if opts.MaxOpenConns <= 0 {
			opts.MaxOpenConns = 10
		}
		if opts.MaxIdleConns <= 0 {
			opts.MaxIdleConns = 5
		}
		if opts.ConnMaxLifetime <= 0 {
			opts.ConnMaxLifetime = time.Hour
		}
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	logrus.WithFields(logrus.Fields{"driver": opts.Driver}).Debug("Database connection opened")
	return &DB{DB: db, driver: opts.Driver}, nil
}

// Driver returns the name of the driver in use
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// AutoMigrate runs GORM auto migration for the provided models
func (db *DB) AutoMigrate(models ...any) error {
	if err := db.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	logrus.WithField("models", len(models)).Debug("Migrated models")
	return nil
}

// Migrate creates or updates every application table
func (db *DB) Migrate() error {
	return db.AutoMigrate(models.AllModels()...)
}

// TableStatus reports whether a model's table exists
type TableStatus struct {
	Table  string
	Exists bool
}

// MigrationStatus lists the application tables and whether each exists
func (db *DB) MigrationStatus() ([]TableStatus, error) {
	var out []TableStatus
	for _, m := range models.AllModels() {
		stmt := &gorm.Statement{DB: db.DB}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}
		out = append(out, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: db.Migrator().HasTable(m),
		})
	}
	return out, nil
}
