package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/SeakMengs/Annotator/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConnectReturnGormDB opens the database described by cfg and applies the pool settings.
func ConnectReturnGormDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch strings.ToLower(cfg.DRIVER) {
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.SQLITE_PATH))
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DB_HOST, cfg.DB_PORT, cfg.DB_USERNAME, cfg.DB_PASSWORD, cfg.DB_DATABASE)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DRIVER)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDb, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDb.SetMaxIdleConns(cfg.MaxIdleConns)

	idleTime, err := time.ParseDuration(cfg.MaxIdleTime)
	if err == nil {
		sqlDb.SetConnMaxIdleTime(idleTime)
	}

	return db, nil
}

// ConnectSQLite opens an sqlite database with foreign keys enforced.
// Used for local development and tests.
func ConnectSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Migrate creates or updates every table the api needs.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == DriverPostgres {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS citext`).Error; err != nil {
			return err
		}
	}

	return db.AutoMigrate(
		&model.User{},
		&model.Token{},
		&model.OAuthProvider{},
		&model.File{},
		&model.Collection{},
		&model.Schema{},
		&model.Image{},
		&model.Annotation{},
	)
}
