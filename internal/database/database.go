package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/autolib/autolib/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the lending store. A non-empty URL selects Postgres
// (the deployment setup); otherwise the sqlite file at path is used so the
// service always has a working store locally.
func NewDatabase(url, path string) (*Database, error) {
	var dialector gorm.Dialector
	if url != "" {
		dialector = postgres.Open(url)
	} else {
		log.Printf("DATABASE_URL is not set, falling back to sqlite database at %s", path)
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Unique-constraint violations surface as gorm.ErrDuplicatedKey
		// uniformly across both drivers.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entities.User{}, &entities.Book{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Ping verifies store connectivity for health checks.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
