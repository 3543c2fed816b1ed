package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/config"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDatabase opens the postgres connection and syncs the schema.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DB_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Asset{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("Successfully connected to database")
	return db, nil
}

// Open returns the store selected by cfg.DBType.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.DBType {
	case "", "postgres":
		db, err := ConnectDatabase(cfg.DB_URL)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case "mongo":
		store, err := ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		log.Println("Using in-memory store, data is lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("DB_TYPE %q not supported", cfg.DBType)
	}
}
