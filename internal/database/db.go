package database

import (
    "fmt"
    "strings"

    "github.com/glebarez/sqlite"
    "gorm.io/driver/postgres"
    "gorm.io/gorm"

    "github.com/zaqqye/enrollment_backend/internal/config"
    "github.com/zaqqye/enrollment_backend/internal/models"
)

// Connect opens the store selected by cfg.DBDriver: "postgres" (default) or
// "sqlite" backed by the file at cfg.DBPath.
func Connect(cfg *config.Config) (*gorm.DB, error) {
    gcfg := &gorm.Config{TranslateError: true}
    switch strings.ToLower(cfg.DBDriver) {
    case "sqlite":
        db, err := gorm.Open(sqlite.Open(cfg.DBPath), gcfg)
        if err != nil {
            return nil, err
        }
        sqlDB, err := db.DB()
        if err != nil {
            return nil, err
        }
        // a single connection serializes writers and keeps :memory: databases alive
        sqlDB.SetMaxOpenConns(1)
        return db, nil
    case "", "postgres":
        dsn := fmt.Sprintf(
            "host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
            cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
        )
        return gorm.Open(postgres.Open(dsn), gcfg)
    default:
        return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
    }
}

func Migrate(db *gorm.DB) error {
    return db.AutoMigrate(&models.User{}, &models.Student{})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
    if db == nil {
        return nil
    }
    sqlDB, err := db.DB()
    if err != nil {
        return err
    }
    return sqlDB.Close()
}
