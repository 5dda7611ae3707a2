package config

import (
    "os"
    "strconv"
)

type Config struct {
    Port       string
    DBDriver   string // postgres | sqlite
    DBPath     string // sqlite file
    DBHost     string
    DBPort     string
    DBUser     string
    DBPassword string
    DBName     string
    DBSSLMode  string
    JWTSecret  string
    AccessTokenTTLMinutes string // minutes
    AdminEmail    string
    AdminPassword string
    AdminFullName string
    // Enrollment rules
    ClassroomCapacity     int
    IdentifierMaxAttempts int
}

func Load() *Config {
    return &Config{
        Port:       getenv("PORT", "8080"),
        DBDriver:   getenv("DB_DRIVER", "postgres"),
        DBPath:     getenv("DB_PATH", "escola.db"),
        DBHost:     getenv("DB_HOST", "localhost"),
        DBPort:     getenv("DB_PORT", "5432"),
        DBUser:     getenv("DB_USER", "postgres"),
        DBPassword: getenv("DB_PASSWORD", "postgres"),
        DBName:     getenv("DB_NAME", "escola_db"),
        DBSSLMode:  getenv("DB_SSLMODE", "disable"),
        JWTSecret:  getenv("JWT_SECRET", "supersecret_change_me"),
        AccessTokenTTLMinutes: getenv("ACCESS_TOKEN_TTL_MINUTES", "60"),
        AdminEmail:    getenv("ADMIN_EMAIL", "admin@example.com"),
        AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
        AdminFullName: getenv("ADMIN_FULL_NAME", "Administrator"),
        ClassroomCapacity:     getenvInt("CLASSROOM_CAPACITY", 40),
        IdentifierMaxAttempts: getenvInt("IDENTIFIER_MAX_ATTEMPTS", 1000),
    }
}

func getenv(key, fallback string) string {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    return v
}

func getenvInt(key string, fallback int) int {
    n, err := strconv.Atoi(os.Getenv(key))
    if err != nil || n <= 0 {
        return fallback
    }
    return n
}
