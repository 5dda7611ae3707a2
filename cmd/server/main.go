package main

import (
    "context"
    "log"
    "os"

    "github.com/joho/godotenv"

    "github.com/gin-gonic/gin"

    "github.com/zaqqye/enrollment_backend/internal/config"
    "github.com/zaqqye/enrollment_backend/internal/database"
    "github.com/zaqqye/enrollment_backend/internal/enrollment"
    "github.com/zaqqye/enrollment_backend/internal/routes"
    "github.com/zaqqye/enrollment_backend/internal/ws"
)

func main() {
    if err := run(); err != nil {
        log.Println("server exited with error:", err)
        os.Exit(1)
    }
}

// run owns the database handle so it is closed on every return path.
func run() error {
    // Load .env (non-fatal if missing in production)
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Connect(cfg)
    if err != nil {
        log.Printf("database connection failed: %v", err)
        return err
    }
    defer func() {
        if err := database.Close(db); err != nil {
            log.Printf("database close failed: %v", err)
        }
    }()

    if err := database.Migrate(db); err != nil {
        log.Printf("database migration failed: %v", err)
        return err
    }

    if err := database.SeedAdmin(db, cfg); err != nil {
        log.Printf("admin seed failed: %v", err)
        return err
    }

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    hub := ws.NewEnrollmentHub()
    go hub.Run(ctx)

    svc := enrollment.NewService(
        database.NewRoster(db),
        enrollment.NewAllocator(cfg.ClassroomCapacity),
        enrollment.NewIdentifierGenerator(cfg.IdentifierMaxAttempts),
        hub,
    )

    r := gin.Default()
    routes.Register(r, db, cfg, svc, hub)

    port := cfg.Port
    if port == "" {
        port = "8080"
    }
    return r.Run(":" + port)
}
