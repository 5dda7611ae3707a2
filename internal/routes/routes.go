package routes

import (
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/zaqqye/enrollment_backend/internal/config"
    "github.com/zaqqye/enrollment_backend/internal/controllers"
    "github.com/zaqqye/enrollment_backend/internal/enrollment"
    "github.com/zaqqye/enrollment_backend/internal/middleware"
    "github.com/zaqqye/enrollment_backend/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, svc *enrollment.Service, hub *ws.EnrollmentHub) {
    // Controllers
    accessTTL, err := time.ParseDuration(cfg.AccessTokenTTLMinutes + "m")
    if err != nil || accessTTL == 0 {
        accessTTL = 60 * time.Minute
    }
    authCtrl := &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret, AccessTTL: accessTTL}
    studentCtrl := &controllers.StudentController{Service: svc}

    // Public
    auth := r.Group("/api/v1/auth")
    {
        auth.POST("/login", authCtrl.Login)
    }

    // Protected
    authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
    api := r.Group("/api/v1", authMW)
    {
        api.GET("/auth/me", authCtrl.Me)
        api.POST("/auth/logout", authCtrl.Logout)

        // Admin-only
        admin := api.Group("/admin", middleware.RequireRoles("admin"))
        {
            admin.POST("/users", authCtrl.Register)
        }

        // Enrollment management (secretaria and admin)
        staff := api.Group("", middleware.RequireRoles("secretaria", "admin"))
        {
            staff.GET("/students", studentCtrl.ListStudents)
            staff.POST("/students", studentCtrl.CreateStudent)
            staff.GET("/students/export", studentCtrl.ExportStudents)
            staff.GET("/students/:enrollment_id", studentCtrl.GetStudent)
            staff.PATCH("/students/:enrollment_id", studentCtrl.UpdateStudent)
            staff.DELETE("/students/:enrollment_id", studentCtrl.DeleteStudent)

            staff.GET("/grades/:grade/occupancy", studentCtrl.GradeOccupancy)

            staff.GET("/ws/enrollments", ws.EnrollmentHandler(hub))
        }
    }
}
