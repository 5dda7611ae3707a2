package controllers

import (
    "net/http"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "gorm.io/gorm"

    "github.com/zaqqye/enrollment_backend/internal/middleware"
    "github.com/zaqqye/enrollment_backend/internal/models"
    "github.com/zaqqye/enrollment_backend/internal/utils"
)

type AuthController struct {
    DB        *gorm.DB
    JWTSecret string
    AccessTTL time.Duration
}

type registerRequest struct {
    FullName string `json:"full_name" binding:"required"`
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required,min=6"`
    Role     string `json:"role"`
    Active   *bool  `json:"active"` // optional, defaults to true
}

type loginRequest struct {
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required"`
}

// Register creates an operator account (admin only).
func (a *AuthController) Register(c *gin.Context) {
    var req registerRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    role := strings.ToLower(strings.TrimSpace(req.Role))
    if role == "" {
        role = "secretaria"
    }
    if !IsValidRole(role) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
        return
    }

    pw, err := utils.HashPassword(req.Password)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
        return
    }

    active := true
    if req.Active != nil {
        active = *req.Active
    }

    user := models.User{
        FullName: req.FullName,
        Email:    strings.ToLower(req.Email),
        Password: pw,
        Role:     role,
        Active:   active,
    }
    if err := a.DB.Create(&user).Error; err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    c.JSON(http.StatusCreated, gin.H{
        "message":   "registered",
        "user_id":   user.ID,
        "email":     user.Email,
        "full_name": user.FullName,
        "role":      user.Role,
    })
}

func (a *AuthController) Login(c *gin.Context) {
    var req loginRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    var user models.User
    if err := a.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
        return
    }
    if !user.Active || !utils.CheckPassword(user.Password, req.Password) {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
        return
    }

    token, err := a.issueToken(user)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "access_token": token,
        "token_type":   "Bearer",
        "expires_in":   int(a.AccessTTL.Seconds()),
        "role":         user.Role,
    })
}

func (a *AuthController) Me(c *gin.Context) {
    uVal, _ := c.Get("user")
    user := uVal.(models.User)
    c.JSON(http.StatusOK, gin.H{
        "user_id":    user.ID,
        "email":      user.Email,
        "full_name":  user.FullName,
        "role":       user.Role,
        "active":     user.Active,
        "created_at": user.CreatedAt,
        "updated_at": user.UpdatedAt,
    })
}

// Logout is stateless: the client discards its token.
func (a *AuthController) Logout(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (a *AuthController) issueToken(user models.User) (string, error) {
    now := time.Now().UTC()
    claims := middleware.Claims{
        UserID: user.ID,
        Role:   user.Role,
        Email:  user.Email,
        RegisteredClaims: jwt.RegisteredClaims{
            Issuer:    "enrollment_backend",
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(a.AccessTTL)),
            Subject:   user.ID,
        },
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.JWTSecret))
}
