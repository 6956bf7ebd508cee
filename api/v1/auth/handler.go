package auth

import (
	"errors"
	"time"

	"printtrack/internal/auth"
	"printtrack/internal/config"
	"printtrack/internal/httpx"
	"printtrack/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	Token    string   `json:"token"`
	ExpireAt string   `json:"expireAt"`
	User     UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginHandler handles user login
func LoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		var user model.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Same error for unknown user and wrong password
				httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
			return
		}

		if !user.IsActive {
			httpx.FailErr(c, httpx.ErrForbidden("user is inactive"))
			return
		}

		// Directory accounts have no local password to check
		if user.IsLDAPUser || user.PasswordHash == "" {
			httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
			return
		}

		if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
			httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
			return
		}

		expireAt := time.Now().Add(time.Duration(cfg.JWT.ExpireMinutes) * time.Minute)
		token, err := auth.GenerateToken(user.ID, user.Username, user.Role, expireAt, cfg.JWT.Issuer)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
			return
		}

		now := time.Now()
		db.Model(&user).Update("last_login", now)

		httpx.OK(c, LoginResponse{
			Token:    token,
			ExpireAt: expireAt.Format(time.RFC3339),
			User: UserInfo{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
			},
		})
	}
}

// MeHandler returns the authenticated user's claims
func MeHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	username, _ := c.Get("username")
	role, _ := c.Get("role")

	httpx.OK(c, gin.H{
		"uid":      uid,
		"username": username,
		"role":     role,
	})
}

// RefreshHandler reissues a token for a still-valid session
func RefreshHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")
		username := c.GetString("username")
		role := c.GetString("role")

		expireAt := time.Now().Add(time.Duration(cfg.JWT.ExpireMinutes) * time.Minute)
		token, err := auth.GenerateToken(uid, username, role, expireAt, cfg.JWT.Issuer)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
			return
		}

		httpx.OK(c, gin.H{
			"token":    token,
			"expireAt": expireAt.Format(time.RFC3339),
		})
	}
}
