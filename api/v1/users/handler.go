package users

import (
	"errors"
	"strconv"

	"printtrack/internal/audit"
	"printtrack/internal/auth"
	"printtrack/internal/directory"
	"printtrack/internal/httpx"
	"printtrack/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListHandler handles GET /api/v1/users (admin only).
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
		if page < 1 {
			page = 1
		}
		if pageSize < 1 || pageSize > 200 {
			pageSize = 20
		}

		query := db.Model(&model.User{})
		if keyword := c.Query("keyword"); keyword != "" {
			like := "%" + keyword + "%"
			query = query.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?", like, like, like)
		}
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to count users", err))
			return
		}

		var list []model.User
		err := query.Order("username ASC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&list).Error
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query users", err))
			return
		}

		items := make([]UserDTO, 0, len(list))
		for i := range list {
			items = append(items, toUserDTO(&list[i]))
		}

		httpx.OK(c, httpx.ListData{
			Items:    items,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// CreateHandler handles POST /api/v1/users (admin only). Creates local
// accounts; directory accounts arrive via sync instead.
func CreateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}
		if req.Role == "" {
			req.Role = model.RoleUser
		}
		if !model.ValidRole(req.Role) {
			httpx.FailErr(c, httpx.ErrParamIllegal("unknown role"))
			return
		}
		if len(req.Password) < 8 {
			httpx.FailErr(c, httpx.ErrParamIllegal("password must be at least 8 characters"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to hash password", err))
			return
		}

		user := model.User{
			Username:     req.Username,
			Email:        req.Email,
			FullName:     req.FullName,
			PasswordHash: hash,
			Role:         req.Role,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				httpx.FailErr(c, httpx.ErrDuplicate("username already exists"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to create user", err))
			return
		}

		audit.Record(db, c.GetInt("uid"), "user.create", "user", user.ID,
			map[string]interface{}{"username": user.Username, "role": user.Role}, c.ClientIP())

		httpx.OK(c, toUserDTO(&user))
	}
}

// GetHandler handles GET /api/v1/users/:id (admin only).
func GetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
			return
		}

		var user model.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("user not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query user", err))
			return
		}

		httpx.OK(c, toUserDTO(&user))
	}
}

// UpdateHandler handles PUT /api/v1/users/:id (admin only).
func UpdateHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
			return
		}

		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		var user model.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("user not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query user", err))
			return
		}

		updates := map[string]interface{}{}
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if req.FullName != nil {
			updates["full_name"] = *req.FullName
		}
		if req.Role != nil {
			if !model.ValidRole(*req.Role) {
				httpx.FailErr(c, httpx.ErrParamIllegal("unknown role"))
				return
			}
			updates["role"] = *req.Role
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
		if len(updates) == 0 {
			httpx.FailErr(c, httpx.ErrParamMissing("nothing to update"))
			return
		}

		if err := db.Model(&user).Updates(updates).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to update user", err))
			return
		}

		audit.Record(db, c.GetInt("uid"), "user.update", "user", user.ID, updates, c.ClientIP())

		httpx.OK(c, toUserDTO(&user))
	}
}

// DeleteHandler handles DELETE /api/v1/users/:id (admin only). Deactivates
// rather than deletes; historical jobs keep their username either way.
func DeleteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
			return
		}
		if id == c.GetInt("uid") {
			httpx.FailErr(c, httpx.ErrParamIllegal("cannot deactivate your own account"))
			return
		}

		res := db.Model(&model.User{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to deactivate user", res.Error))
			return
		}
		if res.RowsAffected == 0 {
			httpx.FailErr(c, httpx.ErrNotFound("user not found"))
			return
		}

		audit.Record(db, c.GetInt("uid"), "user.deactivate", "user", id, nil, c.ClientIP())

		httpx.OKMsg(c, "deactivated", nil)
	}
}

// ResetPasswordHandler handles POST /api/v1/users/:id/reset-password
// (admin only). Directory accounts have no local password to reset.
func ResetPasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
			return
		}

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}
		if len(req.Password) < 8 {
			httpx.FailErr(c, httpx.ErrParamIllegal("password must be at least 8 characters"))
			return
		}

		var user model.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("user not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query user", err))
			return
		}
		if user.IsLDAPUser {
			httpx.FailErr(c, httpx.ErrParamIllegal("directory accounts have no local password"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to hash password", err))
			return
		}
		if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to reset password", err))
			return
		}

		audit.Record(db, c.GetInt("uid"), "user.reset_password", "user", user.ID, nil, c.ClientIP())

		httpx.OKMsg(c, "password reset", nil)
	}
}

// LDAPSyncHandler handles POST /api/v1/users/ldap/sync (admin only).
func LDAPSyncHandler(db *gorm.DB, syncer *directory.Syncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if syncer == nil {
			httpx.FailErr(c, httpx.ErrParamIllegal("ldap is not configured"))
			return
		}

		result, err := syncer.Sync(c.Request.Context())
		if err != nil {
			httpx.FailErr(c, httpx.ErrUpstreamError("ldap sync failed", err))
			return
		}

		audit.Record(db, c.GetInt("uid"), "user.ldap_sync", "user", 0,
			map[string]interface{}{
				"created":     result.Created,
				"updated":     result.Updated,
				"deactivated": result.Deactivated,
			}, c.ClientIP())

		httpx.OK(c, result)
	}
}

// LDAPTestHandler handles GET /api/v1/users/ldap/test (admin only).
func LDAPTestHandler(dir directory.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dir == nil {
			httpx.FailErr(c, httpx.ErrParamIllegal("ldap is not configured"))
			return
		}
		if err := dir.Ping(); err != nil {
			httpx.FailErr(c, httpx.ErrUpstreamError("ldap connection failed", err))
			return
		}
		httpx.OKMsg(c, "ldap connection ok", nil)
	}
}
