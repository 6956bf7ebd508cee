package users

import (
	"time"

	"printtrack/internal/model"
)

// CreateRequest represents create user request body
type CreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UpdateRequest represents update user request body. Nil fields are left
// untouched.
type UpdateRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// UserDTO is one user in list and detail responses.
type UserDTO struct {
	ID         int        `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"is_active"`
	IsLDAPUser bool       `json:"is_ldap_user"`
	LastLogin  *time.Time `json:"last_login"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toUserDTO(user *model.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role,
		IsActive:   user.IsActive,
		IsLDAPUser: user.IsLDAPUser,
		LastLogin:  user.LastLogin,
		CreatedAt:  user.CreatedAt,
	}
}
