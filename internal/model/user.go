package model

import "time"

// User roles
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

// User represents a portal account, either local or LDAP-backed
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);index" json:"email"`
	FullName     string     `gorm:"type:varchar(255)" json:"full_name"`
	PasswordHash string     `gorm:"type:varchar(255)" json:"-"`
	Role         string     `gorm:"type:varchar(32);default:'user'" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	IsLDAPUser   bool       `gorm:"column:is_ldap_user;default:false" json:"is_ldap_user"`
	LDAPDN       string     `gorm:"column:ldap_dn;type:varchar(500)" json:"-"`
	LastLogin    *time.Time `json:"last_login"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// ValidRole reports whether role is one of the known portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleViewer:
		return true
	}
	return false
}
