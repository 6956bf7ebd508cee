package directory

import (
	"context"
	"errors"
	"fmt"

	"printtrack/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SyncResult summarizes one directory sync run.
type SyncResult struct {
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Deactivated int `json:"deactivated"`
	Total       int `json:"total"`
}

// Syncer mirrors directory users into the portal user table. Directory
// users are created with the viewer role and no local password; accounts
// that vanish from the directory are deactivated, never deleted.
type Syncer struct {
	db     *gorm.DB
	dir    Directory
	logger *logrus.Entry
}

// NewSyncer creates a directory syncer.
func NewSyncer(db *gorm.DB, dir Directory) *Syncer {
	return &Syncer{
		db:     db,
		dir:    dir,
		logger: logrus.WithField("component", "ldap-sync"),
	}
}

// Sync runs one full reconciliation pass.
func (s *Syncer) Sync(ctx context.Context) (*SyncResult, error) {
	entries, err := s.dir.Search()
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}

	result := &SyncResult{Total: len(entries)}
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		seen[entry.Username] = true

		var user model.User
		err := s.db.WithContext(ctx).Where("username = ?", entry.Username).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = model.User{
				Username:   entry.Username,
				Email:      entry.Email,
				FullName:   entry.FullName,
				Role:       model.RoleViewer,
				IsActive:   true,
				IsLDAPUser: true,
				LDAPDN:     entry.DN,
			}
			if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
				return nil, fmt.Errorf("create user %s: %w", entry.Username, err)
			}
			result.Created++
		case err != nil:
			return nil, fmt.Errorf("lookup user %s: %w", entry.Username, err)
		default:
			updates := map[string]interface{}{
				"email":     entry.Email,
				"full_name": entry.FullName,
				"ldap_dn":   entry.DN,
				"is_active": true,
			}
			if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
				return nil, fmt.Errorf("update user %s: %w", entry.Username, err)
			}
			result.Updated++
		}
	}

	// Deactivate directory users no longer present. Local accounts are
	// never touched here.
	var ldapUsers []model.User
	if err := s.db.WithContext(ctx).
		Where("is_ldap_user = ? AND is_active = ?", true, true).
		Find(&ldapUsers).Error; err != nil {
		return nil, fmt.Errorf("list ldap users: %w", err)
	}
	for _, user := range ldapUsers {
		if seen[user.Username] {
			continue
		}
		if err := s.db.WithContext(ctx).Model(&user).Update("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("deactivate user %s: %w", user.Username, err)
		}
		result.Deactivated++
	}

	s.logger.WithFields(logrus.Fields{
		"created":     result.Created,
		"updated":     result.Updated,
		"deactivated": result.Deactivated,
	}).Info("directory sync completed")

	return result, nil
}
