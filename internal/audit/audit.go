package audit

import (
	"encoding/json"

	"printtrack/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record writes one audit row. Auditing never fails the action it
// describes; errors are logged and swallowed.
func Record(db *gorm.DB, actorID int, action, entityType string, entityID int, details map[string]interface{}, ip string) {
	var payload datatypes.JSON
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			payload = datatypes.JSON(b)
		}
	}

	entry := model.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    payload,
		IPAddress:  ip,
	}
	if err := db.Create(&entry).Error; err != nil {
		logrus.WithError(err).WithField("action", action).Warn("audit write failed")
	}
}
