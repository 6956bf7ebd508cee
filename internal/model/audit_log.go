package model

import "gorm.io/datatypes"

// AuditLog records administrative actions on portal entities
type AuditLog struct {
	BaseModel
	Action     string         `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   int            `json:"entity_id"`
	ActorID    int            `gorm:"index" json:"actor_id"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ip_address"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
