package model

import (
	"time"

	"gorm.io/datatypes"
)

// AgentStatus is derived from last_seen staleness, never stored
type AgentStatus string

const (
	AgentStatusOnline  AgentStatus = "online"
	AgentStatusOffline AgentStatus = "offline"
)

// Agent represents one print-capture install on a client PC.
// The API key is bcrypt-hashed at rest; KeyPrefix keeps the first
// characters in clear so the hash to compare against can be located.
type Agent struct {
	BaseModel
	Hostname           string         `gorm:"type:varchar(255);not null;index" json:"hostname"`
	IPAddress          string         `gorm:"type:varchar(45)" json:"ip_address"`
	OSVersion          string         `gorm:"type:varchar(255)" json:"os_version"`
	AgentVersion       string         `gorm:"type:varchar(50)" json:"agent_version"`
	KeyPrefix          string         `gorm:"type:varchar(16);uniqueIndex;not null" json:"-"`
	APIKeyHash         string         `gorm:"type:varchar(255);not null" json:"-"`
	Enabled            bool           `gorm:"default:true" json:"enabled"`
	SiteID             int            `gorm:"index;not null" json:"site_id"`
	Site               *Site          `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	InstalledPrinters  datatypes.JSON `json:"installed_printers"`
	PendingJobs        int            `gorm:"default:0" json:"pending_jobs"`
	TotalJobsSubmitted int64          `gorm:"default:0" json:"total_jobs_submitted"`
	RegisteredAt       time.Time      `gorm:"autoCreateTime" json:"registered_at"`
	LastSeen           *time.Time     `json:"last_seen"`
	LastJobSubmitted   *time.Time     `json:"last_job_submitted"`
}

// TableName specifies the table name for Agent model
func (Agent) TableName() string {
	return "agents"
}

// Status derives online/offline from last_seen staleness.
func (a *Agent) Status(now time.Time, staleAfter time.Duration) AgentStatus {
	if a.LastSeen == nil || now.Sub(*a.LastSeen) > staleAfter {
		return AgentStatusOffline
	}
	return AgentStatusOnline
}
