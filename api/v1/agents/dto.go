package agents

import (
	"encoding/json"
	"time"

	"printtrack/internal/model"
)

// RegisterRequest represents agent registration request body
type RegisterRequest struct {
	Hostname     string `json:"hostname" binding:"required"`
	IPAddress    string `json:"ip_address"`
	OSVersion    string `json:"os_version"`
	AgentVersion string `json:"agent_version"`
	SiteID       string `json:"site_id"`
}

// RegisterResponse carries the one-time plaintext API key.
type RegisterResponse struct {
	AgentID int    `json:"agent_id"`
	APIKey  string `json:"api_key"`
	SiteID  int    `json:"site_id"`
}

// HeartbeatRequest represents agent heartbeat request body
type HeartbeatRequest struct {
	PendingJobs       int      `json:"pending_jobs"`
	AgentVersion      string   `json:"agent_version"`
	InstalledPrinters []string `json:"installed_printers"`
}

// AgentDTO is one agent in list and detail responses. Status is derived
// from last_seen at read time.
type AgentDTO struct {
	ID                 int        `json:"id"`
	Hostname           string     `json:"hostname"`
	IPAddress          string     `json:"ip_address"`
	OSVersion          string     `json:"os_version"`
	AgentVersion       string     `json:"agent_version"`
	Enabled            bool       `json:"enabled"`
	Status             string     `json:"status"`
	SiteID             int        `json:"site_id"`
	SiteName           string     `json:"site_name,omitempty"`
	InstalledPrinters  []string   `json:"installed_printers"`
	PendingJobs        int        `json:"pending_jobs"`
	TotalJobsSubmitted int64      `json:"total_jobs_submitted"`
	RegisteredAt       time.Time  `json:"registered_at"`
	LastSeen           *time.Time `json:"last_seen"`
	LastJobSubmitted   *time.Time `json:"last_job_submitted"`
}

func toAgentDTO(agent *model.Agent, staleAfter time.Duration) AgentDTO {
	dto := AgentDTO{
		ID:                 agent.ID,
		Hostname:           agent.Hostname,
		IPAddress:          agent.IPAddress,
		OSVersion:          agent.OSVersion,
		AgentVersion:       agent.AgentVersion,
		Enabled:            agent.Enabled,
		Status:             string(agent.Status(time.Now(), staleAfter)),
		SiteID:             agent.SiteID,
		InstalledPrinters:  []string{},
		PendingJobs:        agent.PendingJobs,
		TotalJobsSubmitted: agent.TotalJobsSubmitted,
		RegisteredAt:       agent.RegisteredAt,
		LastSeen:           agent.LastSeen,
		LastJobSubmitted:   agent.LastJobSubmitted,
	}
	if agent.Site != nil {
		dto.SiteName = agent.Site.Name
	}
	if len(agent.InstalledPrinters) > 0 {
		// Best effort, a corrupt column renders as an empty list
		_ = json.Unmarshal(agent.InstalledPrinters, &dto.InstalledPrinters)
	}
	return dto
}
