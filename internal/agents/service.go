package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"printtrack/internal/auth"
	"printtrack/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrUnknownKey is returned for keys that resolve to no active agent.
var ErrUnknownKey = errors.New("unknown or revoked api key")

// Service owns agent registration, key auth, and heartbeat bookkeeping.
type Service struct {
	db     *gorm.DB
	logger *logrus.Entry
}

// NewService creates the agent service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		logger: logrus.WithField("component", "agents"),
	}
}

// Registration is the payload of a register call.
type Registration struct {
	Hostname     string
	IPAddress    string
	OSVersion    string
	AgentVersion string
	SiteID       string // site label, get-or-created
}

// Register creates or refreshes an agent row and returns the plaintext API
// key. Re-registering the same hostname at the same site rotates the key,
// which is also the recovery path for a revoked agent.
func (s *Service) Register(ctx context.Context, reg Registration) (*model.Agent, string, error) {
	if reg.Hostname == "" {
		return nil, "", fmt.Errorf("hostname is required")
	}
	if reg.SiteID == "" {
		reg.SiteID = "default"
	}

	site := model.Site{SiteID: reg.SiteID, Name: reg.SiteID, IsActive: true}
	if err := s.db.WithContext(ctx).
		Where("site_id = ?", reg.SiteID).
		FirstOrCreate(&site).Error; err != nil {
		return nil, "", fmt.Errorf("resolve site: %w", err)
	}

	key, prefix, hash, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, "", err
	}

	agent := model.Agent{
		Hostname: reg.Hostname,
		SiteID:   site.ID,
	}
	err = s.db.WithContext(ctx).
		Where("hostname = ? AND site_id = ?", reg.Hostname, site.ID).
		FirstOrCreate(&agent).Error
	if err != nil {
		return nil, "", fmt.Errorf("resolve agent: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"key_prefix":    prefix,
		"api_key_hash":  hash,
		"enabled":       true,
		"ip_address":    reg.IPAddress,
		"os_version":    reg.OSVersion,
		"agent_version": reg.AgentVersion,
		"last_seen":     now,
	}
	if err := s.db.WithContext(ctx).Model(&agent).Updates(updates).Error; err != nil {
		return nil, "", fmt.Errorf("store agent credentials: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"agent_id": agent.ID,
		"hostname": agent.Hostname,
		"site":     reg.SiteID,
	}).Info("agent registered")

	return &agent, key, nil
}

// Authenticate resolves a presented API key to an active agent.
// Any failure maps to ErrUnknownKey so callers leak nothing about which
// part of the check failed.
func (s *Service) Authenticate(ctx context.Context, key string) (*model.Agent, error) {
	prefix, err := auth.APIKeyPrefix(key)
	if err != nil {
		return nil, ErrUnknownKey
	}

	var agent model.Agent
	err = s.db.WithContext(ctx).
		Where("key_prefix = ? AND enabled = ?", prefix, true).
		First(&agent).Error
	if err != nil {
		return nil, ErrUnknownKey
	}

	if err := auth.CompareAPIKey(agent.APIKeyHash, key); err != nil {
		return nil, ErrUnknownKey
	}
	return &agent, nil
}

// Heartbeat is the payload of a heartbeat call.
type Heartbeat struct {
	PendingJobs       int
	AgentVersion      string
	InstalledPrinters []string
}

// RecordHeartbeat updates liveness bookkeeping for an authenticated agent.
func (s *Service) RecordHeartbeat(ctx context.Context, agent *model.Agent, hb Heartbeat) error {
	updates := map[string]interface{}{
		"last_seen":    time.Now(),
		"pending_jobs": hb.PendingJobs,
	}
	if hb.AgentVersion != "" {
		updates["agent_version"] = hb.AgentVersion
	}
	if hb.InstalledPrinters != nil {
		printers, err := json.Marshal(hb.InstalledPrinters)
		if err != nil {
			return fmt.Errorf("encode printers: %w", err)
		}
		updates["installed_printers"] = datatypes.JSON(printers)
	}
	return s.db.WithContext(ctx).Model(agent).Updates(updates).Error
}

// List returns all agents, optionally narrowed to one site.
func (s *Service) List(ctx context.Context, siteID int) ([]model.Agent, error) {
	query := s.db.WithContext(ctx).Preload("Site").Order("hostname ASC")
	if siteID > 0 {
		query = query.Where("site_id = ?", siteID)
	}
	var agents []model.Agent
	err := query.Find(&agents).Error
	return agents, err
}

// GetByID returns one agent, or gorm.ErrRecordNotFound.
func (s *Service) GetByID(ctx context.Context, id int) (*model.Agent, error) {
	var agent model.Agent
	if err := s.db.WithContext(ctx).Preload("Site").First(&agent, id).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// Revoke disables an agent's key. The row stays for history; the agent's
// queue drain halts with unauthorized until it re-registers.
func (s *Service) Revoke(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Model(&model.Agent{}).
		Where("id = ?", id).
		Update("enabled", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.logger.WithField("agent_id", id).Warn("agent key revoked")
	return nil
}
