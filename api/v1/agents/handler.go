package agents

import (
	"errors"
	"strconv"
	"time"

	"printtrack/api/v1/middleware"
	"printtrack/internal/agents"
	"printtrack/internal/audit"
	"printtrack/internal/httpx"
	"printtrack/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterHandler handles POST /api/v1/agents/register. The endpoint is
// open; possession of the returned key is what authenticates later calls.
func RegisterHandler(svc *agents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		agent, key, err := svc.Register(c.Request.Context(), agents.Registration{
			Hostname:     req.Hostname,
			IPAddress:    req.IPAddress,
			OSVersion:    req.OSVersion,
			AgentVersion: req.AgentVersion,
			SiteID:       req.SiteID,
		})
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("agent registration failed", err))
			return
		}

		httpx.OK(c, RegisterResponse{
			AgentID: agent.ID,
			APIKey:  key,
			SiteID:  agent.SiteID,
		})
	}
}

// HeartbeatHandler handles POST /api/v1/agents/heartbeat, authenticated by
// API key.
func HeartbeatHandler(svc *agents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent := c.MustGet(middleware.AgentKey).(*model.Agent)

		var req HeartbeatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		err := svc.RecordHeartbeat(c.Request.Context(), agent, agents.Heartbeat{
			PendingJobs:       req.PendingJobs,
			AgentVersion:      req.AgentVersion,
			InstalledPrinters: req.InstalledPrinters,
		})
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to record heartbeat", err))
			return
		}

		httpx.OK(c, nil)
	}
}

// ListHandler handles GET /api/v1/agents
func ListHandler(svc *agents.Service, staleAfter time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID, _ := strconv.Atoi(c.Query("siteId"))

		list, err := svc.List(c.Request.Context(), siteID)
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query agents", err))
			return
		}

		items := make([]AgentDTO, 0, len(list))
		for i := range list {
			items = append(items, toAgentDTO(&list[i], staleAfter))
		}

		httpx.OK(c, gin.H{"items": items, "total": len(items)})
	}
}

// GetHandler handles GET /api/v1/agents/:id
func GetHandler(svc *agents.Service, staleAfter time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid agent id"))
			return
		}

		agent, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("agent not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query agent", err))
			return
		}

		httpx.OK(c, toAgentDTO(agent, staleAfter))
	}
}

// RevokeHandler handles POST /api/v1/agents/:id/revoke (admin only).
// The agent row stays; its key stops authenticating until it re-registers.
func RevokeHandler(svc *agents.Service, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid agent id"))
			return
		}

		if err := svc.Revoke(c.Request.Context(), id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("agent not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to revoke agent", err))
			return
		}

		audit.Record(db, c.GetInt("uid"), "agent.revoke", "agent", id, nil, c.ClientIP())

		httpx.OKMsg(c, "revoked", nil)
	}
}
