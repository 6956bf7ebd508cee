package middleware

import (
	"printtrack/internal/agents"
	"printtrack/internal/httpx"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the per-agent credential on ingestion calls.
const APIKeyHeader = "X-API-Key"

// AgentKey is the context key the resolved agent is stored under.
const AgentKey = "agent"

// APIKeyRequired authenticates the calling agent by its API key and puts
// the agent row in the request context.
func APIKeyRequired(svc *agents.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			httpx.FailErr(c, httpx.ErrUnauthorized("missing api key"))
			c.Abort()
			return
		}

		agent, err := svc.Authenticate(c.Request.Context(), key)
		if err != nil {
			httpx.FailErr(c, httpx.ErrUnauthorized("unknown or revoked api key"))
			c.Abort()
			return
		}

		c.Set(AgentKey, agent)
		c.Next()
	}
}
