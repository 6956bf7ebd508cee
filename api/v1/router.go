package v1

import (
	"time"

	"printtrack/api/v1/agents"
	"printtrack/api/v1/auth"
	"printtrack/api/v1/middleware"
	"printtrack/api/v1/printjobs"
	"printtrack/api/v1/reports"
	"printtrack/api/v1/users"
	agentsvc "printtrack/internal/agents"
	"printtrack/internal/cache"
	"printtrack/internal/config"
	"printtrack/internal/directory"
	"printtrack/internal/httpx"
	jobsvc "printtrack/internal/printjobs"
	reportsvc "printtrack/internal/reports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	if len(cfg.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.APIKeyHeader)
		r.Use(cors.New(corsCfg))
	}

	guard := cache.NewSubmissionGuard(cache.Client, time.Duration(cfg.Ingest.DedupWindowSec)*time.Second)
	jobService := jobsvc.NewService(db, guard)
	agentService := agentsvc.NewService(db)
	reportService := reportsvc.NewService(db)
	staleAfter := time.Duration(cfg.Ingest.AgentStaleSec) * time.Second

	var dir directory.Directory
	var syncer *directory.Syncer
	if cfg.LDAP.Enabled {
		dir = directory.NewLDAPDirectory(cfg.LDAP)
		syncer = directory.NewSyncer(db, dir)
	}

	r.GET("/health", healthHandler)

	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", auth.LoginHandler(db, cfg))
		}
		v1.POST("/agents/register", agents.RegisterHandler(agentService))

		// Agent routes (API key required)
		agentAuthed := v1.Group("")
		agentAuthed.Use(middleware.APIKeyRequired(agentService))
		{
			agentAuthed.POST("/print-jobs", printjobs.SubmitHandler(jobService))
			agentAuthed.POST("/print-jobs/batch", printjobs.SubmitBatchHandler(jobService))
			agentAuthed.POST("/agents/heartbeat", agents.HeartbeatHandler(agentService))
		}

		// Protected routes (JWT required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", auth.MeHandler)
			protected.POST("/auth/refresh", auth.RefreshHandler(cfg))

			jobsGroup := protected.Group("/print-jobs")
			{
				jobsGroup.GET("", printjobs.ListHandler(jobService))
				jobsGroup.GET("/:id", printjobs.GetHandler(jobService))
				jobsGroup.DELETE("/:id", middleware.AdminOnly(), printjobs.DeleteHandler(jobService))
			}

			agentsGroup := protected.Group("/agents")
			{
				agentsGroup.GET("", agents.ListHandler(agentService, staleAfter))
				agentsGroup.GET("/:id", agents.GetHandler(agentService, staleAfter))
				agentsGroup.POST("/:id/revoke", middleware.AdminOnly(), agents.RevokeHandler(agentService, db))
			}

			reportsGroup := protected.Group("/reports")
			{
				reportsGroup.GET("/overview", reports.OverviewHandler(reportService))
				reportsGroup.GET("/trends", reports.TrendsHandler(reportService))
				reportsGroup.GET("/by-user", reports.ByUserHandler(reportService))
				reportsGroup.GET("/by-printer", reports.ByPrinterHandler(reportService))
				reportsGroup.GET("/export", reports.ExportHandler(reportService))
			}

			usersGroup := protected.Group("/users")
			usersGroup.Use(middleware.AdminOnly())
			{
				usersGroup.GET("", users.ListHandler(db))
				usersGroup.POST("", users.CreateHandler(db))
				usersGroup.GET("/ldap/test", users.LDAPTestHandler(dir))
				usersGroup.POST("/ldap/sync", users.LDAPSyncHandler(db, syncer))
				usersGroup.GET("/:id", users.GetHandler(db))
				usersGroup.PUT("/:id", users.UpdateHandler(db))
				usersGroup.DELETE("/:id", users.DeleteHandler(db))
				usersGroup.POST("/:id/reset-password", users.ResetPasswordHandler(db))
			}
		}
	}
}

// healthHandler answers liveness probes with the unified envelope.
func healthHandler(c *gin.Context) {
	httpx.OK(c, gin.H{"status": "ok"})
}
