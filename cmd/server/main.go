package main

import (
	"os"

	v1 "printtrack/api/v1"
	"printtrack/internal/auth"
	"printtrack/internal/cache"
	"printtrack/internal/config"
	"printtrack/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	setupLogging()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logrus.Info("Configuration loaded")

	// 2. Initialize JWT signing
	auth.InitJWT(cfg.JWT.Secret)

	// 3. Initialize MySQL
	conn, err := db.InitMySQL(cfg.MySQL.DSN)
	if err != nil {
		logrus.Fatalf("Failed to initialize MySQL: %v", err)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(conn); err != nil {
			logrus.Fatalf("Failed to migrate schema: %v", err)
		}
		logrus.Info("Schema migrated")
	}
	if cfg.SeedAdmin {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "changeme"
		}
		if err := db.SeedAdmin(conn, password); err != nil {
			logrus.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	// 4. Initialize Redis. Non-fatal: ingestion falls back to the unique
	// index for de-duplication when Redis is away.
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		logrus.WithError(err).Warn("Redis unavailable, de-duplication fast path disabled")
	} else {
		defer cache.Close()
	}

	// 5. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1.SetupRouter(r, conn, cfg)

	logrus.Infof("Server starting on %s", cfg.HTTPAddr)

	if err := r.Run(cfg.HTTPAddr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
}
