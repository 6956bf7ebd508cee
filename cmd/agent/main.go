package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"printtrack/agent/client"
	"printtrack/agent/config"
	"printtrack/agent/monitor"
	"printtrack/agent/queue"
	"printtrack/agent/uploader"

	"github.com/sirupsen/logrus"
)

const agentVersion = "1.2.0"

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to agent.ini")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
	log := logrus.WithField("component", "agent")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load agent config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid agent config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal := client.New(cfg.ServerURL, cfg.APIKey)

	// First start or revoked key: enroll and persist the issued key.
	if cfg.APIKey == "" {
		if !register(ctx, portal, cfg, log) {
			logrus.Fatal("Initial registration failed")
		}
	}

	q, err := queue.Open(cfg.QueuePath())
	if err != nil {
		logrus.Fatalf("Failed to open offline queue: %v", err)
	}
	defer q.Close()

	source, err := monitor.NewDirSource(cfg.SpoolDir)
	if err != nil {
		logrus.Fatalf("Failed to open spool dir: %v", err)
	}

	up := uploader.New(q, portal, time.Duration(cfg.RetentionDays)*24*time.Hour)
	up.Reauth = func(ctx context.Context) bool {
		return register(ctx, portal, cfg, log)
	}

	log.WithFields(logrus.Fields{
		"server":   cfg.ServerURL,
		"hostname": cfg.Hostname,
		"site":     cfg.SiteID,
		"spool":    cfg.SpoolDir,
	}).Info("agent started")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		captureLoop(ctx, source, q, time.Duration(cfg.PollIntervalSec)*time.Second, log)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		up.Run(ctx, time.Duration(cfg.PollIntervalSec)*time.Second)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		heartbeatLoop(ctx, portal, q, time.Duration(cfg.HeartbeatSec)*time.Second, log)
	}()

	wg.Wait()
	log.Info("agent stopped")
}

// register enrolls this host with the portal and persists the issued key.
func register(ctx context.Context, portal *client.Client, cfg *config.Config, log *logrus.Entry) bool {
	resp, err := portal.Register(ctx, client.RegisterRequest{
		Hostname:     cfg.Hostname,
		OSVersion:    runtime.GOOS,
		AgentVersion: agentVersion,
		SiteID:       cfg.SiteID,
	})
	if err != nil {
		log.WithError(err).Error("registration failed")
		return false
	}
	if err := cfg.SaveAPIKey(resp.APIKey); err != nil {
		log.WithError(err).Error("failed to persist api key")
		return false
	}
	log.WithField("agent_id", resp.AgentID).Info("registered with portal")
	return true
}

// captureLoop moves captured print events from the spool into the durable
// queue. Jobs survive there until the server acknowledges them.
func captureLoop(ctx context.Context, source monitor.Source, q *queue.Queue, interval time.Duration, log *logrus.Entry) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		events, err := source.Poll(ctx)
		if err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("spool poll failed")
		}
		for _, ev := range events {
			payload, err := json.Marshal(ev)
			if err != nil {
				log.WithError(err).Warn("unencodable event dropped")
				continue
			}
			id, err := q.Enqueue(payload)
			if err != nil {
				log.WithError(err).Error("enqueue failed")
				continue
			}
			log.WithFields(logrus.Fields{
				"submission_id": id,
				"printer":       ev.PrinterName,
				"pages":         ev.Pages,
			}).Debug("job queued")
		}
	}
}

// heartbeatLoop reports liveness and local queue depth. Failures are logged
// and skipped; the next tick tries again.
func heartbeatLoop(ctx context.Context, portal *client.Client, q *queue.Queue, interval time.Duration, log *logrus.Entry) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pending, err := q.PendingCount()
		if err != nil {
			log.WithError(err).Warn("queue depth read failed")
			pending = 0
		}
		if err := portal.Heartbeat(ctx, pending, agentVersion, nil); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("heartbeat failed")
		}
	}
}
