package monitor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one captured print job, as produced by the platform capture
// hook. Field names match the ingestion payload so the bytes can be
// queued as-is.
type Event struct {
	Username     string    `json:"username"`
	ComputerName string    `json:"computer_name"`
	PrinterName  string    `json:"printer_name"`
	PrinterIP    string    `json:"printer_ip,omitempty"`
	DocumentName string    `json:"document_name"`
	Pages        int       `json:"pages"`
	Copies       int       `json:"copies,omitempty"`
	IsColor      bool      `json:"is_color,omitempty"`
	IsDuplex     bool      `json:"is_duplex,omitempty"`
	Status       string    `json:"status,omitempty"`
	JobSizeBytes int64     `json:"job_size_bytes,omitempty"`
	PrintTime    time.Time `json:"print_time"`
}

// Source yields captured print events. The spooler hook ships separately
// with the installer; the agent only consumes its output.
type Source interface {
	// Poll returns events captured since the last call.
	Poll(ctx context.Context) ([]Event, error)
}

// DirSource reads events from JSON files dropped into the spool directory
// by the capture hook, oldest file first, deleting each file once its
// event is handed off.
type DirSource struct {
	dir    string
	logger *logrus.Entry
}

// NewDirSource creates a source over the spool directory, creating it if
// missing.
func NewDirSource(dir string) (*DirSource, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirSource{
		dir:    dir,
		logger: logrus.WithField("component", "monitor"),
	}, nil
}

// Poll reads and consumes all event files currently in the spool dir.
// Unreadable files are renamed aside rather than retried forever.
func (s *DirSource) Poll(ctx context.Context) ([]Event, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	// Hook files are named <unix-nanos>.json; lexical order is capture order.
	sort.Strings(names)

	var events []Event
	for _, name := range names {
		if ctx.Err() != nil {
			return events, ctx.Err()
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.WithError(err).WithField("file", name).Warn("unreadable event file")
			continue
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.WithError(err).WithField("file", name).Warn("corrupt event file, moving aside")
			os.Rename(path, path+".bad")
			continue
		}
		if ev.PrintTime.IsZero() {
			ev.PrintTime = time.Now()
		}

		events = append(events, ev)
		if err := os.Remove(path); err != nil {
			s.logger.WithError(err).WithField("file", name).Warn("failed to remove consumed event file")
		}
	}
	return events, nil
}
