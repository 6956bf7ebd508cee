package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"printtrack/internal/httpx"
	"printtrack/internal/reports"

	"github.com/sirupsen/logrus"
)

// Snapshot is one poll result: a bounded page of records plus the overview
// aggregates for the same window.
type Snapshot struct {
	Jobs      []Job
	Overview  reports.Overview
	FetchedAt time.Time
}

// Poller periodically fetches records and aggregates from the portal API.
// Render-side state (ViewState) is applied locally over the last snapshot.
type Poller struct {
	baseURL  string
	token    string
	pageSize int
	client   *http.Client
	logger   *logrus.Entry
}

// NewPoller creates a poller against the portal base URL with a user JWT.
func NewPoller(baseURL, token string, pageSize int) *Poller {
	if pageSize < 1 {
		pageSize = 500
	}
	return &Poller{
		baseURL:  baseURL,
		token:    token,
		pageSize: pageSize,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logrus.WithField("component", "dashboard-poller"),
	}
}

// Fetch retrieves one snapshot.
func (p *Poller) Fetch(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{FetchedAt: time.Now()}

	listQuery := url.Values{"page": {"1"}, "pageSize": {strconv.Itoa(p.pageSize)}}
	var listData struct {
		Items []Job `json:"items"`
	}
	if err := p.get(ctx, "/api/v1/print-jobs", listQuery, &listData); err != nil {
		return nil, fmt.Errorf("fetch print jobs: %w", err)
	}
	snap.Jobs = listData.Items

	if err := p.get(ctx, "/api/v1/reports/overview", nil, &snap.Overview); err != nil {
		return nil, fmt.Errorf("fetch overview: %w", err)
	}

	return snap, nil
}

// Run polls on the interval until ctx is cancelled, delivering each
// snapshot to out. Poll failures are logged and the loop keeps going.
func (p *Poller) Run(ctx context.Context, interval time.Duration, out chan<- *Snapshot) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := p.Fetch(ctx)
			if err != nil {
				p.logger.WithError(err).Warn("poll failed")
				continue
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (p *Poller) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	u := p.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Code != httpx.CodeSuccess {
		return fmt.Errorf("api error %d: %s", envelope.Code, envelope.Message)
	}
	return json.Unmarshal(envelope.Data, dest)
}
