package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SubmitOutcome classifies a submission attempt for the uploader's state
// machine.
type SubmitOutcome int

const (
	// SubmitOK: stored, ack the queue item.
	SubmitOK SubmitOutcome = iota
	// SubmitDuplicate: server already has this submission id; ack.
	SubmitDuplicate
	// SubmitRejected: validation failure, park the item, never retry.
	SubmitRejected
	// SubmitUnauthorized: key revoked or unknown; halt the drain.
	SubmitUnauthorized
	// SubmitTransient: network/5xx; back off and retry.
	SubmitTransient
)

// SubmitResult is the outcome of one submission attempt.
type SubmitResult struct {
	Outcome SubmitOutcome
	JobID   int
	Message string
}

// Client talks to the portal API on behalf of one agent.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a portal client. apiKey may be empty before registration.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAPIKey installs the key issued by a registration call.
func (c *Client) SetAPIKey(key string) {
	c.apiKey = key
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterRequest is the agent registration payload.
type RegisterRequest struct {
	Hostname     string `json:"hostname"`
	IPAddress    string `json:"ip_address,omitempty"`
	OSVersion    string `json:"os_version,omitempty"`
	AgentVersion string `json:"agent_version,omitempty"`
	SiteID       string `json:"site_id,omitempty"`
}

// RegisterResponse carries the issued credentials.
type RegisterResponse struct {
	AgentID int    `json:"agent_id"`
	APIKey  string `json:"api_key"`
}

// Register enrolls the agent and returns the issued API key. The key is
// only ever returned here; the caller must persist it.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (*RegisterResponse, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/agents/register", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("register rejected: %s", env.Message)
	}

	var out RegisterResponse
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	c.apiKey = out.APIKey
	return &out, nil
}

// Submit sends one queued job. submissionID is injected into the payload so
// the server can de-duplicate retries. Never returns an error: every
// failure mode maps onto a SubmitOutcome.
func (c *Client) Submit(ctx context.Context, submissionID string, payload []byte) SubmitResult {
	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return SubmitResult{Outcome: SubmitRejected, Message: "unreadable payload: " + err.Error()}
	}
	// "null" unmarshals cleanly into a nil map; park it like any other
	// unusable payload instead of letting the assignment below panic.
	if fields == nil {
		return SubmitResult{Outcome: SubmitRejected, Message: "empty payload"}
	}
	fields["submission_id"] = submissionID

	body, err := json.Marshal(fields)
	if err != nil {
		return SubmitResult{Outcome: SubmitRejected, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/print-jobs", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{Outcome: SubmitTransient, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmitResult{Outcome: SubmitTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		return SubmitResult{Outcome: SubmitTransient, Message: err.Error()}
	}

	var data struct {
		JobID int `json:"job_id"`
	}
	if len(env.Data) > 0 {
		json.Unmarshal(env.Data, &data)
	}

	switch {
	case resp.StatusCode == http.StatusOK && env.Code == 0:
		return SubmitResult{Outcome: SubmitOK, JobID: data.JobID}
	case resp.StatusCode == http.StatusConflict:
		// The server already holds this record; from our side that is
		// a successful delivery.
		return SubmitResult{Outcome: SubmitDuplicate, JobID: data.JobID, Message: env.Message}
	case resp.StatusCode == http.StatusBadRequest:
		return SubmitResult{Outcome: SubmitRejected, Message: env.Message}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return SubmitResult{Outcome: SubmitUnauthorized, Message: env.Message}
	default:
		return SubmitResult{Outcome: SubmitTransient, Message: fmt.Sprintf("status %d: %s", resp.StatusCode, env.Message)}
	}
}

// Heartbeat reports liveness and local queue depth.
func (c *Client) Heartbeat(ctx context.Context, pendingJobs int, agentVersion string, printers []string) error {
	body, err := json.Marshal(map[string]interface{}{
		"pending_jobs":       pendingJobs,
		"agent_version":      agentVersion,
		"installed_printers": printers,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/agents/heartbeat", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat rejected: status %d", resp.StatusCode)
	}
	return nil
}

func decodeEnvelope(r io.Reader) (*envelope, error) {
	body, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}
