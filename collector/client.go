package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scanfleet/robot"
)

// ReportPath is where robots POST their reports.
const ReportPath = "/api/robots/data"

// DefaultTimeout bounds a single report POST.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a rejected response is kept for logging.
const maxErrorBody = 4096

// StatusError is returned when the collector answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector HTTP %d: %s", e.Code, e.Body)
}

// Client posts robot reports to the inventory collector.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a collector client. A non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the bearer token a robot authenticates with.
func Token(robotID string) string {
	return "token_" + robotID
}

// SendReport implements robot.Sink.
func (c *Client) SendReport(ctx context.Context, r *robot.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("collector marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ReportPath, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("collector request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+Token(r.RobotID))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("collector POST %s: %w", ReportPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)
	return nil
}
