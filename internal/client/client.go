package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Network is a scanned wireless network entity.
type Network struct {
	SSID      string `json:"ssid"`
	BSSID     string `json:"bssid,omitempty"`
	Security  string `json:"security"`
	Signal    int    `json:"signal"`
	Quality   string `json:"quality"`
	Channel   string `json:"channel,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// Scan is a network scan result entity.
type Scan struct {
	Success   bool      `json:"success"`
	Networks  []Network `json:"wifi_networks"`
	Count     int       `json:"count"`
	Timestamp string    `json:"timestamp,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Command is a capture tool launch result entity.
type Command struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Health is a backend health check entity.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// TransportError reports that no usable verdict came back from the server:
// it was unreachable or answered with something that is not JSON.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestIDHeader carries a per-command identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// New creates and returns new dashboard backend client.
func New(host string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		host:       strings.TrimRight(host, "/"),
	}
}

// Client is the scanning backend client.
type Client struct {
	httpClient *http.Client
	host       string
}

// Networks returns the current network scan. A server reported failure is
// returned as a Scan with Success false and a nil error.
func (c *Client) Networks(ctx context.Context) (Scan, error) {
	var scan Scan

	req, err := http.NewRequestWithContext(ctx, "GET", c.host+"/api/wifi-data", nil)
	if err != nil {
		return scan, fmt.Errorf("can't build request: %w", err)
	}

	if err := c.do(req, &scan); err != nil {
		return scan, err
	}

	return scan, nil
}

// RunWifite asks the backend to start wifite against target.
func (c *Client) RunWifite(ctx context.Context, target string) (Command, error) {
	var cmd Command

	body, err := json.Marshal(struct {
		BSSID string `json:"bssid"`
	}{BSSID: target})
	if err != nil {
		return cmd, fmt.Errorf("can't encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.host+"/api/run-wifite", bytes.NewReader(body))
	if err != nil {
		return cmd, fmt.Errorf("can't build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	if err := c.do(req, &cmd); err != nil {
		return cmd, err
	}

	return cmd, nil
}

// Health returns backend health status.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var health Health

	req, err := http.NewRequestWithContext(ctx, "GET", c.host+"/api/health", nil)
	if err != nil {
		return health, fmt.Errorf("can't build request: %w", err)
	}

	if err := c.do(req, &health); err != nil {
		return health, err
	}

	return health, nil
}

// do decodes any JSON body regardless of status code: the backend reports
// failures as {"success": false} with a 4xx or 5xx status.
func (c Client) do(req *http.Request, payload interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "request error", Err: err}
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "response body error", Err: err}
	}

	if err := json.Unmarshal(body, payload); err != nil {
		return &TransportError{
			Op:  "unmarshaling error",
			Err: fmt.Errorf("status code %d: %w", resp.StatusCode, err),
		}
	}

	return nil
}
