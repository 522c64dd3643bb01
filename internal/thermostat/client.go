package thermostat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fetcher defines the interface for reading thermostat state.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchState(ctx context.Context) (*StateResponse, error)
	FetchHistory(ctx context.Context, limit int) ([]HistoryPoint, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Version is reported in the User-Agent header.
var Version = "0.1"

// Client talks to the thermostat dashboard API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL = "127.0.0.1:5000"
	// Attempts are bounded by the retry policy; this only stops leaks.
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// NewClient builds a Client for the API at apiURL (host:port or full URL).
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: "thermo/" + Version,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchState retrieves the current device state.
func (c *Client) FetchState(ctx context.Context) (*StateResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/estado"}
	var payload StateResponse
	status, err := c.doURL(ctx, http.MethodGet, rel, &payload)
	if err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &ApplicationError{Path: rel.Path, Status: status, Message: payload.Error}
	}
	return &payload, nil
}

// FetchHistory retrieves up to limit temperature records, oldest first.
func (c *Client) FetchHistory(ctx context.Context, limit int) ([]HistoryPoint, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if limit > 0 {
		values.Set("limite", strconv.Itoa(limit))
	}
	rel := &url.URL{Path: "/api/historial", RawQuery: values.Encode()}
	var payload HistoryResponse
	status, err := c.doURL(ctx, http.MethodGet, rel, &payload)
	if err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &ApplicationError{Path: rel.Path, Status: status, Message: payload.Error}
	}
	return payload.Points(), nil
}

// failureEnvelope is the body the backend sends with 503 responses.
type failureEnvelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) (int, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return 0, &TransportError{Path: rel.Path, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Path: rel.Path, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &TransportError{Path: rel.Path, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		var env failureEnvelope
		if json.Unmarshal(body, &env) == nil && env.Success != nil && !*env.Success {
			return resp.StatusCode, &ApplicationError{Path: rel.Path, Status: resp.StatusCode, Message: env.Error}
		}
		return resp.StatusCode, &TransportError{Path: rel.Path, Status: resp.StatusCode}
	}
	if dest == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return resp.StatusCode, &TransportError{Path: rel.Path, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp.StatusCode, nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
