package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Karan545/hyperliquid-pnl-tracker/internal/models"
)

const (
	defaultBaseURL = "https://api.hyperliquid.xyz/info"
	requestTimeout = 30 * time.Second
	requestDelay   = 200 * time.Millisecond
)

// APIError is a structured rejection from the info endpoint, e.g. an
// unknown wallet address. The upstream message is preserved verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s", e.Message)
}

// ErrMalformedResponse signals a contract violation from the upstream
// API: the response parsed as JSON but is neither a fill list nor an
// error object.
var ErrMalformedResponse = errors.New("upstream returned neither a fill list nor an error object")

// Client is the Hyperliquid info API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the info endpoint. An empty baseURL
// selects the production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: "hlpnl-cli (https://github.com/Karan545/hyperliquid-pnl-tracker)",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(requestDelay), 1),
	}
}

type fillsRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// UserFills fetches the full fill history for a wallet in a single
// request. The endpoint is unpaginated and unauthenticated. No retries
// are attempted; callers needing resilience must wrap this method.
func (c *Client) UserFills(ctx context.Context, wallet string) ([]models.RawFill, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fillsRequest{Type: "userFills", User: wallet})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return classifyResponse(body)
}

// classifyResponse sorts the response body into one of three shapes:
// a fill list, an error object, or anything else (malformed).
func classifyResponse(body []byte) ([]models.RawFill, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	switch v := payload.(type) {
	case []any:
		fills := make([]models.RawFill, 0, len(v))
		for _, item := range v {
			// Non-object entries become empty records and are later
			// dropped by the window filter for lack of a timestamp.
			m, _ := item.(map[string]any)
			fills = append(fills, models.RawFill(m))
		}
		return fills, nil
	case map[string]any:
		if msg := errorMessage(v); msg != "" {
			return nil, &APIError{Message: msg}
		}
		return nil, ErrMalformedResponse
	default:
		return nil, ErrMalformedResponse
	}
}

func errorMessage(obj map[string]any) string {
	switch m := obj["error"].(type) {
	case string:
		return m
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", m)
	}
}
