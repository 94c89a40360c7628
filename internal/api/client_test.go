package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		reqBody, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(reqBody, &req); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		if req["type"] != "userFills" {
			t.Errorf("request type = %q, want userFills", req["type"])
		}
		if req["user"] == "" {
			t.Errorf("request user is empty")
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUserFillsList(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[
		{"time": 1706000000000, "coin": "ETH", "side": "B", "px": "2250.5", "sz": "0.5", "fee": "0.12", "closedPnl": "0"},
		{"time": 1706000060000, "coin": "ETH", "side": "A", "px": "2251", "sz": "0.5", "fee": "0.12", "closedPnl": "12.5"}
	]`)

	fills, err := NewClient(srv.URL).UserFills(context.Background(), "0xabc12345")
	if err != nil {
		t.Fatalf("UserFills() error = %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}

	ts, ok := fills[0].TimestampMillis()
	if !ok || ts != 1706000000000 {
		t.Errorf("first fill timestamp = (%d, %v), want (1706000000000, true)", ts, ok)
	}
	if coin, _ := fills[1]["coin"].(string); coin != "ETH" {
		t.Errorf("second fill coin = %q, want ETH", coin)
	}
}

func TestUserFillsEmptyList(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[]`)

	fills, err := NewClient(srv.URL).UserFills(context.Background(), "0xabc12345")
	if err != nil {
		t.Fatalf("UserFills() error = %v", err)
	}
	if fills == nil || len(fills) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", fills)
	}
}

func TestUserFillsAPIError(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"error": "invalid user"}`)

	_, err := NewClient(srv.URL).UserFills(context.Background(), "0xabc12345")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Message != "invalid user" {
		t.Errorf("message = %q, want upstream message verbatim", apiErr.Message)
	}
}

func TestUserFillsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"number", `42`},
		{"string", `"hello"`},
		{"object without error", `{"fills": []}`},
		{"object with empty error", `{"error": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.body)

			_, err := NewClient(srv.URL).UserFills(context.Background(), "0xabc12345")
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestUserFillsBadStatus(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `oops`)

	_, err := NewClient(srv.URL).UserFills(context.Background(), "0xabc12345")
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("HTTP 500 must not classify as malformed: %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q should mention the status code", err)
	}
}

func TestUserFillsBodyParseFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{not json`)

	_, err := NewClient(srv.URL).UserFills(context.Background(), "0xabc12345")
	if err == nil {
		t.Fatal("expected error for unparseable body")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("parse failure is a transport-level error, not malformed shape: %v", err)
	}
}

func TestUserFillsConnectionRefused(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).UserFills(context.Background(), "0xabc12345")
	if err == nil {
		t.Fatal("expected error when server is down")
	}
}
