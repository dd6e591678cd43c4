// Package freeplay is the client for the Freeplay v2 REST API. It covers the
// handful of endpoints the CLI tools need: bulk test-case create/delete,
// project listing, and prompt-template listing.
//
// All outbound calls go through Client.do, which injects authentication and
// correlation headers and maps non-success responses to types.AppError with
// the response body sanitized via the redact package. There are no retries:
// a failed request is reported once and the caller decides whether to
// continue with the next batch.
package freeplay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"freeplayctl/internal/redact"
	"freeplayctl/internal/types"
)

// MaxBatchSize is the largest number of items the bulk endpoints accept in a
// single request. Larger inputs must be chunked by the caller.
const MaxBatchSize = 100

// maxErrorBodyBytes caps how much of an error response body is read for
// diagnostics. Bodies are additionally truncated by redact.Sanitize before
// they reach any output.
const maxErrorBodyBytes = 64 << 10

// defaultTimeout is the fixed per-request timeout when the config does not
// override it.
const defaultTimeout = 30 * time.Second

// ClientConfig holds the configuration for creating a Client.
type ClientConfig struct {
	// APIKey is sent as a bearer token on every request.
	APIKey types.SecretString
	// BaseURL is the API root, e.g. https://api.freeplay.ai.
	// Overridable in tests to point at an httptest server.
	BaseURL string
	// Timeout is the per-request timeout; defaults to 30s.
	Timeout time.Duration
	// UserAgent identifies the tool in vendor-side logs.
	UserAgent string
	Logger    *slog.Logger
}

// Client makes authenticated calls to the Freeplay API. A Client is safe to
// reuse across requests; all fields are set at construction and never change.
type Client struct {
	httpClient *http.Client
	apiKey     types.SecretString
	baseURL    string
	userAgent  string
	requestID  string
	logger     *slog.Logger
}

// NewClient creates a Client. When httpClient is nil, a client with the
// configured (or default) timeout is used. Each Client carries a generated
// run-scoped request ID that is sent as X-Request-Id on every call so a
// failed run can be correlated with vendor-side logs.
func NewClient(httpClient *http.Client, cfg ClientConfig) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "freeplayctl/1.0"
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  userAgent,
		requestID:  uuid.NewString(),
		logger:     logger,
	}
}

// RequestID returns the run-scoped correlation ID sent with every request.
func (c *Client) RequestID() string {
	return c.requestID
}

// do executes one API call. body (when non-nil) is JSON-encoded into the
// request; out (when non-nil) receives the decoded response body on success.
// Any non-2xx status is mapped to a *types.AppError whose message carries the
// status code and the sanitized response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return types.NewAppError(
				types.ErrCodeInternalUnexpected,
				"failed to marshal request payload",
				err,
			)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create API request",
			err,
		)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", c.requestID)
	// The single sanctioned use of the raw key: building the auth header.
	req.Header.Set("Authorization", "Bearer "+c.apiKey.Unmask())

	c.logger.Debug("freeplay API request",
		"method", method,
		"path", path,
		"request_id", c.requestID,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors can echo request detail; sanitize before the
		// text can reach a log line or the console.
		return types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			redact.Sanitize(fmt.Sprintf("request failed: %v", err)),
			nil,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return types.NewAppError(
				types.ErrCodeInternalUnexpected,
				fmt.Sprintf("failed to decode API response (status %d)", resp.StatusCode),
				err,
			)
		}
	}

	return nil
}

// errorFromResponse turns a non-2xx response into an AppError. The response
// body is read with a size cap and passed through redact.Sanitize, so the
// resulting error is safe to print as-is.
func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	message := fmt.Sprintf("freeplay API returned %d", resp.StatusCode)
	if readErr == nil && len(raw) > 0 {
		message = fmt.Sprintf("%s: %s", message, redact.Sanitize(string(raw)))
	}

	c.logger.Warn("freeplay API request failed",
		"status", resp.StatusCode,
		"request_id", c.requestID,
	)

	return types.NewAppErrorWithDetails(
		types.CodeForStatus(resp.StatusCode),
		message,
		nil,
		map[string]any{"status": resp.StatusCode},
	)
}

// decodeList decodes a listing response that the API serves either as a bare
// JSON array or as an object wrapping the array under "data".
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}
