// Package client is a small SDK for the plazos REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

const apiPrefix = "/api/v1"

// Client talks to a running plazos API server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// APIError is an error response decoded from the server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plazos: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *APIError) IsBadRequest() bool { return e.StatusCode == http.StatusBadRequest }

func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode < 600 }

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetryMax sets the maximum number of retries for server errors.
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		if retryMax >= 0 {
			c.retryMax = retryMax
		}
	}
}

// WithUserAgent sets a custom User-Agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("plazos: baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("plazos: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("plazos: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    "plazos-go-client/" + Version,
		retryMax:     2,
		retryWaitMin: 200 * time.Millisecond,
		retryWaitMax: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CalculateRequest mirrors the server's calculation request body.
type CalculateRequest struct {
	DocumentType     string `json:"document_type"`
	NotificationDate string `json:"notification_date"`
}

// Deadline is one computed deadline.
type Deadline struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	Due           string `json:"due"`
	DueLong       string `json:"due_long"`
	RemainingDays int    `json:"remaining_days"`
	Severity      string `json:"severity"`
	Status        string `json:"status"`
}

// LegalLinks points at public legal databases pre-filled for the procedure.
type LegalLinks struct {
	BOE      string `json:"boe"`
	CENDOJ   string `json:"cendoj"`
	AEAT     string `json:"aeat"`
	Tributos string `json:"tributos"`
}

// CalculateResult is the full deadline set for one notification.
type CalculateResult struct {
	DocumentType     string     `json:"document_type"`
	Label            string     `json:"label"`
	NotificationDate string     `json:"notification_date"`
	Deadlines        []Deadline `json:"deadlines"`
	Notice           string     `json:"notice,omitempty"`
	LegalLinks       LegalLinks `json:"legal_links"`
}

// Alert is one urgency-graded deadline.
type Alert struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	Due           string `json:"due"`
	RemainingDays int    `json:"remaining_days"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
}

// AlertsResult lists alerts most urgent first.
type AlertsResult struct {
	DocumentType string  `json:"document_type"`
	Alerts       []Alert `json:"alerts"`
	Notice       string  `json:"notice,omitempty"`
}

// HolidaysResult lists the holidays known for one year.
type HolidaysResult struct {
	Year     int      `json:"year"`
	Holidays []string `json:"holidays"`
}

// Calculate computes the deadline set for a notified document.
func (c *Client) Calculate(ctx context.Context, req *CalculateRequest) (*CalculateResult, error) {
	var res CalculateResult
	if err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/plazos", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Alerts grades the deadlines of a notified document by urgency.
func (c *Client) Alerts(ctx context.Context, req *CalculateRequest) (*AlertsResult, error) {
	var res AlertsResult
	if err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/plazos/alertas", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Holidays lists the holidays known for a year.
func (c *Client) Holidays(ctx context.Context, year int) (*HolidaysResult, error) {
	var res HolidaysResult
	path := apiPrefix + "/festivos/" + strconv.Itoa(year)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Procedures lists the recognized document types.
func (c *Client) Procedures(ctx context.Context) ([]string, error) {
	var res struct {
		Procedures []string `json:"procedures"`
	}
	if err := c.doJSON(ctx, http.MethodGet, apiPrefix+"/procedimientos", nil, &res); err != nil {
		return nil, err
	}
	return res.Procedures, nil
}

// ExportICal fetches the deadline set as an iCalendar document.
func (c *Client) ExportICal(ctx context.Context, req *CalculateRequest) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodPost, apiPrefix+"/plazos/ical", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

// doJSON performs a request and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// do performs the HTTP request, retrying server errors with jittered backoff.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("plazos: encoding request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt)):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 && attempt < c.retryMax {
			resp.Body.Close()
			lastErr = fmt.Errorf("plazos: server error HTTP %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

func (c *Client) backoff(attempt int) time.Duration {
	wait := c.retryWaitMin << uint(attempt-1)
	if wait > c.retryWaitMax {
		wait = c.retryWaitMax
	}
	// Spread retries out so concurrent callers do not align.
	return wait + time.Duration(rand.Int63n(int64(wait)/2+1))
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(data, apiErr) == nil && apiErr.Code != "" {
		return apiErr
	}
	apiErr.Code = "HTTP_" + strconv.Itoa(resp.StatusCode)
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
