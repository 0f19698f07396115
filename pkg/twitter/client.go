package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"twsearch/pkg/config"
	errs "twsearch/pkg/errors"
	"twsearch/pkg/logger"
)

// maxLoggedBody caps how much of an error body ends up in the log
const maxLoggedBody = 2048

// Result is the outcome of one request that reached the API.
// Page is never nil. Err is set when the API reported a failure; Page then
// holds whatever the error body carried, usually only "errors".
type Result struct {
	Page       *PageResponse
	StatusCode int
	Err        *errs.Error
}

// Client issues authenticated requests against the archive endpoints
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	template   string
	logger     logger.Logger
}

// NewClient creates a client from API configuration. The bearer token is
// sent as given; an empty token is not rejected here, the API answers 401.
func NewClient(cfg *config.APIConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	template := cfg.EndpointTemplate
	if template == "" {
		template = config.DefaultEndpointTemplate
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers: map[string]string{
			"Authorization": "Bearer " + cfg.BearerToken,
			"Accept":        "application/json",
		},
		template: template,
		logger:   log,
	}
	if cfg.UserAgent != "" {
		c.headers["User-Agent"] = cfg.UserAgent
	}
	c.SetHeaders(cfg.ExtraHeaders)

	return c
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHeaders sets multiple headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// Fetch performs exactly one GET against op. It never retries and never
// sleeps. A returned error means no response was obtained and is fatal;
// API failures are reported through Result.Err instead.
func (c *Client) Fetch(ctx context.Context, op Operation, params map[string]any) (*Result, error) {
	endpoint, err := EndpointURL(c.template, op, params)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeUnknown, "failed to build request URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"operation": string(op),
		"url":       endpoint,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"operation": string(op),
			"error":     err.Error(),
			"duration":  duration,
		})
		return nil, errs.New(errs.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), err)
	}

	logger.LogRequest(c.logger, req.Method, endpoint, resp.StatusCode, float64(duration.Milliseconds()))

	result := &Result{Page: &PageResponse{}, StatusCode: resp.StatusCode}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.ErrorWithFields(fmt.Sprintf("%d: %s", resp.StatusCode, truncate(body, maxLoggedBody)), map[string]interface{}{
			"operation":   string(op),
			"status_code": resp.StatusCode,
		})
		result.Err = errs.FromStatus(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if len(body) == 0 {
		return result, nil
	}

	if err := json.Unmarshal(body, result.Page); err != nil {
		result.Page = &PageResponse{}
		if result.Err == nil {
			result.Err = errs.New(errs.ErrorTypeParsing, fmt.Sprintf("failed to decode response: %v", err), err)
			result.Err.Code = resp.StatusCode
		}
		c.logger.WithError(err).WarnWithFields("undecodable response body", map[string]interface{}{
			"operation":   string(op),
			"status_code": resp.StatusCode,
		})
	}

	return result, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
