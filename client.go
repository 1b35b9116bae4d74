// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Default client configuration values
const (
	// DefaultRequestTimeout is the per-request timeout for data calls
	DefaultRequestTimeout = 30 * time.Second

	// DefaultProbeTimeout is the shorter per-attempt timeout used for
	// connectivity probes and endpoint fallback attempts
	DefaultProbeTimeout = 5 * time.Second
)

// MediaTypeYangJSON is the RESTCONF media type for request and response bodies
const MediaTypeYangJSON = "application/yang-data+json"

// RESTCONF URL roots (RFC 8040)
const (
	dataRoot       = "/restconf/data/"
	operationsRoot = "/restconf/operations/"
)

// MaxJSONSizeForLogging caps the size of JSON bodies passed through
// redaction before debug logging
const MaxJSONSizeForLogging = 1 * 1024 * 1024

// JSONTooLargeMessage replaces oversized JSON bodies in debug logs
const JSONTooLargeMessage = "[JSON TOO LARGE FOR LOGGING]"

// defaultRedactionPatterns contains regex patterns for redacting sensitive
// data in logged JSON bodies
var defaultRedactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"password"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"secret"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"key"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"community"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"token"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"auth"\s*:\s*"[^"]*"`),
}

// Client represents a RESTCONF client connection to a router
//
// The client holds only immutable configuration; every operation is an
// independent stateless HTTP request/response unit, so a single client is
// safe for concurrent use. Connections are pooled by the underlying HTTP
// transport.
type Client struct {
	// BaseURL is the device base URL (scheme://host[:port])
	BaseURL string

	username string // unexported for security
	password string // unexported for security

	// Insecure disables TLS certificate verification (lab use only)
	Insecure bool

	// RequestTimeout is the per-request timeout for data calls
	RequestTimeout time.Duration

	// ProbeTimeout is the per-attempt timeout for endpoint probing
	ProbeTimeout time.Duration

	httpClient *http.Client

	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewClient creates a new RESTCONF client with the specified base URL and
// options.
//
// No request is issued at construction time; use TestConnection to verify
// reachability explicitly. Configuration is validated immediately and a
// malformed configuration is the only condition under which construction
// fails.
//
// Example:
//
//	client, err := restconf.NewClient(
//	    "https://192.168.1.1",
//	    restconf.Username("admin"),
//	    restconf.Password("secret"),
//	    restconf.Insecure(true), // lab only, logs a security warning
//	)
//	if err != nil {
//	    log.Fatal(err) // configuration error
//	}
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(baseURL string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		BaseURL:           strings.TrimRight(baseURL, "/"),
		RequestTimeout:    DefaultRequestTimeout,
		ProbeTimeout:      DefaultProbeTimeout,
		logger:            &NoOpLogger{},
		redactionPatterns: defaultRedactionPatterns,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	client.httpClient = &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: client.Insecure, //nolint:gosec // opt-in lab mode, warned below
			},
		},
	}

	client.logger.Info(context.Background(), "RESTCONF client created",
		"url", client.BaseURL,
		"requestTimeout", client.RequestTimeout.String(),
		"probeTimeout", client.ProbeTimeout.String())

	return client, nil
}

// validateConfig validates client configuration at construction time
//
// Validates:
//   - Base URL parses with an http/https scheme and a host
//   - Username and password are present (no silent empty credentials)
//   - Timeouts are positive
//
// Returns an error if validation fails.
func (c *Client) validateConfig() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("Invalid URL format: %q (expected http(s)://host[:port])", c.BaseURL)
	}

	if c.username == "" {
		return fmt.Errorf("username is required")
	}
	if c.password == "" {
		return fmt.Errorf("password is required")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.RequestTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got: %v", c.ProbeTimeout)
	}

	if c.Insecure {
		c.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"url", c.BaseURL,
			"security_risk", "Man-in-the-Middle attacks possible",
			"recommendation", "use only in lab environments")
	}

	return nil
}

// dataURL builds the full URL for a data resource path
func (c *Client) dataURL(path string) string {
	return c.BaseURL + dataRoot + path
}

// operationsURL builds the full URL for an RPC operations path
func (c *Client) operationsURL(rpc string) string {
	return c.BaseURL + operationsRoot + rpc
}

// checkContextCancellation returns the context error if the context is
// already canceled or past its deadline.
func checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// doRequest issues a single authenticated HTTP request and returns the
// response body. Transport failures are classified as connectivity errors,
// non-2xx statuses via statusError. There are no retries at this layer.
func (c *Client) doRequest(ctx context.Context, operation, method, rawURL, body string, timeout time.Duration) ([]byte, error) {
	if err := checkContextCancellation(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", operation, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", MediaTypeYangJSON)
	if body != "" {
		req.Header.Set("Content-Type", MediaTypeYangJSON)
	}

	c.logger.Debug(ctx, "RESTCONF request",
		"operation", operation,
		"method", method,
		"url", rawURL)
	if body != "" {
		c.logger.Debug(ctx, "RESTCONF request body",
			"operation", operation,
			"body", c.prepareJSONForLogging(body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "RESTCONF request failed",
			"operation", operation,
			"url", rawURL,
			"error", err.Error())
		return nil, transportError(operation, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(operation, err)
	}

	c.logger.Debug(ctx, "RESTCONF response",
		"operation", operation,
		"status", resp.StatusCode,
		"bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(operation, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// getData issues a GET against a data resource path
func (c *Client) getData(ctx context.Context, operation, path string, timeout time.Duration) ([]byte, error) {
	return c.doRequest(ctx, operation, http.MethodGet, c.dataURL(path), "", timeout)
}

// putData issues a PUT with a yang-data+json body against a data resource path
func (c *Client) putData(ctx context.Context, operation, path, body string) ([]byte, error) {
	return c.doRequest(ctx, operation, http.MethodPut, c.dataURL(path), body, c.RequestTimeout)
}

// deleteData issues a DELETE against a data resource path
func (c *Client) deleteData(ctx context.Context, operation, path string) error {
	_, err := c.doRequest(ctx, operation, http.MethodDelete, c.dataURL(path), "", c.RequestTimeout)
	return err
}

// postOperation issues a POST against an RPC operations path
func (c *Client) postOperation(ctx context.Context, operation, rpc, body string) ([]byte, error) {
	return c.doRequest(ctx, operation, http.MethodPost, c.operationsURL(rpc), body, c.RequestTimeout)
}

// prepareJSONForLogging redacts sensitive data and optionally pretty-prints
// JSON bodies before they reach debug logs. Oversized bodies are replaced
// entirely to keep regex redaction bounded.
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	redacted := jsonStr
	for _, pattern := range c.redactionPatterns {
		redacted = pattern.ReplaceAllString(redacted, `"[REDACTED]"`)
	}

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
	}

	return redacted
}

// ConnectionInfo describes the outcome of a connectivity test
type ConnectionInfo struct {
	// Reachable indicates the device answered a probe
	Reachable bool `json:"reachable"`

	// Endpoint is the resource path that responded
	Endpoint string `json:"endpoint,omitempty"`

	// URL is the device base URL that was tested
	URL string `json:"url"`
}

// TestConnection verifies connectivity by probing the interface path list
// with the shorter probe timeout.
//
// Example:
//
//	res, err := client.TestConnection(ctx)
//	if err != nil {
//	    log.Fatal(res.Error)
//	}
//	fmt.Println("reachable via", res.Data.Endpoint)
func (c *Client) TestConnection(ctx context.Context) (Res[ConnectionInfo], error) {
	const operation = "test connection"

	probed, err := c.probe(ctx, operation, interfacePaths, c.ProbeTimeout, "try 'show interface' on the device CLI")
	if err != nil {
		return failRes[ConnectionInfo](err), err
	}

	info := ConnectionInfo{
		Reachable: true,
		Endpoint:  probed.Path,
		URL:       c.BaseURL,
	}
	res := okRes(info, "RESTCONF endpoint reachable")
	res.Metadata = map[string]any{"endpoint": probed.Path}
	return res, nil
}
