// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import "time"

// Client configuration options using the functional options pattern

// Username sets the username for HTTP Basic authentication
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the password for HTTP Basic authentication
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// Insecure enables or disables skipping TLS certificate verification
// (default: false, verification is strict)
//
// WARNING: Skipping verification makes the connection vulnerable to
// Man-in-the-Middle attacks. Only use this in isolated lab environments
// where security is not a concern. Enabling it logs a security warning.
//
// Example:
//
//	client, _ := restconf.NewClient("https://192.168.1.1",
//	    restconf.Username("admin"),
//	    restconf.Password("secret"),
//	    restconf.Insecure(true)) // lab only
func Insecure(skip bool) func(*Client) {
	return func(c *Client) {
		c.Insecure = skip
	}
}

// RequestTimeout sets the per-request timeout for data calls (default: 30s)
func RequestTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.RequestTimeout = duration
	}
}

// ProbeTimeout sets the per-attempt timeout used during endpoint fallback
// probing and connectivity tests (default: 5s)
func ProbeTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.ProbeTimeout = duration
	}
}

// WithLogger configures a custom logger for the client
//
// By default the client uses NoOpLogger which discards all log messages.
// JSON bodies logged at Debug level are redacted to remove sensitive data
// (passwords, secrets, keys, tokens).
//
// Example:
//
//	logger := restconf.NewDefaultLogger(restconf.LogLevelInfo)
//	client, _ := restconf.NewClient("https://192.168.1.1",
//	    restconf.Username("admin"),
//	    restconf.Password("secret"),
//	    restconf.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in debug logs
//
// Default: disabled (false)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}
