// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient starts an httptest server with the given handler and
// returns a client pointed at it.
func newTestClient(t *testing.T, handler http.Handler, opts ...func(*Client)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]func(*Client){Username("admin"), Password("secret")}, opts...)
	client, err := NewClient(server.URL, opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

// TestNewClientValidation tests client configuration validation
func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		opts        []func(*Client)
		wantErrMsg  string
		description string
	}{
		{
			name:        "missing scheme",
			baseURL:     "invalid-url",
			opts:        []func(*Client){Username("admin"), Password("secret")},
			wantErrMsg:  "Invalid URL format",
			description: "URL without scheme should fail validation",
		},
		{
			name:        "unsupported scheme",
			baseURL:     "ftp://192.168.1.1",
			opts:        []func(*Client){Username("admin"), Password("secret")},
			wantErrMsg:  "Invalid URL format",
			description: "Non-http(s) scheme should fail validation",
		},
		{
			name:        "empty URL",
			baseURL:     "",
			opts:        []func(*Client){Username("admin"), Password("secret")},
			wantErrMsg:  "Invalid URL format",
			description: "Empty URL should fail validation",
		},
		{
			name:        "missing username",
			baseURL:     "https://192.168.1.1",
			opts:        []func(*Client){Password("secret")},
			wantErrMsg:  "username is required",
			description: "Empty username should fail validation",
		},
		{
			name:        "missing password",
			baseURL:     "https://192.168.1.1",
			opts:        []func(*Client){Username("admin")},
			wantErrMsg:  "password is required",
			description: "Empty password should fail validation",
		},
		{
			name:    "negative request timeout",
			baseURL: "https://192.168.1.1",
			opts: []func(*Client){
				Username("admin"), Password("secret"), RequestTimeout(-1 * time.Second),
			},
			wantErrMsg:  "request timeout must be positive",
			description: "Negative request timeout should fail validation",
		},
		{
			name:    "zero probe timeout",
			baseURL: "https://192.168.1.1",
			opts: []func(*Client){
				Username("admin"), Password("secret"), ProbeTimeout(0),
			},
			wantErrMsg:  "probe timeout must be positive",
			description: "Zero probe timeout should fail validation",
		},
		{
			name:        "valid https",
			baseURL:     "https://192.168.1.1",
			opts:        []func(*Client){Username("admin"), Password("secret")},
			wantErrMsg:  "",
			description: "Valid https URL with credentials should pass",
		},
		{
			name:        "valid http with port",
			baseURL:     "http://192.168.1.1:8080",
			opts:        []func(*Client){Username("admin"), Password("secret")},
			wantErrMsg:  "",
			description: "Valid http URL with port should pass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.opts...)

			if tt.wantErrMsg == "" {
				if err != nil {
					t.Errorf("NewClient() error = %v, want nil (%s)", err, tt.description)
				}
				if client == nil {
					t.Errorf("NewClient() = nil, want client (%s)", tt.description)
				}
				return
			}

			if err == nil {
				t.Fatalf("NewClient() error = nil, want %q (%s)", tt.wantErrMsg, tt.description)
			}
			if !strings.Contains(err.Error(), tt.wantErrMsg) {
				t.Errorf("NewClient() error = %q, want it to contain %q", err.Error(), tt.wantErrMsg)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("https://192.168.1.1", Username("admin"), Password("secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", client.RequestTimeout, DefaultRequestTimeout)
	}
	if client.ProbeTimeout != DefaultProbeTimeout {
		t.Errorf("ProbeTimeout = %v, want %v", client.ProbeTimeout, DefaultProbeTimeout)
	}
	if client.Insecure {
		t.Error("Insecure = true, want strict TLS verification by default")
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("https://192.168.1.1/", Username("admin"), Password("secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.BaseURL != "https://192.168.1.1" {
		t.Errorf("BaseURL = %q, want trailing slash removed", client.BaseURL)
	}
	if got := client.dataURL("interfaces"); got != "https://192.168.1.1/restconf/data/interfaces" {
		t.Errorf("dataURL() = %q", got)
	}
	if got := client.operationsURL("router:bgp-show"); got != "https://192.168.1.1/restconf/operations/router:bgp-show" {
		t.Errorf("operationsURL() = %q", got)
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotAuthUser, gotAuthPass string
	var gotAuthOK bool
	var gotAccept, gotContentType string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, gotAuthPass, gotAuthOK = r.BasicAuth()
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))

	if _, err := client.putData(context.Background(), "test op", "interfaces", `{"a":1}`); err != nil {
		t.Fatalf("putData() error = %v", err)
	}

	if !gotAuthOK || gotAuthUser != "admin" || gotAuthPass != "secret" {
		t.Errorf("BasicAuth = (%q, %q, %v), want (admin, secret, true)", gotAuthUser, gotAuthPass, gotAuthOK)
	}
	if gotAccept != MediaTypeYangJSON {
		t.Errorf("Accept = %q, want %q", gotAccept, MediaTypeYangJSON)
	}
	if gotContentType != MediaTypeYangJSON {
		t.Errorf("Content-Type = %q, want %q", gotContentType, MediaTypeYangJSON)
	}
}

func TestAuthenticationFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	res, err := client.GetInterfaces(context.Background())
	if err == nil {
		t.Fatal("GetInterfaces() error = nil, want authentication error")
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error type = %T, want *OperationError", err)
	}
	if opErr.Kind != ErrKindAuthentication {
		t.Errorf("Kind = %q, want %q", opErr.Kind, ErrKindAuthentication)
	}
	if opErr.Hint != "check username/password" {
		t.Errorf("Hint = %q, want credential hint", opErr.Hint)
	}

	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.Error != "authentication failed" {
		t.Errorf("Error = %q, want %q", res.Error, "authentication failed")
	}
	if res.Message != "check username/password" {
		t.Errorf("Message = %q, want the remediation hint", res.Message)
	}
}

func TestConnectivityFailure(t *testing.T) {
	// Point at a closed port; the listener is shut down immediately
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url,
		Username("admin"), Password("secret"), ProbeTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.TestConnection(context.Background())
	if err == nil {
		t.Fatal("TestConnection() error = nil, want connectivity error")
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error type = %T, want *OperationError", err)
	}
	// Every probe attempt fails at the transport level; the collapsed
	// result is the endpoint-exhaustion error
	if opErr.Kind != ErrKindNotFound {
		t.Errorf("Kind = %q, want %q", opErr.Kind, ErrKindNotFound)
	}
}

func TestTestConnection(t *testing.T) {
	var requested []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))

	res, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("TestConnection() error = %v", err)
	}

	if !res.Success {
		t.Error("Success = false, want true")
	}
	if !res.Data.Reachable {
		t.Error("Reachable = false, want true")
	}
	if res.Data.Endpoint != interfacePaths[0] {
		t.Errorf("Endpoint = %q, want %q", res.Data.Endpoint, interfacePaths[0])
	}
	if res.Metadata["endpoint"] != interfacePaths[0] {
		t.Errorf("Metadata[endpoint] = %v, want %q", res.Metadata["endpoint"], interfacePaths[0])
	}
	if len(requested) != 1 {
		t.Errorf("requests = %d, want 1 (first candidate answered)", len(requested))
	}
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetInterfaces(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestPrepareJSONForLogging(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantContains string
		wantAbsent   string
	}{
		{
			name:         "password redacted",
			input:        `{"username":"admin","password":"hunter2"}`,
			wantContains: `"password":"[REDACTED]"`,
			wantAbsent:   "hunter2",
		},
		{
			name:         "secret redacted",
			input:        `{"secret": "topsecret"}`,
			wantContains: `[REDACTED]`,
			wantAbsent:   "topsecret",
		},
		{
			name:         "token redacted",
			input:        `{"token":"abc123"}`,
			wantContains: `[REDACTED]`,
			wantAbsent:   "abc123",
		},
		{
			name:         "community redacted",
			input:        `{"community":"public"}`,
			wantContains: `[REDACTED]`,
			wantAbsent:   "public",
		},
		{
			name:         "plain data untouched",
			input:        `{"name":"eth0"}`,
			wantContains: `{"name":"eth0"}`,
		},
	}

	client, err := NewClient("https://192.168.1.1", Username("admin"), Password("secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.prepareJSONForLogging(tt.input)
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("prepareJSONForLogging() = %q, want it to contain %q", got, tt.wantContains)
			}
			if tt.wantAbsent != "" && strings.Contains(got, tt.wantAbsent) {
				t.Errorf("prepareJSONForLogging() = %q, must not contain %q", got, tt.wantAbsent)
			}
		})
	}
}

func TestPrepareJSONForLoggingOversized(t *testing.T) {
	client, err := NewClient("https://192.168.1.1", Username("admin"), Password("secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	huge := `{"payload":"` + strings.Repeat("x", MaxJSONSizeForLogging) + `"}`
	if got := client.prepareJSONForLogging(huge); got != JSONTooLargeMessage {
		t.Errorf("prepareJSONForLogging() = %.40q..., want %q", got, JSONTooLargeMessage)
	}
}

func TestPrepareJSONForLoggingPrettyPrint(t *testing.T) {
	client, err := NewClient("https://192.168.1.1",
		Username("admin"), Password("secret"), WithPrettyPrintLogs(true))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	got := client.prepareJSONForLogging(`{"a":{"b":1}}`)
	if !strings.Contains(got, "\n") {
		t.Errorf("prepareJSONForLogging() = %q, want indented output", got)
	}
}

func TestClientConcurrentUse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"interface":[{"name":"eth0","oper-status":"up"}]}`)) //nolint:errcheck
	}))

	const workers = 8
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := client.GetInterfaces(context.Background())
			errs <- err
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-errs; err != nil {
			t.Errorf("concurrent GetInterfaces() error = %v", err)
		}
	}
}
