// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestProbeFirstSuccessWins(t *testing.T) {
	candidates := []string{"model-a:interfaces", "model-b:interfaces", "interfaces"}

	var requested []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, dataRoot)
		requested = append(requested, path)
		if path == "model-b:interfaces" {
			w.Write([]byte(`{"interface":[{"name":"eth0"}]}`)) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	probed, err := client.probe(context.Background(), "test op", candidates, client.RequestTimeout, "hint")
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}

	if probed.Path != "model-b:interfaces" {
		t.Errorf("Path = %q, want the second candidate", probed.Path)
	}
	if got := probed.Body.Get("interface.0.name").String(); got != "eth0" {
		t.Errorf("Body interface name = %q, want eth0", got)
	}

	want := []string{"model-a:interfaces", "model-b:interfaces"}
	if len(requested) != len(want) {
		t.Fatalf("requests = %v, want %v (no attempt past the first success)", requested, want)
	}
	for i := range want {
		if requested[i] != want[i] {
			t.Errorf("request[%d] = %q, want %q", i, requested[i], want[i])
		}
	}
}

func TestProbeAllCandidatesFail(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))

	candidates := []string{"a", "b", "c"}
	_, err := client.probe(context.Background(), "test op", candidates, client.RequestTimeout,
		"try 'show interface' on the device CLI")
	if err == nil {
		t.Fatal("probe() error = nil, want endpoint exhaustion error")
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error type = %T, want *OperationError", err)
	}
	if opErr.Kind != ErrKindNotFound {
		t.Errorf("Kind = %q, want %q", opErr.Kind, ErrKindNotFound)
	}
	if opErr.Message != "no working endpoint found" {
		t.Errorf("Message = %q", opErr.Message)
	}
	if opErr.Hint != "try 'show interface' on the device CLI" {
		t.Errorf("Hint = %q, want the CLI remediation hint", opErr.Hint)
	}
	if requests != len(candidates) {
		t.Errorf("requests = %d, want %d (every candidate attempted)", requests, len(candidates))
	}
}

func TestProbeNoRetries(t *testing.T) {
	perPath := map[string]int{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		perPath[r.URL.Path]++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.probe(context.Background(), "test op", []string{"a", "b"}, client.RequestTimeout, "hint")
	if err == nil {
		t.Fatal("probe() error = nil, want failure")
	}

	for path, n := range perPath {
		if n != 1 {
			t.Errorf("path %q attempted %d times, want exactly 1", path, n)
		}
	}
}

func TestProbeAuthShortCircuit(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.probe(context.Background(), "test op", []string{"a", "b", "c"}, client.RequestTimeout, "hint")

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %v, want *OperationError", err)
	}
	if opErr.Kind != ErrKindAuthentication {
		t.Errorf("Kind = %q, want %q", opErr.Kind, ErrKindAuthentication)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (rejected credentials abort the probe)", requests)
	}
}

func TestProbeEmptyBodyIsSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))

	probed, err := client.probe(context.Background(), "test op", []string{"a"}, client.RequestTimeout, "hint")
	if err != nil {
		t.Fatalf("probe() error = %v, shape validation does not belong to the prober", err)
	}
	if probed.Path != "a" {
		t.Errorf("Path = %q, want a", probed.Path)
	}
}
