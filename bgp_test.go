// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestBuildBgpShowBody(t *testing.T) {
	tests := []struct {
		name       string
		input      BgpShowInput
		wantFields map[string]string
		wantAbsent []string
	}{
		{
			name:       "request only",
			input:      BgpShowInput{Request: "summary"},
			wantFields: map[string]string{"input.request": "summary"},
			wantAbsent: []string{"input.param", "input.peer", "input.family", "input.net", "input.param2", "input.vrf-id"},
		},
		{
			name:  "all fields set",
			input: BgpShowInput{Request: "neighbors", Param: "detail", Peer: "10.0.0.1", Family: "ipv4", Net: "10.0.0.0/8", Param2: "x", VrfID: "blue"},
			wantFields: map[string]string{
				"input.request": "neighbors",
				"input.param":   "detail",
				"input.peer":    "10.0.0.1",
				"input.family":  "ipv4",
				"input.net":     "10.0.0.0/8",
				"input.param2":  "x",
				"input.vrf-id":  "blue",
			},
		},
		{
			name:       "partial fields",
			input:      BgpShowInput{Request: "routes", Family: "ipv4"},
			wantFields: map[string]string{"input.request": "routes", "input.family": "ipv4"},
			wantAbsent: []string{"input.peer", "input.net", "input.vrf-id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := buildBgpShowBody(tt.input)
			if err != nil {
				t.Fatalf("buildBgpShowBody() error = %v", err)
			}

			for path, want := range tt.wantFields {
				if got := gjson.Get(body, path).String(); got != want {
					t.Errorf("%s = %q, want %q", path, got, want)
				}
			}
			for _, path := range tt.wantAbsent {
				if gjson.Get(body, path).Exists() {
					t.Errorf("%s present, want unset fields off the wire", path)
				}
			}
		})
	}
}

func TestBgpShow(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Write([]byte(`{"router:output":{"standard-output":"BGP router identifier 10.0.0.1"}}`)) //nolint:errcheck
	}))

	res, err := client.BgpShow(context.Background(), BgpShowInput{Request: "summary"})
	if err != nil {
		t.Fatalf("BgpShow() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST (RPC, not data)", gotMethod)
	}
	if gotPath != operationsRoot+bgpShowRPC {
		t.Errorf("path = %q, want the operations root", gotPath)
	}
	if got := gjson.Get(gotBody, "input.request").String(); got != "summary" {
		t.Errorf("body request = %q", got)
	}

	if !res.Success {
		t.Error("Success = false, want true")
	}
	if !strings.Contains(res.Data.Output, "BGP router identifier") {
		t.Errorf("Output = %q", res.Data.Output)
	}
}

func TestBgpShowOutputShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "namespaced output", body: `{"router:output":{"standard-output":"text"}}`},
		{name: "bare output wrapper", body: `{"output":{"standard-output":"text"}}`},
		{name: "flat standard-output", body: `{"standard-output":"text"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))

			res, err := client.BgpShow(context.Background(), BgpShowInput{Request: "summary"})
			if err != nil {
				t.Fatalf("BgpShow() error = %v", err)
			}
			if res.Data.Output != "text" {
				t.Errorf("Output = %q, want text", res.Data.Output)
			}
		})
	}
}

func TestBgpShowEmptyOutput(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))

	_, err := client.BgpShow(context.Background(), BgpShowInput{Request: "summary"})
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %v, want *OperationError", err)
	}
	if opErr.Kind != ErrKindShapeMismatch {
		t.Errorf("Kind = %q, want %q", opErr.Kind, ErrKindShapeMismatch)
	}
}

func TestBgpShowEmptyRequest(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	res, err := client.BgpShow(context.Background(), BgpShowInput{})
	if err == nil || !strings.Contains(err.Error(), "request cannot be empty") {
		t.Fatalf("error = %v, want request validation", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
}
