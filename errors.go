// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies operation failures
type ErrorKind string

const (
	// ErrKindConnectivity indicates a refused or unreachable transport
	ErrKindConnectivity ErrorKind = "connectivity"

	// ErrKindAuthentication indicates HTTP 401 from the device
	ErrKindAuthentication ErrorKind = "authentication"

	// ErrKindNotFound indicates HTTP 404 or that no endpoint in the
	// fallback list responded, typically because the target firmware
	// uses a different YANG model
	ErrKindNotFound ErrorKind = "not-found"

	// ErrKindShapeMismatch indicates HTTP success with a body that did
	// not contain any recognized field layout (zero parsed records)
	ErrKindShapeMismatch ErrorKind = "shape-mismatch"

	// ErrKindPartial indicates a multi-step write where a later step
	// failed after an earlier step committed
	ErrKindPartial ErrorKind = "partial"
)

// OperationError represents a structured RESTCONF error with operation context
type OperationError struct {
	// Operation name that failed
	Operation string

	// Kind classifies the failure
	Kind ErrorKind

	// Message is the human-readable error message
	Message string

	// Hint contains actionable remediation text (equivalent CLI command,
	// "check username/password")
	Hint string

	// StatusCode is the HTTP status code, 0 for transport-level failures
	StatusCode int

	// Err is the wrapped cause
	Err error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("restconf: %s failed: %s (%s)", e.Operation, e.Message, e.Hint)
	}
	return fmt.Sprintf("restconf: %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped cause
func (e *OperationError) Unwrap() error {
	return e.Err
}

// transportError classifies a transport-level failure (refused, unreachable,
// timeout) into a connectivity OperationError.
func transportError(operation string, err error) *OperationError {
	return &OperationError{
		Operation: operation,
		Kind:      ErrKindConnectivity,
		Message:   fmt.Sprintf("request failed: %s", err.Error()),
		Hint:      "verify the device is reachable and RESTCONF is enabled",
		Err:       err,
	}
}

// statusError classifies a non-2xx HTTP response into an OperationError.
// 401 maps to authentication, 404 to not-found; everything else stays
// unclassified with the status text as the message.
func statusError(operation string, statusCode int, body string) *OperationError {
	e := &OperationError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode)),
	}
	switch statusCode {
	case http.StatusUnauthorized:
		e.Kind = ErrKindAuthentication
		e.Message = "authentication failed"
		e.Hint = "check username/password"
	case http.StatusNotFound:
		e.Kind = ErrKindNotFound
		e.Hint = "the target firmware may use a different YANG model"
	default:
		e.Kind = ErrKindNotFound
		if body != "" {
			e.Message = fmt.Sprintf("HTTP %d: %s", statusCode, truncateForError(body))
		}
	}
	return e
}

// noEndpointError reports that no path in a fallback list responded.
// The per-path errors are intentionally not retained; the caller only needs
// "it worked" or "none worked" plus a remediation hint.
func noEndpointError(operation, cliHint string) *OperationError {
	return &OperationError{
		Operation: operation,
		Kind:      ErrKindNotFound,
		Message:   "no working endpoint found",
		Hint:      cliHint,
	}
}

// noDataError reports that a probe succeeded but the body yielded zero
// recognized records. Distinct from total endpoint failure.
func noDataError(operation, what string) *OperationError {
	return &OperationError{
		Operation: operation,
		Kind:      ErrKindShapeMismatch,
		Message:   fmt.Sprintf("no %s data found in response", what),
		Hint:      "the response body did not match any known field layout",
	}
}

// truncateForError truncates a response body for error messages
func truncateForError(body string) string {
	if len(body) <= 200 {
		return body
	}
	return body[:200] + "..."
}
