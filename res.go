// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// Res is the uniform response envelope returned by every operation.
//
// Success=true implies Data is populated, except for operations that
// legitimately return no payload (for example DELETE operations).
// Success=false implies Error is non-empty and Data is the zero value.
//
// Example:
//
//	res, err := client.GetInterfaces(ctx)
//	if err != nil {
//	    log.Fatal(res.Error)
//	}
//	fmt.Println(res.Message) // "found 4 interfaces"
type Res[T any] struct {
	// Success indicates whether the operation succeeded
	Success bool `json:"success"`

	// Data contains the typed operation result
	Data T `json:"data,omitempty"`

	// Error contains the error text when Success is false
	Error string `json:"error,omitempty"`

	// Message contains human-readable context (counts, remediation hints)
	Message string `json:"message,omitempty"`

	// Metadata carries optional operation metadata (used endpoint, timing)
	Metadata map[string]any `json:"metadata,omitempty"`
}

// JSON returns the envelope as a JSON string.
// Returns an empty string if marshaling fails.
func (r Res[T]) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(data)
}

// GetValue retrieves a value from the envelope using a gjson path.
//
// Example:
//
//	res, _ := client.GetInterfaces(ctx)
//	name := res.GetValue("data.0.name").String()
func (r Res[T]) GetValue(path string) gjson.Result {
	jsonStr := r.JSON()
	if jsonStr == "" {
		return gjson.Result{}
	}
	return gjson.Get(jsonStr, path)
}

// okRes builds a success envelope with data and a message.
func okRes[T any](data T, message string) Res[T] {
	return Res[T]{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// failRes builds a failure envelope from an error. If the error is an
// OperationError its remediation hint becomes the envelope message.
func failRes[T any](err error) Res[T] {
	res := Res[T]{
		Success: false,
		Error:   err.Error(),
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		res.Error = opErr.Message
		res.Message = opErr.Hint
	}
	return res
}
