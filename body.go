// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body provides a fluent interface for building yang-data+json request
// bodies using sjson for path-based manipulation.
//
// The Body builder tracks errors internally to enable method chaining
// while providing error checking through String() or Err() methods.
//
// Example:
//
//	body := restconf.Body{}.
//	    Set("prefix-list.0.name", "pbr-lan").
//	    Set("prefix-list.0.rules.rule.0.sequence", 10).
//	    Set("prefix-list.0.rules.rule.0.action", "permit").
//	    Set("prefix-list.0.rules.rule.0.prefix", "10.0.0.0/24")
//
//	value, err := body.String()
//	if err != nil {
//	    log.Fatal(err)
//	}
type Body struct {
	// str contains the JSON string being built
	str string
	// err tracks the first error encountered during building
	err error
}

// Set sets a value at the specified JSON path and returns a new Body
//
// The path uses dot notation for nested fields. The value can be any type
// that sjson supports (string, number, bool, slices, maps).
//
// Once an error occurs, all subsequent operations are no-ops that preserve
// the error.
//
// Returns the Body for method chaining.
func (b Body) Set(path string, value any) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Set(b.str, path, value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// SetRaw sets a raw JSON fragment at the specified path and returns a new Body
//
// This is useful for embedding an already-serialized JSON value without
// re-encoding it.
func (b Body) SetRaw(path, rawJSON string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.SetRaw(b.str, path, rawJSON)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("SetRaw(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// Delete removes a value at the specified JSON path and returns a new Body
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Delete(b.str, path)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// String returns the JSON string representation and any error encountered
// during building.
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns any error that occurred during the building process
func (b Body) Err() error {
	return b.err
}

// Res returns the JSON string for further processing with gjson.
// Returns an empty string if an error occurred during building; use Err()
// or String() to check for errors.
func (b Body) Res() string {
	if b.err != nil {
		return ""
	}
	return b.str
}
