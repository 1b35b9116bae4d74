// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"errors"
	"time"

	"github.com/tidwall/gjson"
)

// probeResult holds the first successful response of an endpoint probe
type probeResult struct {
	// Body is the parsed response body
	Body gjson.Result

	// Path is the candidate resource path that responded
	Path string

	// Raw is the raw response body
	Raw []byte
}

// probe attempts each candidate resource path in order via an authenticated
// GET and returns the first response whose transport-level and HTTP-level
// status indicate success, together with the path that worked.
//
// Probing is strictly sequential: an earlier success short-circuits later
// attempts, and most candidates are mutually exclusive on a given firmware,
// so concurrent fan-out would be wasted work. A failed attempt is never
// retried; the prober simply moves to the next candidate.
//
// An HTTP success with an empty or unexpected JSON shape is a success at
// this layer; shape validation belongs to the normalizer. If every path
// fails, the result is a single "no working endpoint" error carrying the
// caller's CLI remediation hint. The individual per-path errors are not
// retained: the caller only needs "it worked" or "none worked". The one
// exception is an authentication failure, which aborts the probe and is
// returned as-is.
func (c *Client) probe(ctx context.Context, operation string, candidates []string, timeout time.Duration, cliHint string) (probeResult, error) {
	if timeout <= 0 {
		timeout = c.RequestTimeout
	}

	for i, path := range candidates {
		if err := checkContextCancellation(ctx); err != nil {
			return probeResult{}, err
		}

		body, err := c.getData(ctx, operation, path, timeout)
		if err != nil {
			var opErr *OperationError
			if errors.As(err, &opErr) && opErr.Kind == ErrKindAuthentication {
				// Rejected credentials fail every candidate the same way,
				// so further probing only obscures the real problem.
				return probeResult{}, err
			}
			c.logger.Debug(ctx, "endpoint probe attempt failed",
				"operation", operation,
				"attempt", i+1,
				"of", len(candidates),
				"path", path,
				"error", err.Error())
			continue
		}

		c.logger.Debug(ctx, "endpoint probe succeeded",
			"operation", operation,
			"path", path,
			"bytes", len(body))

		return probeResult{
			Body: gjson.ParseBytes(body),
			Path: path,
			Raw:  body,
		}, nil
	}

	c.logger.Warn(ctx, "no working endpoint found",
		"operation", operation,
		"candidates", len(candidates))

	return probeResult{}, noEndpointError(operation, cliHint)
}
