// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// BgpShowInput is the structured input of the BGP introspection RPC. Only
// Request is mandatory; unset optional fields are omitted from the wire.
type BgpShowInput struct {
	// Request is the show request name ("summary", "neighbors", ...)
	Request string `json:"request"`

	Param  string `json:"param,omitempty"`
	Peer   string `json:"peer,omitempty"`
	Family string `json:"family,omitempty"`
	Net    string `json:"net,omitempty"`
	Param2 string `json:"param2,omitempty"`
	VrfID  string `json:"vrf-id,omitempty"`
}

// BgpShowOutput carries the RPC's free-text standard output
type BgpShowOutput struct {
	// Output is the raw CLI-style text returned by the device
	Output string `json:"output"`
}

// bgpOutputField locates the free-text output in the RPC reply
var bgpOutputField = syn{
	"output.standard-output",
	"router:output.standard-output",
	"standard-output",
	"output",
}

// buildBgpShowBody serializes the RPC input, including only set fields
func buildBgpShowBody(input BgpShowInput) (string, error) {
	body := Body{}.Set("input.request", input.Request)
	for path, value := range map[string]string{
		"input.param":  input.Param,
		"input.peer":   input.Peer,
		"input.family": input.Family,
		"input.net":    input.Net,
		"input.param2": input.Param2,
		"input.vrf-id": input.VrfID,
	} {
		if value != "" {
			body = body.Set(path, value)
		}
	}
	return body.String()
}

// BgpShow issues a BGP show request against the RPC-style operations
// endpoint and returns the device's free-text standard output.
//
// Example:
//
//	res, err := client.BgpShow(ctx, restconf.BgpShowInput{Request: "summary"})
//	if err != nil {
//	    log.Fatal(res.Error)
//	}
//	fmt.Println(res.Data.Output)
func (c *Client) BgpShow(ctx context.Context, input BgpShowInput) (Res[BgpShowOutput], error) {
	const operation = "bgp show"

	if input.Request == "" {
		err := fmt.Errorf("%s: request cannot be empty", operation)
		return failRes[BgpShowOutput](err), err
	}

	body, err := buildBgpShowBody(input)
	if err != nil {
		err = fmt.Errorf("%s: failed to build body: %w", operation, err)
		return failRes[BgpShowOutput](err), err
	}

	respBody, err := c.postOperation(ctx, operation, bgpShowRPC, body)
	if err != nil {
		return failRes[BgpShowOutput](err), err
	}

	output := bgpOutputField.str(gjson.ParseBytes(respBody), "")
	if output == "" {
		err := noDataError(operation, "bgp")
		return failRes[BgpShowOutput](err), err
	}

	c.logger.Info(ctx, "bgp show completed",
		"request", input.Request,
		"bytes", len(output))

	return okRes(BgpShowOutput{Output: output}, fmt.Sprintf("bgp %s output retrieved", input.Request)), nil
}
