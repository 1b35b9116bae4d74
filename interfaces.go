// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"
)

// GetInterfaces retrieves and normalizes all interfaces.
//
// The candidate paths are probed in order; the first firmware model that
// answers wins. A successful probe that yields zero recognized interface
// records fails with a distinct "no interface data found" outcome rather
// than being conflated with total endpoint failure.
//
// Example:
//
//	res, err := client.GetInterfaces(ctx)
//	if err != nil {
//	    log.Fatal(res.Error)
//	}
//	for _, iface := range res.Data {
//	    fmt.Printf("%s admin=%s oper=%s\n", iface.Name, iface.AdminStatus, iface.OperStatus)
//	}
func (c *Client) GetInterfaces(ctx context.Context) (Res[[]Interface], error) {
	const operation = "get interfaces"

	probed, err := c.probe(ctx, operation, interfacePaths, c.RequestTimeout,
		"try 'show interface' on the device CLI")
	if err != nil {
		return failRes[[]Interface](err), err
	}

	interfaces := parseInterfaces(probed.Body)
	if len(interfaces) == 0 {
		err := noDataError(operation, "interface")
		return failRes[[]Interface](err), err
	}

	c.logger.Info(ctx, "interfaces retrieved",
		"count", len(interfaces),
		"endpoint", probed.Path)

	res := okRes(interfaces, fmt.Sprintf("found %d interfaces", len(interfaces)))
	res.Metadata = map[string]any{"endpoint": probed.Path}
	return res, nil
}
