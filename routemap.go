// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"
)

// routeMapCLIHint is the remediation hint for failed route-map probes
const routeMapCLIHint = "try 'show route-map' on the device CLI"

// GetRouteMaps retrieves and normalizes all route-maps.
func (c *Client) GetRouteMaps(ctx context.Context) (Res[[]RouteMap], error) {
	const operation = "get route-maps"

	probed, err := c.probe(ctx, operation, routeMapCandidates, c.RequestTimeout, routeMapCLIHint)
	if err != nil {
		return failRes[[]RouteMap](err), err
	}

	maps := parseRouteMaps(probed.Body)
	if len(maps) == 0 {
		err := noDataError(operation, "route-map")
		return failRes[[]RouteMap](err), err
	}

	res := okRes(maps, fmt.Sprintf("found %d route-maps", len(maps)))
	res.Metadata = map[string]any{"endpoint": probed.Path}
	return res, nil
}

// buildRouteMapBody serializes a route-map into its PUT payload
func buildRouteMapBody(rm RouteMap) (string, error) {
	body := Body{}.Set("route-map.0.name", rm.Name)
	if rm.Description != "" {
		body = body.Set("route-map.0.description", rm.Description)
	}
	for i, rule := range rm.Rules {
		base := fmt.Sprintf("route-map.0.rules.rule.%d.", i)
		body = body.
			Set(base+"sequence", rule.Sequence).
			Set(base+"policy", rule.Policy)
		if rule.Match != "" {
			body = body.Set(base+"match.prefix-list", rule.Match)
		}
		if rule.Set != "" {
			body = body.Set(base+"set.next-hop", rule.Set)
		}
	}
	return body.String()
}

// CreateRouteMap creates or replaces a route-map via PUT against its single
// known path. A match target referencing a prefix-list is not verified to
// exist; the device accepts dangling references.
func (c *Client) CreateRouteMap(ctx context.Context, rm RouteMap) (Res[RouteMap], error) {
	operation := fmt.Sprintf("create route-map %s", rm.Name)

	if rm.Name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[RouteMap](err), err
	}

	body, err := buildRouteMapBody(rm)
	if err != nil {
		err = fmt.Errorf("%s: failed to build body: %w", operation, err)
		return failRes[RouteMap](err), err
	}

	if _, err := c.putData(ctx, operation, routeMapPath(rm.Name), body); err != nil {
		return failRes[RouteMap](err), err
	}

	c.logger.Info(ctx, "route-map created",
		"name", rm.Name,
		"rules", len(rm.Rules))

	return okRes(rm, fmt.Sprintf("route-map %s created with %d rules", rm.Name, len(rm.Rules))), nil
}

// RemoveRouteMap deletes a route-map by name.
func (c *Client) RemoveRouteMap(ctx context.Context, name string) (Res[RouteMap], error) {
	operation := fmt.Sprintf("remove route-map %s", name)

	if name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[RouteMap](err), err
	}

	if err := c.deleteData(ctx, operation, routeMapPath(name)); err != nil {
		return failRes[RouteMap](err), err
	}

	c.logger.Info(ctx, "route-map removed", "name", name)

	return okRes(RouteMap{Name: name}, fmt.Sprintf("route-map %s removed", name)), nil
}
