// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"
	"strings"
)

// StaticRoute describes one static route write
type StaticRoute struct {
	// Table is the target route table; defaults to "default"
	Table string `json:"table,omitempty"`

	// Prefix is the destination prefix ("10.1.0.0/16")
	Prefix string `json:"prefix"`

	// NextHop is the gateway address; empty for blackhole routes
	NextHop string `json:"nextHop,omitempty"`

	// Blackhole marks a drop route
	Blackhole bool `json:"blackhole,omitempty"`
}

// buildStaticRouteBody serializes a static route into its PUT payload
func buildStaticRouteBody(route StaticRoute) (string, error) {
	body := Body{}.Set("route.0.prefix", route.Prefix)
	if route.Blackhole {
		body = body.Set("route.0.blackhole", true)
	}
	if route.NextHop != "" {
		body = body.Set("route.0.next-hops.next-hop.0.address", route.NextHop)
	}
	return body.String()
}

// AddStaticRoute creates a static route via PUT against its single known
// path. Unlike blackhole creation this is strict: a failed write fails the
// operation.
func (c *Client) AddStaticRoute(ctx context.Context, route StaticRoute) (Res[StaticRoute], error) {
	operation := fmt.Sprintf("add static route %s", route.Prefix)

	if route.Prefix == "" {
		err := fmt.Errorf("%s: prefix cannot be empty", operation)
		return failRes[StaticRoute](err), err
	}
	if route.Table == "" {
		route.Table = defaultRouteTable
	}

	body, err := buildStaticRouteBody(route)
	if err != nil {
		err = fmt.Errorf("%s: failed to build body: %w", operation, err)
		return failRes[StaticRoute](err), err
	}

	if _, err := c.putData(ctx, operation, staticRoutePath(route.Table, route.Prefix), body); err != nil {
		return failRes[StaticRoute](err), err
	}

	c.logger.Info(ctx, "static route added",
		"table", route.Table,
		"prefix", route.Prefix,
		"nextHop", route.NextHop)

	return okRes(route, fmt.Sprintf("static route %s added", route.Prefix)), nil
}

// BlackholeResult reports a best-effort blackhole route write. The
// underlying route-table PUT failing does not fail the operation; the
// swallowed error is surfaced here so callers and tests can observe it
// instead of it disappearing into a log line.
type BlackholeResult struct {
	// Prefix is the /32 destination that was targeted
	Prefix string `json:"prefix"`

	// AttemptedOK reports whether the route-table PUT succeeded
	AttemptedOK bool `json:"attemptedOk"`

	// Warning carries the swallowed write error, if any
	Warning string `json:"warning,omitempty"`
}

// AddBlackholeRoute creates a drop route for a single IPv4 address, as a
// best-effort write: the operation reports success even when the underlying
// route-table PUT fails. Callers that need reliable detection must check
// Data.AttemptedOK. The address is written as a literal /32 route, with the
// slash percent-encoded in the resource path.
func (c *Client) AddBlackholeRoute(ctx context.Context, ip string) (Res[BlackholeResult], error) {
	operation := fmt.Sprintf("add blackhole route %s", ip)

	if ip == "" || strings.Contains(ip, "/") {
		err := fmt.Errorf("%s: a bare IPv4 address is required", operation)
		return failRes[BlackholeResult](err), err
	}

	prefix := ip + "/32"
	route := StaticRoute{Table: defaultRouteTable, Prefix: prefix, Blackhole: true}

	body, err := buildStaticRouteBody(route)
	if err != nil {
		err = fmt.Errorf("%s: failed to build body: %w", operation, err)
		return failRes[BlackholeResult](err), err
	}

	result := BlackholeResult{Prefix: prefix, AttemptedOK: true}
	if _, err := c.putData(ctx, operation, staticRoutePath(route.Table, prefix), body); err != nil {
		result.AttemptedOK = false
		result.Warning = err.Error()
		c.logger.Warn(ctx, "blackhole route write failed, reporting success anyway",
			"prefix", prefix,
			"error", err.Error())
		return okRes(result, fmt.Sprintf("blackhole route %s requested (write failed: %s)", prefix, err.Error())), nil
	}

	c.logger.Info(ctx, "blackhole route added", "prefix", prefix)

	return okRes(result, fmt.Sprintf("blackhole route %s added", prefix)), nil
}

// RemoveStaticRoute deletes a route by table and prefix. A bare IPv4
// address is treated as a /32 blackhole target.
func (c *Client) RemoveStaticRoute(ctx context.Context, table, prefix string) (Res[StaticRoute], error) {
	operation := fmt.Sprintf("remove static route %s", prefix)

	if prefix == "" {
		err := fmt.Errorf("%s: prefix cannot be empty", operation)
		return failRes[StaticRoute](err), err
	}
	if table == "" {
		table = defaultRouteTable
	}
	if !strings.Contains(prefix, "/") {
		prefix += "/32"
	}

	if err := c.deleteData(ctx, operation, staticRoutePath(table, prefix)); err != nil {
		return failRes[StaticRoute](err), err
	}

	c.logger.Info(ctx, "static route removed",
		"table", table,
		"prefix", prefix)

	return okRes(StaticRoute{Table: table, Prefix: prefix}, fmt.Sprintf("route %s removed", prefix)), nil
}

// GetRouteTable retrieves and normalizes one route table. An empty table
// name selects the default table. Duplicated destination prefixes are
// collapsed into one entry per prefix (last hop list wins).
func (c *Client) GetRouteTable(ctx context.Context, table string) (Res[[]Route], error) {
	if table == "" {
		table = defaultRouteTable
	}
	operation := fmt.Sprintf("get route table %s", table)

	probed, err := c.probe(ctx, operation, []string{routeTablePath(table)}, c.RequestTimeout,
		"try 'show ip route' on the device CLI")
	if err != nil {
		return failRes[[]Route](err), err
	}

	routes := parseRoutes(probed.Body)
	if len(routes) == 0 {
		err := noDataError(operation, "route")
		return failRes[[]Route](err), err
	}

	res := okRes(routes, fmt.Sprintf("found %d routes in table %s", len(routes), table))
	res.Metadata = map[string]any{"endpoint": probed.Path}
	return res, nil
}

// PolicyRoute describes one policy-based route: traffic matching Prefix is
// steered to NextHop via a prefix-list and a dependent route-map sharing
// Name.
type PolicyRoute struct {
	// Name names both the prefix-list and the dependent route-map
	Name string `json:"name"`

	// Prefix is the matched source prefix
	Prefix string `json:"prefix"`

	// NextHop is the steering target
	NextHop string `json:"nextHop,omitempty"`

	// RouteMapCreated reports whether the dependent route-map step
	// succeeded; false marks a partial result with the prefix-list
	// left behind
	RouteMapCreated bool `json:"routeMapCreated"`
}

// AddPolicyRoute adds a policy-based route as a two-step saga: first a
// prefix-list entry, then a dependent route-map referencing it by name.
//
// Failure semantics: if the prefix-list PUT fails the whole operation fails
// and the route-map call is never attempted. If the prefix-list succeeds
// but the route-map creation fails, the operation still reports overall
// success (the prefix list did get created) with RouteMapCreated=false and
// the nested error in the message. The prefix list is left behind; there is
// no automatic rollback.
func (c *Client) AddPolicyRoute(ctx context.Context, route PolicyRoute) (Res[PolicyRoute], error) {
	operation := fmt.Sprintf("add policy route %s", route.Name)

	if route.Name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[PolicyRoute](err), err
	}
	if route.Prefix == "" {
		err := fmt.Errorf("%s: prefix cannot be empty", operation)
		return failRes[PolicyRoute](err), err
	}

	pl := PrefixList{
		Name:  route.Name,
		Rules: []PrefixRule{{Sequence: 10, Action: "permit", Prefix: route.Prefix}},
	}
	if plRes, err := c.CreatePrefixList(ctx, pl); err != nil {
		err = &OperationError{
			Operation: operation,
			Kind:      ErrKindPartial,
			Message:   fmt.Sprintf("prefix-list creation failed: %s", plRes.Error),
			Err:       err,
		}
		return failRes[PolicyRoute](err), err
	}

	rm := RouteMap{
		Name:  route.Name,
		Rules: []RouteMapRule{{Sequence: 10, Policy: "permit", Match: route.Name, Set: route.NextHop}},
	}
	if rmRes, err := c.CreateRouteMap(ctx, rm); err != nil {
		c.logger.Warn(ctx, "route-map creation failed after prefix-list commit",
			"name", route.Name,
			"error", rmRes.Error)
		route.RouteMapCreated = false
		return okRes(route, fmt.Sprintf("policy route %s partially created: route-map creation failed: %s",
			route.Name, rmRes.Error)), nil
	}

	route.RouteMapCreated = true
	c.logger.Info(ctx, "policy route added",
		"name", route.Name,
		"prefix", route.Prefix,
		"nextHop", route.NextHop)

	return okRes(route, fmt.Sprintf("policy route %s created", route.Name)), nil
}

// PolicyRouteRemoval reports the mirrored two-step removal of a policy
// route
type PolicyRouteRemoval struct {
	// Name is the removed policy route's name
	Name string `json:"name"`

	// RouteMapRemoved reports whether the route-map delete succeeded
	RouteMapRemoved bool `json:"routeMapRemoved"`
}

// RemovePolicyRoute removes a policy-based route, mirroring the creation
// saga: the route-map removal is attempted first, then the prefix-list
// delete always proceeds regardless of the route-map outcome, so a failed
// route-map delete never blocks prefix-list cleanup. RouteMapRemoved and
// the nested error in the message communicate partial failure.
func (c *Client) RemovePolicyRoute(ctx context.Context, name string) (Res[PolicyRouteRemoval], error) {
	operation := fmt.Sprintf("remove policy route %s", name)

	if name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[PolicyRouteRemoval](err), err
	}

	removal := PolicyRouteRemoval{Name: name, RouteMapRemoved: true}
	var rmErrText string
	if rmRes, err := c.RemoveRouteMap(ctx, name); err != nil {
		removal.RouteMapRemoved = false
		rmErrText = rmRes.Error
		c.logger.Warn(ctx, "route-map removal failed, continuing with prefix-list cleanup",
			"name", name,
			"error", rmErrText)
	}

	if plRes, err := c.DeletePrefixList(ctx, name); err != nil {
		err = &OperationError{
			Operation: operation,
			Kind:      ErrKindPartial,
			Message:   fmt.Sprintf("prefix-list deletion failed: %s", plRes.Error),
			Err:       err,
		}
		res := failRes[PolicyRouteRemoval](err)
		res.Data = removal
		return res, err
	}

	message := fmt.Sprintf("policy route %s removed", name)
	if !removal.RouteMapRemoved {
		message = fmt.Sprintf("policy route %s partially removed: route-map removal failed: %s", name, rmErrText)
	}

	return okRes(removal, message), nil
}

// GetPolicyRoutes lists policy-based routes by joining route-maps with the
// prefix-lists their match clauses reference. Route-maps without a
// prefix-list match are skipped; a dangling match yields an entry with an
// empty prefix since referential integrity is not enforced at this layer.
func (c *Client) GetPolicyRoutes(ctx context.Context) (Res[[]PolicyRoute], error) {
	const operation = "get policy routes"

	mapsRes, err := c.GetRouteMaps(ctx)
	if err != nil {
		return failRes[[]PolicyRoute](err), err
	}

	prefixes := map[string]string{}
	if listsRes, err := c.GetPrefixLists(ctx); err == nil {
		for _, pl := range listsRes.Data {
			if len(pl.Rules) > 0 {
				prefixes[pl.Name] = pl.Rules[0].Prefix
			}
		}
	}

	var routes []PolicyRoute
	for _, rm := range mapsRes.Data {
		for _, rule := range rm.Rules {
			if rule.Match == "" {
				continue
			}
			routes = append(routes, PolicyRoute{
				Name:            rm.Name,
				Prefix:          prefixes[rule.Match],
				NextHop:         rule.Set,
				RouteMapCreated: true,
			})
		}
	}

	if len(routes) == 0 {
		err := noDataError(operation, "policy route")
		return failRes[[]PolicyRoute](err), err
	}

	return okRes(routes, fmt.Sprintf("found %d policy routes", len(routes))), nil
}
