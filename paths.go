// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"net/url"
	"strings"
)

// Candidate resource paths, fallback-ordered with the most specific and
// most modern model name first. The exact strings are the wire contract;
// which entry answers depends on the firmware's YANG model revision.

// interfacePaths lists the candidate paths for interface listing and
// statistics
var interfacePaths = []string{
	"router:interfaces-config",
	"router:interfaces-state",
	"router:interfaces",
	"ietf-interfaces:interfaces",
	"ietf-interfaces:interfaces-state",
	"interfaces",
	"interfaces-state",
}

// prefixListsPath is the collection path for prefix-lists; networks and
// policy-based routes are derived from the same resource
const prefixListsPath = "router:route-config/dynamic/prefix-lists"

// prefixListCandidates is the fallback list used for prefix-list reads
var prefixListCandidates = []string{prefixListsPath}

// routeMapsPath is the collection path for route-maps
const routeMapsPath = "router:route-config/dynamic/route-maps"

// routeMapCandidates is the fallback list used for route-map reads
var routeMapCandidates = []string{routeMapsPath}

// defaultRouteTable is the route table targeted when none is specified
const defaultRouteTable = "default"

// prefixListPath returns the singular resource path for one prefix-list
func prefixListPath(name string) string {
	return prefixListsPath + "/prefix-list=" + url.PathEscape(name)
}

// routeMapPath returns the singular resource path for one route-map
func routeMapPath(name string) string {
	return routeMapsPath + "/route-map=" + url.PathEscape(name)
}

// routeTablePath returns the collection path for one route table's IPv4 routes
func routeTablePath(table string) string {
	return "router:route-table-config/static-routes/route-table=" + url.PathEscape(table) + "/ipv4-routes"
}

// staticRoutePath returns the resource path for one route. The prefix's
// slash is percent-encoded per RESTCONF key encoding, so a /32 blackhole
// target carries a literal "%2F32" suffix.
func staticRoutePath(table, prefix string) string {
	return routeTablePath(table) + "/route=" + encodePrefixKey(prefix)
}

// aclListPath returns the resource path for one ACL list
func aclListPath(name string) string {
	return "router:acl-config/acl-table/acl-list=" + url.PathEscape(name)
}

// bgpShowRPC is the RPC-style operations endpoint for BGP introspection
const bgpShowRPC = "router:bgp-show"

// encodePrefixKey percent-encodes the slash in a prefix used as a RESTCONF
// list key ("10.0.0.0/24" -> "10.0.0.0%2F24").
func encodePrefixKey(prefix string) string {
	return strings.ReplaceAll(prefix, "/", "%2F")
}
