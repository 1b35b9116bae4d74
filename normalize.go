// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Normalization of loosely-typed device JSON into fixed typed records.
//
// Different firmware revisions spell the same logical field differently
// (kebab-case YANG name, camelCase alias, short alias). Each logical field
// is declared as a syn: an ordered list of synonymous source keys where the
// first present, non-null key wins. The order is load-bearing; the YANG
// spelling is assumed more authoritative than the aliases.

// syn is an ordered list of synonymous source keys for one logical field
type syn []string

// pick returns the value of the first present, non-null key
func (s syn) pick(obj gjson.Result) gjson.Result {
	for _, key := range s {
		if v := obj.Get(key); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// str returns the first match as a string, or def if no key is present
func (s syn) str(obj gjson.Result, def string) string {
	v := s.pick(obj)
	if !v.Exists() {
		return def
	}
	return v.String()
}

// num returns the first match as an unsigned counter, defaulting to 0
func (s syn) num(obj gjson.Result) uint64 {
	return s.pick(obj).Uint()
}

// intval returns the first match as an int, defaulting to 0
func (s syn) intval(obj gjson.Result) int {
	return int(s.pick(obj).Int())
}

// boolean returns the first match as a bool, defaulting to false
func (s syn) boolean(obj gjson.Result) bool {
	return s.pick(obj).Bool()
}

// array returns the first match as a list of elements. A single object is
// wrapped into a one-element list since some firmwares collapse
// single-entry YANG lists into a bare object.
func (s syn) array(obj gjson.Result) []gjson.Result {
	v := s.pick(obj)
	if !v.Exists() {
		return nil
	}
	if v.IsArray() {
		return v.Array()
	}
	if v.IsObject() {
		return []gjson.Result{v}
	}
	return nil
}

// status returns the first match normalized to a lowercase status string.
// Boolean spellings ("enabled": true) map to up/down.
func (s syn) status(obj gjson.Result, def string) string {
	v := s.pick(obj)
	if !v.Exists() {
		return def
	}
	switch v.Type {
	case gjson.True:
		return "up"
	case gjson.False:
		return "down"
	default:
		return strings.ToLower(v.String())
	}
}

// statusUnknown is the default for absent status and type fields
const statusUnknown = "unknown"

// defaultPrefixLength is assumed when a firmware omits the prefix length of
// an IPv4 address. This is a documented default, not device behavior: it
// can misclassify addresses whose real mask differs.
const defaultPrefixLength = 24

// deriveNetwork computes the network address for an IPv4 address and prefix
// length by masking the 32-bit integer form of the address. Returns an
// empty string for non-IPv4 addresses or out-of-range prefix lengths.
func deriveNetwork(address string, prefixLength int) string {
	ip := net.ParseIP(address)
	if ip == nil {
		return ""
	}
	v4 := ip.To4()
	if v4 == nil {
		return ""
	}
	if prefixLength < 0 || prefixLength > 32 {
		return ""
	}

	addr := binary.BigEndian.Uint32(v4)
	var mask uint32
	if prefixLength > 0 {
		mask = ^uint32(0) << (32 - prefixLength)
	}
	network := addr & mask

	var out [4]byte
	binary.BigEndian.PutUint32(out[:], network)
	return fmt.Sprintf("%d.%d.%d.%d/%d", out[0], out[1], out[2], out[3], prefixLength)
}

// Interface records

// IPv4Address is one address assigned to an interface, with the network
// derived from address and prefix length
type IPv4Address struct {
	// Address is the IPv4 address
	Address string `json:"address"`

	// PrefixLength is the mask width; defaults to 24 when the device
	// omits it
	PrefixLength int `json:"prefixLength"`

	// Network is the derived network prefix ("192.168.1.0/24")
	Network string `json:"network,omitempty"`
}

// InterfaceCounters holds raw packet/byte counters for an interface
type InterfaceCounters struct {
	RxPackets uint64 `json:"rxPackets"`
	TxPackets uint64 `json:"txPackets"`
	RxBytes   uint64 `json:"rxBytes"`
	TxBytes   uint64 `json:"txBytes"`
}

// Interface is a normalized interface record
type Interface struct {
	// Name is the interface name
	Name string `json:"name"`

	// AdminStatus is the administrative status (up/down/unknown)
	AdminStatus string `json:"adminStatus"`

	// OperStatus is the operational status (up/down/unknown)
	OperStatus string `json:"operStatus"`

	// Type is the interface type
	Type string `json:"type"`

	// Addresses lists assigned IPv4 addresses, if reported
	Addresses []IPv4Address `json:"addresses,omitempty"`

	// Counters holds raw packet/byte counters, if reported
	Counters *InterfaceCounters `json:"counters,omitempty"`
}

// Synonym tables for interface records
var (
	fieldName        = syn{"name", "if-name", "ifName", "interface-name"}
	fieldAdminStatus = syn{"admin-status", "adminStatus", "admin", "enabled"}
	fieldOperStatus  = syn{"oper-status", "operStatus", "oper", "operational-status"}
	fieldIfType      = syn{"type", "if-type", "ifType"}
	fieldLastChange  = syn{"last-change", "lastChange", "last-updated"}

	fieldAddresses  = syn{"ipv4.address", "ipv4.addresses", "addresses.address", "address"}
	fieldAddrIP     = syn{"ip", "address", "addr"}
	fieldAddrPrefix = syn{"prefix-length", "prefixLength", "masklen"}

	fieldStatistics = syn{"statistics", "counters", "stats"}

	fieldRxBytes   = syn{"in-octets", "inOctets", "rx-bytes", "rxBytes"}
	fieldTxBytes   = syn{"out-octets", "outOctets", "tx-bytes", "txBytes"}
	fieldRxPackets = syn{"in-pkts", "inPkts", "rx-packets", "rxPackets"}
	fieldTxPackets = syn{"out-pkts", "outPkts", "tx-packets", "txPackets"}
)

// interfaceContainers locates the interface list inside a probed body,
// whichever model name the firmware wrapped it in
var interfaceContainers = syn{
	"interface",
	"interfaces.interface",
	"interfaces-state.interface",
	"router:interfaces-config.interface",
	"router:interfaces-state.interface",
	"router:interfaces.interface",
	"ietf-interfaces:interfaces.interface",
	"ietf-interfaces:interfaces-state.interface",
}

// parseInterface normalizes one raw interface object
func parseInterface(obj gjson.Result) Interface {
	iface := Interface{
		Name:        fieldName.str(obj, statusUnknown),
		AdminStatus: fieldAdminStatus.status(obj, statusUnknown),
		OperStatus:  fieldOperStatus.status(obj, statusUnknown),
		Type:        fieldIfType.str(obj, statusUnknown),
	}

	for _, raw := range fieldAddresses.array(obj) {
		address := fieldAddrIP.str(raw, "")
		if address == "" {
			continue
		}
		prefixLength := fieldAddrPrefix.intval(raw)
		if prefixLength == 0 {
			prefixLength = defaultPrefixLength
		}
		iface.Addresses = append(iface.Addresses, IPv4Address{
			Address:      address,
			PrefixLength: prefixLength,
			Network:      deriveNetwork(address, prefixLength),
		})
	}

	if stats := fieldStatistics.pick(obj); stats.Exists() {
		iface.Counters = &InterfaceCounters{
			RxPackets: fieldRxPackets.num(stats),
			TxPackets: fieldTxPackets.num(stats),
			RxBytes:   fieldRxBytes.num(stats),
			TxBytes:   fieldTxBytes.num(stats),
		}
	}

	return iface
}

// parseInterfaces normalizes a probed body into interface records
func parseInterfaces(body gjson.Result) []Interface {
	raw := interfaceContainers.array(body)
	interfaces := make([]Interface, 0, len(raw))
	for _, obj := range raw {
		interfaces = append(interfaces, parseInterface(obj))
	}
	return interfaces
}

// Traffic records

// PacketCounters breaks packets down by class for one direction
type PacketCounters struct {
	Unicast   uint64 `json:"unicast"`
	Multicast uint64 `json:"multicast"`
	Broadcast uint64 `json:"broadcast"`

	// Total defaults to unicast+multicast+broadcast when the device
	// supplies no explicit total. When the device omits the sub-counters
	// entirely the total reads 0.
	Total uint64 `json:"total"`

	Errors   uint64 `json:"errors"`
	Discards uint64 `json:"discards"`
}

// TrafficStatistics is the nested statistics block of a traffic record
type TrafficStatistics struct {
	RxPackets PacketCounters `json:"rxPackets"`
	TxPackets PacketCounters `json:"txPackets"`

	RxBytes uint64 `json:"rxBytes"`
	TxBytes uint64 `json:"txBytes"`

	// TotalBytes is always recomputed as RxBytes+TxBytes; a
	// device-supplied total is never trusted
	TotalBytes uint64 `json:"totalBytes"`

	// Rate fields come from raw speed fields when present and are
	// otherwise zero: no sampling window exists, so true rates require
	// the caller to sample twice and difference externally
	RxBytesPerSecond   uint64 `json:"rxBytesPerSecond"`
	TxBytesPerSecond   uint64 `json:"txBytesPerSecond"`
	RxPacketsPerSecond uint64 `json:"rxPacketsPerSecond"`
	TxPacketsPerSecond uint64 `json:"txPacketsPerSecond"`
}

// Traffic is a normalized per-interface traffic record
type Traffic struct {
	Name        string `json:"name"`
	AdminStatus string `json:"adminStatus"`
	OperStatus  string `json:"operStatus"`
	Type        string `json:"type"`

	// LastChange is the device-reported last status change, if any
	LastChange string `json:"lastChange,omitempty"`

	Statistics TrafficStatistics `json:"statistics"`

	// Timestamp is the capture time, set at parse time, not sourced
	// from the device
	Timestamp time.Time `json:"timestamp"`
}

// Synonym tables for the traffic statistics block
var (
	fieldRxUnicast   = syn{"in-unicast-pkts", "inUnicastPkts", "rx-unicast"}
	fieldRxMulticast = syn{"in-multicast-pkts", "inMulticastPkts", "rx-multicast"}
	fieldRxBroadcast = syn{"in-broadcast-pkts", "inBroadcastPkts", "rx-broadcast"}
	fieldRxErrors    = syn{"in-errors", "inErrors", "rx-errors"}
	fieldRxDiscards  = syn{"in-discards", "inDiscards", "rx-drops"}

	fieldTxUnicast   = syn{"out-unicast-pkts", "outUnicastPkts", "tx-unicast"}
	fieldTxMulticast = syn{"out-multicast-pkts", "outMulticastPkts", "tx-multicast"}
	fieldTxBroadcast = syn{"out-broadcast-pkts", "outBroadcastPkts", "tx-broadcast"}
	fieldTxErrors    = syn{"out-errors", "outErrors", "tx-errors"}
	fieldTxDiscards  = syn{"out-discards", "outDiscards", "tx-drops"}

	fieldRxSpeed    = syn{"in-speed", "inSpeed", "rx-bytes-per-second"}
	fieldTxSpeed    = syn{"out-speed", "outSpeed", "tx-bytes-per-second"}
	fieldRxPktSpeed = syn{"in-pkts-per-second", "inPktsPerSecond"}
	fieldTxPktSpeed = syn{"out-pkts-per-second", "outPktsPerSecond"}
)

// parseTraffic normalizes one raw interface object into a traffic record
func parseTraffic(obj gjson.Result) Traffic {
	record := Traffic{
		Name:        fieldName.str(obj, statusUnknown),
		AdminStatus: fieldAdminStatus.status(obj, statusUnknown),
		OperStatus:  fieldOperStatus.status(obj, statusUnknown),
		Type:        fieldIfType.str(obj, statusUnknown),
		LastChange:  fieldLastChange.str(obj, ""),
		Timestamp:   time.Now(),
	}

	stats := fieldStatistics.pick(obj)
	if !stats.Exists() {
		// Counters may also sit directly on the interface object
		stats = obj
	}

	rx := PacketCounters{
		Unicast:   fieldRxUnicast.num(stats),
		Multicast: fieldRxMulticast.num(stats),
		Broadcast: fieldRxBroadcast.num(stats),
		Errors:    fieldRxErrors.num(stats),
		Discards:  fieldRxDiscards.num(stats),
	}
	rx.Total = fieldRxPackets.num(stats)
	if rx.Total == 0 {
		rx.Total = rx.Unicast + rx.Multicast + rx.Broadcast
	}

	tx := PacketCounters{
		Unicast:   fieldTxUnicast.num(stats),
		Multicast: fieldTxMulticast.num(stats),
		Broadcast: fieldTxBroadcast.num(stats),
		Errors:    fieldTxErrors.num(stats),
		Discards:  fieldTxDiscards.num(stats),
	}
	tx.Total = fieldTxPackets.num(stats)
	if tx.Total == 0 {
		tx.Total = tx.Unicast + tx.Multicast + tx.Broadcast
	}

	rxBytes := fieldRxBytes.num(stats)
	txBytes := fieldTxBytes.num(stats)

	record.Statistics = TrafficStatistics{
		RxPackets:          rx,
		TxPackets:          tx,
		RxBytes:            rxBytes,
		TxBytes:            txBytes,
		TotalBytes:         rxBytes + txBytes,
		RxBytesPerSecond:   fieldRxSpeed.num(stats),
		TxBytesPerSecond:   fieldTxSpeed.num(stats),
		RxPacketsPerSecond: fieldRxPktSpeed.num(stats),
		TxPacketsPerSecond: fieldTxPktSpeed.num(stats),
	}

	return record
}

// parseTrafficRecords normalizes a probed body into traffic records
func parseTrafficRecords(body gjson.Result) []Traffic {
	raw := interfaceContainers.array(body)
	records := make([]Traffic, 0, len(raw))
	for _, obj := range raw {
		records = append(records, parseTraffic(obj))
	}
	return records
}

// Routing entities

// PrefixRule is one ordered rule of a prefix-list
type PrefixRule struct {
	Sequence int    `json:"sequence"`
	Action   string `json:"action"`
	Prefix   string `json:"prefix"`

	// GE and LE bound the matched mask length; 0 means unset
	GE int `json:"ge,omitempty"`
	LE int `json:"le,omitempty"`
}

// PrefixList is a named, ordered set of permit/deny prefix rules
type PrefixList struct {
	Name  string       `json:"name"`
	Rules []PrefixRule `json:"rules"`
}

// RouteMapRule is one ordered rule of a route-map
type RouteMapRule struct {
	Sequence int    `json:"sequence"`
	Policy   string `json:"policy"`

	// Match is the referenced prefix-list name. The reference is not
	// verified against existing prefix-lists.
	Match string `json:"match,omitempty"`

	// Set is the set clause (typically a next-hop)
	Set string `json:"set,omitempty"`
}

// RouteMap is a named, ordered set of route-map rules
type RouteMap struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Rules       []RouteMapRule `json:"rules"`
}

// Route is one normalized route-table entry
type Route struct {
	// Destination is the destination prefix
	Destination string `json:"destination"`

	// Blackhole indicates a drop next hop
	Blackhole bool `json:"blackhole"`

	// NextHop is the first next hop, if any
	NextHop string `json:"nextHop,omitempty"`

	// Hops is the raw next-hop list
	Hops []string `json:"hops,omitempty"`
}

// Synonym tables for routing entities
var (
	prefixListContainers = syn{"prefix-list", "prefix-lists.prefix-list", "router:prefix-lists.prefix-list", "prefixLists"}
	routeMapContainers   = syn{"route-map", "route-maps.route-map", "router:route-maps.route-map", "routeMaps"}
	routeContainers      = syn{"route", "ipv4-routes.route", "router:ipv4-routes.route", "routes"}
	ruleContainers       = syn{"rules.rule", "rule", "entries.entry", "entry"}

	fieldSequence = syn{"sequence", "seq", "sequence-number"}
	fieldAction   = syn{"action", "policy"}
	fieldPrefix   = syn{"prefix", "ip-prefix", "ipPrefix", "network"}
	fieldGE       = syn{"ge", "greater-equal", "masklength-lower"}
	fieldLE       = syn{"le", "less-equal", "masklength-upper"}

	fieldDescription = syn{"description", "desc"}
	fieldRMPolicy    = syn{"policy", "action"}
	fieldRMMatch     = syn{"match.prefix-list", "match.ip-prefix-list", "matchPrefixList", "match"}
	fieldRMSet       = syn{"set.next-hop", "set.ip-next-hop", "setNextHop", "set"}

	fieldDestination = syn{"prefix", "destination-prefix", "destination", "dest"}
	fieldBlackhole   = syn{"blackhole", "drop", "discard"}
	fieldNextHops    = syn{"next-hops.next-hop", "next-hop", "nexthops", "hops"}
	fieldHopAddress  = syn{"address", "next-hop-address", "ip", "gateway"}
)

// parsePrefixList normalizes one raw prefix-list object
func parsePrefixList(obj gjson.Result) PrefixList {
	pl := PrefixList{
		Name:  fieldName.str(obj, statusUnknown),
		Rules: []PrefixRule{},
	}
	for _, raw := range ruleContainers.array(obj) {
		pl.Rules = append(pl.Rules, PrefixRule{
			Sequence: fieldSequence.intval(raw),
			Action:   fieldAction.str(raw, "permit"),
			Prefix:   fieldPrefix.str(raw, ""),
			GE:       fieldGE.intval(raw),
			LE:       fieldLE.intval(raw),
		})
	}
	return pl
}

// parsePrefixLists normalizes a probed body into prefix-lists
func parsePrefixLists(body gjson.Result) []PrefixList {
	raw := prefixListContainers.array(body)
	lists := make([]PrefixList, 0, len(raw))
	for _, obj := range raw {
		lists = append(lists, parsePrefixList(obj))
	}
	return lists
}

// parseRouteMap normalizes one raw route-map object
func parseRouteMap(obj gjson.Result) RouteMap {
	rm := RouteMap{
		Name:        fieldName.str(obj, statusUnknown),
		Description: fieldDescription.str(obj, ""),
		Rules:       []RouteMapRule{},
	}
	for _, raw := range ruleContainers.array(obj) {
		rule := RouteMapRule{
			Sequence: fieldSequence.intval(raw),
			Policy:   fieldRMPolicy.str(raw, "permit"),
			Set:      fieldRMSet.str(raw, ""),
		}
		// A bare "match" may still be an object; only keep scalar matches
		if m := fieldRMMatch.pick(raw); m.Exists() && !m.IsObject() {
			rule.Match = m.String()
		}
		rm.Rules = append(rm.Rules, rule)
	}
	return rm
}

// parseRouteMaps normalizes a probed body into route-maps
func parseRouteMaps(body gjson.Result) []RouteMap {
	raw := routeMapContainers.array(body)
	maps := make([]RouteMap, 0, len(raw))
	for _, obj := range raw {
		maps = append(maps, parseRouteMap(obj))
	}
	return maps
}

// parseRoutes normalizes a probed body into route-table entries. Duplicated
// destination prefixes collapse into one entry per prefix; the last hop
// list wins while the first-seen position is kept.
func parseRoutes(body gjson.Result) []Route {
	var routes []Route
	index := map[string]int{}

	for _, obj := range routeContainers.array(body) {
		destination := fieldDestination.str(obj, "")
		if destination == "" {
			continue
		}

		route := Route{
			Destination: destination,
			Blackhole:   fieldBlackhole.boolean(obj),
		}
		for _, rawHop := range fieldNextHops.array(obj) {
			hop := rawHop.String()
			if rawHop.IsObject() {
				hop = fieldHopAddress.str(rawHop, "")
			}
			if hop == "" {
				continue
			}
			if hop == "blackhole" || hop == "drop" || hop == "null0" {
				route.Blackhole = true
				continue
			}
			route.Hops = append(route.Hops, hop)
		}
		if len(route.Hops) > 0 {
			route.NextHop = route.Hops[0]
		}

		if i, ok := index[destination]; ok {
			routes[i] = route
			continue
		}
		index[destination] = len(routes)
		routes = append(routes, route)
	}

	return routes
}

// ACL entities

// AclRule is one ordered rule of an ACL list. All fields other than the
// sequence are absent-by-default.
type AclRule struct {
	Sequence int    `json:"sequence"`
	Action   string `json:"action,omitempty"`
	Protocol string `json:"protocol,omitempty"`

	SrcAddress string `json:"srcAddress,omitempty"`
	DstAddress string `json:"dstAddress,omitempty"`

	SrcPortLower int `json:"srcPortLower,omitempty"`
	SrcPortUpper int `json:"srcPortUpper,omitempty"`
	DstPortLower int `json:"dstPortLower,omitempty"`
	DstPortUpper int `json:"dstPortUpper,omitempty"`

	TCPFlagsMask  int `json:"tcpFlagsMask,omitempty"`
	TCPFlagsValue int `json:"tcpFlagsValue,omitempty"`

	IcmpTypeLower int `json:"icmpTypeLower,omitempty"`
	IcmpTypeUpper int `json:"icmpTypeUpper,omitempty"`
	IcmpCodeLower int `json:"icmpCodeLower,omitempty"`
	IcmpCodeUpper int `json:"icmpCodeUpper,omitempty"`
}

// AclList is a named, ordered set of ACL rules
type AclList struct {
	Name  string    `json:"name"`
	Rules []AclRule `json:"rules"`
}

// Synonym tables for ACL entities
var (
	aclListContainers = syn{"acl-list", "router:acl-list", "acl-lists.acl-list", "aclList"}
	aclRuleContainers = syn{"rules.rule", "rule", "aces.ace", "ace"}

	fieldProtocol = syn{"protocol", "proto", "ip-protocol"}

	fieldSrcAddress = syn{"src-address", "source-address", "srcAddress"}
	fieldDstAddress = syn{"dst-address", "destination-address", "dstAddress"}

	fieldSrcPortLower = syn{"src-port-lower", "source-port-lower", "srcPortLower"}
	fieldSrcPortUpper = syn{"src-port-upper", "source-port-upper", "srcPortUpper"}
	fieldDstPortLower = syn{"dst-port-lower", "destination-port-lower", "dstPortLower"}
	fieldDstPortUpper = syn{"dst-port-upper", "destination-port-upper", "dstPortUpper"}

	fieldTCPFlagsMask  = syn{"tcp-flags-mask", "tcpFlagsMask"}
	fieldTCPFlagsValue = syn{"tcp-flags-value", "tcpFlagsValue"}

	fieldIcmpTypeLower = syn{"icmp-type-lower", "icmpTypeLower"}
	fieldIcmpTypeUpper = syn{"icmp-type-upper", "icmpTypeUpper"}
	fieldIcmpCodeLower = syn{"icmp-code-lower", "icmpCodeLower"}
	fieldIcmpCodeUpper = syn{"icmp-code-upper", "icmpCodeUpper"}
)

// parseAclList normalizes one raw ACL list object
func parseAclList(obj gjson.Result) AclList {
	acl := AclList{
		Name:  fieldName.str(obj, statusUnknown),
		Rules: []AclRule{},
	}
	for _, raw := range aclRuleContainers.array(obj) {
		acl.Rules = append(acl.Rules, AclRule{
			Sequence:      fieldSequence.intval(raw),
			Action:        fieldAction.str(raw, ""),
			Protocol:      fieldProtocol.str(raw, ""),
			SrcAddress:    fieldSrcAddress.str(raw, ""),
			DstAddress:    fieldDstAddress.str(raw, ""),
			SrcPortLower:  fieldSrcPortLower.intval(raw),
			SrcPortUpper:  fieldSrcPortUpper.intval(raw),
			DstPortLower:  fieldDstPortLower.intval(raw),
			DstPortUpper:  fieldDstPortUpper.intval(raw),
			TCPFlagsMask:  fieldTCPFlagsMask.intval(raw),
			TCPFlagsValue: fieldTCPFlagsValue.intval(raw),
			IcmpTypeLower: fieldIcmpTypeLower.intval(raw),
			IcmpTypeUpper: fieldIcmpTypeUpper.intval(raw),
			IcmpCodeLower: fieldIcmpCodeLower.intval(raw),
			IcmpCodeUpper: fieldIcmpCodeUpper.intval(raw),
		})
	}
	return acl
}

// parseAclLists normalizes a probed body into ACL lists
func parseAclLists(body gjson.Result) []AclList {
	raw := aclListContainers.array(body)
	lists := make([]AclList, 0, len(raw))
	for _, obj := range raw {
		lists = append(lists, parseAclList(obj))
	}
	return lists
}
