// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"fmt"
	"time"
)

// TrafficSummary aggregates normalized per-interface traffic records
type TrafficSummary struct {
	TotalRxPackets uint64 `json:"totalRxPackets"`
	TotalTxPackets uint64 `json:"totalTxPackets"`
	TotalRxBytes   uint64 `json:"totalRxBytes"`
	TotalTxBytes   uint64 `json:"totalTxBytes"`

	// TotalErrors is the sum of rx and tx errors over all interfaces
	TotalErrors uint64 `json:"totalErrors"`

	// TotalDiscards is the sum of rx and tx discards over all interfaces
	TotalDiscards uint64 `json:"totalDiscards"`

	// ActiveInterfaces counts interfaces whose operational status is "up"
	ActiveInterfaces int `json:"activeInterfaces"`

	// InterfaceCount is the number of aggregated records
	InterfaceCount int `json:"interfaceCount"`

	// Interfaces holds the underlying per-interface records
	Interfaces []Traffic `json:"interfaces,omitempty"`

	// Timestamp is the capture time of the aggregate
	Timestamp time.Time `json:"timestamp"`
}

// aggregateTraffic folds traffic records into summary totals. The fold is a
// pure, order-independent reduction: all sums are commutative, so an empty
// input yields all-zero totals and a zero interface count.
func aggregateTraffic(records []Traffic) TrafficSummary {
	summary := TrafficSummary{
		InterfaceCount: len(records),
		Interfaces:     records,
		Timestamp:      time.Now(),
	}

	for _, record := range records {
		stats := record.Statistics
		summary.TotalRxPackets += stats.RxPackets.Total
		summary.TotalTxPackets += stats.TxPackets.Total
		summary.TotalRxBytes += stats.RxBytes
		summary.TotalTxBytes += stats.TxBytes
		summary.TotalErrors += stats.RxPackets.Errors + stats.TxPackets.Errors
		summary.TotalDiscards += stats.RxPackets.Discards + stats.TxPackets.Discards
		if record.OperStatus == "up" {
			summary.ActiveInterfaces++
		}
	}

	return summary
}

// GetTrafficStats retrieves traffic statistics for all interfaces and folds
// them into aggregate totals.
//
// Example:
//
//	res, err := client.GetTrafficStats(ctx)
//	if err != nil {
//	    log.Fatal(res.Error)
//	}
//	fmt.Printf("%d/%d interfaces up, %d bytes total\n",
//	    res.Data.ActiveInterfaces, res.Data.InterfaceCount,
//	    res.Data.TotalRxBytes+res.Data.TotalTxBytes)
func (c *Client) GetTrafficStats(ctx context.Context) (Res[TrafficSummary], error) {
	const operation = "get traffic statistics"

	probed, err := c.probe(ctx, operation, interfacePaths, c.RequestTimeout,
		"try 'show interface counters' on the device CLI")
	if err != nil {
		return failRes[TrafficSummary](err), err
	}

	records := parseTrafficRecords(probed.Body)
	if len(records) == 0 {
		err := noDataError(operation, "interface")
		return failRes[TrafficSummary](err), err
	}

	summary := aggregateTraffic(records)

	c.logger.Info(ctx, "traffic statistics aggregated",
		"interfaces", summary.InterfaceCount,
		"active", summary.ActiveInterfaces,
		"endpoint", probed.Path)

	res := okRes(summary, fmt.Sprintf("aggregated traffic for %d interfaces (%d up)",
		summary.InterfaceCount, summary.ActiveInterfaces))
	res.Metadata = map[string]any{"endpoint": probed.Path}
	return res, nil
}

// GetInterfaceTraffic retrieves the traffic record of a single interface.
func (c *Client) GetInterfaceTraffic(ctx context.Context, name string) (Res[Traffic], error) {
	operation := fmt.Sprintf("get traffic for %s", name)

	if name == "" {
		err := fmt.Errorf("%s: name cannot be empty", operation)
		return failRes[Traffic](err), err
	}

	probed, err := c.probe(ctx, operation, interfacePaths, c.RequestTimeout,
		"try 'show interface counters' on the device CLI")
	if err != nil {
		return failRes[Traffic](err), err
	}

	records := parseTrafficRecords(probed.Body)
	if len(records) == 0 {
		err := noDataError(operation, "interface")
		return failRes[Traffic](err), err
	}

	for _, record := range records {
		if record.Name == name {
			return okRes(record, fmt.Sprintf("traffic retrieved for %s", name)), nil
		}
	}

	err = &OperationError{
		Operation: operation,
		Kind:      ErrKindNotFound,
		Message:   fmt.Sprintf("interface %s not found", name),
		Hint:      "check the interface name against GetInterfaces",
	}
	return failRes[Traffic](err), err
}
