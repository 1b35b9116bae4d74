// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package restconf

import (
	"context"
	"sync"
	"time"
)

// DefaultMonitorInterval is the polling interval used when none is given
const DefaultMonitorInterval = 10 * time.Second

// Monitor polls aggregate traffic statistics on a fixed interval and
// delivers each result to a callback. It is the library's only stateful
// construct.
//
// Overlap policy: polls run sequentially on one goroutine. If a poll takes
// longer than the interval, intermediate ticks are dropped rather than
// overlapping requests; the next poll starts at the next tick after the
// slow one returns.
//
// Start and Stop are idempotent, at most one timer is active per Monitor,
// and no callback is delivered after Stop returns.
//
// Example:
//
//	monitor := client.NewMonitor(30*time.Second, func(res restconf.Res[restconf.TrafficSummary]) {
//	    if res.Success {
//	        fmt.Println(res.Data.ActiveInterfaces, "interfaces up")
//	    }
//	})
//	monitor.Start(ctx)
//	defer monitor.Stop()
type Monitor struct {
	client   *Client
	interval time.Duration
	callback func(Res[TrafficSummary])

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewMonitor creates a traffic monitor polling at the given interval. A
// non-positive interval falls back to DefaultMonitorInterval; a nil
// callback discards results.
func (c *Client) NewMonitor(interval time.Duration, callback func(Res[TrafficSummary])) *Monitor {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	if callback == nil {
		callback = func(Res[TrafficSummary]) {}
	}
	return &Monitor{
		client:   c,
		interval: interval,
		callback: callback,
	}
}

// Start begins polling. Calling Start on a running monitor is a no-op, so
// at most one timer is ever active.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.client.logger.Debug(ctx, "traffic monitor already running",
			"interval", m.interval.String())
		return
	}

	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	m.client.logger.Info(ctx, "traffic monitor started",
		"interval", m.interval.String())

	go m.loop(ctx, m.stop, m.done)
}

// loop is the single polling goroutine
func (m *Monitor) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, _ := m.client.GetTrafficStats(ctx)

			// A stop during the in-flight request suppresses delivery
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			default:
			}

			m.callback(res)
		}
	}
}

// Stop halts polling and waits for the polling goroutine to exit, so no
// callback is delivered after Stop returns. Calling Stop on a stopped
// monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stop)
	done := m.done
	m.mu.Unlock()

	<-done

	m.client.logger.Info(context.Background(), "traffic monitor stopped")
}

// Running reports whether the monitor is currently polling
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
