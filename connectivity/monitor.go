// Package connectivity tracks whether the catalog host is reachable.
//
// A Monitor starts out optimistic and reports online until the first probe
// says otherwise. Reads never block and reflect the most recent observation,
// so they may lag real connectivity by up to one probe interval.
package connectivity

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultTimeout  = 2 * time.Second
)

// Probe reports whether the network path to the catalog is usable
type Probe interface {
	Check(ctx context.Context) bool
}

// ProbeFunc adapts a function to Probe
type ProbeFunc func(ctx context.Context) bool

// Check implements Probe
func (f ProbeFunc) Check(ctx context.Context) bool {
	return f(ctx)
}

// DialProbe treats a successful TCP dial to Address as online
type DialProbe struct {
	Address string
	Timeout time.Duration
}

// Check implements Probe
func (p DialProbe) Check(ctx context.Context) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Monitor holds the last observed connectivity state
type Monitor struct {
	online   atomic.Bool
	probe    Probe
	interval time.Duration
	logger   zerolog.Logger
}

// NewMonitor creates a Monitor that reports online until probe says otherwise
func NewMonitor(probe Probe, interval time.Duration, logger zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	m := &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
	m.online.Store(true)

	return m
}

// IsOnline returns the most recently observed status
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Set records an externally observed status
func (m *Monitor) Set(online bool) {
	if prev := m.online.Swap(online); prev != online {
		m.logger.Info().Bool("online", online).Msg("Connectivity changed")
	}
}

// Run probes immediately and then once per interval until ctx is done
func (m *Monitor) Run(ctx context.Context) error {
	if m.probe == nil {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		online := m.probe.Check(ctx)
		if ctx.Err() != nil {
			return nil
		}
		m.Set(online)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
