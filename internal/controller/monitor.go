// internal/controller/monitor.go
package controller

import (
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/fixture-panel/internal/status"
)

// DefaultReportInterval is the minimum spacing of link error reports.
const DefaultReportInterval = 5 * time.Second

// Link is the part of the PLC the monitor needs.
type Link interface {
	Connect() bool
	LastError() error
}

// Monitor checks the PLC link once per tick and throttles error reports.
//
// lastReport advances only when a report is emitted. It is not cleared on
// recovery, so a flapping link still reports at most once per interval.
type Monitor struct {
	link     Link
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger

	lastReport time.Time
	down       bool
	since      time.Time
	snap       status.Snapshot
}

// NewMonitor returns a monitor with an unknown link state.
func NewMonitor(link Link, interval time.Duration, now func() time.Time, log *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		link:     link,
		interval: interval,
		now:      now,
		log:      log,
	}
}

// Check reports whether the link is usable this tick.
func (m *Monitor) Check() bool {
	now := m.now()

	if m.link.Connect() {
		if m.down {
			m.log.Info("PLC link restored", zap.Duration("down_for", now.Sub(m.since)))
			m.down = false
		}
		m.snap = status.Healthy()
		return true
	}

	if !m.down {
		m.down = true
		m.since = now
	}

	err := m.link.LastError()
	m.snap = status.Failed(err, m.since, now)

	if m.lastReport.IsZero() || now.Sub(m.lastReport) >= m.interval {
		m.lastReport = now
		m.log.Error("PLC connection error, check PLC and ethernet cable",
			zap.Error(err),
			zap.Uint16("seconds_in_error", m.snap.SecondsInError),
		)
	}
	return false
}

// Snapshot returns the link health as of the last Check.
func (m *Monitor) Snapshot() status.Snapshot {
	return m.snap
}
