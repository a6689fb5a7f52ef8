// internal/controller/monitor_test.go
package controller

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tamzrod/fixture-panel/internal/status"
)

func newTestMonitor(link Link, clock *fakeClock) (*Monitor, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewMonitor(link, 0, clock.Now, zap.New(core)), logs
}

func TestMonitor_SnapshotTracksOutage(t *testing.T) {
	clock := newFakeClock()
	p := newFakePLC(codeAuto)
	p.down = true
	p.linkErr = errLink
	m, _ := newTestMonitor(p, clock)

	if m.Snapshot().Health != status.HealthUnknown {
		t.Fatalf("health before first check: got=%d", m.Snapshot().Health)
	}

	m.Check()
	clock.Advance(12 * time.Second)
	if m.Check() {
		t.Fatalf("link is down")
	}

	snap := m.Snapshot()
	if snap.Health != status.HealthError || snap.SecondsInError != 12 {
		t.Fatalf("snapshot: %+v", snap)
	}
	if snap.LastErrorCode != status.ErrorCodeGeneric {
		t.Fatalf("error code: got=%d", snap.LastErrorCode)
	}

	p.down = false
	if !m.Check() || m.Snapshot() != status.Healthy() {
		t.Fatalf("link should be healthy: %+v", m.Snapshot())
	}
}

func TestMonitor_ThrottleSurvivesFlapping(t *testing.T) {
	clock := newFakeClock()
	p := newFakePLC(codeAuto)
	m, logs := newTestMonitor(p, clock)

	p.down = true
	m.Check()
	clock.Advance(time.Second)

	p.down = false
	m.Check()
	clock.Advance(time.Second)

	p.down = true
	m.Check()

	if n := logs.FilterMessage("PLC connection error, check PLC and ethernet cable").Len(); n != 1 {
		t.Fatalf("reports within one interval: got=%d want=1", n)
	}

	clock.Advance(3 * time.Second)
	m.Check()
	if n := logs.FilterMessage("PLC connection error, check PLC and ethernet cable").Len(); n != 2 {
		t.Fatalf("reports after interval: got=%d want=2", n)
	}
}
