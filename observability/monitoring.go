package observability

import (
	"sync/atomic"
	"time"
)

// SessionStats aggregates the counters shown by /stats.
type SessionStats struct {
	Sent             uint64    `json:"sent"`
	Received         uint64    `json:"received"`
	SendFailures     uint64    `json:"send_failures"`
	ListenerFailures uint64    `json:"listener_failures"`
	Connections      uint64    `json:"connections"`
	StartedAt        time.Time `json:"started_at"`
}

// MonitoringManager holds live counters of one session.
// Safe for concurrent use: the timeline, the listener and the UI all touch it.
type MonitoringManager struct {
	sent             atomic.Uint64
	received         atomic.Uint64
	sendFailures     atomic.Uint64
	listenerFailures atomic.Uint64
	connections      atomic.Uint64
	startedAt        time.Time
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{startedAt: time.Now()}
}

func (mm *MonitoringManager) IncrSent()             { mm.sent.Add(1) }
func (mm *MonitoringManager) IncrReceived()         { mm.received.Add(1) }
func (mm *MonitoringManager) IncrSendFailures()     { mm.sendFailures.Add(1) }
func (mm *MonitoringManager) IncrListenerFailures() { mm.listenerFailures.Add(1) }
func (mm *MonitoringManager) IncrConnections()      { mm.connections.Add(1) }

func (mm *MonitoringManager) GetLatest() SessionStats {
	return SessionStats{
		Sent:             mm.sent.Load(),
		Received:         mm.received.Load(),
		SendFailures:     mm.sendFailures.Load(),
		ListenerFailures: mm.listenerFailures.Load(),
		Connections:      mm.connections.Load(),
		StartedAt:        mm.startedAt,
	}
}
