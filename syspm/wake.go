package syspm

import "sync/atomic"

// WakeSource is one hardware event that can end a deep sleep: scan
// completion, the wake timer, communication-channel activity. Notify is the
// only method interrupt-context code may call; it never blocks.
type WakeSource struct {
	m     *Manager
	name  string
	fired uint32
}

// NewWakeSource registers a named wake source with the manager.
func (m *Manager) NewWakeSource(name string) *WakeSource {
	return &WakeSource{m: m, name: name}
}

// Notify latches a wake event. Setting an already-set latch is a no-op, so
// redundant notifications are harmless and the call cannot block an ISR.
func (ws *WakeSource) Notify() {
	atomic.AddUint32(&ws.fired, 1)
	select {
	case ws.m.wake <- struct{}{}:
	default:
	}
}

// Fired reports how many times this source has signalled (diagnostics).
func (ws *WakeSource) Fired() uint32 { return atomic.LoadUint32(&ws.fired) }

// Name identifies the source in diagnostics.
func (ws *WakeSource) Name() string { return ws.name }
