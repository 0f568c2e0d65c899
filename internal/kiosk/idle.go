package kiosk

import (
	"sync"
	"time"
)

// IdleMonitor fires onIdle once no qualifying input has arrived for the
// configured timeout. It is armed with Start, re-armed with Touch and
// disarmed with Stop. A fire that races a re-arm or a stop is dropped.
//
// onIdle receives the generation of the countdown that expired. A caller
// that serializes Touch with its own lock can confirm the fire with Current
// after taking that lock.
type IdleMonitor struct {
	mu      sync.Mutex
	clock   Clock
	timeout time.Duration
	onIdle  func(gen uint64)

	enabled bool
	gen     uint64
	timer   Timer
}

func NewIdleMonitor(clock Clock, timeout time.Duration, onIdle func(gen uint64)) *IdleMonitor {
	return &IdleMonitor{
		clock:   clock,
		timeout: timeout,
		onIdle:  onIdle,
	}
}

// Start enables the monitor and (re)starts the countdown.
func (m *IdleMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
	m.armLocked()
}

// Touch records a qualifying input. It restarts the countdown when the
// monitor is enabled and is a no-op otherwise.
func (m *IdleMonitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return
	}
	m.armLocked()
}

// Stop cancels any pending countdown and disables the monitor.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Enabled reports whether a countdown is currently running.
func (m *IdleMonitor) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Current reports whether gen is the countdown that is running now.
func (m *IdleMonitor) Current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled && gen == m.gen
}

func (m *IdleMonitor) armLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.timer = m.clock.AfterFunc(m.timeout, func() { m.fire(gen) })
}

func (m *IdleMonitor) fire(gen uint64) {
	m.mu.Lock()
	if !m.enabled || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.mu.Unlock()

	m.onIdle(gen)
}
