/*
 * MIT License
 *
 * (C) Copyright [2025] Hewlett Packard Enterprise Development LP
 *
 * Permission is hereby granted, free of charge, to any person obtaining a
 * copy of this software and associated documentation files (the "Software"),
 * to deal in the Software without restriction, including without limitation
 * the rights to use, copy, modify, merge, publish, distribute, sublicense,
 * and/or sell copies of the Software, and to permit persons to whom the
 * Software is furnished to do so, subject to the following conditions:
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 * THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 * OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 * ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 * OTHER DEALINGS IN THE SOFTWARE.
 *
 */

// Package runtimepm is the narrow contract the sequencer has with the
// opportunistic runtime power-management subsystem. The sequencer never
// drives runtime transitions itself; it only fences them off around
// system-wide transitions.
package runtimepm

import (
	"sync"

	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
)

// Provider is consumed by the phase executors.
type Provider interface {
	// Barrier waits out any in-flight runtime transition of the device
	// and forces a pending resume request to be honored first.
	Barrier(dev *registry.Device)
	// Pin raises the "do not idle" count; Unpin releases it. Prepare
	// pins, Complete unpins.
	Pin(dev *registry.Device)
	Unpin(dev *registry.Device)
	// Disable/Enable nest. While disabled the runtime subsystem leaves
	// the device alone entirely.
	Disable(dev *registry.Device)
	Enable(dev *registry.Device)
	// IsSuspended reports whether the device currently sits in a stable
	// runtime low-power state.
	IsSuspended(dev *registry.Device) bool
	// Remove releases all runtime state when a device leaves the
	// pipeline.
	Remove(dev *registry.Device)
}

type deviceState struct {
	pins         int
	disableDepth int
	suspended    bool
}

// Local is an in-process Provider tracking per-device counters. It backs
// the simulator and the test suites; a real integration supplies its own
// Provider.
type Local struct {
	mu    sync.Mutex
	state map[*registry.Device]*deviceState

	// Barriers counts Barrier calls, for tests.
	Barriers int
}

func NewLocal() *Local {
	return &Local{state: make(map[*registry.Device]*deviceState)}
}

func (l *Local) get(dev *registry.Device) *deviceState {
	st, ok := l.state[dev]
	if !ok {
		st = &deviceState{}
		l.state[dev] = st
	}
	return st
}

func (l *Local) Barrier(dev *registry.Device) {
	l.mu.Lock()
	l.Barriers++
	l.mu.Unlock()
}

func (l *Local) Pin(dev *registry.Device) {
	l.mu.Lock()
	l.get(dev).pins++
	l.mu.Unlock()
}

func (l *Local) Unpin(dev *registry.Device) {
	l.mu.Lock()
	l.get(dev).pins--
	l.mu.Unlock()
}

func (l *Local) Disable(dev *registry.Device) {
	l.mu.Lock()
	l.get(dev).disableDepth++
	l.mu.Unlock()
}

func (l *Local) Enable(dev *registry.Device) {
	l.mu.Lock()
	l.get(dev).disableDepth--
	l.mu.Unlock()
}

func (l *Local) IsSuspended(dev *registry.Device) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(dev).suspended
}

// SetSuspended seeds a device's runtime state, for tests and the simulator.
func (l *Local) SetSuspended(dev *registry.Device, v bool) {
	l.mu.Lock()
	l.get(dev).suspended = v
	l.mu.Unlock()
}

// Pins returns the current "do not idle" count for a device.
func (l *Local) Pins(dev *registry.Device) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(dev).pins
}

// DisableDepth returns the current disable nesting for a device.
func (l *Local) DisableDepth(dev *registry.Device) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(dev).disableDepth
}

func (l *Local) Remove(dev *registry.Device) {
	l.mu.Lock()
	delete(l.state, dev)
	l.mu.Unlock()
}
