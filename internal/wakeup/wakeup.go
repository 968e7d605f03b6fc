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

// Package wakeup answers the one question the sequencer asks while
// entering a sleep state: has a wakeup event fired since the transition
// started? A pending event aborts the suspend so the event is not lost.
package wakeup

import (
	"sync"
	"sync/atomic"

	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
)

type Provider interface {
	// Pending reports whether any wakeup event has been signaled since
	// the last Arm.
	Pending() bool
	// RecordAbortReason notes what forced the suspend to abort, for
	// diagnosis after the fact.
	RecordAbortReason(reason string)
	// Remove drops wakeup bookkeeping for a departing device.
	Remove(dev *registry.Device)
}

// Source is an in-process Provider. Simulated wakeup-capable devices
// call Signal when an event fires.
type Source struct {
	pending atomic.Int64

	mu      sync.Mutex
	reasons []string
}

func NewSource() *Source {
	return &Source{}
}

// Arm clears the pending count at the start of a transition.
func (s *Source) Arm() {
	s.pending.Store(0)
}

// Signal marks a wakeup event as having fired.
func (s *Source) Signal() {
	s.pending.Add(1)
}

func (s *Source) Pending() bool {
	return s.pending.Load() > 0
}

func (s *Source) RecordAbortReason(reason string) {
	s.mu.Lock()
	s.reasons = append(s.reasons, reason)
	s.mu.Unlock()
}

// AbortReasons returns the recorded abort reasons, newest last.
func (s *Source) AbortReasons() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.reasons))
	copy(out, s.reasons)
	return out
}

func (s *Source) Remove(dev *registry.Device) {}
