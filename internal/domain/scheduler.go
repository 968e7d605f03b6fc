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

package domain

import "github.com/dsc-mgmt/device-sleep-control/internal/registry"

// deviceFunc runs one device through the current phase. Implementations own
// the whole per-device protocol: dependency waits, skip decisions, callback
// invocation, flag updates, and the finishDevice bookkeeping on every path.
type deviceFunc func(t *transition, dev *registry.Device, async bool) error

// runPhase is the two-pass scheduler shared by the six scheduled phases.
//
// Pass 1 snapshots the source list, re-arms every completion for this phase
// generation, and launches the async-opted devices off-thread. Pass 2 then
// drains the source list in phase order, running each remaining device
// synchronously and moving every device, run, skipped or failed, onto the
// destination list. The sync walk and the async tasks meet through the
// per-device completions; runPhase itself joins all async tasks before
// returning.
//
// The sync walk never breaks out early on failure. Stopping mid-list would
// strand armed completions on the unprocessed devices and deadlock whatever
// rollback comes next; instead the first error is latched and the remaining
// devices flow through as skips.
//
// Suspend direction consumes the back of the source list and builds the
// destination from the front; resume direction does the opposite. Both
// preserve discovery order across every list, so "front to back" stays a
// valid parents-first order for the following phases.
func (t *transition) runPhase(src, dst registry.ListID, suspendDir bool, fn deviceFunc) {
	reg := t.seq.Registry

	snapshot := reg.Devices(src)
	for _, dev := range snapshot {
		dev.Completion().Reset()
	}

	launched := make(map[*registry.Device]bool)
	if t.seq.AsyncEnabled {
		for _, dev := range snapshot {
			if !dev.AsyncOptIn {
				continue
			}
			launched[dev] = true
			t.wg.Add(1)
			go func(dev *registry.Device) {
				defer t.wg.Done()
				fn(t, dev, true)
			}(dev)
		}
	}

	for {
		var dev *registry.Device
		if suspendDir {
			dev = reg.PopBack(src)
		} else {
			dev = reg.PopFront(src)
		}
		if dev == nil {
			break
		}
		if !launched[dev] {
			fn(t, dev, false)
		}
		if suspendDir {
			reg.PushFront(dst, dev)
		} else {
			reg.PushBack(dst, dev)
		}
	}

	t.wg.Wait()
}
