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

// deviceWait blocks until the target device's phase work is done, but only
// when an ordering hazard actually exists. A synchronous caller walks the
// list in dependency order already, so it only needs to wait for targets
// that may be running off-thread; an async caller has no such guarantee and
// waits unconditionally.
func (t *transition) deviceWait(dev *registry.Device, callerAsync bool) {
	if dev == nil {
		return
	}
	if callerAsync || (t.seq.AsyncEnabled && dev.AsyncOptIn) {
		dev.Completion().Wait()
	}
}

// waitForSuperior waits for the devices this one depends on: its parent and
// its suppliers. It reports false when the device was removed from the
// pipeline while waiting, in which case the caller must touch nothing and
// only signal its own completion.
func (t *transition) waitForSuperior(dev *registry.Device, callerAsync bool) bool {
	t.deviceWait(dev.Parent, callerAsync)
	for _, sup := range dev.Suppliers() {
		t.deviceWait(sup, callerAsync)
	}
	return t.seq.Registry.InPipeline(dev)
}

// waitForSubordinate waits for the devices that depend on this one: its
// children and its consumers. Sleep-direction phases call this; a parent
// must not lose power while a child still needs it.
func (t *transition) waitForSubordinate(dev *registry.Device, callerAsync bool) {
	for _, child := range dev.Children() {
		t.deviceWait(child, callerAsync)
	}
	for _, con := range dev.Consumers() {
		t.deviceWait(con, callerAsync)
	}
}
