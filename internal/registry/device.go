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

package registry

import (
	"container/list"
	"sync"
)

// Device is one record under power management. Identity, callback sources
// and policy flags are set before the device is added to a Registry and are
// read-only afterward; transition state is owned by the phase executors.
type Device struct {
	Name   string
	Parent *Device

	Domain *PowerDomain
	Type   *DeviceType
	Class  *DeviceClass
	Bus    *BusType
	Driver *Driver

	// AsyncOptIn - the driver or subsystem declared this device safe to
	// transition off the calling thread.
	AsyncOptIn bool
	// CoreSystem - always excluded from this pipeline; handled by
	// earlier/later boot stages.
	CoreSystem bool
	// CanWakeup - the device is allowed to wake the system.
	CanWakeup bool
	// IgnoreChildren stops wakeup-path propagation from descendants.
	IgnoreChildren bool

	// lock is held across plain suspend/resume callbacks, mirroring the
	// per-device lock drivers take.
	lock sync.Mutex

	// flagsMu guards the transition flags below. It is safe to take from
	// another device's callback path (direct-complete and wakeup-path
	// propagation write a parent's flags from the child's executor).
	flagsMu        sync.Mutex
	prepared       bool
	suspended      bool
	lateSuspended  bool
	noIrqSuspended bool
	directComplete bool
	wakeupPath     bool
	noCallbacks    bool

	completion *Completion

	// linksMu guards relation slices. Readers snapshot under RLock so a
	// relation may be added or removed while a phase is mid-wait.
	linksMu   sync.RWMutex
	children  []*Device
	suppliers []*Device
	consumers []*Device

	// Registry linkage, guarded by the owning Registry's mutex.
	elem       *list.Element
	listID     ListID
	inRegistry bool
}

// NewDevice builds a detached device record with an idle completion handle.
// Callback sources and flags must be filled in before Registry.Add.
func NewDevice(name string, parent *Device) *Device {
	return &Device{
		Name:       name,
		Parent:     parent,
		completion: newCompletion(),
	}
}

func (d *Device) Lock()   { d.lock.Lock() }
func (d *Device) Unlock() { d.lock.Unlock() }

func (d *Device) Completion() *Completion { return d.completion }

// RefreshCallbackCheck recomputes the cached "no callbacks anywhere" flag.
// The registry runs it on Add; callers that swap a driver at runtime must
// run it again themselves.
func (d *Device) RefreshCallbackCheck() {
	none := (d.Bus == nil || (d.Bus.Ops.IsEmpty() &&
		d.Bus.LegacySuspend == nil && d.Bus.LegacyResume == nil)) &&
		(d.Class == nil || (d.Class.Ops.IsEmpty() &&
			d.Class.LegacySuspend == nil && d.Class.LegacyResume == nil)) &&
		(d.Type == nil || d.Type.Ops.IsEmpty()) &&
		(d.Domain == nil || d.Domain.Ops.IsEmpty()) &&
		(d.Driver == nil || d.Driver.Ops.IsEmpty())

	d.flagsMu.Lock()
	d.noCallbacks = none
	d.flagsMu.Unlock()
}

func (d *Device) NoCallbacks() bool {
	d.flagsMu.Lock()
	defer d.flagsMu.Unlock()
	return d.noCallbacks
}

func (d *Device) Prepared() bool {
	d.flagsMu.Lock()
	defer d.flagsMu.Unlock()
	return d.prepared
}

func (d *Device) SetPrepared(v bool) {
	d.flagsMu.Lock()
	d.prepared = v
	d.flagsMu.Unlock()
}

func (d *Device) Suspended() bool {
	d.flagsMu.Lock()
	defer d.flagsMu.Unlock()
	return d.suspended
}

func (d *Device) SetSuspended(v bool) {
	d.flagsMu.Lock()
	d.suspended = v
	d.flagsMu.Unlock()
}

func (d *Device) LateSuspended() bool {
	d.flagsMu.Lock()
	defer d.flagsMu.Unlock()
	return d.lateSuspended
}

func (d *Device) SetLateSuspended(v bool) {
	d.flagsMu.Lock()
	d.lateSuspended = v
	d.flagsMu.Unlock()
}

func (d *Device) NoIrqSuspended() bool {
	d.flagsMu.Lock()
	defer d.flagsMu.Unlock()
	return d.noIrqSuspended
}

func (d *Device) SetNoIrqSuspended(v bool) {
	d.flagsMu.Lock()
	d.noIrqSuspended = v
	d.flagsMu.Unlock()
}

func (d *Device) DirectComplete() bool {
	d.flagsMu.Lock()
	defer d.flagsMu.Unlock()
	return d.directComplete
}

func (d *Device) SetDirectComplete(v bool) {
	d.flagsMu.Lock()
	d.directComplete = v
	d.flagsMu.Unlock()
}

func (d *Device) WakeupPath() bool {
	d.flagsMu.Lock()
	defer d.flagsMu.Unlock()
	return d.wakeupPath
}

func (d *Device) SetWakeupPath(v bool) {
	d.flagsMu.Lock()
	d.wakeupPath = v
	d.flagsMu.Unlock()
}

// MarkWakeupPathToParent propagates this device's wakeup path upward after a
// successful suspend and revokes the ancestors' direct-complete license.
func (d *Device) MarkWakeupPathToParent() {
	p := d.Parent
	if p == nil {
		return
	}
	p.flagsMu.Lock()
	p.directComplete = false
	if d.WakeupPath() && !p.IgnoreChildren {
		p.wakeupPath = true
	}
	p.flagsMu.Unlock()
}

// Children returns a snapshot of the device's children.
func (d *Device) Children() []*Device {
	d.linksMu.RLock()
	defer d.linksMu.RUnlock()
	out := make([]*Device, len(d.children))
	copy(out, d.children)
	return out
}

// Suppliers returns a snapshot of the devices this one consumes from.
func (d *Device) Suppliers() []*Device {
	d.linksMu.RLock()
	defer d.linksMu.RUnlock()
	out := make([]*Device, len(d.suppliers))
	copy(out, d.suppliers)
	return out
}

// Consumers returns a snapshot of the devices consuming from this one.
func (d *Device) Consumers() []*Device {
	d.linksMu.RLock()
	defer d.linksMu.RUnlock()
	out := make([]*Device, len(d.consumers))
	copy(out, d.consumers)
	return out
}

// AddSupplierLink records that d consumes from supplier. Both sides of the
// link are kept so waits can run in either direction. This only records the
// relation; devices in a pipeline link through Registry.AddSupplierLink,
// which also reorders the lists for the new constraint.
func (d *Device) AddSupplierLink(supplier *Device) {
	d.linksMu.Lock()
	d.suppliers = append(d.suppliers, supplier)
	d.linksMu.Unlock()

	supplier.linksMu.Lock()
	supplier.consumers = append(supplier.consumers, d)
	supplier.linksMu.Unlock()
}

// RemoveSupplierLink drops a supplier/consumer link. Dropping a link that
// does not exist is a no-op; a waiter holding a stale snapshot simply waits
// on the departed device's completion, which is already signaled.
func (d *Device) RemoveSupplierLink(supplier *Device) {
	d.linksMu.Lock()
	d.suppliers = removeDevice(d.suppliers, supplier)
	d.linksMu.Unlock()

	supplier.linksMu.Lock()
	supplier.consumers = removeDevice(supplier.consumers, d)
	supplier.linksMu.Unlock()
}

func (d *Device) addChild(child *Device) {
	d.linksMu.Lock()
	d.children = append(d.children, child)
	d.linksMu.Unlock()
}

func (d *Device) removeChild(child *Device) {
	d.linksMu.Lock()
	d.children = removeDevice(d.children, child)
	d.linksMu.Unlock()
}

func removeDevice(devs []*Device, target *Device) []*Device {
	for i, dev := range devs {
		if dev == target {
			return append(devs[:i], devs[i+1:]...)
		}
	}
	return devs
}
