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

	"github.com/dsc-mgmt/device-sleep-control/internal/logger"
	"github.com/sirupsen/logrus"
)

// ListID names the phase list a device currently sits on. A device is on
// exactly one list, or detached (ListNone) while the thread operating on it
// holds it between a pop and a push.
type ListID int

const (
	ListNone ListID = iota
	ListActive
	ListPrepared
	ListSuspended
	ListLateEarly
	ListNoIrq
)

func (id ListID) String() string {
	return [...]string{"none", "active", "prepared", "suspended",
		"late-early", "noirq"}[id]
}

// Registry holds the ordered phase lists devices move through during a
// transition. Devices are appended to the active list in discovery order, so
// a parent always precedes its children: front-to-back traversal is a valid
// ancestors-first order and back-to-front a valid descendants-first order.
//
// The registry mutex serializes list shape only. It is never held while a
// device callback runs; callbacks may sleep, take device locks, or block on
// children, and holding the list lock across that would wedge the pipeline.
type Registry struct {
	mu    sync.Mutex
	lists [6]*list.List

	denied map[string]struct{}

	registrationGated bool

	// onRemove hooks release collaborator state (runtime-PM counts,
	// wakeup accounting) when a device leaves the pipeline.
	onRemove []func(*Device)
}

// New returns a registry using the built-in exclusion table.
func New() *Registry {
	return NewWithDenyList(defaultDenyList[:])
}

// NewWithDenyList returns a registry with an explicit exclusion table.
// Tests pass nil to disable the policy.
func NewWithDenyList(deny []string) *Registry {
	if logger.Log == nil {
		logger.Init()
	}
	r := &Registry{denied: make(map[string]struct{}, len(deny))}
	for i := ListNone; i <= ListNoIrq; i++ {
		r.lists[i] = list.New()
	}
	for _, name := range deny {
		r.denied[name] = struct{}{}
	}
	return r
}

// OnRemove registers a hook run after a device is detached by Remove.
func (r *Registry) OnRemove(hook func(*Device)) {
	r.mu.Lock()
	r.onRemove = append(r.onRemove, hook)
	r.mu.Unlock()
}

// Denied reports whether the exclusion table vetoes this device name.
func (r *Registry) Denied(name string) bool {
	_, ok := r.denied[name]
	return ok
}

// Add appends a device to the back of the active list. Devices on the
// exclusion table are never admitted. Appending after the parent is what
// keeps list order a valid top-down order.
func (r *Registry) Add(dev *Device) {
	if r.Denied(dev.Name) {
		return
	}
	dev.RefreshCallbackCheck()

	r.mu.Lock()
	if dev.Parent != nil && dev.Parent.Prepared() {
		logger.Log.WithFields(logrus.Fields{
			"device": dev.Name, "parent": dev.Parent.Name,
		}).Warn("Parent should not be sleeping while a child is added")
	}
	dev.elem = r.lists[ListActive].PushBack(dev)
	dev.listID = ListActive
	dev.inRegistry = true
	r.mu.Unlock()

	if dev.Parent != nil {
		dev.Parent.addChild(dev)
	}
}

// Remove takes a device out of the pipeline. Legal at any time, including
// mid-transition while another thread holds the device detached: the
// completion is signaled first so nobody waits on a departed device, and the
// holder's re-enqueue becomes a no-op.
func (r *Registry) Remove(dev *Device) {
	dev.completion.Signal()

	r.mu.Lock()
	if dev.listID != ListNone {
		r.lists[dev.listID].Remove(dev.elem)
		dev.elem = nil
		dev.listID = ListNone
	}
	dev.inRegistry = false
	hooks := r.onRemove
	r.mu.Unlock()

	if dev.Parent != nil {
		dev.Parent.removeChild(dev)
	}
	for _, s := range dev.Suppliers() {
		dev.RemoveSupplierLink(s)
	}
	for _, c := range dev.Consumers() {
		c.RemoveSupplierLink(dev)
	}
	for _, hook := range hooks {
		hook(dev)
	}
}

// InPipeline reports whether the device still belongs to the registry. A
// detached device being operated on still counts; a removed one does not.
func (r *Registry) InPipeline(dev *Device) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return dev.inRegistry
}

// MoveBefore repositions dev immediately before anchor within its list.
func (r *Registry) MoveBefore(dev, anchor *Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dev.listID == ListNone || dev.listID != anchor.listID {
		return
	}
	r.lists[dev.listID].MoveBefore(dev.elem, anchor.elem)
}

// MoveAfter repositions dev immediately after anchor within its list.
func (r *Registry) MoveAfter(dev, anchor *Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dev.listID == ListNone || dev.listID != anchor.listID {
		return
	}
	r.lists[dev.listID].MoveAfter(dev.elem, anchor.elem)
}

// MoveToEnd moves a device to the back of its list, behind devices it was
// discovered before. The exclusion table is consulted again here because
// reordering is how deferred devices re-enter the transition order.
func (r *Registry) MoveToEnd(dev *Device) {
	if r.Denied(dev.Name) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if dev.listID == ListNone {
		return
	}
	r.lists[dev.listID].MoveToBack(dev.elem)
}

// AddSupplierLink records that consumer consumes from supplier and repairs
// the pipeline order: the consumer, and everything below it, moves to the
// back of its list so the new constraint holds on the very next transition.
// Without the reorder a consumer discovered before its supplier would be
// visited first in the sleep direction.
func (r *Registry) AddSupplierLink(consumer, supplier *Device) {
	consumer.AddSupplierLink(supplier)
	r.reorderToTail(consumer)
}

// reorderToTail moves dev to the back of its list, then its children and
// consumers behind it, keeping front-to-back a valid top-down order.
func (r *Registry) reorderToTail(dev *Device) {
	r.MoveToEnd(dev)
	for _, child := range dev.Children() {
		r.reorderToTail(child)
	}
	for _, cons := range dev.Consumers() {
		r.reorderToTail(cons)
	}
}

// PopFront detaches and returns the first device of a list, or nil.
func (r *Registry) PopFront(id ListID) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	elem := r.lists[id].Front()
	if elem == nil {
		return nil
	}
	return r.detachLocked(id, elem)
}

// PopBack detaches and returns the last device of a list, or nil.
func (r *Registry) PopBack(id ListID) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	elem := r.lists[id].Back()
	if elem == nil {
		return nil
	}
	return r.detachLocked(id, elem)
}

func (r *Registry) detachLocked(id ListID, elem *list.Element) *Device {
	dev := elem.Value.(*Device)
	r.lists[id].Remove(elem)
	dev.elem = nil
	dev.listID = ListNone
	return dev
}

// PushBack re-attaches a detached device at the back of a list. If the
// device was removed from the pipeline while detached, nothing happens.
func (r *Registry) PushBack(id ListID, dev *Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !dev.inRegistry || dev.listID != ListNone {
		return
	}
	dev.elem = r.lists[id].PushBack(dev)
	dev.listID = id
}

// PushFront re-attaches a detached device at the front of a list.
func (r *Registry) PushFront(id ListID, dev *Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !dev.inRegistry || dev.listID != ListNone {
		return
	}
	dev.elem = r.lists[id].PushFront(dev)
	dev.listID = id
}

// Len returns the number of devices on a list.
func (r *Registry) Len(id ListID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists[id].Len()
}

// Devices returns a front-to-back snapshot of a list.
func (r *Registry) Devices(id ListID) []*Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Device, 0, r.lists[id].Len())
	for e := r.lists[id].Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Device))
	}
	return out
}

// ForEachActive calls fn for every device on the active list, front to
// back, under the registry lock. fn must not block or mutate the list.
func (r *Registry) ForEachActive(fn func(*Device)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for e := r.lists[ListActive].Front(); e != nil; e = e.Next() {
		fn(e.Value.(*Device))
	}
}

// CurrentList reports which list holds the device right now.
func (r *Registry) CurrentList(dev *Device) ListID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return dev.listID
}

// GateRegistration marks the window during which new-device registration is
// deferred. Prepare gates it; the end of Complete lifts it. Adding devices
// while gated is tolerated, only probing of them is expected to defer.
func (r *Registry) GateRegistration() {
	r.mu.Lock()
	r.registrationGated = true
	r.mu.Unlock()
}

// UngateRegistration lifts the registration gate.
func (r *Registry) UngateRegistration() {
	r.mu.Lock()
	r.registrationGated = false
	r.mu.Unlock()
}

// RegistrationGated reports whether a transition is holding off new
// registrations.
func (r *Registry) RegistrationGated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registrationGated
}
