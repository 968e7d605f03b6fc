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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(devs []*Device) []string {
	out := make([]string, len(devs))
	for i, d := range devs {
		out[i] = d.Name
	}
	return out
}

func TestAddKeepsDiscoveryOrder(t *testing.T) {
	r := NewWithDenyList(nil)
	root := NewDevice("root", nil)
	a := NewDevice("a", root)
	leaf := NewDevice("leaf", a)
	b := NewDevice("b", root)
	for _, d := range []*Device{root, a, leaf, b} {
		r.Add(d)
	}

	require.Equal(t, []string{"root", "a", "leaf", "b"}, names(r.Devices(ListActive)))
	assert.Equal(t, []string{"a", "b"}, names(root.Children()))
	assert.True(t, r.InPipeline(leaf))
	assert.Equal(t, ListActive, r.CurrentList(leaf))
}

func TestDenyListVetoesAdd(t *testing.T) {
	r := NewWithDenyList([]string{"cpu0"})
	r.Add(NewDevice("cpu0", nil))
	r.Add(NewDevice("gpu", nil))

	assert.Equal(t, []string{"gpu"}, names(r.Devices(ListActive)))
	assert.True(t, r.Denied("cpu0"))
	assert.False(t, r.Denied("gpu"))
}

func TestDefaultDenyListApplied(t *testing.T) {
	r := New()
	r.Add(NewDevice(defaultDenyList[0], nil))
	assert.Equal(t, 0, r.Len(ListActive))
}

func TestPopPushMovesBetweenLists(t *testing.T) {
	r := NewWithDenyList(nil)
	for _, n := range []string{"p", "c1", "c2"} {
		r.Add(NewDevice(n, nil))
	}

	// Sleep direction: back of one list to front of the next keeps order.
	for {
		dev := r.PopBack(ListActive)
		if dev == nil {
			break
		}
		require.Equal(t, ListNone, r.CurrentList(dev))
		r.PushFront(ListPrepared, dev)
	}
	assert.Equal(t, []string{"p", "c1", "c2"}, names(r.Devices(ListPrepared)))
	assert.Equal(t, 0, r.Len(ListActive))

	// Wake direction: front to back, order again preserved.
	for {
		dev := r.PopFront(ListPrepared)
		if dev == nil {
			break
		}
		r.PushBack(ListActive, dev)
	}
	assert.Equal(t, []string{"p", "c1", "c2"}, names(r.Devices(ListActive)))
}

func TestRemoveMidTransition(t *testing.T) {
	r := NewWithDenyList(nil)
	dev := NewDevice("ghost", nil)
	r.Add(dev)

	// A phase thread holds the device detached.
	held := r.PopFront(ListActive)
	require.Same(t, dev, held)

	dev.Completion().Reset()
	done := make(chan struct{})
	go func() {
		dev.Completion().Wait()
		close(done)
	}()

	r.Remove(dev)

	// Nobody waits on a departed device.
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter not released by Remove")
	}
	assert.False(t, r.InPipeline(dev))

	// The holder's re-enqueue becomes a no-op.
	r.PushBack(ListPrepared, dev)
	assert.Equal(t, 0, r.Len(ListPrepared))
}

func TestRemoveUnlinksRelations(t *testing.T) {
	r := NewWithDenyList(nil)
	parent := NewDevice("parent", nil)
	child := NewDevice("child", parent)
	supplier := NewDevice("supplier", nil)
	for _, d := range []*Device{parent, child, supplier} {
		r.Add(d)
	}
	child.AddSupplierLink(supplier)

	var hooked []string
	r.OnRemove(func(d *Device) { hooked = append(hooked, d.Name) })

	r.Remove(child)

	assert.Empty(t, parent.Children())
	assert.Empty(t, supplier.Consumers())
	assert.Equal(t, []string{"child"}, hooked)
}

func TestMoveToEnd(t *testing.T) {
	r := NewWithDenyList(nil)
	a := NewDevice("a", nil)
	b := NewDevice("b", nil)
	c := NewDevice("c", nil)
	for _, d := range []*Device{a, b, c} {
		r.Add(d)
	}

	r.MoveToEnd(a)
	assert.Equal(t, []string{"b", "c", "a"}, names(r.Devices(ListActive)))

	r.MoveBefore(c, b)
	assert.Equal(t, []string{"c", "b", "a"}, names(r.Devices(ListActive)))

	r.MoveAfter(c, a)
	assert.Equal(t, []string{"b", "a", "c"}, names(r.Devices(ListActive)))
}

func TestAddSupplierLinkReordersConsumerSubtree(t *testing.T) {
	r := NewWithDenyList(nil)
	consumer := NewDevice("consumer", nil)
	child := NewDevice("child", consumer)
	supplier := NewDevice("supplier", nil)
	for _, d := range []*Device{consumer, child, supplier} {
		r.Add(d)
	}

	r.AddSupplierLink(consumer, supplier)

	// The consumer's whole subtree lands behind the supplier, parents
	// still ahead of children.
	assert.Equal(t, []string{"supplier", "consumer", "child"}, names(r.Devices(ListActive)))
	assert.Equal(t, []string{"supplier"}, names(consumer.Suppliers()))
	assert.Equal(t, []string{"consumer"}, names(supplier.Consumers()))
}

func TestRegistrationGate(t *testing.T) {
	r := NewWithDenyList(nil)
	assert.False(t, r.RegistrationGated())
	r.GateRegistration()
	assert.True(t, r.RegistrationGated())
	r.UngateRegistration()
	assert.False(t, r.RegistrationGated())
}

func TestForEachActive(t *testing.T) {
	r := NewWithDenyList(nil)
	r.Add(NewDevice("a", nil))
	r.Add(NewDevice("b", nil))

	var seen []string
	r.ForEachActive(func(d *Device) { seen = append(seen, d.Name) })
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestRefreshCallbackCheck(t *testing.T) {
	dev := NewDevice("bare", nil)
	dev.RefreshCallbackCheck()
	assert.True(t, dev.NoCallbacks())

	dev.Driver = &Driver{Name: "drv", Ops: &SleepOps{Suspend: func(*Device) error { return nil }}}
	dev.RefreshCallbackCheck()
	assert.False(t, dev.NoCallbacks())

	legacy := NewDevice("legacy", nil)
	legacy.Bus = &BusType{Name: "bus", LegacyResume: func(*Device) error { return nil }}
	legacy.RefreshCallbackCheck()
	assert.False(t, legacy.NoCallbacks())
}
