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

import (
	"time"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
)

// The wake direction differs from the sleep direction in one important way:
// it never aborts. A device that fails to resume is logged and reported,
// but every other device still gets its chance to come back; leaving half
// the tree dead because one driver misbehaved would turn a driver bug into
// a system outage.

// ResumeNoIrq undoes the noirq suspend phase, parents before children,
// moving devices from the noirq list back to the late-early list.
func (s *Sequencer) ResumeNoIrq(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhaseResumeNoIrq)
	rec := t.beginRecord()
	start := time.Now()
	count := s.Registry.Len(registry.ListNoIrq)

	t.runPhase(registry.ListNoIrq, registry.ListLateEarly, false,
		(*transition).deviceResumeNoIrq)

	return t.finish(rec, count, start)
}

func (t *transition) deviceResumeNoIrq(dev *registry.Device, async bool) (err error) {
	skipped := true
	defer func() { t.finishDevice(dev, skipped, err) }()

	if dev.CoreSystem || dev.DirectComplete() {
		return nil
	}
	// Only devices the noirq suspend phase actually reached get the
	// inverse callback; a device skipped on the way down is skipped on
	// the way up.
	if !dev.NoIrqSuspended() {
		return nil
	}
	if !t.waitForSuperior(dev, async) {
		return nil
	}

	skipped = false
	err = t.runCallback(dev, dev.Resolve(model.PhaseResumeNoIrq, t.event))
	dev.SetNoIrqSuspended(false)
	return err
}

// ResumeEarly undoes the late suspend phase, late-early list back to the
// suspended list, and lifts the runtime fence SuspendLate put down.
func (s *Sequencer) ResumeEarly(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhaseResumeEarly)
	rec := t.beginRecord()
	start := time.Now()
	count := s.Registry.Len(registry.ListLateEarly)

	t.runPhase(registry.ListLateEarly, registry.ListSuspended, false,
		(*transition).deviceResumeEarly)

	return t.finish(rec, count, start)
}

func (t *transition) deviceResumeEarly(dev *registry.Device, async bool) (err error) {
	skipped := true
	defer func() {
		// Balances the unconditional fence in the late suspend phase,
		// on every path through this function.
		t.seq.Runtime.Enable(dev)
		t.finishDevice(dev, skipped, err)
	}()

	if dev.CoreSystem || dev.DirectComplete() {
		return nil
	}
	if !dev.LateSuspended() {
		return nil
	}
	if !t.waitForSuperior(dev, async) {
		return nil
	}

	skipped = false
	err = t.runCallback(dev, dev.Resolve(model.PhaseResumeEarly, t.event))
	dev.SetLateSuspended(false)
	return err
}

// Resume undoes the plain suspend phase, suspended list back to the
// prepared list. Direct-complete devices surface here: their runtime fence
// is lifted and their callbacks stay untouched, the whole point of the
// license they were granted at prepare.
func (s *Sequencer) Resume(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhaseResume)
	rec := t.beginRecord()
	start := time.Now()
	count := s.Registry.Len(registry.ListSuspended)

	t.runPhase(registry.ListSuspended, registry.ListPrepared, false,
		(*transition).deviceResume)

	return t.finish(rec, count, start)
}

func (t *transition) deviceResume(dev *registry.Device, async bool) (err error) {
	skipped := true
	defer func() { t.finishDevice(dev, skipped, err) }()

	s := t.seq

	if dev.CoreSystem {
		return nil
	}
	if dev.DirectComplete() {
		// Matches the runtime disable taken when the license was
		// consumed on the way down.
		s.Runtime.Enable(dev)
		dev.SetDirectComplete(false)
		return nil
	}
	if !t.waitForSuperior(dev, async) {
		return nil
	}

	wd := t.armWatchdog(dev)
	dev.Lock()

	// A fib: the device has not completed yet, but new children may
	// already be added below a resumed device.
	dev.SetPrepared(false)

	if dev.Suspended() {
		skipped = false
		err = t.runCallback(dev, dev.Resolve(model.PhaseResume, t.event))
		dev.SetSuspended(false)
	}

	dev.Unlock()
	wd.disarm()
	return err
}

// Complete drains the prepared list last-in first-out, children before
// parents, running each device's complete callback and re-attaching the
// device to the active list in discovery order. It runs on the calling
// thread, cannot fail, and ends the transition by lifting the registration
// gate.
func (s *Sequencer) Complete(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhaseComplete)
	rec := t.beginRecord()
	start := time.Now()

	count := s.Registry.Len(registry.ListPrepared)
	for i := 0; i < count; i++ {
		dev := s.Registry.PopBack(registry.ListPrepared)
		if dev == nil {
			break
		}
		dev.SetPrepared(false)
		t.deviceComplete(dev)
		s.Registry.PushFront(registry.ListActive, dev)
	}

	s.Registry.UngateRegistration()

	return t.finish(rec, count, start)
}

func (t *transition) deviceComplete(dev *registry.Device) {
	if dev.CoreSystem {
		t.recordTask(dev, true, nil)
		return
	}

	dev.Lock()
	if cb, _ := dev.ResolveComplete(); cb != nil {
		cb(dev)
	}
	dev.Unlock()

	// Balances the pin taken at prepare.
	t.seq.Runtime.Unpin(dev)
	t.recordTask(dev, false, nil)
}

// ResumeStart is the first half of leaving a sleep state: noirq resume then
// early resume. Early resume is held back if the noirq phase reported a
// failure; the half-woken state is left for the caller to inspect.
func (s *Sequencer) ResumeStart(ev model.SleepEvent) *model.DeviceError {
	if devErr := s.ResumeNoIrq(ev); devErr != nil {
		return devErr
	}
	return s.ResumeEarly(ev)
}

// ResumeEnd is the second half and the universal unwind: plain resume then
// complete, both unconditional, so every prepared device is completed no
// matter how far the sleep direction got.
func (s *Sequencer) ResumeEnd(ev model.SleepEvent) *model.DeviceError {
	devErr := s.Resume(ev)
	s.Complete(ev)
	return devErr
}
