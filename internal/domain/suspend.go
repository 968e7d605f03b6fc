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
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
)

// Prepare runs every active device through its prepare callback and moves
// the prepared ones onto the prepared list, in discovery order, on the
// calling thread. New-device registration is gated for the duration of the
// transition; Complete lifts the gate.
//
// A device answering with the not-ready sentinel is left on the active list
// and sits this cycle out. Any other failure stops the pass with the device
// still active.
func (s *Sequencer) Prepare(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhasePrepare)
	rec := t.beginRecord()
	start := time.Now()

	s.Registry.GateRegistration()

	count := s.Registry.Len(registry.ListActive)
	for i := 0; i < count; i++ {
		dev := s.Registry.PopFront(registry.ListActive)
		if dev == nil {
			break
		}
		err := t.devicePrepare(dev)
		if err == nil {
			dev.SetPrepared(true)
			s.Registry.PushBack(registry.ListPrepared, dev)
			continue
		}
		if errors.Is(err, model.ErrNotReady) {
			s.Log.WithFields(logrus.Fields{"device": dev.Name}).Info(
				"Device not ready, leaving it out of this cycle")
			t.recordTask(dev, true, nil)
			s.Registry.PushBack(registry.ListActive, dev)
			continue
		}
		s.Registry.PushFront(registry.ListActive, dev)
		t.finishDevice(dev, false, err)
		break
	}

	return t.finish(rec, count, start)
}

// devicePrepare settles one device's policy for the upcoming cycle: pin it
// against runtime idling, seed the wakeup path from its wakeup capability,
// and run the prepare callback. A runtime-settled answer (or no callbacks at
// any level) makes the device a direct-complete candidate, but only when the
// target event is plain suspend.
func (t *transition) devicePrepare(dev *registry.Device) error {
	if dev.CoreSystem {
		t.recordTask(dev, true, nil)
		return nil
	}
	s := t.seq

	dev.SetDirectComplete(false)
	s.Runtime.Pin(dev)

	dev.Lock()
	dev.SetWakeupPath(dev.CanWakeup)

	var result registry.PrepareResult
	var err error
	if dev.NoCallbacks() {
		// No source anywhere defines a callback, so the device state
		// cannot go stale across the cycle.
		result = registry.PrepareRuntimeSettled
	} else if cb, _ := dev.ResolvePrepare(); cb != nil {
		result, err = cb(dev)
	}
	dev.Unlock()

	if err != nil {
		// The pin is balanced here because this device will never see
		// the complete phase.
		s.Runtime.Unpin(dev)
		return err
	}

	dev.SetDirectComplete(t.event == model.EventSuspend &&
		result == registry.PrepareRuntimeSettled)
	t.recordTask(dev, false, nil)
	return nil
}

// Suspend runs the plain suspend phase over the prepared list, children
// before parents, moving devices to the suspended list. The first failure
// aborts the phase; devices still pending flow through as skips so their
// completions fire for whoever is waiting.
func (s *Sequencer) Suspend(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhaseSuspend)
	rec := t.beginRecord()
	start := time.Now()
	count := s.Registry.Len(registry.ListPrepared)

	t.runPhase(registry.ListPrepared, registry.ListSuspended, true,
		(*transition).deviceSuspend)

	return t.finish(rec, count, start)
}

func (t *transition) deviceSuspend(dev *registry.Device, async bool) (err error) {
	skipped := true
	defer func() { t.finishDevice(dev, skipped, err) }()

	s := t.seq
	t.waitForSubordinate(dev, async)

	if t.failed() {
		return nil
	}

	// A runtime resume request pending against a wakeup-capable device is
	// a wakeup event in disguise; the barrier forces it to be honored
	// before the check below.
	s.Runtime.Barrier(dev)

	if s.Wakeup != nil && s.Wakeup.Pending() {
		s.Wakeup.RecordAbortReason("wakeup event pending before " +
			dev.Name + " suspend")
		err = model.ErrWakeupPending
		return err
	}

	if dev.CoreSystem {
		return nil
	}

	if dev.DirectComplete() {
		if s.Runtime.IsSuspended(dev) {
			s.Runtime.Disable(dev)
			if s.Runtime.IsSuspended(dev) {
				// Runtime state holds with the subsystem fenced
				// off; the device keeps its license and skips
				// every remaining callback until resume.
				return nil
			}
			s.Runtime.Enable(dev)
		}
		dev.SetDirectComplete(false)
	}

	wd := t.armWatchdog(dev)
	dev.Lock()

	skipped = false
	err = t.runCallback(dev, dev.Resolve(model.PhaseSuspend, t.event))

	if err == nil {
		dev.SetSuspended(true)
		dev.MarkWakeupPathToParent()
		for _, sup := range dev.Suppliers() {
			sup.SetDirectComplete(false)
		}
	}

	dev.Unlock()
	wd.disarm()
	return err
}

// SuspendLate runs the late suspend phase, suspended list to late-early
// list. On failure the devices already late-suspended are brought back with
// the early resume phase of the matching wake event.
func (s *Sequencer) SuspendLate(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhaseSuspendLate)
	rec := t.beginRecord()
	start := time.Now()
	count := s.Registry.Len(registry.ListSuspended)

	t.runPhase(registry.ListSuspended, registry.ListLateEarly, true,
		(*transition).deviceSuspendLate)

	devErr := t.finish(rec, count, start)
	if devErr != nil {
		s.ResumeEarly(ev.ResumeEvent())
	}
	return devErr
}

func (t *transition) deviceSuspendLate(dev *registry.Device, async bool) (err error) {
	skipped := true
	defer func() { t.finishDevice(dev, skipped, err) }()

	s := t.seq

	// Runtime transitions are fenced off from here until early resume,
	// unconditionally, so late callbacks never race a runtime wakeup.
	s.Runtime.Disable(dev)

	t.waitForSubordinate(dev, async)

	if t.failed() {
		return nil
	}
	if s.Wakeup != nil && s.Wakeup.Pending() {
		err = model.ErrWakeupPending
		return err
	}
	if dev.CoreSystem || dev.DirectComplete() {
		return nil
	}

	skipped = false
	err = t.runCallback(dev, dev.Resolve(model.PhaseSuspendLate, t.event))
	if err == nil {
		dev.SetLateSuspended(true)
	}
	return err
}

// SuspendNoIrq runs the final sleep phase, late-early list to noirq list.
// Device interrupt delivery is assumed off around this phase, so callbacks
// must not rely on their interrupt handlers. On failure the noirq resume
// phase of the matching wake event is run before returning.
func (s *Sequencer) SuspendNoIrq(ev model.SleepEvent) *model.DeviceError {
	t := s.begin(ev, model.PhaseSuspendNoIrq)
	rec := t.beginRecord()
	start := time.Now()
	count := s.Registry.Len(registry.ListLateEarly)

	t.runPhase(registry.ListLateEarly, registry.ListNoIrq, true,
		(*transition).deviceSuspendNoIrq)

	devErr := t.finish(rec, count, start)
	if devErr != nil {
		s.ResumeNoIrq(ev.ResumeEvent())
	}
	return devErr
}

func (t *transition) deviceSuspendNoIrq(dev *registry.Device, async bool) (err error) {
	skipped := true
	defer func() { t.finishDevice(dev, skipped, err) }()

	s := t.seq
	t.waitForSubordinate(dev, async)

	if t.failed() {
		return nil
	}
	if s.Wakeup != nil && s.Wakeup.Pending() {
		err = model.ErrWakeupPending
		return err
	}
	if dev.CoreSystem || dev.DirectComplete() {
		return nil
	}

	skipped = false
	err = t.runCallback(dev, dev.Resolve(model.PhaseSuspendNoIrq, t.event))
	if err == nil {
		dev.SetNoIrqSuspended(true)
	}
	return err
}

// SuspendStart is the first half of entering a sleep state: prepare, then
// plain suspend. A prepare failure returns with nothing suspended; the
// caller unwinds with ResumeEnd, which completes whatever prepared.
func (s *Sequencer) SuspendStart(ev model.SleepEvent) *model.DeviceError {
	if devErr := s.Prepare(ev); devErr != nil {
		return devErr
	}
	return s.Suspend(ev)
}

// SuspendEnd is the second half: late suspend, then noirq suspend. Failures
// roll the pipeline back to the state SuspendStart left it in, so ResumeEnd
// is always the correct unwind for the caller.
func (s *Sequencer) SuspendEnd(ev model.SleepEvent) *model.DeviceError {
	if devErr := s.SuspendLate(ev); devErr != nil {
		return devErr
	}
	if devErr := s.SuspendNoIrq(ev); devErr != nil {
		s.ResumeEarly(ev.ResumeEvent())
		return devErr
	}
	return nil
}
