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

// Package domain drives devices through system-wide sleep and wake
// transitions. A transition is a pipeline of phases; each phase walks one
// registry list and moves every device to the next list, running the
// device's resolved callback on the way. Ordering constraints between
// related devices are enforced by per-device completions, not by global
// barriers, so independent subtrees proceed in parallel when async is
// enabled.
package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dsc-mgmt/device-sleep-control/internal/logger"
	"github.com/dsc-mgmt/device-sleep-control/internal/model"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
	"github.com/dsc-mgmt/device-sleep-control/internal/runtimepm"
	"github.com/dsc-mgmt/device-sleep-control/internal/storage"
	"github.com/dsc-mgmt/device-sleep-control/internal/wakeup"
)

// DefaultWatchdogTimeout bounds a single plain-phase device callback.
const DefaultWatchdogTimeout = 120 * time.Second

// Sequencer owns one device pipeline. All the state the phase executors
// share lives here or in the per-call transition context; nothing is
// package-global, so independent pipelines (tests, simulators) do not
// interfere.
type Sequencer struct {
	Registry *registry.Registry
	Runtime  runtimepm.Provider
	Wakeup   wakeup.Provider
	Store    storage.Provider

	// AsyncEnabled gates the async scheduler as a whole. With it off,
	// every device transitions on the calling thread regardless of its
	// own opt-in.
	AsyncEnabled bool

	// WatchdogTimeout bounds one plain suspend/resume callback. Zero or
	// negative disables the watchdog.
	WatchdogTimeout time.Duration

	// OnWatchdog replaces the fatal default expiry handler. Tests use
	// this; production leaves it nil.
	OnWatchdog func(dev *registry.Device, phase model.Phase)

	Log *logrus.Logger
}

// New wires a sequencer with the stock policy: async enabled, default
// watchdog timeout, shared process logger.
func New(reg *registry.Registry, rt runtimepm.Provider, wk wakeup.Provider, st storage.Provider) *Sequencer {
	if logger.Log == nil {
		logger.Init()
	}
	s := &Sequencer{
		Registry:        reg,
		Runtime:         rt,
		Wakeup:          wk,
		Store:           st,
		AsyncEnabled:    true,
		WatchdogTimeout: DefaultWatchdogTimeout,
		Log:             logger.Log,
	}
	reg.OnRemove(func(dev *registry.Device) {
		if s.Runtime != nil {
			s.Runtime.Remove(dev)
		}
		if s.Wakeup != nil {
			s.Wakeup.Remove(dev)
		}
	})
	return s
}

// transition is the context of one top-level phase invocation: identity for
// the stored records, the shared first-error cell, and the join point for
// async device tasks.
type transition struct {
	seq   *Sequencer
	id    uuid.UUID
	event model.SleepEvent
	phase model.Phase

	mu       sync.Mutex
	firstErr error
	firstDev string

	wg sync.WaitGroup
}

func (s *Sequencer) begin(ev model.SleepEvent, phase model.Phase) *transition {
	return &transition{
		seq:   s,
		id:    uuid.New(),
		event: ev,
		phase: phase,
	}
}

// setError latches the first failure of the invocation. Later failures are
// logged by their device task but do not replace the first one.
func (t *transition) setError(dev *registry.Device, err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	if t.firstErr == nil {
		t.firstErr = err
		t.firstDev = dev.Name
	}
	t.mu.Unlock()
}

func (t *transition) failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.firstErr != nil
}

// result wraps the latched failure, if any, with its device and phase.
func (t *transition) result() *model.DeviceError {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.firstErr == nil {
		return nil
	}
	return &model.DeviceError{Device: t.firstDev, Phase: t.phase, Err: t.firstErr}
}

// finishDevice is the single exit point of every device task: it persists
// the per-device outcome and fires the completion other devices wait on.
// Completion must fire on every path, ran, failed or skipped, or waiters
// on the other side of a parent/child or supplier link would hang.
func (t *transition) finishDevice(dev *registry.Device, skipped bool, err error) {
	if err != nil {
		t.setError(dev, err)
		t.seq.Log.WithFields(logrus.Fields{
			"device": dev.Name, "phase": t.phase.String(), "ERROR": err,
		}).Error("Device failed power transition phase")
	}
	t.recordTask(dev, skipped, err)
	dev.Completion().Signal()
}

func (t *transition) recordTask(dev *registry.Device, skipped bool, err error) {
	if t.seq.Store == nil {
		return
	}
	task := model.TaskRecord{
		TransitionID: t.id,
		Device:       dev.Name,
		Phase:        t.phase.String(),
		Status:       model.TaskStatusSucceeded,
	}
	switch {
	case err != nil:
		task.Status = model.TaskStatusFailed
		task.Error = err.Error()
	case skipped:
		task.Status = model.TaskStatusSkipped
	}
	if serr := t.seq.Store.StoreTask(task); serr != nil {
		t.seq.Log.WithFields(logrus.Fields{"ERROR": serr}).Warn("Failed to store task record")
	}
}

// runCallback invokes a resolved callback with trace logging and timing.
func (t *transition) runCallback(dev *registry.Device, res registry.Resolution) error {
	if res.Run == nil {
		return nil
	}
	t.seq.Log.WithFields(logrus.Fields{
		"device": dev.Name, "phase": t.phase.String(), "source": res.Source,
	}).Trace("Running device callback")
	start := time.Now()
	err := res.Run(dev)
	elapsed := time.Since(start)
	if elapsed > time.Second {
		t.seq.Log.WithFields(logrus.Fields{
			"device": dev.Name, "phase": t.phase.String(),
			"source": res.Source, "duration": elapsed.String(),
		}).Info("Slow device callback")
	}
	return err
}

// finish closes out the invocation: timing log in the style of the phase
// summary lines operators grep for, plus the stored transition record.
func (t *transition) finish(rec *model.TransitionRecord, count int, start time.Time) *model.DeviceError {
	devErr := t.result()
	elapsed := time.Since(start)

	fields := logrus.Fields{
		"event":    t.event.String(),
		"phase":    t.phase.String(),
		"devices":  count,
		"duration": elapsed.String(),
	}
	if devErr != nil {
		fields["failedDevice"] = devErr.Device
		fields["ERROR"] = devErr.Err
		t.seq.Log.WithFields(fields).Error("Devices phase aborted")
	} else {
		t.seq.Log.WithFields(fields).Info("Devices phase complete")
	}

	if t.seq.Store != nil && rec != nil {
		rec.EndTime = time.Now()
		rec.Status = model.TransitionStatusCompleted
		if devErr != nil {
			rec.Status = model.TransitionStatusAborted
			rec.FailedDevice = devErr.Device
			rec.Error = devErr.Err.Error()
		}
		if serr := t.seq.Store.StoreTransition(*rec); serr != nil {
			t.seq.Log.WithFields(logrus.Fields{"ERROR": serr}).Warn("Failed to store transition record")
		}
	}
	return devErr
}

// beginRecord stores the in-progress transition record so the status API
// shows a phase while it runs, not only after it ends.
func (t *transition) beginRecord() *model.TransitionRecord {
	if t.seq.Store == nil {
		return nil
	}
	rec := model.NewTransitionRecord(t.event, t.phase)
	rec.TransitionID = t.id
	if serr := t.seq.Store.StoreTransition(rec); serr != nil {
		t.seq.Log.WithFields(logrus.Fields{"ERROR": serr}).Warn("Failed to store transition record")
	}
	return &rec
}

// WaitForDevice blocks until the device's current phase work, if any, has
// finished.
func (s *Sequencer) WaitForDevice(dev *registry.Device) {
	dev.Completion().Wait()
}
