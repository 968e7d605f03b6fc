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

import "github.com/dsc-mgmt/device-sleep-control/internal/model"

// CallbackFunc is a per-phase transition callback. A non-nil error fails the
// device for the current phase.
type CallbackFunc func(*Device) error

// PrepareResult is the non-error half of a prepare callback's tri-state
// result.
type PrepareResult int

const (
	// PrepareFull - the device requires the full set of transition
	// callbacks this cycle.
	PrepareFull PrepareResult = iota

	// PrepareRuntimeSettled - the device looks runtime-suspended and its
	// state is fine, so it may skip its callbacks (direct-complete)
	// provided the same holds for all of its descendants. Only honored
	// for the plain suspend event.
	PrepareRuntimeSettled
)

// PrepareFunc is the prepare-phase callback. Returning model.ErrNotReady is
// a soft, per-device skip; any other error aborts the whole prepare pass.
type PrepareFunc func(*Device) (PrepareResult, error)

// CompleteFunc is the complete-phase callback. It cannot fail.
type CompleteFunc func(*Device)

// LegacySleepFunc is the single-function sleep callback older classes and
// buses expose in place of a structured SleepOps object. It receives the
// event because one function serves every sleep-direction transition.
type LegacySleepFunc func(*Device, model.SleepEvent) error

// LegacyWakeFunc is the wake-direction counterpart of LegacySleepFunc.
type LegacyWakeFunc func(*Device) error

// SleepOps is the structured set of transition callbacks a callback source
// may provide. Every field is optional; an absent plain/late/noirq callback
// lets resolution fall through to the driver level.
type SleepOps struct {
	Prepare  PrepareFunc
	Complete CompleteFunc

	Suspend  CallbackFunc
	Resume   CallbackFunc
	Freeze   CallbackFunc
	Thaw     CallbackFunc
	Poweroff CallbackFunc
	Restore  CallbackFunc

	SuspendLate  CallbackFunc
	ResumeEarly  CallbackFunc
	FreezeLate   CallbackFunc
	ThawEarly    CallbackFunc
	PoweroffLate CallbackFunc
	RestoreEarly CallbackFunc

	SuspendNoIrq  CallbackFunc
	ResumeNoIrq   CallbackFunc
	FreezeNoIrq   CallbackFunc
	ThawNoIrq     CallbackFunc
	PoweroffNoIrq CallbackFunc
	RestoreNoIrq  CallbackFunc
}

// IsEmpty reports whether the ops object defines no callback for any phase.
func (ops *SleepOps) IsEmpty() bool {
	if ops == nil {
		return true
	}
	return ops.Prepare == nil && ops.Complete == nil &&
		ops.Suspend == nil && ops.Resume == nil &&
		ops.Freeze == nil && ops.Thaw == nil &&
		ops.Poweroff == nil && ops.Restore == nil &&
		ops.SuspendLate == nil && ops.ResumeEarly == nil &&
		ops.FreezeLate == nil && ops.ThawEarly == nil &&
		ops.PoweroffLate == nil && ops.RestoreEarly == nil &&
		ops.SuspendNoIrq == nil && ops.ResumeNoIrq == nil &&
		ops.FreezeNoIrq == nil && ops.ThawNoIrq == nil &&
		ops.PoweroffNoIrq == nil && ops.RestoreNoIrq == nil
}

// opFor returns the plain-phase callback appropriate for the given event.
func opFor(ops *SleepOps, ev model.SleepEvent) CallbackFunc {
	if ops == nil {
		return nil
	}
	switch ev {
	case model.EventSuspend:
		return ops.Suspend
	case model.EventResume:
		return ops.Resume
	case model.EventFreeze, model.EventQuiesce:
		return ops.Freeze
	case model.EventHibernate:
		return ops.Poweroff
	case model.EventThaw, model.EventRecover:
		return ops.Thaw
	case model.EventRestore:
		return ops.Restore
	}
	return nil
}

// lateEarlyOpFor returns the late/early-phase callback for the given event.
func lateEarlyOpFor(ops *SleepOps, ev model.SleepEvent) CallbackFunc {
	if ops == nil {
		return nil
	}
	switch ev {
	case model.EventSuspend:
		return ops.SuspendLate
	case model.EventResume:
		return ops.ResumeEarly
	case model.EventFreeze, model.EventQuiesce:
		return ops.FreezeLate
	case model.EventHibernate:
		return ops.PoweroffLate
	case model.EventThaw, model.EventRecover:
		return ops.ThawEarly
	case model.EventRestore:
		return ops.RestoreEarly
	}
	return nil
}

// noIrqOpFor returns the noirq-phase callback for the given event.
func noIrqOpFor(ops *SleepOps, ev model.SleepEvent) CallbackFunc {
	if ops == nil {
		return nil
	}
	switch ev {
	case model.EventSuspend:
		return ops.SuspendNoIrq
	case model.EventResume:
		return ops.ResumeNoIrq
	case model.EventFreeze, model.EventQuiesce:
		return ops.FreezeNoIrq
	case model.EventHibernate:
		return ops.PoweroffNoIrq
	case model.EventThaw, model.EventRecover:
		return ops.ThawNoIrq
	case model.EventRestore:
		return ops.RestoreNoIrq
	}
	return nil
}

// PowerDomain supplies callbacks that take precedence over every other
// source for the devices it contains.
type PowerDomain struct {
	Name string
	Ops  SleepOps
}

// DeviceType groups devices of the same kind within a class.
type DeviceType struct {
	Name string
	Ops  *SleepOps
}

// DeviceClass is a higher-level device grouping. Older classes may carry
// legacy single-function callbacks instead of a structured ops object; a
// matched legacy callback is terminal and never falls through to the driver.
type DeviceClass struct {
	Name          string
	Ops           *SleepOps
	LegacySuspend LegacySleepFunc
	LegacyResume  LegacyWakeFunc
}

// BusType is the bus a device hangs off. Same legacy rule as DeviceClass.
type BusType struct {
	Name          string
	Ops           *SleepOps
	LegacySuspend LegacySleepFunc
	LegacyResume  LegacyWakeFunc
}

// Driver supplies the lowest-precedence callbacks and is the fall-through
// target when a higher source has an ops object without this phase's entry.
type Driver struct {
	Name string
	Ops  *SleepOps
}
