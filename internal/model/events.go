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

package model

import (
	"errors"
	"strings"
)

// SleepEvent identifies the kind of system power transition being carried
// out. Sleep-direction events have matching wake-direction counterparts that
// are used when a transition has to be unwound.
type SleepEvent int

const (
	EventOn SleepEvent = iota
	EventSuspend
	EventResume
	EventFreeze
	EventQuiesce
	EventHibernate
	EventThaw
	EventRestore
	EventRecover
)

func (e SleepEvent) String() string {
	switch e {
	case EventOn:
		return "on"
	case EventSuspend:
		return "suspend"
	case EventResume:
		return "resume"
	case EventFreeze:
		return "freeze"
	case EventQuiesce:
		return "quiesce"
	case EventHibernate:
		return "hibernate"
	case EventThaw:
		return "thaw"
	case EventRestore:
		return "restore"
	case EventRecover:
		return "recover"
	}
	return "(unknown sleep event)"
}

// ToSleepEvent - Will return a valid SleepEvent from string.
func ToSleepEvent(ev string) (SleepEvent, error) {
	switch strings.ToLower(ev) {
	case "suspend":
		return EventSuspend, nil
	case "resume":
		return EventResume, nil
	case "freeze":
		return EventFreeze, nil
	case "quiesce":
		return EventQuiesce, nil
	case "hibernate":
		return EventHibernate, nil
	case "thaw":
		return EventThaw, nil
	case "restore":
		return EventRestore, nil
	case "recover":
		return EventRecover, nil
	}
	return EventOn, errors.New("invalid sleep event type " + ev)
}

// IsSleep reports whether the event moves the system toward a low-power
// state rather than out of one.
func (e SleepEvent) IsSleep() bool {
	switch e {
	case EventSuspend, EventFreeze, EventQuiesce, EventHibernate:
		return true
	}
	return false
}

// ResumeEvent returns the wake-direction event that undoes this
// sleep-direction event. A freeze or quiesce is unwound with recover, a
// hibernate with restore; never assume plain resume.
func (e SleepEvent) ResumeEvent() SleepEvent {
	switch e {
	case EventSuspend:
		return EventResume
	case EventFreeze, EventQuiesce:
		return EventRecover
	case EventHibernate:
		return EventRestore
	}
	return EventOn
}

// Phase is one stage of the transition pipeline.
type Phase int

const (
	PhasePrepare Phase = iota
	PhaseSuspend
	PhaseSuspendLate
	PhaseSuspendNoIrq
	PhaseResumeNoIrq
	PhaseResumeEarly
	PhaseResume
	PhaseComplete
)

func (p Phase) String() string {
	return [...]string{"prepare", "suspend", "suspend_late", "suspend_noirq",
		"resume_noirq", "resume_early", "resume", "complete"}[p]
}
