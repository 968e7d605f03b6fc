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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeEventMapping(t *testing.T) {
	cases := map[SleepEvent]SleepEvent{
		EventSuspend:   EventResume,
		EventFreeze:    EventRecover,
		EventQuiesce:   EventRecover,
		EventHibernate: EventRestore,
	}
	for down, up := range cases {
		assert.Equal(t, up, down.ResumeEvent(), down.String())
	}
	// Wake-direction events have no wake counterpart of their own.
	assert.Equal(t, EventOn, EventResume.ResumeEvent())
}

func TestSleepDirection(t *testing.T) {
	for _, ev := range []SleepEvent{EventSuspend, EventFreeze, EventQuiesce, EventHibernate} {
		assert.True(t, ev.IsSleep(), ev.String())
	}
	for _, ev := range []SleepEvent{EventOn, EventResume, EventThaw, EventRestore, EventRecover} {
		assert.False(t, ev.IsSleep(), ev.String())
	}
}

func TestToSleepEventRoundTrip(t *testing.T) {
	for _, ev := range []SleepEvent{EventSuspend, EventResume, EventFreeze,
		EventQuiesce, EventHibernate, EventThaw, EventRestore, EventRecover} {
		parsed, err := ToSleepEvent(ev.String())
		require.NoError(t, err, ev.String())
		assert.Equal(t, ev, parsed)
	}
	_, err := ToSleepEvent("warp")
	assert.Error(t, err)
}

func TestDeviceErrorWrapping(t *testing.T) {
	devErr := &DeviceError{Device: "nic0", Phase: PhaseSuspendLate, Err: ErrWakeupPending}
	assert.Contains(t, devErr.Error(), "nic0")
	assert.Contains(t, devErr.Error(), "suspend_late")
	assert.True(t, errors.Is(devErr, ErrWakeupPending))
}
