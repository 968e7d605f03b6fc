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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
)

// tagged returns a callback that records which source ran.
func tagged(ran *string, tag string) CallbackFunc {
	return func(*Device) error {
		*ran = tag
		return nil
	}
}

func TestResolveDomainBeatsEverything(t *testing.T) {
	var ran string
	dev := NewDevice("d", nil)
	dev.Domain = &PowerDomain{Ops: SleepOps{Suspend: tagged(&ran, "domain")}}
	dev.Class = &DeviceClass{Ops: &SleepOps{Suspend: tagged(&ran, "class")}}
	dev.Driver = &Driver{Ops: &SleepOps{Suspend: tagged(&ran, "driver")}}

	res := dev.Resolve(model.PhaseSuspend, model.EventSuspend)
	require.NotNil(t, res.Run)
	require.NoError(t, res.Run(dev))
	assert.Equal(t, "domain", ran)
	assert.Equal(t, "power domain", res.Source)
}

func TestResolveMissingEntryFallsThroughToDriverOnly(t *testing.T) {
	var ran string
	dev := NewDevice("d", nil)
	// The class owns structured ops but has no suspend entry; the bus does
	// have one and must be skipped: the fall-through goes straight to the
	// driver level.
	dev.Class = &DeviceClass{Ops: &SleepOps{Resume: tagged(&ran, "class")}}
	dev.Bus = &BusType{Ops: &SleepOps{Suspend: tagged(&ran, "bus")}}
	dev.Driver = &Driver{Ops: &SleepOps{Suspend: tagged(&ran, "driver")}}

	res := dev.Resolve(model.PhaseSuspend, model.EventSuspend)
	require.NotNil(t, res.Run)
	require.NoError(t, res.Run(dev))
	assert.Equal(t, "driver", ran)
	assert.Equal(t, "driver", res.Source)
}

func TestResolveLegacyClassIsTerminal(t *testing.T) {
	var ran string
	dev := NewDevice("d", nil)
	dev.Class = &DeviceClass{
		LegacySuspend: func(d *Device, ev model.SleepEvent) error {
			ran = "legacy-class"
			return nil
		},
	}
	dev.Driver = &Driver{Ops: &SleepOps{
		Suspend: tagged(&ran, "driver"),
		Resume:  tagged(&ran, "driver"),
	}}

	res := dev.Resolve(model.PhaseSuspend, model.EventSuspend)
	require.NotNil(t, res.Run)
	require.NoError(t, res.Run(dev))
	assert.Equal(t, "legacy-class", ran)
	assert.Equal(t, "legacy class", res.Source)

	// The terminal rule applies per direction: with no legacy resume at
	// the class level, wake resolution keeps walking down to the driver.
	res = dev.Resolve(model.PhaseResume, model.EventResume)
	require.NotNil(t, res.Run)
	require.NoError(t, res.Run(dev))
	assert.Equal(t, "driver", ran)
}

func TestResolveLegacyBusOnlyInPlainPhases(t *testing.T) {
	var ran string
	dev := NewDevice("d", nil)
	dev.Bus = &BusType{
		LegacySuspend: func(d *Device, ev model.SleepEvent) error {
			ran = "legacy-bus"
			return nil
		},
	}
	dev.Driver = &Driver{Ops: &SleepOps{SuspendLate: tagged(&ran, "driver-late")}}

	// Late phase: legacy does not participate, driver entry is used.
	res := dev.Resolve(model.PhaseSuspendLate, model.EventSuspend)
	require.NotNil(t, res.Run)
	require.NoError(t, res.Run(dev))
	assert.Equal(t, "driver-late", ran)
}

func TestResolveEventMapping(t *testing.T) {
	var ran string
	dev := NewDevice("d", nil)
	dev.Driver = &Driver{Ops: &SleepOps{
		Freeze:   tagged(&ran, "freeze"),
		Thaw:     tagged(&ran, "thaw"),
		Poweroff: tagged(&ran, "poweroff"),
		Restore:  tagged(&ran, "restore"),
	}}

	cases := []struct {
		phase model.Phase
		ev    model.SleepEvent
		want  string
	}{
		{model.PhaseSuspend, model.EventFreeze, "freeze"},
		{model.PhaseSuspend, model.EventQuiesce, "freeze"},
		{model.PhaseSuspend, model.EventHibernate, "poweroff"},
		{model.PhaseResume, model.EventThaw, "thaw"},
		{model.PhaseResume, model.EventRecover, "thaw"},
		{model.PhaseResume, model.EventRestore, "restore"},
	}
	for _, tc := range cases {
		res := dev.Resolve(tc.phase, tc.ev)
		require.NotNil(t, res.Run, tc.want)
		require.NoError(t, res.Run(dev))
		assert.Equal(t, tc.want, ran)
	}
}

func TestResolvePrepareFallsThrough(t *testing.T) {
	dev := NewDevice("d", nil)
	dev.Type = &DeviceType{Ops: &SleepOps{}}
	dev.Driver = &Driver{Ops: &SleepOps{
		Prepare: func(*Device) (PrepareResult, error) { return PrepareRuntimeSettled, nil },
	}}

	cb, source := dev.ResolvePrepare()
	require.NotNil(t, cb)
	assert.Equal(t, "driver", source)
	result, err := cb(dev)
	require.NoError(t, err)
	assert.Equal(t, PrepareRuntimeSettled, result)
}

func TestResolveNothingAnywhere(t *testing.T) {
	dev := NewDevice("d", nil)
	res := dev.Resolve(model.PhaseSuspend, model.EventSuspend)
	assert.Nil(t, res.Run)

	cb, _ := dev.ResolvePrepare()
	assert.Nil(t, cb)
	complete, _ := dev.ResolveComplete()
	assert.Nil(t, complete)
}
