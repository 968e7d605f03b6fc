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
	"fmt"
)

var (
	// ErrNotReady is the soft prepare result. A device returning it is
	// excluded from the current cycle without failing the whole pass.
	ErrNotReady = errors.New("device not ready for power transition")

	// ErrWakeupPending aborts sleep-direction phases when a wakeup source
	// fired while devices were being suspended.
	ErrWakeupPending = errors.New("system wakeup pending")
)

// DeviceError ties the first failure of a transition to the device and
// phase it occurred in. Devices skipped because of an earlier failure
// report the originating error, not one of their own.
type DeviceError struct {
	Device string
	Phase  Phase
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s failed to %s: %v", e.Device, e.Phase, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
