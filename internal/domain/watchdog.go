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
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
)

// The watchdog bounds a single plain-phase device callback. A callback that
// hangs would otherwise wedge the whole transition silently, with nothing in
// the logs naming the device. Expiry is deliberately fatal: a hung callback
// cannot be cancelled from outside, so the only honest options are to crash
// with a full stack snapshot or to hang forever. This is separate from the
// first-error channel on purpose; a timeout is not a result a device
// callback can return.

type watchdog struct {
	timer *time.Timer
}

// armWatchdog starts the timer for one device callback. Returns nil when
// the watchdog is disabled; disarm on a nil watchdog is a no-op.
func (t *transition) armWatchdog(dev *registry.Device) *watchdog {
	s := t.seq
	if s.WatchdogTimeout <= 0 {
		return nil
	}
	handler := s.OnWatchdog
	if handler == nil {
		handler = s.fatalWatchdog
	}
	phase := t.phase
	return &watchdog{
		timer: time.AfterFunc(s.WatchdogTimeout, func() {
			handler(dev, phase)
		}),
	}
}

func (w *watchdog) disarm() {
	if w != nil {
		w.timer.Stop()
	}
}

// fatalWatchdog dumps every goroutine stack and takes the process down.
func (s *Sequencer) fatalWatchdog(dev *registry.Device, phase model.Phase) {
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	s.Log.WithFields(logrus.Fields{
		"device": dev.Name,
		"phase":  phase.String(),
	}).Errorf("Device callback watchdog expired, goroutine dump follows\n%s", buf[:n])
	s.Log.Fatalf("device %s stuck in %s, aborting", dev.Name, phase.String())
}
