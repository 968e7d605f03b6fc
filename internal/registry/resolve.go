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

// Callback resolution walks the five sources in fixed precedence order:
// power domain, device type, device class, bus, driver. The first source
// that owns a structured ops object decides the outcome: if its ops define
// the callback for this phase it is used, and if not, resolution falls
// straight through to the driver level, never to the sources in between. A
// legacy single-function class or bus callback matches only when that source
// has no structured ops at all, and a legacy match is terminal: the driver
// is not consulted even if the legacy function covers a different direction.
//
// Each provider carries an explicit terminal/fall-through outcome rather
// than relying on implicit control flow, because the asymmetry between the
// legacy and structured rules is easy to lose otherwise.

// Resolution is the outcome of callback resolution for one device and phase.
type Resolution struct {
	// Run invokes the resolved callback. Nil when no source defines one;
	// the phase is then a no-op for this device.
	Run CallbackFunc
	// Source names the level that matched, for diagnostics.
	Source string
}

type provider struct {
	source string
	ops    *SleepOps
	// legacy callbacks, class/bus only
	legacySleep LegacySleepFunc
	legacyWake  LegacyWakeFunc
	// driverLevel marks the final fall-through target.
	driverLevel bool
}

func (d *Device) providers() [5]provider {
	var p [5]provider
	p[0].source = "power domain"
	if d.Domain != nil {
		p[0].ops = &d.Domain.Ops
	}
	p[1].source = "type"
	if d.Type != nil {
		p[1].ops = d.Type.Ops
	}
	p[2].source = "class"
	if d.Class != nil {
		p[2].ops = d.Class.Ops
		p[2].legacySleep = d.Class.LegacySuspend
		p[2].legacyWake = d.Class.LegacyResume
	}
	p[3].source = "bus"
	if d.Bus != nil {
		p[3].ops = d.Bus.Ops
		p[3].legacySleep = d.Bus.LegacySuspend
		p[3].legacyWake = d.Bus.LegacyResume
	}
	p[4].source = "driver"
	p[4].driverLevel = true
	if d.Driver != nil {
		p[4].ops = d.Driver.Ops
	}
	return p
}

// Resolve picks the callback for a plain, late/early or noirq phase. Legacy
// single-function callbacks participate only in the plain phases.
func (d *Device) Resolve(phase model.Phase, ev model.SleepEvent) Resolution {
	var pick func(*SleepOps) CallbackFunc
	legacyPhase := false

	switch phase {
	case model.PhaseSuspend, model.PhaseResume:
		pick = func(ops *SleepOps) CallbackFunc { return opFor(ops, ev) }
		legacyPhase = true
	case model.PhaseSuspendLate, model.PhaseResumeEarly:
		pick = func(ops *SleepOps) CallbackFunc { return lateEarlyOpFor(ops, ev) }
	case model.PhaseSuspendNoIrq, model.PhaseResumeNoIrq:
		pick = func(ops *SleepOps) CallbackFunc { return noIrqOpFor(ops, ev) }
	default:
		return Resolution{}
	}

	providers := d.providers()
	for i := range providers {
		p := &providers[i]

		if p.driverLevel {
			if p.ops != nil {
				return Resolution{Run: pick(p.ops), Source: p.source}
			}
			return Resolution{}
		}

		if p.ops != nil {
			// Structured ops present at this level. An absent entry
			// for this phase falls through to the driver only.
			if cb := pick(p.ops); cb != nil {
				return Resolution{Run: cb, Source: p.source}
			}
			return d.driverFallback(pick)
		}

		if legacyPhase {
			if ev.IsSleep() && p.legacySleep != nil {
				cb := p.legacySleep
				return Resolution{
					Run:    func(dev *Device) error { return cb(dev, ev) },
					Source: "legacy " + p.source,
				}
			}
			if !ev.IsSleep() && p.legacyWake != nil {
				return Resolution{
					Run:    CallbackFunc(p.legacyWake),
					Source: "legacy " + p.source,
				}
			}
		}
	}
	return Resolution{}
}

func (d *Device) driverFallback(pick func(*SleepOps) CallbackFunc) Resolution {
	if d.Driver != nil && d.Driver.Ops != nil {
		return Resolution{Run: pick(d.Driver.Ops), Source: "driver"}
	}
	return Resolution{}
}

// ResolvePrepare picks the prepare callback. Legacy callbacks have no
// prepare form, so the chain is structured ops with driver fall-through.
func (d *Device) ResolvePrepare() (PrepareFunc, string) {
	providers := d.providers()
	for i := range providers {
		p := &providers[i]
		if p.ops == nil {
			continue
		}
		if p.driverLevel {
			return p.ops.Prepare, p.source
		}
		if p.ops.Prepare != nil {
			return p.ops.Prepare, p.source
		}
		if d.Driver != nil && d.Driver.Ops != nil {
			return d.Driver.Ops.Prepare, "driver"
		}
		return nil, ""
	}
	return nil, ""
}

// ResolveComplete picks the complete callback, same shape as prepare.
func (d *Device) ResolveComplete() (CompleteFunc, string) {
	providers := d.providers()
	for i := range providers {
		p := &providers[i]
		if p.ops == nil {
			continue
		}
		if p.driverLevel {
			return p.ops.Complete, p.source
		}
		if p.ops.Complete != nil {
			return p.ops.Complete, p.source
		}
		if d.Driver != nil && d.Driver.Ops != nil {
			return d.Driver.Ops.Complete, "driver"
		}
		return nil, ""
	}
	return nil, ""
}
