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

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dsc-mgmt/device-sleep-control/internal/logger"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
	"github.com/sirupsen/logrus"
)

// The topology file describes a simulated device tree: a name and parent per
// device plus knobs for the behaviors worth exercising without hardware,
// callback latency, injected per-phase failures, async opt-in, wakeup
// capability and supplier links. Parents must be declared before children so
// file order is a valid discovery order.

type topologyFile struct {
	Devices []deviceSpec `yaml:"devices"`
}

type deviceSpec struct {
	Name           string   `yaml:"name"`
	Parent         string   `yaml:"parent"`
	Async          bool     `yaml:"async"`
	Wakeup         bool     `yaml:"wakeup"`
	IgnoreChildren bool     `yaml:"ignoreChildren"`
	CoreSystem     bool     `yaml:"coreSystem"`
	NoCallbacks    bool     `yaml:"noCallbacks"`
	Suppliers      []string `yaml:"suppliers"`
	Latency        string   `yaml:"latency"`
	FailPhase      string   `yaml:"failPhase"`
}

// loadTopology reads the YAML file and populates the registry with devices
// backed by simulated driver callbacks.
func loadTopology(path string, reg *registry.Registry) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading topology: %w", err)
	}
	var topo topologyFile
	if err := yaml.Unmarshal(raw, &topo); err != nil {
		return fmt.Errorf("parsing topology: %w", err)
	}

	byName := make(map[string]*registry.Device, len(topo.Devices))
	for _, spec := range topo.Devices {
		if spec.Name == "" {
			return fmt.Errorf("topology device with empty name")
		}
		if _, dup := byName[spec.Name]; dup {
			return fmt.Errorf("duplicate device %q in topology", spec.Name)
		}

		var parent *registry.Device
		if spec.Parent != "" {
			parent = byName[spec.Parent]
			if parent == nil {
				return fmt.Errorf("device %q declares parent %q before it is defined",
					spec.Name, spec.Parent)
			}
		}

		var latency time.Duration
		if spec.Latency != "" {
			latency, err = time.ParseDuration(spec.Latency)
			if err != nil {
				return fmt.Errorf("device %q latency: %w", spec.Name, err)
			}
		}

		dev := registry.NewDevice(spec.Name, parent)
		dev.AsyncOptIn = spec.Async
		dev.CanWakeup = spec.Wakeup
		dev.IgnoreChildren = spec.IgnoreChildren
		dev.CoreSystem = spec.CoreSystem
		if !spec.NoCallbacks {
			dev.Driver = &registry.Driver{
				Name: spec.Name + "-sim",
				Ops:  simOps(spec.Name, latency, spec.FailPhase),
			}
		}

		reg.Add(dev)
		byName[spec.Name] = dev

		for _, sup := range spec.Suppliers {
			supplier := byName[sup]
			if supplier == nil {
				return fmt.Errorf("device %q declares supplier %q before it is defined",
					spec.Name, sup)
			}
			reg.AddSupplierLink(dev, supplier)
		}
	}

	logger.Log.WithFields(logrus.Fields{"devices": len(topo.Devices), "file": path}).
		Info("Topology loaded")
	return nil
}

// simOps builds a full set of driver callbacks that sleep for the configured
// latency and fail when the current phase matches the injection knob.
func simOps(name string, latency time.Duration, failPhase string) *registry.SleepOps {
	run := func(phase string) registry.CallbackFunc {
		return func(dev *registry.Device) error {
			if latency > 0 {
				time.Sleep(latency)
			}
			if failPhase == phase {
				return fmt.Errorf("injected %s failure on %s", phase, name)
			}
			logger.Log.WithFields(logrus.Fields{"device": name, "phase": phase}).
				Trace("Simulated callback")
			return nil
		}
	}

	ops := &registry.SleepOps{
		Suspend:      run("suspend"),
		Resume:       run("resume"),
		Freeze:       run("suspend"),
		Thaw:         run("resume"),
		Poweroff:     run("suspend"),
		Restore:      run("resume"),
		SuspendLate:  run("suspend_late"),
		ResumeEarly:  run("resume_early"),
		SuspendNoIrq: run("suspend_noirq"),
		ResumeNoIrq:  run("resume_noirq"),
	}
	ops.Prepare = func(dev *registry.Device) (registry.PrepareResult, error) {
		if failPhase == "prepare" {
			return registry.PrepareFull, fmt.Errorf("injected prepare failure on %s", name)
		}
		return registry.PrepareFull, nil
	}
	ops.Complete = func(dev *registry.Device) {
		logger.Log.WithFields(logrus.Fields{"device": name}).Trace("Simulated complete")
	}
	return ops
}
