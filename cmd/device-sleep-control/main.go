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
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/namsral/flag"
	"golang.org/x/sync/errgroup"

	"github.com/dsc-mgmt/device-sleep-control/internal/api"
	"github.com/dsc-mgmt/device-sleep-control/internal/domain"
	"github.com/dsc-mgmt/device-sleep-control/internal/logger"
	"github.com/dsc-mgmt/device-sleep-control/internal/model"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
	"github.com/dsc-mgmt/device-sleep-control/internal/runtimepm"
	"github.com/dsc-mgmt/device-sleep-control/internal/storage"
	"github.com/dsc-mgmt/device-sleep-control/internal/wakeup"
)

// Default port to use
const defaultPORT = "28507"

func main() {
	logger.Init()

	var (
		serverPort     string
		topologyPath   string
		event          string
		asyncEnabled   bool
		runControl     bool
		cycleIntervalS int
		dwellS         int
		watchdogS      int
		useDenyList    bool
	)

	///////////////////////////////
	// ENVIRONMENT PARSING
	///////////////////////////////

	flag.StringVar(&serverPort, "server_port", defaultPORT, "API server port")
	flag.StringVar(&topologyPath, "topology", "topology.yaml", "Device topology YAML file")
	flag.StringVar(&event, "event", "suspend", "Sleep event to cycle (suspend, freeze, hibernate)")
	flag.BoolVar(&asyncEnabled, "async_enabled", true, "Transition opted-in devices off-thread")
	flag.BoolVar(&runControl, "run_control", false, "Run the transition cycle loop; false runs API only")
	flag.IntVar(&cycleIntervalS, "cycle_interval", 60, "Seconds between transition cycles")
	flag.IntVar(&dwellS, "dwell", 2, "Seconds to dwell in the sleep state per cycle")
	flag.IntVar(&watchdogS, "watchdog_timeout", 120, "Seconds before a stuck device callback is fatal")
	flag.BoolVar(&useDenyList, "use_deny_list", true, "Apply the built-in device exclusion table")

	flag.Parse()

	logger.Log.Info("Server Port: " + serverPort)
	logger.Log.Info("Topology: " + topologyPath)
	logger.Log.Info("Event: " + event)
	logger.Log.Info("Async Enabled: ", asyncEnabled)
	logger.Log.Info("Run Control: ", runControl)

	ev, err := model.ToSleepEvent(event)
	if err != nil || !ev.IsSleep() {
		logger.Log.Fatalf("invalid sleep event %q", event)
	}

	///////////////////////////////
	// CONFIGURATION
	///////////////////////////////

	var reg *registry.Registry
	if useDenyList {
		reg = registry.New()
	} else {
		reg = registry.NewWithDenyList(nil)
	}

	store := &storage.MEMStorage{}
	if err := store.Init(logger.Log); err != nil {
		logger.Log.Fatal(err)
	}

	runtime := runtimepm.NewLocal()
	wkSource := wakeup.NewSource()

	seq := domain.New(reg, runtime, wkSource, store)
	seq.AsyncEnabled = asyncEnabled
	seq.WatchdogTimeout = time.Duration(watchdogS) * time.Second

	if err := loadTopology(topologyPath, reg); err != nil {
		logger.Log.Fatal(err)
	}

	server := &api.Server{
		Seq:      seq,
		Registry: reg,
		Store:    store,
		Log:      logger.Log,
	}

	srv := &http.Server{
		Addr:    ":" + serverPort,
		Handler: server.NewRouter(),
	}

	///////////////////////////////
	// LAUNCH
	///////////////////////////////

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Log.Info("Starting API server on :" + serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	if runControl {
		group.Go(func() error {
			ticker := time.NewTicker(time.Duration(cycleIntervalS) * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					runCycle(ctx, seq, wkSource, ev, time.Duration(dwellS)*time.Second)
				}
			}
		})
	}

	group.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case s := <-sig:
			logger.Log.Infof("Signal received: %v, shutting down", s)
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Log.Fatal(err)
	}
	logger.Log.Info("Exiting.")
}

// runCycle takes the whole tree down and back up once. A failure anywhere on
// the way down unwinds with the wake direction of the same event; the wake
// direction itself never aborts.
func runCycle(ctx context.Context, seq *domain.Sequencer, wk *wakeup.Source, ev model.SleepEvent, dwell time.Duration) {
	wk.Arm()

	if devErr := seq.SuspendStart(ev); devErr != nil {
		logger.Log.Errorf("Cycle aborted entering sleep: %v", devErr)
		seq.ResumeEnd(ev.ResumeEvent())
		return
	}
	if devErr := seq.SuspendEnd(ev); devErr != nil {
		logger.Log.Errorf("Cycle aborted in late entry: %v", devErr)
		seq.ResumeEnd(ev.ResumeEvent())
		return
	}

	logger.Log.Info("Sleep state reached")
	select {
	case <-ctx.Done():
	case <-time.After(dwell):
	}

	resumeEv := ev.ResumeEvent()
	if devErr := seq.ResumeStart(resumeEv); devErr != nil {
		logger.Log.Errorf("Wake direction reported: %v", devErr)
	}
	if devErr := seq.ResumeEnd(resumeEv); devErr != nil {
		logger.Log.Errorf("Wake direction reported: %v", devErr)
	}
}
