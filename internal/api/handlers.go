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

package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
)

type healthRsp struct {
	Storage  string `json:"Storage"`
	Devices  int    `json:"Devices"`
	Sleeping bool   `json:"TransitionInProgress"`
}

type transitionRsp struct {
	model.TransitionRecord
	Tasks []model.TaskRecord `json:"tasks,omitempty"`
}

type deviceRsp struct {
	Name           string `json:"name"`
	Parent         string `json:"parent,omitempty"`
	List           string `json:"list"`
	Async          bool   `json:"async,omitempty"`
	DirectComplete bool   `json:"directComplete,omitempty"`
	WakeupPath     bool   `json:"wakeupPath,omitempty"`
}

type errorRsp struct {
	Detail string `json:"detail"`
}

// writeJSON - writes JSON to the open http connection
func (s *Server) writeJSON(w http.ResponseWriter, code int, i interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(i); err != nil {
		s.Log.Error(err)
	}
}

// GetLiveness - any response means we're live.
func (s *Server) GetLiveness(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// GetReadiness - ready when the storage provider answers.
func (s *Server) GetReadiness(w http.ResponseWriter, req *http.Request) {
	if err := s.Store.Ping(); err != nil {
		s.Log.WithFields(logrus.Fields{"ERROR": err}).Error(
			"GetReadiness: Ping() failed to storage provider")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth - returns various health information.
func (s *Server) GetHealth(w http.ResponseWriter, req *http.Request) {
	var rsp healthRsp

	if err := s.Store.Ping(); err == nil {
		rsp.Storage = "connected, responsive"
	} else {
		rsp.Storage = "connected, not responsive"
	}
	rsp.Devices = s.Registry.Len(registry.ListActive) +
		s.Registry.Len(registry.ListPrepared) +
		s.Registry.Len(registry.ListSuspended) +
		s.Registry.Len(registry.ListLateEarly) +
		s.Registry.Len(registry.ListNoIrq)
	rsp.Sleeping = s.Registry.RegistrationGated()

	s.writeJSON(w, http.StatusOK, rsp)
}

// GetTransitions - returns all stored transition records, newest first.
func (s *Server) GetTransitions(w http.ResponseWriter, req *http.Request) {
	transitions, err := s.Store.GetAllTransitions()
	if err != nil {
		s.Log.WithFields(logrus.Fields{"ERROR": err}).Error(
			"GetTransitions: storage lookup failed")
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Detail: err.Error()})
		return
	}
	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].StartTime.After(transitions[j].StartTime)
	})
	s.writeJSON(w, http.StatusOK, transitions)
}

// GetTransition - returns one transition record with its per-device tasks.
func (s *Server) GetTransition(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	transitionID, err := uuid.Parse(vars["transitionID"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorRsp{Detail: err.Error()})
		return
	}

	transition, err := s.Store.GetTransition(transitionID)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorRsp{Detail: err.Error()})
		return
	}
	tasks, err := s.Store.GetTasks(transitionID)
	if err != nil {
		s.Log.WithFields(logrus.Fields{"ERROR": err}).Error(
			"GetTransition: task lookup failed")
		s.writeJSON(w, http.StatusInternalServerError, errorRsp{Detail: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, transitionRsp{TransitionRecord: transition, Tasks: tasks})
}

// GetDevices - returns the live pipeline view, list by list in phase order.
func (s *Server) GetDevices(w http.ResponseWriter, req *http.Request) {
	out := []deviceRsp{}
	for _, id := range []registry.ListID{
		registry.ListActive, registry.ListPrepared, registry.ListSuspended,
		registry.ListLateEarly, registry.ListNoIrq,
	} {
		for _, dev := range s.Registry.Devices(id) {
			rsp := deviceRsp{
				Name:           dev.Name,
				List:           id.String(),
				Async:          dev.AsyncOptIn,
				DirectComplete: dev.DirectComplete(),
				WakeupPath:     dev.WakeupPath(),
			}
			if dev.Parent != nil {
				rsp.Parent = dev.Parent.Name
			}
			out = append(out, rsp)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}
