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
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/dsc-mgmt/device-sleep-control/internal/domain"
	"github.com/dsc-mgmt/device-sleep-control/internal/logger"
	"github.com/dsc-mgmt/device-sleep-control/internal/registry"
	"github.com/dsc-mgmt/device-sleep-control/internal/storage"
)

// The API layer is read-only status surface: transition history out of the
// storage provider plus the live pipeline view. Transitions themselves are
// driven by the process hosting the sequencer, not over HTTP.

// Server carries the handler dependencies. Nothing here is global state;
// tests stand up as many servers as they like.
type Server struct {
	Seq      *domain.Sequencer
	Registry *registry.Registry
	Store    storage.Provider
	Log      *logrus.Logger
}

// Route - struct containing name, method, pattern and handler to invoke.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Routes - a collection of Route
type Routes []Route

// requestLogger - logs what methods were invoked and how long they took.
func (s *Server) requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		inner.ServeHTTP(w, r)

		log := s.Log
		if log == nil {
			log = logger.Log
		}
		if name == "GetLiveness" || name == "GetReadiness" || name == "GetHealth" {
			log.Debugf("%s %s %s %s", r.Method, r.RequestURI, name, time.Since(start))
		} else {
			log.Printf("%s %s %s %s", r.Method, r.RequestURI, name, time.Since(start))
		}
	})
}

// NewRouter - create a new mux Router and initialize it with the routes.
func (s *Server) NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	for _, route := range s.routes() {
		var handler http.Handler = route.HandlerFunc
		handler = s.requestLogger(handler, route.Name)

		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handler)

		// With v1
		router.
			Methods(route.Method).
			Path("/v1" + route.Pattern).
			Name(route.Name).
			Handler(handler)
	}

	return router
}

func (s *Server) routes() Routes {
	return Routes{
		Route{
			"GetHealth",
			"GET",
			"/health",
			s.GetHealth,
		},
		Route{
			"GetLiveness",
			"GET",
			"/liveness",
			s.GetLiveness,
		},
		Route{
			"GetReadiness",
			"GET",
			"/readiness",
			s.GetReadiness,
		},
		Route{
			"GetTransitions",
			"GET",
			"/transitions",
			s.GetTransitions,
		},
		Route{
			"GetTransition",
			"GET",
			"/transitions/{transitionID}",
			s.GetTransition,
		},
		Route{
			"GetDevices",
			"GET",
			"/devices",
			s.GetDevices,
		},
	}
}
