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

package storage

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
)

// Provider persists transition history so operators can inspect what a
// system-wide transition did after the fact.
type Provider interface {
	Init(Logger *logrus.Logger) error
	Ping() error

	StoreTransition(transition model.TransitionRecord) error
	GetTransition(transitionID uuid.UUID) (model.TransitionRecord, error)
	GetAllTransitions() ([]model.TransitionRecord, error)
	DeleteTransition(transitionID uuid.UUID) error

	StoreTask(task model.TaskRecord) error
	GetTasks(transitionID uuid.UUID) ([]model.TaskRecord, error)
}
