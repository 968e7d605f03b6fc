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
	"time"

	"github.com/google/uuid"
)

const (
	TransitionStatusInProgress = "in-progress"
	TransitionStatusCompleted  = "completed"
	TransitionStatusAborted    = "aborted"
)

const (
	TaskStatusSucceeded = "succeeded"
	TaskStatusFailed    = "failed"
	TaskStatusSkipped   = "skipped"
)

// TransitionRecord is the stored outcome of one top-level phase invocation.
type TransitionRecord struct {
	TransitionID uuid.UUID `json:"transitionID"`
	Event        string    `json:"event"`
	Phase        string    `json:"phase"`
	Status       string    `json:"status"`
	FailedDevice string    `json:"failedDevice,omitempty"`
	Error        string    `json:"error,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime,omitempty"`
}

// TaskRecord is the stored per-device outcome within one phase invocation.
type TaskRecord struct {
	TransitionID uuid.UUID `json:"transitionID"`
	Device       string    `json:"device"`
	Phase        string    `json:"phase"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
}

func NewTransitionRecord(event SleepEvent, phase Phase) TransitionRecord {
	return TransitionRecord{
		TransitionID: uuid.New(),
		Event:        event.String(),
		Phase:        phase.String(),
		Status:       TransitionStatusInProgress,
		StartTime:    time.Now(),
	}
}
