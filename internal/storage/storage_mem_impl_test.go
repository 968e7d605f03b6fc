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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
)

type MEMStorage_TS struct {
	suite.Suite
	store *MEMStorage
}

func (ts *MEMStorage_TS) SetupTest() {
	ts.store = &MEMStorage{}
	ts.Require().NoError(ts.store.Init(nil))
}

func TestMEMStorageTestSuite(t *testing.T) {
	suite.Run(t, new(MEMStorage_TS))
}

func (ts *MEMStorage_TS) TestPing() {
	ts.Require().NoError(ts.store.Ping())
}

func (ts *MEMStorage_TS) TestTransitionLifecycle() {
	rec := model.NewTransitionRecord(model.EventSuspend, model.PhaseSuspend)
	ts.Require().NoError(ts.store.StoreTransition(rec))

	got, err := ts.store.GetTransition(rec.TransitionID)
	ts.Require().NoError(err)
	ts.Require().Equal(rec.TransitionID, got.TransitionID)
	ts.Require().Equal(model.TransitionStatusInProgress, got.Status)

	rec.Status = model.TransitionStatusCompleted
	ts.Require().NoError(ts.store.StoreTransition(rec))
	got, err = ts.store.GetTransition(rec.TransitionID)
	ts.Require().NoError(err)
	ts.Require().Equal(model.TransitionStatusCompleted, got.Status)

	all, err := ts.store.GetAllTransitions()
	ts.Require().NoError(err)
	ts.Require().Len(all, 1)

	ts.Require().NoError(ts.store.DeleteTransition(rec.TransitionID))
	_, err = ts.store.GetTransition(rec.TransitionID)
	ts.Require().Error(err)
	ts.Require().Error(ts.store.DeleteTransition(rec.TransitionID))
}

func (ts *MEMStorage_TS) TestTasksFollowTransition() {
	rec := model.NewTransitionRecord(model.EventFreeze, model.PhaseSuspendNoIrq)
	ts.Require().NoError(ts.store.StoreTransition(rec))

	for _, dev := range []string{"root", "leaf"} {
		ts.Require().NoError(ts.store.StoreTask(model.TaskRecord{
			TransitionID: rec.TransitionID,
			Device:       dev,
			Phase:        rec.Phase,
			Status:       model.TaskStatusSucceeded,
		}))
	}

	tasks, err := ts.store.GetTasks(rec.TransitionID)
	ts.Require().NoError(err)
	ts.Require().Len(tasks, 2)

	// Deleting the transition drops its tasks with it.
	ts.Require().NoError(ts.store.DeleteTransition(rec.TransitionID))
	tasks, err = ts.store.GetTasks(rec.TransitionID)
	ts.Require().NoError(err)
	ts.Require().Empty(tasks)

	// Unknown transitions simply have no tasks.
	tasks, err = ts.store.GetTasks(uuid.New())
	ts.Require().NoError(err)
	ts.Require().Empty(tasks)
}
