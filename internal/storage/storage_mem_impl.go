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
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dsc-mgmt/device-sleep-control/internal/model"
)

// MEMStorage is an in-memory Provider. History does not survive a
// restart; it exists for the simulator and for single-node deployments
// that do not care about durability.
type MEMStorage struct {
	Logger *logrus.Logger

	mutex       sync.Mutex
	Transitions map[uuid.UUID]model.TransitionRecord
	Tasks       map[uuid.UUID][]model.TaskRecord
}

func (m *MEMStorage) Init(Logger *logrus.Logger) error {
	m.Logger = Logger
	if m.Logger == nil {
		m.Logger = logrus.New()
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Transitions = make(map[uuid.UUID]model.TransitionRecord)
	m.Tasks = make(map[uuid.UUID][]model.TaskRecord)
	return nil
}

func (m *MEMStorage) Ping() error {
	return nil
}

func (m *MEMStorage) StoreTransition(transition model.TransitionRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Transitions[transition.TransitionID] = transition
	return nil
}

func (m *MEMStorage) GetTransition(transitionID uuid.UUID) (model.TransitionRecord, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	transition, ok := m.Transitions[transitionID]
	if !ok {
		return transition, fmt.Errorf("transition %s does not exist", transitionID.String())
	}
	return transition, nil
}

func (m *MEMStorage) GetAllTransitions() ([]model.TransitionRecord, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	transitions := make([]model.TransitionRecord, 0, len(m.Transitions))
	for _, transition := range m.Transitions {
		transitions = append(transitions, transition)
	}
	return transitions, nil
}

func (m *MEMStorage) DeleteTransition(transitionID uuid.UUID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.Transitions[transitionID]; !ok {
		return fmt.Errorf("transition %s does not exist", transitionID.String())
	}
	delete(m.Transitions, transitionID)
	delete(m.Tasks, transitionID)
	return nil
}

func (m *MEMStorage) StoreTask(task model.TaskRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Tasks[task.TransitionID] = append(m.Tasks[task.TransitionID], task)
	return nil
}

func (m *MEMStorage) GetTasks(transitionID uuid.UUID) ([]model.TaskRecord, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	tasks := make([]model.TaskRecord, len(m.Tasks[transitionID]))
	copy(tasks, m.Tasks[transitionID])
	return tasks, nil
}
