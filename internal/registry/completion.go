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

import "sync"

// Completion is a single-shot, re-armable wait handle. Each phase re-arms it
// with Reset before operating on the device and fires it exactly once with
// Signal when the device's phase work has finished, whether the callback ran,
// failed, or was skipped.
//
// The handle is generation counted: Reset starts a new generation and Signal
// marks the current one done. A waiter that raced a Reset and grabbed the
// previous generation's channel sees a channel that is already closed, so a
// stale wait from the last phase can never block into the next one.
type Completion struct {
	mu       sync.Mutex
	gen      uint64
	signaled bool
	ch       chan struct{}
}

// newCompletion returns a handle in the signaled (idle) state, so waiters of
// a device that has never entered a phase do not block.
func newCompletion() *Completion {
	ch := make(chan struct{})
	close(ch)
	return &Completion{signaled: true, ch: ch}
}

// Reset arms the handle for a new phase generation.
func (c *Completion) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.signaled = false
	c.ch = make(chan struct{})
}

// Signal marks the current generation complete and releases all waiters.
// Signaling an already signaled generation is a no-op.
func (c *Completion) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signaled {
		return
	}
	c.signaled = true
	close(c.ch)
}

// Wait blocks until the current generation has been signaled.
func (c *Completion) Wait() {
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()
	<-ch
}

// Signaled reports whether the current generation has fired.
func (c *Completion) Signaled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signaled
}

// Generation returns the number of times the handle has been re-armed.
func (c *Completion) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
