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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionStartsIdle(t *testing.T) {
	c := newCompletion()
	assert.True(t, c.Signaled())

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait on an idle completion blocked")
	}
}

func TestCompletionResetSignalCycle(t *testing.T) {
	c := newCompletion()
	gen := c.Generation()

	c.Reset()
	assert.False(t, c.Signaled())
	assert.Equal(t, gen+1, c.Generation())

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("wait returned before signal")
	case <-time.After(20 * time.Millisecond):
	}

	c.Signal()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("signal did not release waiter")
	}

	// Idempotent.
	c.Signal()
	assert.True(t, c.Signaled())
}

func TestCompletionStaleWaiterNeverBlocksNextPhase(t *testing.T) {
	c := newCompletion()
	c.Reset()

	// A waiter grabs the current generation, then the phase turns over.
	released := make(chan struct{})
	go func() {
		c.Wait()
		close(released)
	}()
	time.Sleep(10 * time.Millisecond)

	c.Signal()
	c.Reset()

	// The stale waiter was released by the old generation's signal and is
	// unaffected by the re-arm.
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("stale waiter held across generations")
	}
	assert.False(t, c.Signaled())
}
