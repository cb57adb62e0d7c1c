// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fileio serializes access to the shared config files and provides
// the primitive read/write/backup operations the rest of the engine builds
// on, with consistent error classification.
package fileio

import (
	"sync"
)

// Coordinator owns a per-path lock table and the file primitives. Operations
// contending for the same path are served in arrival order; operations on
// distinct paths do not order against each other.
//
// The lock table is state of one Coordinator value, not a process-wide
// singleton, so independent instances (such as those built in tests) never
// share locks. Locking is in-process only.
type Coordinator struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	held    bool
	waiters []chan struct{} // FIFO queue of blocked acquirers
}

// NewCoordinator creates a Coordinator with an empty lock table.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		locks: make(map[string]*pathLock),
	}
}

// Acquire takes the lock for path, blocking behind earlier acquirers. The
// grant is immediate when the path is uncontended.
func (c *Coordinator) Acquire(path string) {
	c.mu.Lock()

	l, ok := c.locks[path]
	if !ok {
		c.locks[path] = &pathLock{held: true}
		c.mu.Unlock()
		return
	}

	ready := make(chan struct{})
	l.waiters = append(l.waiters, ready)
	c.mu.Unlock()

	<-ready
}

// Release hands the lock for path to the next waiter in arrival order, or
// clears the table entry when nobody is waiting. Releasing an unheld path is
// a no-op.
func (c *Coordinator) Release(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[path]
	if !ok {
		return
	}

	if len(l.waiters) == 0 {
		delete(c.locks, path)
		return
	}

	next := l.waiters[0]
	l.waiters = l.waiters[1:]
	close(next)
}

// WithLock runs fn while holding the lock for path. Multi-step sequences
// such as read-transform-write must go through here so they are atomic with
// respect to other callers mutating the same file.
func (c *Coordinator) WithLock(path string, fn func() error) error {
	c.Acquire(path)
	defer c.Release(path)
	return fn()
}
