/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package host is the in-process runtime the autoloader plugs into.
//
// It owns the two pieces of process state the loader needs from its
// environment: the ordered dispatch queue of hooks (Queue) and the table of
// defined symbols (Runtime). Runtime.Require is the "symbol lookup" that
// fires the missing-symbol handler when a name is not yet defined.
package host

import (
	"sync"

	"dirpx.dev/autoload/apis"
)

// Queue is an ordered dispatch queue of hooks.
//
// A queue becomes inactive when its last hook is removed. The next
// registration starts a fresh queue (a new generation); hooks removed
// earlier are never reinstated.
type Queue struct {
	mu         sync.Mutex
	hooks      []*apis.Hook
	active     bool
	generation int
	max        int
}

// Ensure Queue implements apis.Queue.
var _ apis.Queue = (*Queue)(nil)

// NewQueue creates an inactive queue holding at most max hooks
// (0 means unlimited).
func NewQueue(max int) *Queue {
	if max < 0 {
		max = 0
	}
	return &Queue{max: max}
}

// RegisterHook inserts h at the head or the tail. It refuses nil hooks,
// hooks without a Load func, hooks already queued, and any hook once the
// capacity is reached.
func (q *Queue) RegisterHook(h *apis.Hook, prepend bool) bool {
	if h == nil || h.Load == nil {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.indexOf(h) >= 0 {
		return false
	}
	if q.max > 0 && len(q.hooks) >= q.max {
		return false
	}

	if !q.active {
		q.active = true
		q.generation++
		q.hooks = nil
	}
	if prepend {
		q.hooks = append([]*apis.Hook{h}, q.hooks...)
	} else {
		q.hooks = append(q.hooks, h)
	}
	return true
}

// RemoveHook removes h. Removing the last hook deactivates the queue.
func (q *Queue) RemoveHook(h *apis.Hook) bool {
	if h == nil {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(h)
	if i < 0 {
		return false
	}
	q.hooks = append(q.hooks[:i:i], q.hooks[i+1:]...)
	if len(q.hooks) == 0 {
		q.active = false
		q.hooks = nil
	}
	return true
}

// Hooks returns a copy of the queued hooks in dispatch order.
func (q *Queue) Hooks() []*apis.Hook {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.active {
		return nil
	}
	out := make([]*apis.Hook, len(q.hooks))
	copy(out, q.hooks)
	return out
}

// Active reports whether the queue holds at least one hook.
func (q *Queue) Active() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

// Generation counts how many times the queue has been (re)activated.
func (q *Queue) Generation() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.generation
}

// Len returns the number of queued hooks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.hooks)
}

// indexOf finds h by identity. Callers hold q.mu.
func (q *Queue) indexOf(h *apis.Hook) int {
	for i, qh := range q.hooks {
		if qh == h {
			return i
		}
	}
	return -1
}
