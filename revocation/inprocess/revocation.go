// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inprocess implements a memory-resident revocation queue:
// the set of applications whose revocation has been requested but not
// yet completed. The authenticator only reads the queue; Add and
// Remove exist for the revocation subsystem driving it.
package inprocess

import (
	"sort"
	"sync"

	"warden.network/warden"
)

// Queue is a revocation queue. It implements the
// warden.RevocationSource interface.
type Queue struct {
	// mu protects pending.
	mu      sync.Mutex
	pending map[warden.AppID]bool
}

var _ warden.RevocationSource = (*Queue)(nil)

// New returns a new, empty queue.
func New() *Queue {
	return &Queue{pending: make(map[warden.AppID]bool)}
}

// Pending implements warden.RevocationSource.
func (q *Queue) Pending() ([]warden.AppID, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := make([]warden.AppID, 0, len(q.pending))
	for id := range q.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Add marks an application as pending revocation.
func (q *Queue) Add(id warden.AppID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[id] = true
}

// Remove clears an application's pending mark, typically once its
// revocation has completed.
func (q *Queue) Remove(id warden.AppID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}
