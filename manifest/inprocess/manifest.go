// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inprocess implements a non-persistent, memory-resident
// access-control manifest object.
package inprocess

import (
	"sync"

	"github.com/google/uuid"

	"warden.network/errors"
	"warden.network/warden"
)

// manifestTag is the type tag manifest objects are created with.
const manifestTag = 15000

// Service is a versioned manifest object. Each application entry
// carries its own version, enforced on Put; the object as a whole
// carries a sequence number bumped by every successful write.
// It implements the warden.Manifest interface.
type Service struct {
	descriptor warden.ContainerDescriptor

	// mu protects the fields below.
	mu      sync.RWMutex
	seq     int64
	entries map[warden.AppID]*versionedEntry
}

type versionedEntry struct {
	version int64
	value   warden.ManifestEntry
}

var _ warden.Manifest = (*Service)(nil)

// New returns a new, empty manifest object.
func New() *Service {
	return &Service{
		descriptor: warden.ContainerDescriptor{
			Address: warden.Address(uuid.NewString()),
			Tag:     manifestTag,
		},
		entries: make(map[warden.AppID]*versionedEntry),
	}
}

// Lookup implements warden.Manifest.
func (s *Service) Lookup(id warden.AppID, k warden.AppKeys) (int64, warden.ManifestEntry, error) {
	const op errors.Op = "manifest/inprocess.Lookup"
	if len(k.SignPublic) == 0 {
		return 0, nil, errors.E(op, id, errors.Permission, "missing app keys")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return 0, nil, errors.E(op, id, errors.NotExist)
	}
	return e.version, e.value.Copy(), nil
}

// Put implements warden.Manifest.
func (s *Service) Put(id warden.AppID, k warden.AppKeys, entry warden.ManifestEntry, version int64) error {
	const op errors.Op = "manifest/inprocess.Put"
	if len(k.SignPublic) == 0 {
		return errors.E(op, id, errors.Permission, "missing app keys")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	switch {
	case !ok && version != 0:
		return errors.E(op, id, errors.Conflict,
			errors.Errorf("no entry; write at version %d", version))
	case ok && version != e.version+1:
		return errors.E(op, id, errors.Conflict,
			errors.Errorf("entry at version %d; write at version %d", e.version, version))
	}
	s.entries[id] = &versionedEntry{version: version, value: entry.Copy()}
	s.seq++
	return nil
}

// Info implements warden.Manifest.
func (s *Service) Info() warden.ManifestInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return warden.ManifestInfo{
		Descriptor: s.descriptor,
		Sequence:   s.seq,
	}
}

// Remove deletes the application's entry regardless of version. It is
// the operation the revocation subsystem performs when it strips an
// application's access; it is not part of the warden.Manifest
// interface.
func (s *Service) Remove(id warden.AppID) error {
	const op errors.Op = "manifest/inprocess.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return errors.E(op, id, errors.NotExist)
	}
	delete(s.entries, id)
	s.seq++
	return nil
}
