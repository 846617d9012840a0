// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inprocess implements a non-persistent, memory-resident
// network authorization-key list.
package inprocess

import (
	"bytes"
	"sync"

	"warden.network/errors"
	"warden.network/warden"
)

// Service is the network-wide list of authorized public keys, updated
// under optimistic versioning. It implements the warden.KeyRegistrar
// interface.
type Service struct {
	// mu protects the fields below.
	mu      sync.Mutex
	keys    []warden.PublicKey
	version int64
}

var _ warden.KeyRegistrar = (*Service)(nil)

// New returns a new, empty key list.
func New() *Service {
	return &Service{}
}

// Keys implements warden.KeyRegistrar.
func (s *Service) Keys() ([]warden.PublicKey, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing := make([]warden.PublicKey, len(s.keys))
	for i, k := range s.keys {
		listing[i] = append(warden.PublicKey(nil), k...)
	}
	return listing, s.version, nil
}

// Insert implements warden.KeyRegistrar. The target version must be
// the current version plus one. Re-inserting a key that is already
// listed succeeds without changing the list, so that re-registering a
// revoked application cannot fail on a leftover key.
func (s *Service) Insert(key warden.PublicKey, version int64) error {
	const op errors.Op = "authkeys/inprocess.Insert"
	if len(key) == 0 {
		return errors.E(op, errors.Invalid, "empty key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version+1 {
		return errors.E(op, errors.Conflict,
			errors.Errorf("list at version %d; write at version %d", s.version, version))
	}
	for _, k := range s.keys {
		if bytes.Equal(k, key) {
			return nil
		}
	}
	s.keys = append(s.keys, append(warden.PublicKey(nil), key...))
	s.version = version
	return nil
}

// Remove deletes a key from the list under the same versioning rule.
// It is the operation the revocation subsystem performs; it is not
// part of the warden.KeyRegistrar interface.
func (s *Service) Remove(key warden.PublicKey, version int64) error {
	const op errors.Op = "authkeys/inprocess.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version+1 {
		return errors.E(op, errors.Conflict,
			errors.Errorf("list at version %d; write at version %d", s.version, version))
	}
	for i, k := range s.keys {
		if bytes.Equal(k, key) {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			s.version = version
			return nil
		}
	}
	return errors.E(op, errors.NotExist)
}
