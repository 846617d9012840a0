// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inprocess implements a non-persistent, memory-resident
// application registry.
package inprocess

import (
	"sync"

	"warden.network/errors"
	"warden.network/keys"
	"warden.network/valid"
	"warden.network/warden"
)

// New returns a new memory-resident registry.
func New() warden.Registry {
	return &server{db: &database{
		apps: make(map[warden.IDHash]warden.AppRecord),
	}}
}

// server provides access to the shared database of application
// records. It implements the warden.Registry interface.
type server struct {
	db *database
}

var _ warden.Registry = (*server)(nil)

// A database holds the records of every application that has ever
// completed key issuance.
type database struct {
	// mu protects the fields below.
	mu   sync.RWMutex
	apps map[warden.IDHash]warden.AppRecord
}

// List implements warden.Registry.
func (s *server) List() (map[warden.IDHash]warden.AppRecord, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	listing := make(map[warden.IDHash]warden.AppRecord, len(s.db.apps))
	for h, rec := range s.db.apps {
		listing[h] = dup(rec)
	}
	return listing, nil
}

// Insert implements warden.Registry.
func (s *server) Insert(rec warden.AppRecord) error {
	const op errors.Op = "registry/inprocess.Insert"
	if err := valid.Identity(rec.Identity); err != nil {
		return errors.E(op, err)
	}
	h := keys.HashID(rec.Identity.ID)

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.apps[h]; ok {
		return errors.E(op, rec.Identity.ID, errors.Exist)
	}
	s.db.apps[h] = dup(rec)
	return nil
}

// dup creates a copy of the record so callers cannot change our data
// structures.
func dup(rec warden.AppRecord) warden.AppRecord {
	v := rec
	// The maps and key slices need to be copied.
	if rec.Identity.Metadata != nil {
		v.Identity.Metadata = make(map[string]string, len(rec.Identity.Metadata))
		for k, val := range rec.Identity.Metadata {
			v.Identity.Metadata[k] = val
		}
	}
	v.Keys.Owner = append(warden.PublicKey(nil), rec.Keys.Owner...)
	v.Keys.SignPublic = append(warden.PublicKey(nil), rec.Keys.SignPublic...)
	v.Keys.SignPrivate = append(warden.PrivateKey(nil), rec.Keys.SignPrivate...)
	v.Keys.EncPublic = append(warden.PublicKey(nil), rec.Keys.EncPublic...)
	v.Keys.EncPrivate = append(warden.PrivateKey(nil), rec.Keys.EncPrivate...)
	v.Keys.Secret = append(warden.SymmetricKey(nil), rec.Keys.Secret...)
	return v
}
