// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package file implements an application registry persisted to a
// single CBOR file. Records are rewritten atomically on every insert,
// which is cheap at the scale of one owner's authorized applications.
package file

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"warden.network/errors"
	"warden.network/keys"
	"warden.network/valid"
	"warden.network/warden"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2) so the same records always produce
// identical bytes on disk.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are ignored for forward compatibility.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("registry/file: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("registry/file: CBOR decoder initialization failed: " + err.Error())
	}
}

// server is a registry backed by one CBOR file.
type server struct {
	path string

	// mu protects apps and serializes file rewrites.
	mu   sync.Mutex
	apps map[warden.IDHash]warden.AppRecord
}

var _ warden.Registry = (*server)(nil)

// Open returns a registry stored at path, loading any records already
// present. A missing file is an empty registry; the file is created on
// first insert.
func Open(path string) (warden.Registry, error) {
	const op errors.Op = "registry/file.Open"
	s := &server{
		path: path,
		apps: make(map[warden.IDHash]warden.AppRecord),
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	var records []warden.AppRecord
	if err := decMode.Unmarshal(data, &records); err != nil {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("corrupt registry file %s: %v", path, err))
	}
	for _, rec := range records {
		s.apps[keys.HashID(rec.Identity.ID)] = rec
	}
	return s, nil
}

// List implements warden.Registry.
func (s *server) List() (map[warden.IDHash]warden.AppRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing := make(map[warden.IDHash]warden.AppRecord, len(s.apps))
	for h, rec := range s.apps {
		listing[h] = rec
	}
	return listing, nil
}

// Insert implements warden.Registry. The new record is durable once
// Insert returns.
func (s *server) Insert(rec warden.AppRecord) error {
	const op errors.Op = "registry/file.Insert"
	if err := valid.Identity(rec.Identity); err != nil {
		return errors.E(op, err)
	}
	h := keys.HashID(rec.Identity.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[h]; ok {
		return errors.E(op, rec.Identity.ID, errors.Exist)
	}
	s.apps[h] = rec
	if err := s.flush(); err != nil {
		delete(s.apps, h)
		return errors.E(op, rec.Identity.ID, err)
	}
	return nil
}

// flush rewrites the registry file. Callers must hold mu.
func (s *server) flush() error {
	records := make([]warden.AppRecord, 0, len(s.apps))
	for _, rec := range s.apps {
		records = append(records, rec)
	}
	// Sort for a stable file layout.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Identity.ID < records[j].Identity.ID
	})
	data, err := encMode.Marshal(records)
	if err != nil {
		return errors.E(errors.Invalid, err)
	}

	// Write to a temporary file and rename so a crash cannot leave a
	// truncated registry.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return errors.E(errors.IO, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.E(errors.IO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.E(errors.IO, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.E(errors.IO, err)
	}
	return nil
}
