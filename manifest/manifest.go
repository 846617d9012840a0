// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest implements the access-control manifest accessor:
// the read-modify-write protocol for one application's entry in the
// network owner's versioned manifest object.
package manifest

import (
	"warden.network/errors"
	"warden.network/log"
	"warden.network/warden"
)

// Accessor performs versioned updates of manifest entries. It wraps a
// warden.Manifest and owns the optimistic-concurrency discipline: read
// the entry's current version, write at the next one, surface a loss
// of the race as a Conflict. No retry is performed here; retries, if
// any, belong to a layer above.
type Accessor struct {
	manifest warden.Manifest
}

// NewAccessor returns an Accessor over the given manifest object.
func NewAccessor(m warden.Manifest) *Accessor {
	return &Accessor{manifest: m}
}

// Update writes the application's manifest entry under optimistic
// versioning and returns the manifest object's pointer for inclusion
// in the issued credential.
//
// The target version is 0 when the application has no entry yet (a
// fresh insert) and the current version plus one otherwise. The write
// is attempted exactly once: if another writer advanced the entry
// between the read and the write, the Put fails with kind Conflict and
// that failure is the caller's to handle.
func (a *Accessor) Update(rec warden.AppRecord, entry warden.ManifestEntry) (warden.ManifestInfo, error) {
	const op errors.Op = "manifest.Update"
	id := rec.Identity.ID

	version, _, err := a.manifest.Lookup(id, rec.Keys)
	switch {
	case err == nil:
		// Updating an existing entry.
		version++
	case errors.Is(errors.NotExist, err):
		// Adding a new manifest entry.
		version = 0
	default:
		// Error has occurred while trying to get an existing entry.
		return warden.ManifestInfo{}, errors.E(op, id, err)
	}

	if err := a.manifest.Put(id, rec.Keys, entry, version); err != nil {
		return warden.ManifestInfo{}, errors.E(op, id, err)
	}
	log.Debug.Printf("manifest: wrote entry for %q at version %d (%d containers)", id, version, len(entry))
	return a.manifest.Info(), nil
}

// Entry returns the application's current manifest entry, or an empty
// entry when none exists. Errors other than NotExist propagate.
func (a *Accessor) Entry(id warden.AppID, k warden.AppKeys) (warden.ManifestEntry, error) {
	const op errors.Op = "manifest.Entry"
	_, entry, err := a.manifest.Lookup(id, k)
	if errors.Is(errors.NotExist, err) {
		return warden.ManifestEntry{}, nil
	}
	if err != nil {
		return nil, errors.E(op, id, err)
	}
	return entry, nil
}

// Info returns the manifest object's current pointer.
func (a *Accessor) Info() warden.ManifestInfo {
	return a.manifest.Info()
}
