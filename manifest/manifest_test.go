// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"testing"

	"warden.network/errors"
	"warden.network/keys"
	"warden.network/manifest/inprocess"
	"warden.network/warden"
)

func testRecord(t *testing.T) warden.AppRecord {
	t.Helper()
	k, err := keys.New(warden.PublicKey("owner key"))
	if err != nil {
		t.Fatal(err)
	}
	return warden.AppRecord{
		Identity: warden.Identity{ID: "app.demo", Name: "Demo", Vendor: "Example Org"},
		Keys:     k,
	}
}

// interceptor wraps a manifest and runs a hook after each Lookup,
// before control returns to the accessor. It simulates a concurrent
// writer landing between the accessor's read and write.
type interceptor struct {
	warden.Manifest
	afterLookup func()
}

func (i *interceptor) Lookup(id warden.AppID, k warden.AppKeys) (int64, warden.ManifestEntry, error) {
	v, e, err := i.Manifest.Lookup(id, k)
	if i.afterLookup != nil {
		i.afterLookup()
	}
	return v, e, err
}

func TestUpdateFreshInsert(t *testing.T) {
	m := inprocess.New()
	rec := testRecord(t)
	a := NewAccessor(m)

	entry := warden.ManifestEntry{"photos": {Access: warden.NewPermissionSet(warden.Read)}}
	info, err := a.Update(rec, entry)
	if err != nil {
		t.Fatal(err)
	}
	if info.Descriptor.Address != m.Info().Descriptor.Address {
		t.Error("returned pointer does not match the manifest object")
	}

	v, got, err := m.Lookup(rec.Identity.ID, rec.Keys)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("fresh insert version: got %d; want 0", v)
	}
	if !got["photos"].Access.Has(warden.Read) {
		t.Error("entry content lost")
	}
}

func TestUpdateExistingEntry(t *testing.T) {
	m := inprocess.New()
	rec := testRecord(t)
	a := NewAccessor(m)

	if _, err := a.Update(rec, warden.ManifestEntry{}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Update(rec, warden.ManifestEntry{"music": {Access: warden.FullAccess}}); err != nil {
		t.Fatal(err)
	}
	v, _, err := m.Lookup(rec.Identity.ID, rec.Keys)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("version: got %d; want 1", v)
	}
}

func TestUpdateLosesRace(t *testing.T) {
	m := inprocess.New()
	rec := testRecord(t)

	// The competing writer inserts the entry after our read observed
	// it absent.
	wrapped := &interceptor{Manifest: m}
	wrapped.afterLookup = func() {
		wrapped.afterLookup = nil // One competing write is enough.
		if err := m.Put(rec.Identity.ID, rec.Keys, warden.ManifestEntry{}, 0); err != nil {
			t.Fatal(err)
		}
	}

	a := NewAccessor(wrapped)
	_, err := a.Update(rec, warden.ManifestEntry{"photos": {Access: warden.FullAccess}})
	if !errors.Is(errors.Conflict, err) {
		t.Fatalf("got %v; want kind Conflict", err)
	}

	// The loser must not have clobbered the winner's entry.
	v, entry, err := m.Lookup(rec.Identity.ID, rec.Keys)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 || len(entry) != 0 {
		t.Errorf("winner's entry disturbed: version %d, entry %v", v, entry)
	}
}

func TestEntryDefaultsToEmpty(t *testing.T) {
	m := inprocess.New()
	rec := testRecord(t)
	a := NewAccessor(m)

	entry, err := a.Entry(rec.Identity.ID, rec.Keys)
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || len(entry) != 0 {
		t.Errorf("got %v; want empty entry", entry)
	}
}
