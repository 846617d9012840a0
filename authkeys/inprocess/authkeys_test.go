// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inprocess

import (
	"bytes"
	"testing"

	"warden.network/errors"
	"warden.network/warden"
)

func TestInsert(t *testing.T) {
	s := New()
	_, v, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Fatalf("initial version: got %d; want 0", v)
	}

	key := warden.PublicKey("app signing key")
	if err := s.Insert(key, v+1); err != nil {
		t.Fatal(err)
	}
	listing, v, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Errorf("version: got %d; want 1", v)
	}
	if len(listing) != 1 || !bytes.Equal(listing[0], key) {
		t.Errorf("listing: got %v", listing)
	}
}

func TestInsertWrongVersion(t *testing.T) {
	s := New()
	err := s.Insert(warden.PublicKey("k"), 7)
	if !errors.Is(errors.Conflict, err) {
		t.Errorf("got %v; want kind Conflict", err)
	}
}

func TestInsertExistingKeyIsNoOp(t *testing.T) {
	s := New()
	key := warden.PublicKey("app signing key")
	if err := s.Insert(key, 1); err != nil {
		t.Fatal(err)
	}
	// Same key again, at the correct next version.
	if err := s.Insert(key, 2); err != nil {
		t.Fatal(err)
	}
	listing, v, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(listing) != 1 {
		t.Errorf("got %d keys; want 1", len(listing))
	}
	if v != 1 {
		t.Errorf("version advanced on no-op insert: got %d; want 1", v)
	}
}

func TestRemove(t *testing.T) {
	s := New()
	key := warden.PublicKey("app signing key")
	if err := s.Insert(key, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(key, 2); err != nil {
		t.Fatal(err)
	}
	listing, v, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(listing) != 0 || v != 2 {
		t.Errorf("got %d keys at version %d; want 0 at 2", len(listing), v)
	}
	if err := s.Remove(key, 3); !errors.Is(errors.NotExist, err) {
		t.Errorf("got %v; want kind NotExist", err)
	}
}
