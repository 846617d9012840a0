// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package warden

import (
	"testing"
)

func TestPermissionSet(t *testing.T) {
	s := NewPermissionSet(Read, Insert)
	if !s.Has(Read) || !s.Has(Insert) {
		t.Error("set missing its own members")
	}
	if s.Has(Delete) {
		t.Error("set contains Delete")
	}
	s = s.Add(Delete)
	if !s.Has(Delete) {
		t.Error("Add(Delete) had no effect")
	}
	if got, want := s.String(), "read,insert,delete"; got != want {
		t.Errorf("String: got %q; want %q", got, want)
	}
	if !PermissionSet(0).IsZero() {
		t.Error("zero set not zero")
	}
}

func TestFullAccess(t *testing.T) {
	for _, p := range []Permission{Read, Insert, Update, Delete, ManagePermissions} {
		if !FullAccess.Has(p) {
			t.Errorf("FullAccess missing %v", p)
		}
	}
}

func TestParsePermission(t *testing.T) {
	for _, p := range []Permission{Read, Insert, Update, Delete, ManagePermissions} {
		got, err := ParsePermission(p.String())
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if got != p {
			t.Errorf("round trip: got %v; want %v", got, p)
		}
	}
	if _, err := ParsePermission("fly"); err == nil {
		t.Error("unknown permission parsed")
	}
}

func TestAppContainerName(t *testing.T) {
	if got, want := AppContainerName("app.demo"), ContainerName("apps/app.demo"); got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}

func TestManifestEntryCopy(t *testing.T) {
	orig := ManifestEntry{
		"photos": {Access: NewPermissionSet(Read)},
	}
	c := orig.Copy()
	c["music"] = ContainerAccess{Access: NewPermissionSet(Insert)}
	if _, ok := orig["music"]; ok {
		t.Error("Copy shares storage with the original")
	}

	// A nil entry copies to an insertable map.
	var nilEntry ManifestEntry
	c = nilEntry.Copy()
	c["x"] = ContainerAccess{}
	if len(c) != 1 {
		t.Error("copy of nil entry not insertable")
	}
}

func TestManifestEntryNames(t *testing.T) {
	e := ManifestEntry{
		"photos":        {},
		"apps/app.demo": {},
		"music":         {},
	}
	got := e.Names()
	want := []ContainerName{"apps/app.demo", "music", "photos"}
	if len(got) != len(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v; want %v", got, want)
		}
	}
}
