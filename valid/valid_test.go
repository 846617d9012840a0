// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package valid

import (
	"testing"

	"warden.network/errors"
	"warden.network/warden"
)

func goodRequest() warden.AuthRequest {
	return warden.AuthRequest{
		Identity: warden.Identity{
			ID:     "app.demo",
			Name:   "Demo",
			Vendor: "Example Org",
		},
		Containers: map[warden.ContainerName]warden.PermissionSet{
			"photos": warden.NewPermissionSet(warden.Read, warden.Insert),
		},
		AppContainer: true,
	}
}

func TestRequest(t *testing.T) {
	if err := Request(goodRequest()); err != nil {
		t.Fatalf("good request rejected: %v", err)
	}
}

func TestRequestInvalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*warden.AuthRequest)
	}{
		{"empty id", func(r *warden.AuthRequest) { r.Identity.ID = "" }},
		{"slash in id", func(r *warden.AuthRequest) { r.Identity.ID = "apps/evil" }},
		{"space in id", func(r *warden.AuthRequest) { r.Identity.ID = "app demo" }},
		{"missing name", func(r *warden.AuthRequest) { r.Identity.Name = "" }},
		{"missing vendor", func(r *warden.AuthRequest) { r.Identity.Vendor = "" }},
		{"empty container name", func(r *warden.AuthRequest) {
			r.Containers[""] = warden.NewPermissionSet(warden.Read)
		}},
		{"reserved container name", func(r *warden.AuthRequest) {
			r.Containers["apps/app.demo"] = warden.NewPermissionSet(warden.Read)
		}},
		{"empty permission set", func(r *warden.AuthRequest) {
			r.Containers["photos"] = 0
		}},
		{"unknown permission bits", func(r *warden.AuthRequest) {
			r.Containers["photos"] = warden.PermissionSet(0xFF)
		}},
	}
	for _, c := range cases {
		req := goodRequest()
		c.mutate(&req)
		err := Request(req)
		if err == nil {
			t.Errorf("%s: accepted", c.name)
			continue
		}
		if !errors.Is(errors.Invalid, err) {
			t.Errorf("%s: got %v; want kind Invalid", c.name, err)
		}
	}
}

func TestPermissions(t *testing.T) {
	if err := Permissions(warden.FullAccess); err != nil {
		t.Errorf("full access rejected: %v", err)
	}
	if err := Permissions(0); err == nil {
		t.Error("empty set accepted")
	}
}
