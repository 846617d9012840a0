// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package valid does validation of various data types.
package valid

import (
	"strings"

	"warden.network/errors"
	"warden.network/warden"
)

// knownPermissions is the set of all defined permission bits.
var knownPermissions = warden.NewPermissionSet(
	warden.Read,
	warden.Insert,
	warden.Update,
	warden.Delete,
	warden.ManagePermissions,
)

func okIDChar(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z':
		return true
	case 'A' <= r && r <= 'Z':
		return true
	case '0' <= r && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}

// AppID verifies that the identifier is non-empty and contains only
// identifier characters. In particular it must not contain a slash,
// which would collide with the reserved "apps/" manifest namespace.
func AppID(id warden.AppID) error {
	const op errors.Op = "valid.AppID"
	if id == "" {
		return errors.E(op, errors.Invalid, "empty application identifier")
	}
	for _, r := range id {
		if !okIDChar(r) {
			return errors.E(op, id, errors.Invalid, errors.Errorf("bad character %q in identifier", r))
		}
	}
	return nil
}

// Identity verifies that the application identity is complete.
func Identity(ident warden.Identity) error {
	const op errors.Op = "valid.Identity"
	if err := AppID(ident.ID); err != nil {
		return errors.E(op, err)
	}
	if ident.Name == "" {
		return errors.E(op, ident.ID, errors.Invalid, "missing application name")
	}
	if ident.Vendor == "" {
		return errors.E(op, ident.ID, errors.Invalid, "missing application vendor")
	}
	return nil
}

// Permissions verifies that the set holds only defined permission bits
// and is not empty.
func Permissions(set warden.PermissionSet) error {
	const op errors.Op = "valid.Permissions"
	if set.IsZero() {
		return errors.E(op, errors.Invalid, "empty permission set")
	}
	if set&^knownPermissions != 0 {
		return errors.E(op, errors.Invalid, "unknown permission bits")
	}
	return nil
}

// Request verifies an authorization request: a complete identity and,
// for each requested container, a legal name and a legal permission
// set. Requests may not name containers in the reserved "apps/"
// namespace; dedicated containers are requested through the
// AppContainer flag instead.
func Request(req warden.AuthRequest) error {
	const op errors.Op = "valid.Request"
	if err := Identity(req.Identity); err != nil {
		return errors.E(op, err)
	}
	for name, set := range req.Containers {
		if name == "" {
			return errors.E(op, req.Identity.ID, errors.Invalid, "empty container name")
		}
		if strings.HasPrefix(string(name), warden.AppContainerPrefix) {
			return errors.E(op, req.Identity.ID, errors.Invalid,
				errors.Errorf("container name %q is in the reserved %q namespace", name, warden.AppContainerPrefix))
		}
		if err := Permissions(set); err != nil {
			return errors.E(op, req.Identity.ID, err)
		}
	}
	return nil
}
