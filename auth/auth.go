// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package auth implements the application authorization protocol: it
// classifies the requesting application as new, authorized or revoked
// and drives the network operations that end in a credential bundle.
package auth

import (
	"golang.org/x/sync/errgroup"

	"warden.network/errors"
	"warden.network/keys"
	"warden.network/log"
	"warden.network/manifest"
	"warden.network/valid"
	"warden.network/warden"
)

// State is the current authorization state of an application.
type State int

// States of an application.
const (
	// NotAuthenticated means the application has no registry record:
	// it has never completed key issuance.
	NotAuthenticated State = iota

	// Authenticated means the application has a registry record and a
	// live manifest entry.
	Authenticated

	// Revoked means the application has a registry record but no
	// manifest entry: its access has been stripped, its keys remain.
	Revoked
)

func (s State) String() string {
	switch s {
	case NotAuthenticated:
		return "not authenticated"
	case Authenticated:
		return "authenticated"
	case Revoked:
		return "revoked"
	}
	return "unknown state"
}

// Config collects the collaborators and environment an Authenticator
// works against.
type Config struct {
	// Registry stores application records.
	Registry warden.Registry

	// Manifest is the owner's access-control manifest object.
	Manifest warden.Manifest

	// Containers provisions dedicated application containers.
	Containers warden.ContainerProvisioner

	// Resolver resolves logical container names to descriptors.
	Resolver warden.PermissionResolver

	// AuthKeys is the network-wide authorization-key list.
	AuthKeys warden.KeyRegistrar

	// Revocations is the pending-revocation set. It may be nil, which
	// is treated as the empty set.
	Revocations warden.RevocationSource

	// Owner is the network owner's public key; application keys are
	// minted under it.
	Owner warden.PublicKey

	// Bootstrap is embedded in every issued credential.
	Bootstrap warden.Bootstrap
}

// Authenticator runs the authorization protocol. It holds no state of
// its own between requests; every request re-reads the registry and
// the manifest.
type Authenticator struct {
	config Config
	access *manifest.Accessor
}

// New returns an Authenticator over the given collaborators.
func New(cfg Config) (*Authenticator, error) {
	const op errors.Op = "auth.New"
	switch {
	case cfg.Registry == nil:
		return nil, errors.E(op, errors.Invalid, "missing registry")
	case cfg.Manifest == nil:
		return nil, errors.E(op, errors.Invalid, "missing manifest")
	case cfg.Containers == nil:
		return nil, errors.E(op, errors.Invalid, "missing container provisioner")
	case cfg.Resolver == nil:
		return nil, errors.E(op, errors.Invalid, "missing permission resolver")
	case cfg.AuthKeys == nil:
		return nil, errors.E(op, errors.Invalid, "missing key registrar")
	case len(cfg.Owner) == 0:
		return nil, errors.E(op, errors.Invalid, "missing owner key")
	}
	return &Authenticator{
		config: cfg,
		access: manifest.NewAccessor(cfg.Manifest),
	}, nil
}

// Authenticate authorizes one application request and returns its
// credential bundle.
//
// The request is resolved to a state and dispatched: an application
// never seen before, or one previously revoked, goes through the
// register pipeline; an application with live permissions goes through
// the re-grant pipeline. A request for an application that is pending
// revocation fails outright, before any mutation.
func (a *Authenticator) Authenticate(req warden.AuthRequest) (*warden.AuthGranted, error) {
	const op errors.Op = "auth.Authenticate"
	if err := valid.Request(req); err != nil {
		return nil, errors.E(op, err)
	}
	id := req.Identity.ID

	// The registry listing and the revocation guard are independent;
	// run them together and require both.
	var apps map[warden.IDHash]warden.AppRecord
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		apps, err = a.config.Registry.List()
		return err
	})
	g.Go(func() error {
		return a.checkRevocation(id)
	})
	if err := g.Wait(); err != nil {
		return nil, errors.E(op, id, err)
	}

	state, err := a.state(id, apps)
	if err != nil {
		return nil, errors.E(op, id, err)
	}
	log.Debug.Printf("auth: app %q is %s", id, state)

	// Prepare the application record. A new application gets fresh
	// keys, minted once and persisted before anything else happens; a
	// known application's record is taken from the listing by value,
	// so revoked applications are re-authorized with their original
	// keys.
	var record warden.AppRecord
	switch state {
	case NotAuthenticated:
		k, err := keys.New(a.config.Owner)
		if err != nil {
			return nil, errors.E(op, id, err)
		}
		record = warden.AppRecord{Identity: req.Identity, Keys: k}
		if err := a.config.Registry.Insert(record); err != nil {
			return nil, errors.E(op, id, err)
		}
	case Authenticated, Revoked:
		rec, ok := apps[keys.HashID(id)]
		if !ok {
			// The state was resolved from this very listing.
			return nil, errors.E(op, id, errors.Internal,
				"application record missing from the listing that classified it")
		}
		record = rec
	}

	var granted *warden.AuthGranted
	if state == Authenticated {
		granted, err = a.regrant(record, req.AppContainer)
	} else {
		granted, err = a.register(record, req)
	}
	if err != nil {
		return nil, errors.E(op, id, err)
	}
	return granted, nil
}

// state classifies the application against the given registry listing:
// no record means NotAuthenticated, a record with a manifest entry
// means Authenticated, and a record whose manifest entry is absent
// means Revoked. Any manifest failure other than "no such entry" is
// an infrastructure error, not a classification.
func (a *Authenticator) state(id warden.AppID, apps map[warden.IDHash]warden.AppRecord) (State, error) {
	rec, ok := apps[keys.HashID(id)]
	if !ok {
		return NotAuthenticated, nil
	}
	_, _, err := a.config.Manifest.Lookup(id, rec.Keys)
	switch {
	case err == nil:
		return Authenticated, nil
	case errors.Is(errors.NotExist, err):
		// The app has keys but no manifest entry, so it is revoked.
		return Revoked, nil
	default:
		return 0, err
	}
}

// checkRevocation fails if the application's revocation has been
// requested and is still pending. An unset revocation source is the
// empty set.
func (a *Authenticator) checkRevocation(id warden.AppID) error {
	const op errors.Op = "auth.checkRevocation"
	if a.config.Revocations == nil {
		return nil
	}
	pending, err := a.config.Revocations.Pending()
	if err != nil {
		return errors.E(op, err)
	}
	for _, p := range pending {
		if p == id {
			return errors.E(op, id, errors.Revoked,
				"cannot authorize an application that is pending revocation")
		}
	}
	return nil
}

// regrant returns the credential of an already-authorized application.
// Without a dedicated-container request this is a pure read: the
// existing keys plus the manifest's pointer, no writes. With one, the
// dedicated container is provisioned (or found) and merged into the
// application's current entry, which is then rewritten under the
// manifest's versioning.
func (a *Authenticator) regrant(rec warden.AppRecord, appContainer bool) (*warden.AuthGranted, error) {
	const op errors.Op = "auth.regrant"
	id := rec.Identity.ID

	if !appContainer {
		return a.granted(rec.Keys, a.access.Info()), nil
	}

	// The entry must exist for an Authenticated app, but the merge
	// tolerates its absence.
	entry, err := a.access.Entry(id, rec.Keys)
	if err != nil {
		return nil, errors.E(op, err)
	}
	desc, err := a.config.Containers.Fetch(id, rec.Keys.SignPublic)
	if err != nil {
		return nil, errors.E(op, id, err)
	}
	info, err := a.access.Update(rec, withAppContainer(entry, id, desc))
	if err != nil {
		return nil, errors.E(op, err)
	}
	return a.granted(rec.Keys, info), nil
}

// register authorizes a new or previously revoked application:
//
//  1. Append the app's signing key to the network authorization list
//     at the list's next version.
//  2. Resolve the requested containers into a manifest entry; an empty
//     request yields an empty entry.
//  3. Provision and merge the dedicated container, if requested.
//  4. Write the entry to the manifest under its versioning.
//  5. Build the credential.
//
// Each step depends on the previous one; the first failure aborts the
// request. There is no rollback: a key appended in step 1 stays
// appended if a later step fails.
func (a *Authenticator) register(rec warden.AppRecord, req warden.AuthRequest) (*warden.AuthGranted, error) {
	const op errors.Op = "auth.register"
	id := rec.Identity.ID

	_, version, err := a.config.AuthKeys.Keys()
	if err != nil {
		return nil, errors.E(op, id, err)
	}
	if err := a.config.AuthKeys.Insert(rec.Keys.SignPublic, version+1); err != nil {
		return nil, errors.E(op, id, err)
	}

	entry := warden.ManifestEntry{}
	if len(req.Containers) > 0 {
		entry, err = a.config.Resolver.Resolve(req.Containers)
		if err != nil {
			return nil, errors.E(op, id, err)
		}
	}

	if req.AppContainer {
		desc, err := a.config.Containers.Fetch(id, rec.Keys.SignPublic)
		if err != nil {
			return nil, errors.E(op, id, err)
		}
		entry = withAppContainer(entry, id, desc)
	}

	info, err := a.access.Update(rec, entry)
	if err != nil {
		return nil, errors.E(op, err)
	}
	log.Debug.Printf("auth: registered app %q with %d containers", id, len(entry))
	return a.granted(rec.Keys, info), nil
}

// withAppContainer merges the application's dedicated container into
// the entry under the reserved "apps/<id>" name, with the full
// permission set. Other entries are never touched, and re-merging the
// same descriptor yields the same entry.
func withAppContainer(entry warden.ManifestEntry, id warden.AppID, desc warden.ContainerDescriptor) warden.ManifestEntry {
	merged := entry.Copy()
	merged[warden.AppContainerName(id)] = warden.ContainerAccess{
		Descriptor: desc,
		Access:     warden.FullAccess,
	}
	return merged
}

// granted builds the credential bundle from the application's keys and
// the manifest pointer. The bundle is handed to the caller and not
// retained.
func (a *Authenticator) granted(k warden.AppKeys, info warden.ManifestInfo) *warden.AuthGranted {
	return &warden.AuthGranted{
		Keys:            k,
		Bootstrap:       a.config.Bootstrap,
		AccessContainer: info,
	}
}
