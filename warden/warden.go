// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package warden defines the data model and service interfaces shared
// by all Warden software.
package warden

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// An AppID is the stable external identifier of a third-party
// application, assigned by its vendor. It is never mutated after the
// application first appears.
// Example: net.maidsafe.examples.mailtutorial
type AppID string

// A ContainerName names a storage container within the network owner's
// data. Names are either caller-supplied logical names ("photos") or
// the reserved form "apps/<app id>" denoting an application's dedicated
// container.
type ContainerName string

// An Address locates an object on the network. It is an opaque string
// interpreted by the network layer.
type Address string

// A NetAddr is the network address of a node used to bootstrap a
// connection to the network.
type NetAddr string

// A PublicKey is the raw bytes of a public key.
type PublicKey []byte

// A PrivateKey is the raw bytes of a private key.
type PrivateKey []byte

// A SymmetricKey is the raw bytes of a symmetric encryption key.
type SymmetricKey []byte

// An IDHash is the one-way 256-bit hash of an AppID. The Registry is
// keyed by IDHash; the hash is deterministic and collisions are
// treated as impossible.
type IDHash [32]byte

// String returns the hash in hexadecimal for display and logging.
func (h IDHash) String() string {
	return hex.EncodeToString(h[:])
}

// A Permission is a single right an application may hold on a
// container. Permissions combine into a PermissionSet.
type Permission uint8

// The rights an application may be granted on a container.
const (
	Read Permission = 1 << iota
	Insert
	Update
	Delete
	ManagePermissions
)

var permissionNames = []struct {
	p    Permission
	name string
}{
	{Read, "read"},
	{Insert, "insert"},
	{Update, "update"},
	{Delete, "delete"},
	{ManagePermissions, "manage-permissions"},
}

// String returns the lower-case name of the permission.
func (p Permission) String() string {
	for _, pn := range permissionNames {
		if pn.p == p {
			return pn.name
		}
	}
	return fmt.Sprintf("permission(%#x)", uint8(p))
}

// ParsePermission converts the lower-case name of a permission into
// its Permission value.
func ParsePermission(name string) (Permission, error) {
	for _, pn := range permissionNames {
		if pn.name == name {
			return pn.p, nil
		}
	}
	return 0, fmt.Errorf("unknown permission %q", name)
}

// A PermissionSet is a set of Permissions, represented as a bitmask.
// The zero value is the empty set.
type PermissionSet uint8

// NewPermissionSet returns the set holding the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s |= PermissionSet(p)
	}
	return s
}

// FullAccess is the set of all five permissions. It is the access an
// application holds on its own dedicated container.
var FullAccess = NewPermissionSet(Read, Insert, Update, Delete, ManagePermissions)

// Has reports whether the set contains the permission.
func (s PermissionSet) Has(p Permission) bool {
	return s&PermissionSet(p) != 0
}

// Add returns the set extended with the permission.
func (s PermissionSet) Add(p Permission) PermissionSet {
	return s | PermissionSet(p)
}

// IsZero reports whether the set is empty.
func (s PermissionSet) IsZero() bool {
	return s == 0
}

// String returns the sorted, comma-separated permission names.
func (s PermissionSet) String() string {
	var names []string
	for _, pn := range permissionNames {
		if s.Has(pn.p) {
			names = append(names, pn.name)
		}
	}
	return strings.Join(names, ",")
}

// AppContainerPrefix is the reserved prefix for dedicated-container
// names in a manifest entry.
const AppContainerPrefix = "apps/"

// AppContainerName returns the reserved manifest name of the
// application's dedicated container.
func AppContainerName(id AppID) ContainerName {
	return ContainerName(AppContainerPrefix + string(id))
}

// A ContainerDescriptor locates one container on the network and
// carries the symmetric key protecting its contents, if any.
type ContainerDescriptor struct {
	// Address is the network address of the container object.
	Address Address

	// Tag is the type tag the container object was created with.
	Tag uint64

	// Secret is the symmetric key protecting the container's
	// contents. It is empty for public containers.
	Secret SymmetricKey
}

// ContainerAccess pairs a container's descriptor with the permissions
// an application holds on it.
type ContainerAccess struct {
	Descriptor ContainerDescriptor
	Access     PermissionSet
}

// A ManifestEntry is one application's record in the access-control
// manifest: the containers it may reach and the permissions it holds
// on each.
type ManifestEntry map[ContainerName]ContainerAccess

// Copy returns an independent copy of the entry. A nil entry copies to
// an empty, non-nil one so callers may insert into the result.
func (e ManifestEntry) Copy() ManifestEntry {
	c := make(ManifestEntry, len(e))
	for name, access := range e {
		c[name] = access
	}
	return c
}

// Names returns the sorted container names present in the entry.
func (e ManifestEntry) Names() []ContainerName {
	names := make([]ContainerName, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Identity describes a third-party application to the network owner.
type Identity struct {
	// ID is the application's stable external identifier.
	ID AppID

	// Name is the human-readable application name.
	Name string

	// Vendor identifies the application's publisher.
	Vendor string

	// Metadata holds optional extra fields supplied by the
	// application, such as a scope or build identifier.
	Metadata map[string]string
}

// AppKeys is the cryptographic material issued to an application at
// its first-ever authorization: a signing pair for network
// authorization, an encryption pair, and a symmetric key for the
// application's private data. The keys are minted once under the
// network owner's public key context, are immutable thereafter, and
// are reused verbatim when a revoked application is re-authorized.
type AppKeys struct {
	// Owner is the network owner's public key the keys were minted
	// under.
	Owner PublicKey

	// SignPublic and SignPrivate are the application's signing pair.
	// SignPublic is the key registered in the network-wide
	// authorization list.
	SignPublic  PublicKey
	SignPrivate PrivateKey

	// EncPublic and EncPrivate are the application's encryption pair.
	EncPublic  PublicKey
	EncPrivate PrivateKey

	// Secret is the symmetric key for the application's private
	// containers.
	Secret SymmetricKey
}

// An AppRecord binds an application's identity to its issued keys. It
// is the unit persisted by the Registry, keyed by the IDHash of
// Identity.ID. A record exists iff key issuance has ever completed for
// the application, regardless of its current manifest state.
type AppRecord struct {
	Identity Identity
	Keys     AppKeys
}

// An AuthRequest asks for authorization of one application: the
// containers it wants with the permissions it wants on each, and
// whether it wants a dedicated container of its own.
type AuthRequest struct {
	Identity     Identity
	Containers   map[ContainerName]PermissionSet
	AppContainer bool
}

// ManifestInfo is a pointer to the access-control manifest object:
// its descriptor and the object's sequence number at the time of
// observation.
type ManifestInfo struct {
	Descriptor ContainerDescriptor
	Sequence   int64
}

// Bootstrap is the network bootstrap information handed to an
// authorized application so it can reach the network directly.
type Bootstrap struct {
	// Network names the network the credential is valid for.
	Network string

	// Peers are the addresses of nodes to contact first.
	Peers []NetAddr
}

// AuthGranted is the credential bundle returned by a successful
// authorization. It is immutable once constructed and is not retained
// by the authenticator.
type AuthGranted struct {
	Keys            AppKeys
	Bootstrap       Bootstrap
	AccessContainer ManifestInfo
}

// Registry is the durable store of application records, keyed by the
// hash of the application identifier. It records key issuance only;
// it says nothing about current permissions.
type Registry interface {
	// List returns every stored record, keyed by IDHash.
	List() (map[IDHash]AppRecord, error)

	// Insert stores a new record. It fails with kind Exist if a
	// record for the same application is already present.
	Insert(AppRecord) error
}

// Manifest is the versioned access-control manifest object. Each
// application's entry carries its own monotonically increasing
// version, enforced on write.
type Manifest interface {
	// Lookup returns the current version and value of the
	// application's entry. It fails with kind NotExist when the
	// manifest holds no entry for the application.
	Lookup(id AppID, keys AppKeys) (int64, ManifestEntry, error)

	// Put writes the application's entry at the given version. A
	// fresh entry is written at version 0; an existing entry at its
	// current version plus one. Any other version fails with kind
	// Conflict.
	Put(id AppID, keys AppKeys, entry ManifestEntry, version int64) error

	// Info returns the manifest object's descriptor and current
	// sequence number.
	Info() ManifestInfo
}

// ContainerProvisioner creates or fetches an application's dedicated
// container.
type ContainerProvisioner interface {
	// Fetch returns the descriptor of the application's dedicated
	// container, creating the container if it does not exist. Fetch
	// is idempotent: an existing container's descriptor is returned
	// unchanged.
	Fetch(id AppID, signKey PublicKey) (ContainerDescriptor, error)
}

// PermissionResolver turns the logical container names of a request
// into manifest entries carrying descriptors.
type PermissionResolver interface {
	// Resolve maps each requested container name to its descriptor
	// and attaches the requested permissions.
	Resolve(containers map[ContainerName]PermissionSet) (ManifestEntry, error)
}

// KeyRegistrar is the network-wide list of authorized public keys,
// updated under optimistic versioning.
type KeyRegistrar interface {
	// Keys returns the current list and its version.
	Keys() ([]PublicKey, int64, error)

	// Insert appends a key at the given target version, which must be
	// the current version plus one. A mismatch fails with kind
	// Conflict. Inserting a key already present is a no-op.
	Insert(key PublicKey, version int64) error
}

// RevocationSource exposes the set of applications whose revocation
// has been requested but not yet completed. It is owned by the
// revocation subsystem and read-only here.
type RevocationSource interface {
	// Pending returns the identifiers pending revocation.
	Pending() ([]AppID, error)
}
