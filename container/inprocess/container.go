// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inprocess implements a non-persistent container service: it
// provisions dedicated application containers and resolves logical
// container names to descriptors.
package inprocess

import (
	"crypto/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"warden.network/errors"
	"warden.network/warden"
)

// Type tags containers are created with.
const (
	appContainerTag   = 15001
	ownerContainerTag = 15002
)

// Service provisions containers on demand and remembers them, so that
// repeated requests return identical descriptors. It implements both
// the warden.ContainerProvisioner and warden.PermissionResolver
// interfaces.
type Service struct {
	// mu protects the fields below.
	mu    sync.Mutex
	named map[warden.ContainerName]warden.ContainerDescriptor
	apps  map[warden.AppID]warden.ContainerDescriptor
}

var (
	_ warden.ContainerProvisioner = (*Service)(nil)
	_ warden.PermissionResolver   = (*Service)(nil)
)

// New returns a new container service.
func New() *Service {
	return &Service{
		named: make(map[warden.ContainerName]warden.ContainerDescriptor),
		apps:  make(map[warden.AppID]warden.ContainerDescriptor),
	}
}

// Fetch implements warden.ContainerProvisioner. The first call for an
// application creates its dedicated container; every later call
// returns the same descriptor.
func (s *Service) Fetch(id warden.AppID, signKey warden.PublicKey) (warden.ContainerDescriptor, error) {
	const op errors.Op = "container/inprocess.Fetch"
	if len(signKey) == 0 {
		return warden.ContainerDescriptor{}, errors.E(op, id, errors.Invalid, "missing signing key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if desc, ok := s.apps[id]; ok {
		return desc, nil
	}
	desc, err := mint(appContainerTag)
	if err != nil {
		return warden.ContainerDescriptor{}, errors.E(op, id, err)
	}
	s.apps[id] = desc
	return desc, nil
}

// Resolve implements warden.PermissionResolver. Each requested logical
// name resolves to its container's descriptor, provisioned on first
// use, paired with the requested permissions.
func (s *Service) Resolve(containers map[warden.ContainerName]warden.PermissionSet) (warden.ManifestEntry, error) {
	const op errors.Op = "container/inprocess.Resolve"

	s.mu.Lock()
	defer s.mu.Unlock()
	entry := make(warden.ManifestEntry, len(containers))
	for name, access := range containers {
		if strings.HasPrefix(string(name), warden.AppContainerPrefix) {
			return nil, errors.E(op, errors.Invalid,
				errors.Errorf("cannot resolve reserved container name %q", name))
		}
		desc, ok := s.named[name]
		if !ok {
			var err error
			desc, err = mint(ownerContainerTag)
			if err != nil {
				return nil, errors.E(op, err)
			}
			s.named[name] = desc
		}
		entry[name] = warden.ContainerAccess{Descriptor: desc, Access: access}
	}
	return entry, nil
}

// mint creates a descriptor for a new container: a fresh address and
// a fresh symmetric key.
func mint(tag uint64) (warden.ContainerDescriptor, error) {
	secret := make(warden.SymmetricKey, 32)
	if _, err := rand.Read(secret); err != nil {
		return warden.ContainerDescriptor{}, errors.E(errors.IO, err)
	}
	return warden.ContainerDescriptor{
		Address: warden.Address(uuid.NewString()),
		Tag:     tag,
		Secret:  secret,
	}, nil
}
