// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keys mints and hashes application key material.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"warden.network/errors"
	"warden.network/warden"
)

// idDomainKey is the BLAKE3 key for hashing application identifiers.
// Domain separation keeps app-id hashes distinct from any other hash
// of the same bytes elsewhere in the system. The value is the ASCII
// domain name zero-padded to 32 bytes; changing it invalidates every
// stored registry key.
var idDomainKey = [32]byte{
	'w', 'a', 'r', 'd', 'e', 'n', '.', 'a', 'p', 'p', '.', 'i', 'd',
}

// HashID returns the one-way 256-bit hash of the application
// identifier that keys the Registry. The hash is deterministic.
func HashID(id warden.AppID) warden.IDHash {
	// NewKeyed fails only on a wrong key length, which the fixed-size
	// array rules out.
	h, err := blake3.NewKeyed(idDomainKey[:])
	if err != nil {
		panic("keys: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	h.Write([]byte(id))
	var sum warden.IDHash
	copy(sum[:], h.Sum(nil))
	return sum
}

// New mints a fresh set of application keys under the network owner's
// public key context: an ed25519 signing pair for network
// authorization, a curve25519 box pair for encryption, and a 32-byte
// symmetric key for the application's private containers. Keys are
// minted exactly once per application; re-authorization after
// revocation reuses the stored keys.
func New(owner warden.PublicKey) (warden.AppKeys, error) {
	const op errors.Op = "keys.New"
	if len(owner) == 0 {
		return warden.AppKeys{}, errors.E(op, errors.Invalid, "missing owner key")
	}

	signPub, signPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return warden.AppKeys{}, errors.E(op, errors.IO, err)
	}
	encPub, encPriv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return warden.AppKeys{}, errors.E(op, errors.IO, err)
	}
	var secret [32]byte
	if _, err := rand.Read(secret[:]); err != nil {
		return warden.AppKeys{}, errors.E(op, errors.IO, err)
	}

	k := warden.AppKeys{
		Owner:       append(warden.PublicKey(nil), owner...),
		SignPublic:  warden.PublicKey(signPub),
		SignPrivate: warden.PrivateKey(signPriv),
		EncPublic:   warden.PublicKey(encPub[:]),
		EncPrivate:  warden.PrivateKey(encPriv[:]),
		Secret:      warden.SymmetricKey(secret[:]),
	}
	return k, nil
}

// Seal encrypts data with the application's symmetric key, prepending
// the random nonce. It is how an application's private container
// contents are protected.
func Seal(key warden.SymmetricKey, data []byte) ([]byte, error) {
	const op errors.Op = "keys.Seal"
	var k [32]byte
	if len(key) != len(k) {
		return nil, errors.E(op, errors.Invalid, "bad symmetric key length")
	}
	copy(k[:], key)
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return secretbox.Seal(nonce[:], data, &nonce, &k), nil
}

// Open decrypts data produced by Seal.
func Open(key warden.SymmetricKey, sealed []byte) ([]byte, error) {
	const op errors.Op = "keys.Open"
	var k [32]byte
	if len(key) != len(k) {
		return nil, errors.E(op, errors.Invalid, "bad symmetric key length")
	}
	copy(k[:], key)
	var nonce [24]byte
	if len(sealed) < len(nonce) {
		return nil, errors.E(op, errors.Invalid, "sealed data too short")
	}
	copy(nonce[:], sealed)
	data, ok := secretbox.Open(nil, sealed[len(nonce):], &nonce, &k)
	if !ok {
		return nil, errors.E(op, errors.Permission, "cannot decrypt")
	}
	return data, nil
}
