// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config creates a client configuration from various sources.
package config

import (
	"encoding/hex"
	"os"

	yaml "gopkg.in/yaml.v2"

	"warden.network/errors"
	"warden.network/warden"
)

// Config carries everything the authenticator needs from its
// environment: the network owner's public key, the bootstrap
// information embedded in issued credentials, and local settings.
type Config struct {
	// Owner is the network owner's public key. Application keys are
	// minted under this key context.
	Owner warden.PublicKey

	// Bootstrap is handed verbatim to authorized applications.
	Bootstrap warden.Bootstrap

	// LogLevel is the logging level: debug, info, error or disabled.
	LogLevel string

	// Registry is the path of the persistent application registry.
	// Empty means a memory-resident registry.
	Registry string
}

// Defaults.
const (
	defaultLogLevel = "info"
	defaultNetwork  = "warden.local"
)

// New returns a config with all fields set as defaults. The owner key
// is unset and must be supplied before authorizing applications.
func New() *Config {
	return &Config{
		Bootstrap: warden.Bootstrap{Network: defaultNetwork},
		LogLevel:  defaultLogLevel,
	}
}

// file is the YAML shape of a config file. Unknown keys are errors.
type file struct {
	Owner    string   `yaml:"owner"`
	Network  string   `yaml:"network"`
	Peers    []string `yaml:"peers"`
	LogLevel string   `yaml:"loglevel"`
	Registry string   `yaml:"registry"`
}

// FromFile initializes a config from the given YAML file. The owner
// key is hex-encoded in the file and is required; everything else
// falls back to the defaults of New.
func FromFile(name string) (*Config, error) {
	const op errors.Op = "config.FromFile"
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, errors.E(op, errors.NotExist, err)
	}
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return FromBytes(data)
}

// FromBytes initializes a config from YAML data.
func FromBytes(data []byte) (*Config, error) {
	const op errors.Op = "config.FromBytes"
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.E(op, errors.Invalid, err)
	}
	cfg := New()
	if f.Owner == "" {
		return nil, errors.E(op, errors.Invalid, "missing owner key")
	}
	owner, err := hex.DecodeString(f.Owner)
	if err != nil {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("bad owner key: %v", err))
	}
	cfg.Owner = owner
	if f.Network != "" {
		cfg.Bootstrap.Network = f.Network
	}
	for _, p := range f.Peers {
		cfg.Bootstrap.Peers = append(cfg.Bootstrap.Peers, warden.NetAddr(p))
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	cfg.Registry = f.Registry
	return cfg, nil
}
