// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command warden authorizes third-party applications against a
// network owner's data. It is a thin driver around the auth package:
// it assembles the collaborator services from the configuration, runs
// one authorization request and prints the issued credential.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"warden.network/auth"
	authkeys "warden.network/authkeys/inprocess"
	"warden.network/config"
	containers "warden.network/container/inprocess"
	"warden.network/errors"
	"warden.network/log"
	manifests "warden.network/manifest/inprocess"
	registryfile "warden.network/registry/file"
	registries "warden.network/registry/inprocess"
	"warden.network/warden"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "warden",
		Short:         "warden authorizes applications on a mutable-data network",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "warden.yaml", "path of the config file")
	root.AddCommand(authenticateCmd(&configPath))
	return root
}

// requestFile is the YAML shape of an authorization request.
type requestFile struct {
	ID           string              `yaml:"id"`
	Name         string              `yaml:"name"`
	Vendor       string              `yaml:"vendor"`
	Containers   map[string][]string `yaml:"containers"`
	AppContainer bool                `yaml:"app_container"`
}

func authenticateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "authenticate <request.yaml>",
		Short: "authorize one application request and print its credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFile(*configPath)
			if err != nil {
				return err
			}
			if err := log.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			req, err := readRequest(args[0])
			if err != nil {
				return err
			}

			a, err := newAuthenticator(cfg)
			if err != nil {
				return err
			}
			granted, err := a.Authenticate(req)
			if err != nil {
				return err
			}
			return printGranted(cmd, granted)
		},
	}
}

// newAuthenticator assembles the service set. The registry is durable
// when the config names a path; the remaining collaborators are
// memory-resident stand-ins for their network services.
func newAuthenticator(cfg *config.Config) (*auth.Authenticator, error) {
	var registry warden.Registry
	var err error
	if cfg.Registry != "" {
		registry, err = registryfile.Open(cfg.Registry)
		if err != nil {
			return nil, err
		}
	} else {
		registry = registries.New()
	}
	c := containers.New()
	return auth.New(auth.Config{
		Registry:   registry,
		Manifest:   manifests.New(),
		Containers: c,
		Resolver:   c,
		AuthKeys:   authkeys.New(),
		Owner:      cfg.Owner,
		Bootstrap:  cfg.Bootstrap,
	})
}

func readRequest(path string) (warden.AuthRequest, error) {
	const op errors.Op = "main.readRequest"
	data, err := os.ReadFile(path)
	if err != nil {
		return warden.AuthRequest{}, errors.E(op, errors.IO, err)
	}
	var f requestFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return warden.AuthRequest{}, errors.E(op, errors.Invalid, err)
	}

	req := warden.AuthRequest{
		Identity: warden.Identity{
			ID:     warden.AppID(f.ID),
			Name:   f.Name,
			Vendor: f.Vendor,
		},
		AppContainer: f.AppContainer,
	}
	if len(f.Containers) > 0 {
		req.Containers = make(map[warden.ContainerName]warden.PermissionSet, len(f.Containers))
		for name, perms := range f.Containers {
			var set warden.PermissionSet
			for _, p := range perms {
				perm, err := warden.ParsePermission(p)
				if err != nil {
					return warden.AuthRequest{}, errors.E(op, errors.Invalid, err)
				}
				set = set.Add(perm)
			}
			req.Containers[warden.ContainerName(name)] = set
		}
	}
	return req, nil
}

// grantedFile is the YAML shape of a printed credential. Key material
// is hex-encoded.
type grantedFile struct {
	SignPublic  string   `yaml:"sign_public"`
	SignPrivate string   `yaml:"sign_private"`
	EncPublic   string   `yaml:"enc_public"`
	EncPrivate  string   `yaml:"enc_private"`
	Secret      string   `yaml:"secret"`
	Network     string   `yaml:"network"`
	Peers       []string `yaml:"peers,omitempty"`
	Manifest    string   `yaml:"manifest"`
	Sequence    int64    `yaml:"sequence"`
}

func printGranted(cmd *cobra.Command, g *warden.AuthGranted) error {
	out := grantedFile{
		SignPublic:  hex.EncodeToString(g.Keys.SignPublic),
		SignPrivate: hex.EncodeToString(g.Keys.SignPrivate),
		EncPublic:   hex.EncodeToString(g.Keys.EncPublic),
		EncPrivate:  hex.EncodeToString(g.Keys.EncPrivate),
		Secret:      hex.EncodeToString(g.Keys.Secret),
		Network:     g.Bootstrap.Network,
		Manifest:    string(g.AccessContainer.Descriptor.Address),
		Sequence:    g.AccessContainer.Sequence,
	}
	for _, p := range g.Bootstrap.Peers {
		out.Peers = append(out.Peers, string(p))
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
