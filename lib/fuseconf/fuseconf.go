// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuseconf loads the system-wide mount policy file.
//
// The file is the fusekit rendition of the classic fuse.conf: it
// decides whether unprivileged users may mount with allow_other, caps
// the number of concurrent mounts, and can append default "-o"
// options to every mount. It is loaded from a single explicit path
// with no discovery or fallback chain, so the effective policy is
// always auditable.
package fuseconf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Mount-layer callers look for the policy file
// when the user does not name one.
const DefaultPath = "/etc/fusekit/fusekit.yaml"

// DefaultMountMax bounds concurrent fusekit mounts when the policy
// file does not say otherwise.
const DefaultMountMax = 1000

// Config is the system-wide mount policy.
type Config struct {
	// UserAllowOther permits unprivileged users to mount with the
	// allow_other / allow_root options. Without it, only root may
	// expose a mount to other users.
	UserAllowOther bool `yaml:"user_allow_other"`

	// MountMax is the maximum number of concurrent fusekit mounts.
	MountMax int `yaml:"mount_max"`

	// DefaultOptions are "-o" sub-options appended to every mount's
	// argument vector before parsing, e.g. ["default_permissions"].
	// Explicit command-line options win because they are parsed
	// after these and overwrite the same record fields.
	DefaultOptions []string `yaml:"default_options"`
}

// Default returns the policy used when no file exists: conservative
// allow_other, the stock mount cap, no default options.
func Default() *Config {
	return &Config{
		MountMax: DefaultMountMax,
	}
}

// Load reads the policy file at path. A missing file is not an error
// and yields Default(); a file that exists but does not parse is.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading mount policy %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("parsing mount policy %s: %w", path, err)
	}
	if config.MountMax <= 0 {
		config.MountMax = DefaultMountMax
	}
	return config, nil
}
