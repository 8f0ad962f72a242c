// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package mount establishes the kernel-facing channel for a parsed
// command line. It is the second parse pass in the cooperative option
// protocol: a filesystem binary claims its own options first, then
// hands the rewritten vector here, where mount options are claimed
// and the remainder is forwarded to the kernel.
package mount

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/fusekit/lib/fuseconf"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// mountsFile lists the mounts visible to this process; overridable in
// tests.
var mountsFile = "/proc/self/mounts"

// Mount mounts root at mountpoint with the parsed mount configuration,
// subject to the system mount policy. The caller must call Unmount on
// the returned server when done; Wait blocks until then. The
// mountpoint directory is created if it does not exist. A nil policy
// means fuseconf.Default(), a nil logger means error-only output.
func Mount(mountpoint string, root gofuse.InodeEmbedder, config *Config, policy *fuseconf.Config, logger *slog.Logger) (*fuse.Server, error) {
	if mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if root == nil {
		return nil, fmt.Errorf("filesystem root is required")
	}
	if config == nil {
		config = &Config{}
	}
	if policy == nil {
		policy = fuseconf.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	if err := checkPolicy(config, policy); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", mountpoint, err)
	}

	server, err := gofuse.Mount(mountpoint, root, &gofuse.Options{
		MountOptions: mountOptions(config),
	})
	if err != nil {
		return nil, fmt.Errorf("mounting at %s: %w", mountpoint, err)
	}

	logger.Info("filesystem mounted",
		"mountpoint", mountpoint,
		"fsname", config.FsName,
		"readonly", config.ReadOnly,
	)
	return server, nil
}

// mountOptions translates the parsed Config into go-fuse mount
// options. Unrecognized sub-options collected during the parse pass
// ride along in Options.
func mountOptions(config *Config) fuse.MountOptions {
	options := fuse.MountOptions{
		FsName: config.FsName,
		Name:   config.Subtype,
		Debug:  config.Debug,
		// allow_root is enforced in userspace on top of the kernel's
		// allow_other, as the classic mount helper does.
		AllowOther: config.AllowOther || config.AllowRoot,
		MaxWrite:   int(config.MaxWrite),
	}
	if config.ReadOnly {
		options.Options = append(options.Options, "ro")
	}
	if config.DefaultPermissions {
		options.Options = append(options.Options, "default_permissions")
	}
	if config.MaxRead > 0 {
		options.Options = append(options.Options, fmt.Sprintf("max_read=%d", config.MaxRead))
	}
	options.Options = append(options.Options, config.Kernel...)
	return options
}

// checkPolicy enforces the fuseconf mount policy: allow_other and
// allow_root are root-only unless user_allow_other is set, and the
// number of concurrent FUSE mounts is capped.
func checkPolicy(config *Config, policy *fuseconf.Config) error {
	if (config.AllowOther || config.AllowRoot) &&
		!policy.UserAllowOther && os.Geteuid() != 0 {
		return fmt.Errorf("allow_other and allow_root require user_allow_other in the mount policy")
	}

	count, err := countFuseMounts()
	if err != nil {
		// The mounts table being unreadable is not a reason to
		// refuse a mount; the cap is best effort.
		return nil
	}
	if count >= policy.MountMax {
		return fmt.Errorf("too many FUSE mounts: %d active, policy allows %d", count, policy.MountMax)
	}
	return nil
}

// ActiveMounts returns the number of FUSE mounts currently visible to
// this process, the figure the mount_max policy is checked against.
func ActiveMounts() (int, error) {
	return countFuseMounts()
}

// countFuseMounts counts active FUSE mounts in the process's mount
// table. The fstype column is "fuse" or "fuse.SUBTYPE".
func countFuseMounts() (int, error) {
	f, err := os.Open(mountsFile)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		fstype := fields[2]
		if fstype == "fuse" || strings.HasPrefix(fstype, "fuse.") {
			count++
		}
	}
	return count, scanner.Err()
}
