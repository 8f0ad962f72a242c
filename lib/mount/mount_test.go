// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package mount

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/fusekit/lib/fuseconf"
)

func TestMountOptions(t *testing.T) {
	config := &Config{
		FsName:             "hello",
		Subtype:            "hellofs",
		ReadOnly:           true,
		DefaultPermissions: true,
		MaxRead:            65536,
		MaxWrite:           131072,
		Kernel:             []string{"blksize=512"},
	}
	options := mountOptions(config)

	if options.FsName != "hello" {
		t.Errorf("FsName = %q, want %q", options.FsName, "hello")
	}
	if options.Name != "hellofs" {
		t.Errorf("Name = %q, want %q", options.Name, "hellofs")
	}
	if options.MaxWrite != 131072 {
		t.Errorf("MaxWrite = %d, want 131072", options.MaxWrite)
	}
	want := []string{"ro", "default_permissions", "max_read=65536", "blksize=512"}
	if !reflect.DeepEqual(options.Options, want) {
		t.Errorf("Options = %v, want %v", options.Options, want)
	}
}

func TestMountOptionsAllowRoot(t *testing.T) {
	options := mountOptions(&Config{AllowRoot: true})
	if !options.AllowOther {
		t.Error("AllowOther = false, want true (allow_root implies kernel allow_other)")
	}
}

func TestCheckPolicyAllowOther(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("policy check is bypassed for root")
	}

	config := &Config{AllowOther: true}

	err := checkPolicy(config, fuseconf.Default())
	if err == nil {
		t.Error("checkPolicy allowed allow_other without user_allow_other")
	}

	err = checkPolicy(config, &fuseconf.Config{UserAllowOther: true, MountMax: 10})
	if err != nil {
		t.Errorf("checkPolicy with user_allow_other: %v", err)
	}
}

func TestCountFuseMounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mounts")
	table := strings.Join([]string{
		"proc /proc proc rw 0 0",
		"hellofs /mnt/a fuse.hellofs rw 0 0",
		"memfs /mnt/b fuse rw 0 0",
		"/dev/sda1 / ext4 rw 0 0",
		"fusectl /sys/fs/fuse/connections fusectl rw 0 0",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := mountsFile
	mountsFile = path
	defer func() { mountsFile = orig }()

	count, err := countFuseMounts()
	if err != nil {
		t.Fatalf("countFuseMounts: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (fusectl must not be counted)", count)
	}
}

func TestCheckPolicyMountMax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mounts")
	table := "a /mnt/a fuse rw 0 0\nb /mnt/b fuse rw 0 0\n"
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := mountsFile
	mountsFile = path
	defer func() { mountsFile = orig }()

	policy := &fuseconf.Config{MountMax: 2}
	if err := checkPolicy(&Config{}, policy); err == nil {
		t.Error("checkPolicy allowed a mount past mount_max")
	}

	policy.MountMax = 3
	if err := checkPolicy(&Config{}, policy); err != nil {
		t.Errorf("checkPolicy under mount_max: %v", err)
	}
}
