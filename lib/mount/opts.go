// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package mount

import (
	"fmt"
	"io"
	"strings"

	"github.com/bureau-foundation/fusekit/lib/fuseopt"
)

// Config is the record the mount layer's parse pass populates. A
// filesystem binary runs its own option pass first; whatever it keeps
// lands here on the second pass, and whatever this pass does not
// recognize is forwarded to the kernel via Kernel.
type Config struct {
	// FsName is the first field of the mtab entry (fsname=NAME).
	FsName string

	// Subtype is the filesystem subtype (subtype=NAME), shown as
	// "fuse.NAME" in mount listings.
	Subtype string

	// AllowOther permits other users to access the mount
	// (allow_other). Subject to the fuseconf policy.
	AllowOther bool

	// AllowRoot permits only root besides the mounting user
	// (allow_root). Subject to the same policy as AllowOther.
	AllowRoot bool

	// DefaultPermissions makes the kernel enforce file modes
	// (default_permissions).
	DefaultPermissions bool

	// ReadOnly mounts the filesystem read-only (ro / rw).
	ReadOnly bool

	// Debug enables kernel-protocol debug output (debug, -d).
	Debug bool

	// MaxRead caps the size of read requests (max_read=N). Zero
	// leaves the kernel default.
	MaxRead uint

	// MaxWrite caps the size of write requests (max_write=N). Zero
	// leaves the kernel default.
	MaxWrite uint

	// Kernel collects unrecognized "-o" sub-options, verbatim, for
	// pass-through to the kernel mount call.
	Kernel []string
}

func dest(f func(*Config) any) func(any) any {
	return func(data any) any { return f(data.(*Config)) }
}

// optSpec is the mount layer's spec table. Immutable; shared by every
// ParseArgs call. max_read has a second, KeyKeep entry because the
// protocol layer below reads it too: the field is recorded here and
// the sub-option still travels on in the rewritten vector.
var optSpec = []fuseopt.Opt{
	{Template: "allow_other", Dest: dest(func(c *Config) any { return &c.AllowOther }), Value: 1},
	{Template: "allow_root", Dest: dest(func(c *Config) any { return &c.AllowRoot }), Value: 1},
	{Template: "default_permissions", Dest: dest(func(c *Config) any { return &c.DefaultPermissions }), Value: 1},
	{Template: "ro", Dest: dest(func(c *Config) any { return &c.ReadOnly }), Value: 1},
	{Template: "rw", Dest: dest(func(c *Config) any { return &c.ReadOnly }), Value: 0},
	{Template: "debug", Dest: dest(func(c *Config) any { return &c.Debug }), Value: 1},
	{Template: "-d", Dest: dest(func(c *Config) any { return &c.Debug }), Value: 1},
	{Template: "fsname=%s", Dest: dest(func(c *Config) any { return &c.FsName })},
	{Template: "subtype=%s", Dest: dest(func(c *Config) any { return &c.Subtype })},
	{Template: "max_read=%u", Dest: dest(func(c *Config) any { return &c.MaxRead })},
	fuseopt.Key("max_read=", fuseopt.KeyKeep),
	{Template: "max_write=%u", Dest: dest(func(c *Config) any { return &c.MaxWrite })},
}

// optProc handles everything the spec table did not consume. Unknown
// "-o" sub-options are earmarked for the kernel; flags and positionals
// (the mountpoint among them) belong to the caller and pass through
// untouched either way.
func optProc(data any, arg string, key int, out *fuseopt.Args) (bool, error) {
	config := data.(*Config)
	if key == fuseopt.KeyOpt && !strings.HasPrefix(arg, "-") {
		config.Kernel = append(config.Kernel, arg)
	}
	return true, nil
}

// ParseArgs runs the mount layer's pass over args, populating config.
// Recognized sub-options are consumed from the vector; everything
// else is kept for the caller or the kernel.
func ParseArgs(args *fuseopt.Args, config *Config) error {
	return fuseopt.Parse(args, config, optSpec, optProc)
}

// WriteHelp writes usage lines for the mount layer's options, for
// binaries assembling a combined help screen.
func WriteHelp(w io.Writer) {
	lines := []struct{ flag, desc string }{
		{"-o allow_other", "allow access by other users"},
		{"-o allow_root", "allow access by root only"},
		{"-o default_permissions", "enable kernel permission checking"},
		{"-o ro", "mount read-only"},
		{"-o rw", "mount read-write (default)"},
		{"-o debug", "enable kernel protocol debug output"},
		{"-o fsname=NAME", "set filesystem name"},
		{"-o subtype=NAME", "set filesystem subtype"},
		{"-o max_read=N", "set maximum size of read requests"},
		{"-o max_write=N", "set maximum size of write requests"},
	}
	for _, l := range lines {
		fmt.Fprintf(w, "    %-21s  %s\n", l.flag, l.desc)
	}
}
