// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuseopt implements the shared command-line option parsing
// engine used by the mount layer, the protocol layer, and filesystem
// implementations built on fusekit.
//
// The engine is designed for cooperative, multi-pass parsing: several
// independent consumers each run Parse over the same argument vector
// with their own spec table, claim the options meaningful to them, and
// leave everything they do not recognize in the rewritten vector for a
// later pass to claim. A filesystem binary typically parses its own
// options first, then hands the rewritten vector to the mount layer,
// which claims mount options and forwards the rest to the kernel.
//
// Options come in three shapes, collectively called generalized
// options ("gopts"):
//
//   - flag-style arguments ("-f", "--foo")
//   - sub-options of a "-o" group ("-o allow_other,fsname=mem")
//   - positional arguments (everything else, and everything after "--")
//
// A spec table is an ordered list of Opt entries. Each entry carries a
// template describing the option's spelling (see Opt), an optional
// destination in the caller's record, and an integer key handed to the
// caller's callback. Spec tables are immutable once built and safe to
// share across concurrently running Parse calls.
package fuseopt
