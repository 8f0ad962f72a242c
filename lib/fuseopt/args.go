// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package fuseopt

// Args is a growable argument vector. By convention element 0 is the
// program-name slot and the remaining elements are the arguments to be
// parsed. Parse treats the Args value it is given as consumed: on
// success the vector is replaced with the rewritten command line, on
// failure its contents are unspecified and must not be reused.
type Args struct {
	// Argv is the argument list. Direct reads are fine; use Add and
	// Insert for modification so positions stay consistent with what
	// callback code observes during a parse.
	Argv []string
}

// NewArgs returns an Args holding a copy of argv. The copy keeps the
// engine's rewriting from aliasing a slice the caller still owns
// (os.Args, most commonly).
func NewArgs(argv []string) *Args {
	a := &Args{Argv: make([]string, len(argv))}
	copy(a.Argv, argv)
	return a
}

// Len returns the number of arguments in the vector.
func (a *Args) Len() int {
	return len(a.Argv)
}

// Add appends one argument to the end of the vector.
func (a *Args) Add(arg string) {
	a.Argv = append(a.Argv, arg)
}

// Insert places arg at position pos, shifting subsequent arguments one
// slot to the right. pos must be in [0, Len()].
func (a *Args) Insert(pos int, arg string) {
	a.Argv = append(a.Argv, "")
	copy(a.Argv[pos+1:], a.Argv[pos:])
	a.Argv[pos] = arg
}
