// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package fuseopt

import "strings"

// Reserved keys. A spec table entry may carry any non-negative key of
// its own choosing; the engine itself passes KeyOpt and KeyNonOpt to
// the callback for tokens that no entry claimed, and interprets
// KeyKeep and KeyDiscard without consulting the callback at all.
const (
	// KeyOpt marks an option that matched no spec table entry. The
	// callback decides whether to keep it for a later parse pass.
	KeyOpt = -1

	// KeyNonOpt marks a positional argument (one that does not start
	// with "-", or any argument after a literal "--").
	KeyNonOpt = -2

	// KeyKeep keeps the matching argument in the rewritten vector
	// without invoking the callback.
	KeyKeep = -3

	// KeyDiscard drops the matching argument from the rewritten
	// vector without invoking the callback.
	KeyDiscard = -4
)

// Opt is one spec table entry: a template, an optional destination in
// the caller's record, and a value.
//
// The template grammar is "stem", optionally followed by a separator
// and a conversion:
//
//	"foo"       matches exactly "foo"
//	"foo="      matches anything starting with "foo="
//	"foo=%s"    as above, the text after "=" is the parameter
//	"foo %d"    matches "foo" with the value in the next argument,
//	            or "fooN" with the value attached
//
// A "=" or " " in the template is only treated as a separator when it
// is the last character or is immediately followed by "%".
//
// Dest resolves the destination field within the caller's record: it
// is handed the record passed to Parse and returns a pointer to the
// field. When an entry with a Dest matches, the engine writes the
// field and does not invoke the callback: either the converted
// parameter (templates with a conversion) or Value itself (toggle
// templates without one; the pointed-to type may be an integer or a
// bool). When Dest is nil, Value is the key passed to the callback.
//
// One argument may match several consecutive entries; each fires once
// per occurrence, in table order.
type Opt struct {
	Template string
	Dest     func(data any) any
	Value    int
}

// Key returns a callback-only entry: when template matches, the
// callback is invoked with the given key.
func Key(template string, key int) Opt {
	return Opt{Template: template, Value: key}
}

// matchTemplate reports whether arg matches templ. On a match, sepIdx
// is the index of the separator within the template, or 0 when the
// template has no separator.
func matchTemplate(templ, arg string) (sepIdx int, ok bool) {
	sep := strings.IndexByte(templ, '=')
	if sep < 0 {
		sep = strings.IndexByte(templ, ' ')
	}
	// For a separator to be valid, the rest of the template must be
	// empty or start with "%".
	if sep >= 0 && sep+1 < len(templ) && templ[sep+1] != '%' {
		sep = -1
	}

	if sep >= 0 {
		// "=" is part of the matched prefix, " " is not.
		stemLen := sep
		if templ[sep] == '=' {
			stemLen++
		}
		if len(arg) >= stemLen && arg[:stemLen] == templ[:stemLen] {
			return sep, true
		}
	}
	if templ == arg {
		return 0, true
	}
	return 0, false
}

// findOpt scans spec starting at index from and returns the index of
// the first entry whose template matches arg, together with the
// separator index reported by matchTemplate. Returns -1 when no entry
// matches. Resuming from just past the previous hit is what lets one
// option name map to several consecutive entries.
func findOpt(spec []Opt, from int, arg string) (idx, sepIdx int) {
	for i := from; i < len(spec); i++ {
		if sep, ok := matchTemplate(spec[i].Template, arg); ok {
			return i, sep
		}
	}
	return -1, 0
}

// Match reports whether arg matches any entry in spec.
func Match(spec []Opt, arg string) bool {
	idx, _ := findOpt(spec, 0, arg)
	return idx >= 0
}
