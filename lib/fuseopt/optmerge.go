// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package fuseopt

import "strings"

// AddOpt appends opt to the comma-separated option list *opts. The
// empty list is represented by the empty string.
func AddOpt(opts *string, opt string) {
	addOpt(opts, opt, false)
}

// AddOptEscaped is AddOpt with "," and "\" within opt escaped by a
// backslash, so that opt survives a later comma split intact.
func AddOptEscaped(opts *string, opt string) {
	addOpt(opts, opt, true)
}

func addOpt(opts *string, opt string, escape bool) {
	var b strings.Builder
	b.Grow(len(*opts) + 1 + 2*len(opt))
	b.WriteString(*opts)
	if len(*opts) > 0 {
		b.WriteByte(',')
	}
	for i := 0; i < len(opt); i++ {
		c := opt[i]
		if escape && (c == ',' || c == '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	*opts = b.String()
}
