// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package fuseopt

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned (wrapped) by Parse. Match with errors.Is.
var (
	// ErrMissingArgument reports a "-o" group or a space-separated
	// valued option whose value would have to come from the next
	// argument, at the end of the input.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidParameter reports parameter text that does not
	// satisfy the matching template's conversion.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ProcFn is the caller's option callback. It receives the record
// passed to Parse, the raw argument text (for valued options this
// includes the "=param" part), the resolved key, and the output vector
// under construction (which it may extend, e.g. to inject a synthetic
// option). A non-nil error aborts the whole parse. Otherwise keep
// decides whether the argument stays in the rewritten vector for a
// later pass or is dropped as fully consumed.
type ProcFn func(data any, arg string, key int, out *Args) (keep bool, err error)

// goptType tells the dispatcher where a kept gopt belongs in the
// rewritten vector: flags and positionals are appended verbatim,
// "-o" sub-options are re-escaped into the single merged group.
type goptType int

const (
	goptFlag   goptType = iota // "-x" / "--flag" / positional
	goptOption                 // sub-option of a "-o" group
)

// parseContext is the state of one Parse call. It is created on entry,
// never shared, and dies when Parse returns.
type parseContext struct {
	spec []Opt
	proc ProcFn

	in   *Args
	data any
	out  Args

	argCtr int    // input cursor
	opts   string // pending merged "-o" accumulator
	nonOpt int    // out position just past "--"; 0 until "--" is seen
}

// Parse runs one pass over args. Each argument is classified as a
// positional, a "-o" option group, or a flag, and routed through the
// spec table and proc per the rules on Opt and ProcFn. On success
// args is replaced with the rewritten vector: the program-name slot,
// every kept flag and positional in order, and at most one merged
// "-o" group inserted right after the program-name slot. On error
// args must be considered consumed; no partial output is produced.
func Parse(args *Args, data any, spec []Opt, proc ProcFn) error {
	if args == nil || args.Len() == 0 {
		return nil
	}
	ctx := &parseContext{
		spec: spec,
		proc: proc,
		in:   args,
		data: data,
	}

	ctx.out.Add(args.Argv[0])
	for ctx.argCtr = 1; ctx.argCtr < ctx.in.Len(); ctx.argCtr++ {
		if err := ctx.processOne(ctx.in.Argv[ctx.argCtr]); err != nil {
			return err
		}
	}

	if ctx.opts != "" {
		ctx.out.Insert(1, "-o")
		ctx.out.Insert(2, ctx.opts)
		if ctx.nonOpt > 0 {
			ctx.nonOpt += 2
		}
	}
	// A "--" that ended up last in the output separates nothing;
	// normalize it away.
	if ctx.nonOpt > 0 && ctx.nonOpt == ctx.out.Len() &&
		ctx.out.Argv[ctx.out.Len()-1] == "--" {
		ctx.out.Argv = ctx.out.Argv[:ctx.out.Len()-1]
	}

	args.Argv = ctx.out.Argv
	return nil
}

// processOne classifies and dispatches one input argument.
func (ctx *parseContext) processOne(arg string) error {
	switch {
	case ctx.nonOpt > 0 || !strings.HasPrefix(arg, "-"):
		return ctx.callProc(arg, KeyNonOpt, goptFlag)

	case len(arg) >= 2 && arg[1] == 'o':
		group := arg[2:]
		if group == "" {
			if ctx.argCtr+1 >= ctx.in.Len() {
				return fmt.Errorf("%w after %q", ErrMissingArgument, arg)
			}
			ctx.argCtr++
			group = ctx.in.Argv[ctx.argCtr]
		}
		return ctx.processGroup(group)

	case arg == "--":
		ctx.out.Add(arg)
		ctx.nonOpt = ctx.out.Len()
		return nil

	default:
		return ctx.processGopt(arg, goptFlag)
	}
}

// processGroup splits a "-o" group value on unescaped commas and
// dispatches each sub-option as soon as it is decoded. "\," and "\\"
// unescape to the literal character; a backslash followed by exactly
// three octal digits decodes to one raw byte. Decoding is streaming:
// a very long group never materializes as a sub-option list.
func (ctx *parseContext) processGroup(group string) error {
	buf := make([]byte, 0, len(group))
	for i := 0; i <= len(group); i++ {
		if i == len(group) || group[i] == ',' {
			if err := ctx.processGopt(string(buf), goptOption); err != nil {
				return err
			}
			buf = buf[:0]
			continue
		}
		c := group[i]
		if c == '\\' && i+1 < len(group) {
			i++
			c = group[i]
			if c >= '0' && c <= '3' && i+2 < len(group) &&
				group[i+1] >= '0' && group[i+1] <= '7' &&
				group[i+2] >= '0' && group[i+2] <= '7' {
				buf = append(buf, (c-'0')<<6|(group[i+1]-'0')<<3|(group[i+2]-'0'))
				i += 2
				continue
			}
		}
		buf = append(buf, c)
	}
	return nil
}

// processGopt routes one generalized option through the spec table.
// Every matching entry fires once, in table order. An option that
// matches nothing goes to the callback with KeyOpt so the caller can
// keep it for a later parse pass.
func (ctx *parseContext) processGopt(arg string, typ goptType) error {
	idx, sep := findOpt(ctx.spec, 0, arg)
	if idx < 0 {
		return ctx.callProc(arg, KeyOpt, typ)
	}
	for ; idx >= 0; idx, sep = findOpt(ctx.spec, idx+1, arg) {
		o := &ctx.spec[idx]
		if sep > 0 && o.Template[sep] == ' ' && sep == len(arg) {
			// "stem" and its value are two separate arguments;
			// consume the next one and synthesize "stem=value".
			if ctx.argCtr+1 >= ctx.in.Len() {
				return fmt.Errorf("%w after %q", ErrMissingArgument, arg)
			}
			ctx.argCtr++
			merged := arg + "=" + ctx.in.Argv[ctx.argCtr]
			if err := ctx.processOpt(o, sep, merged, typ); err != nil {
				return err
			}
			continue
		}
		if err := ctx.processOpt(o, sep, arg, typ); err != nil {
			return err
		}
	}
	return nil
}

// processOpt applies one matching spec entry to arg: a destination
// write, a callback invocation, or both (split across consecutive
// entries by the caller's table).
func (ctx *parseContext) processOpt(o *Opt, sep int, arg string, typ goptType) error {
	if o.Dest == nil {
		return ctx.callProc(arg, o.Value, typ)
	}
	dest := o.Dest(ctx.data)
	if sep > 0 && sep+1 < len(o.Template) {
		param := arg[sep:]
		// Both "=" separators and synthesized "stem=value" pairs
		// carry the "=" in the argument text; attached values for
		// space separators ("stemN") do not.
		if param[0] == '=' {
			param = param[1:]
		}
		return processParam(dest, o.Template[sep+1:], param, arg)
	}
	if err := storeTag(dest, o.Value); err != nil {
		return fmt.Errorf("option %q: %v", arg, err)
	}
	return nil
}

// callProc resolves an argument's disposition: reserved keys short
// circuit, everything else is offered to the callback, and kept
// arguments land either in the output vector (flags, positionals) or
// in the pending merged "-o" accumulator (group sub-options).
func (ctx *parseContext) callProc(arg string, key int, typ goptType) error {
	if key == KeyDiscard {
		return nil
	}
	if key != KeyKeep && ctx.proc != nil {
		keep, err := ctx.proc(ctx.data, arg, key, &ctx.out)
		if err != nil {
			return err
		}
		if !keep {
			return nil
		}
	}
	switch typ {
	case goptOption:
		AddOptEscaped(&ctx.opts, arg)
	case goptFlag:
		ctx.out.Add(arg)
	}
	return nil
}
