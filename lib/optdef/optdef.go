// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

// Package optdef builds fuseopt spec tables, dispatch callbacks, and
// help text from a single declarative option list.
//
// Hand-maintained spec tables repeat every option three times: once in
// the table, once in the callback's key switch, and once in the help
// output. optdef describes each generalized option exactly once as a
// descriptor and expands the list, once at process start, into all
// three artifacts:
//
//	type mountData struct {
//	    ReadOnly bool
//	    Greeting string
//	}
//
//	group, err := optdef.Build[mountData](
//	    optdef.HelpOption[mountData]{Help: "print this help"},
//	    optdef.VersionOption[mountData]{Help: "print version"},
//	    optdef.BoolOption[mountData]{
//	        No: "no", Name: "ro",
//	        Help:  "mount read-only",
//	        Field: func(d *mountData) *bool { return &d.ReadOnly },
//	    },
//	    optdef.ParamOption[mountData]{
//	        Name: "greeting", Conv: "%s", Metavar: "TEXT",
//	        Help:  "file contents",
//	        Field: func(d *mountData) any { return &d.Greeting },
//	    },
//	)
//
// Compared to writing fuseopt.Opt tables directly, flags may not take
// parameters (only "-o" options can), and an option cannot have a
// synonym beyond the built-in "-h"/"--help", "-V"/"--version", and
// "-d"/"-o debug" pairs. In exchange every option's help text, field
// binding, keep/discard disposition, and action live side by side.
package optdef

import (
	"fmt"
	"io"
	"strings"

	"github.com/bureau-foundation/fusekit/lib/fuseopt"
)

// Action runs when its option is seen on the command line. data is the
// record being populated (any bound field has already been written),
// arg is the raw option text including any "=param", and out is the
// output vector under construction. A non-nil error aborts the parse.
type Action[D any] func(data *D, arg string, out *fuseopt.Args) error

// Descriptor is one declarative option. The concrete types are Flag,
// Option, BoolOption, ParamOption, Positional, HelpOption,
// VersionOption, and DebugOption.
type Descriptor[D any] interface {
	expand(b *builder[D]) error
}

// Flag is a dash-prefixed flag ("-f", "--foo"). Flags never take a
// parameter.
type Flag[D any] struct {
	// Dash is the literal spelling, including its dashes.
	Dash string
	// Help is the description shown by WriteHelp; empty leaves the
	// flag undocumented.
	Help string
	// Keep leaves the flag in the rewritten vector for a later pass.
	Keep   bool
	Action Action[D]
}

// Option is a bare "-o name" sub-option.
type Option[D any] struct {
	Name   string
	Help   string
	Keep   bool
	Action Action[D]
}

// BoolOption is a "-o [no]name" toggle pair. Field, when non-nil, is
// set to true for "name" and false for "noname" before Action runs.
type BoolOption[D any] struct {
	// No is the negation prefix, almost always "no".
	No     string
	Name   string
	Help   string
	Keep   bool
	Field  func(*D) *bool
	Action Action[D]
}

// ParamOption is a "-o name=param" option. Field, when non-nil, must
// return a pointer whose type matches Conv (see fuseopt.Opt); the
// parsed parameter is written through it before Action runs.
type ParamOption[D any] struct {
	Name string
	// Conv is the template conversion, e.g. "%s" or "%u".
	Conv string
	// Metavar is the parameter placeholder in help output, e.g.
	// "NAME" in "-o fsname=NAME".
	Metavar string
	Help    string
	Keep    bool
	Field   func(*D) any
	Action  Action[D]
}

// Positional handles non-option arguments. At most one Positional may
// appear per Build call.
type Positional[D any] struct {
	Keep   bool
	Action Action[D]
}

// HelpOption is the built-in "-h"/"--help" pair. The matched flag is
// always kept so outer layers can see that help was requested.
type HelpOption[D any] struct {
	Help   string
	Action Action[D]
}

// VersionOption is the built-in "-V"/"--version" pair; always kept.
type VersionOption[D any] struct {
	Help   string
	Action Action[D]
}

// DebugOption is the built-in "-d"/"-o debug" pair; always kept.
type DebugOption[D any] struct {
	Help   string
	Action Action[D]
}

// Group is the compiled artifact set: a spec table, a dispatch
// callback, and help text, all derived from one descriptor list.
// A Group is immutable and safe to share across concurrent parses.
type Group[D any] struct {
	spec       []fuseopt.Opt
	procs      map[int]procEntry[D]
	positional *procEntry[D]
	help       []helpLine
}

type procEntry[D any] struct {
	keep   bool
	set    func(*D)
	action Action[D]
}

type helpLine struct {
	// flag1 and flag2 are the option's spellings; flag2 is empty for
	// single-form options.
	flag1, flag2 string
	desc         string
}

type builder[D any] struct {
	group   Group[D]
	nextKey int
}

// Build expands descriptors into a Group. It runs once at startup;
// errors are construction mistakes (bad conversion, duplicate
// positional), not runtime conditions.
func Build[D any](gopts ...Descriptor[D]) (*Group[D], error) {
	b := &builder[D]{}
	b.group.procs = make(map[int]procEntry[D])
	for _, g := range gopts {
		if err := g.expand(b); err != nil {
			return nil, err
		}
	}
	return &b.group, nil
}

// MustBuild is Build for the common package-level variable case, where
// a descriptor mistake is a programming error.
func MustBuild[D any](gopts ...Descriptor[D]) *Group[D] {
	g, err := Build(gopts...)
	if err != nil {
		panic(fmt.Sprintf("optdef: %v", err))
	}
	return g
}

// Spec returns the compiled spec table, for callers that drive
// fuseopt.Parse directly. The parse's data record must be a *D.
func (g *Group[D]) Spec() []fuseopt.Opt {
	return g.spec
}

// Parse runs one fuseopt pass over args with the compiled table,
// populating data and running descriptor actions. Options matching no
// descriptor are kept in the rewritten vector for a later pass.
func (g *Group[D]) Parse(args *fuseopt.Args, data *D) error {
	return fuseopt.Parse(args, data, g.spec, g.proc)
}

func (g *Group[D]) proc(data any, arg string, key int, out *fuseopt.Args) (bool, error) {
	d := data.(*D)

	var entry procEntry[D]
	switch {
	case key == fuseopt.KeyNonOpt && g.positional != nil:
		entry = *g.positional
	default:
		e, ok := g.procs[key]
		if !ok {
			// Unclaimed option: keep it for a later pass.
			return true, nil
		}
		entry = e
	}

	if entry.set != nil {
		entry.set(d)
	}
	if entry.action != nil {
		if err := entry.action(d, arg, out); err != nil {
			return false, err
		}
	}
	return entry.keep, nil
}

// WriteHelp writes one usage line per documented option, in
// declaration order: the flag form (or forms), then the description.
func (g *Group[D]) WriteHelp(w io.Writer) {
	for _, h := range g.help {
		if h.flag2 != "" {
			fmt.Fprintf(w, "    %-3s  %-12s  %s\n", h.flag1, h.flag2, h.desc)
		} else {
			fmt.Fprintf(w, "    %-21s  %s\n", h.flag1, h.desc)
		}
	}
}

func (b *builder[D]) key() int {
	k := b.nextKey
	b.nextKey++
	return k
}

func (b *builder[D]) addHelp(flag1, flag2, desc string) {
	if desc == "" {
		return
	}
	b.group.help = append(b.group.help, helpLine{flag1: flag1, flag2: flag2, desc: desc})
}

// addBuiltin expands one of the help/version/debug pairs: two spec
// entries sharing one key, always kept.
func (b *builder[D]) addBuiltin(templ1, templ2, helpForm1, helpForm2, desc string, action Action[D]) {
	k := b.key()
	b.group.spec = append(b.group.spec,
		fuseopt.Key(templ1, k),
		fuseopt.Key(templ2, k),
	)
	b.group.procs[k] = procEntry[D]{keep: true, action: action}
	b.addHelp(helpForm1, helpForm2, desc)
}

func (o HelpOption[D]) expand(b *builder[D]) error {
	b.addBuiltin("-h", "--help", "-h", "--help", o.Help, o.Action)
	return nil
}

func (o VersionOption[D]) expand(b *builder[D]) error {
	b.addBuiltin("-V", "--version", "-V", "--version", o.Help, o.Action)
	return nil
}

func (o DebugOption[D]) expand(b *builder[D]) error {
	// "debug" has no dash prefix: it claims the "-o debug"
	// sub-option, while "-d" claims the flag spelling.
	b.addBuiltin("-d", "debug", "-d", "-o debug", o.Help, o.Action)
	return nil
}

func (o Flag[D]) expand(b *builder[D]) error {
	if !strings.HasPrefix(o.Dash, "-") {
		return fmt.Errorf("flag %q: spelling must start with \"-\"", o.Dash)
	}
	k := b.key()
	b.group.spec = append(b.group.spec, fuseopt.Key(o.Dash, k))
	b.group.procs[k] = procEntry[D]{keep: o.Keep, action: o.Action}
	b.addHelp(o.Dash, "", o.Help)
	return nil
}

func (o Option[D]) expand(b *builder[D]) error {
	if o.Name == "" {
		return fmt.Errorf("option with empty name")
	}
	k := b.key()
	b.group.spec = append(b.group.spec, fuseopt.Key(o.Name, k))
	b.group.procs[k] = procEntry[D]{keep: o.Keep, action: o.Action}
	b.addHelp("-o "+o.Name, "", o.Help)
	return nil
}

func (o BoolOption[D]) expand(b *builder[D]) error {
	if o.Name == "" || o.No == "" {
		return fmt.Errorf("bool option %q: name and negation prefix are required", o.Name)
	}
	kYes, kNo := b.key(), b.key()
	b.group.spec = append(b.group.spec,
		fuseopt.Key(o.Name, kYes),
		fuseopt.Key(o.No+o.Name, kNo),
	)

	yes := procEntry[D]{keep: o.Keep, action: o.Action}
	no := yes
	if o.Field != nil {
		field := o.Field
		yes.set = func(d *D) { *field(d) = true }
		no.set = func(d *D) { *field(d) = false }
	}
	b.group.procs[kYes] = yes
	b.group.procs[kNo] = no

	b.addHelp("-o ["+o.No+"]"+o.Name, "", o.Help)
	return nil
}

func (o ParamOption[D]) expand(b *builder[D]) error {
	if o.Name == "" {
		return fmt.Errorf("param option with empty name")
	}
	if !fuseopt.ValidConversion(o.Conv) {
		return fmt.Errorf("param option %q: bad conversion %q", o.Name, o.Conv)
	}

	// Field binding and action dispatch are two consecutive entries
	// for the same template, so both fire once per occurrence.
	if o.Field != nil {
		field := o.Field
		b.group.spec = append(b.group.spec, fuseopt.Opt{
			Template: o.Name + "=" + o.Conv,
			Dest:     func(data any) any { return field(data.(*D)) },
		})
	}
	k := b.key()
	b.group.spec = append(b.group.spec, fuseopt.Key(o.Name+"=", k))
	b.group.procs[k] = procEntry[D]{keep: o.Keep, action: o.Action}

	metavar := o.Metavar
	if metavar == "" {
		metavar = strings.ToUpper(strings.TrimPrefix(o.Conv, "%"))
	}
	b.addHelp("-o "+o.Name+"="+metavar, "", o.Help)
	return nil
}

func (o Positional[D]) expand(b *builder[D]) error {
	if b.group.positional != nil {
		return fmt.Errorf("duplicate positional descriptor")
	}
	b.group.positional = &procEntry[D]{keep: o.Keep, action: o.Action}
	return nil
}
