// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package optdef

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/fusekit/lib/fuseopt"
)

type testData struct {
	ReadOnly   bool
	Greeting   string
	MaxRead    uint
	Foreground bool
	HelpSeen   bool
	Mountpoint string
}

func testGroup(t *testing.T) *Group[testData] {
	t.Helper()
	group, err := Build[testData](
		HelpOption[testData]{
			Help: "print this help",
			Action: func(d *testData, arg string, out *fuseopt.Args) error {
				d.HelpSeen = true
				return nil
			},
		},
		VersionOption[testData]{Help: "print version"},
		DebugOption[testData]{Help: "enable debug output"},
		Flag[testData]{
			Dash: "-f",
			Help: "run in foreground",
			Action: func(d *testData, arg string, out *fuseopt.Args) error {
				d.Foreground = true
				return nil
			},
		},
		BoolOption[testData]{
			No: "no", Name: "ro",
			Help:  "mount read-only",
			Field: func(d *testData) *bool { return &d.ReadOnly },
		},
		ParamOption[testData]{
			Name: "greeting", Conv: "%s", Metavar: "TEXT",
			Help:  "file contents",
			Field: func(d *testData) any { return &d.Greeting },
		},
		ParamOption[testData]{
			Name: "max_read", Conv: "%u",
			Help:  "maximum read size",
			Keep:  true,
			Field: func(d *testData) any { return &d.MaxRead },
		},
		Positional[testData]{
			Keep: true,
			Action: func(d *testData, arg string, out *fuseopt.Args) error {
				if d.Mountpoint == "" {
					d.Mountpoint = arg
				}
				return nil
			},
		},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return group
}

func TestGroupParse(t *testing.T) {
	group := testGroup(t)

	var d testData
	args := fuseopt.NewArgs([]string{
		"prog", "-f", "-o", "ro,greeting=hi there,max_read=4096", "/mnt/hello", "-o", "unclaimed",
	})
	if err := group.Parse(args, &d); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !d.Foreground {
		t.Error("Foreground = false, want true")
	}
	if !d.ReadOnly {
		t.Error("ReadOnly = false, want true")
	}
	if d.Greeting != "hi there" {
		t.Errorf("Greeting = %q, want %q", d.Greeting, "hi there")
	}
	if d.MaxRead != 4096 {
		t.Errorf("MaxRead = %d, want 4096", d.MaxRead)
	}
	if d.Mountpoint != "/mnt/hello" {
		t.Errorf("Mountpoint = %q, want %q", d.Mountpoint, "/mnt/hello")
	}

	// Consumed options are gone; kept and unclaimed options survive
	// for the next pass, group sub-options coalesced.
	want := []string{"prog", "-o", "max_read=4096,unclaimed", "/mnt/hello"}
	if !reflect.DeepEqual(args.Argv, want) {
		t.Errorf("Argv = %v, want %v", args.Argv, want)
	}
}

func TestGroupParseBoolNegation(t *testing.T) {
	group := testGroup(t)

	d := testData{ReadOnly: true}
	args := fuseopt.NewArgs([]string{"prog", "-o", "noro"})
	if err := group.Parse(args, &d); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.ReadOnly {
		t.Error("ReadOnly = true, want false after noro")
	}
}

func TestGroupParseDebugSpellings(t *testing.T) {
	group := testGroup(t)

	// "-d" and "-o debug" resolve to the same descriptor and are
	// both kept for the layers below.
	for _, argv := range [][]string{
		{"prog", "-d"},
		{"prog", "-o", "debug"},
	} {
		var d testData
		args := fuseopt.NewArgs(argv)
		if err := group.Parse(args, &d); err != nil {
			t.Fatalf("Parse(%v): %v", argv, err)
		}
		if !reflect.DeepEqual(args.Argv, argv) {
			t.Errorf("Argv = %v, want %v (debug spellings are kept)", args.Argv, argv)
		}
	}
}

func TestGroupParseHelpAction(t *testing.T) {
	group := testGroup(t)

	for _, flag := range []string{"-h", "--help"} {
		var d testData
		args := fuseopt.NewArgs([]string{"prog", flag})
		if err := group.Parse(args, &d); err != nil {
			t.Fatalf("Parse(%s): %v", flag, err)
		}
		if !d.HelpSeen {
			t.Errorf("HelpSeen = false after %s, want true", flag)
		}
	}
}

func TestGroupActionAbort(t *testing.T) {
	tooMany := errors.New("too many mountpoints")
	group, err := Build[testData](
		Positional[testData]{
			Action: func(d *testData, arg string, out *fuseopt.Args) error {
				if d.Mountpoint != "" {
					return tooMany
				}
				d.Mountpoint = arg
				return nil
			},
		},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var d testData
	args := fuseopt.NewArgs([]string{"prog", "/mnt/a", "/mnt/b"})
	if got := group.Parse(args, &d); !errors.Is(got, tooMany) {
		t.Errorf("Parse error = %v, want %v", got, tooMany)
	}
}

func TestWriteHelp(t *testing.T) {
	group := testGroup(t)

	var b strings.Builder
	group.WriteHelp(&b)
	out := b.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("help has %d lines, want 7:\n%s", len(lines), out)
	}

	// Contractual ordering within a line: flag form(s) first, then
	// the description.
	checks := []struct{ before, after string }{
		{"-h", "print this help"},
		{"--help", "print this help"},
		{"-V", "print version"},
		{"-o debug", "enable debug output"},
		{"-o [no]ro", "mount read-only"},
		{"-o greeting=TEXT", "file contents"},
		{"-o max_read=U", "maximum read size"},
	}
	for _, c := range checks {
		line := ""
		for _, l := range lines {
			if strings.Contains(l, c.after) {
				line = l
				break
			}
		}
		if line == "" {
			t.Errorf("no help line with description %q:\n%s", c.after, out)
			continue
		}
		if strings.Index(line, c.before) >= strings.Index(line, c.after) {
			t.Errorf("help line %q: %q must precede %q", line, c.before, c.after)
		}
	}
}

func TestWriteHelpSkipsUndocumented(t *testing.T) {
	group, err := Build[testData](
		Flag[testData]{Dash: "-f", Help: "documented"},
		Flag[testData]{Dash: "-q"},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var b strings.Builder
	group.WriteHelp(&b)
	if strings.Contains(b.String(), "-q") {
		t.Errorf("help mentions undocumented -q:\n%s", b.String())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		gopts []Descriptor[testData]
	}{
		{
			"flag without dash",
			[]Descriptor[testData]{Flag[testData]{Dash: "f"}},
		},
		{
			"bad conversion",
			[]Descriptor[testData]{ParamOption[testData]{Name: "x", Conv: "%q"}},
		},
		{
			"empty option name",
			[]Descriptor[testData]{Option[testData]{}},
		},
		{
			"duplicate positional",
			[]Descriptor[testData]{
				Positional[testData]{},
				Positional[testData]{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.gopts...); err == nil {
				t.Error("Build succeeded, want error")
			}
		})
	}
}
