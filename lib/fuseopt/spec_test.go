// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package fuseopt

import "testing"

func TestMatchTemplate(t *testing.T) {
	tests := []struct {
		templ   string
		arg     string
		wantOK  bool
		wantSep int
	}{
		// Exact templates.
		{"foo", "foo", true, 0},
		{"foo", "foobar", false, 0},
		{"foo", "fo", false, 0},
		{"-f", "-f", true, 0},
		{"--flag", "--flag", true, 0},

		// "=" separator with conversion.
		{"foo=%d", "foo=5", true, 3},
		{"foo=%d", "foo=", true, 3},
		{"foo=%d", "foobar=5", false, 0},
		{"foo=%d", "foo", false, 0},
		{"foo=%s", "foo=a,b", true, 3},

		// "=" separator without conversion.
		{"foo=", "foo=anything", true, 3},
		{"foo=", "foo", false, 0},

		// Space separator: stem alone matches (value comes from the
		// next argument), and attached values match too.
		{"bar %d", "bar", true, 3},
		{"bar %d", "bar10", true, 3},
		{"bar %d", "ba", false, 0},

		// "=" or " " followed by anything but "%" is not a
		// separator; the template must then match exactly.
		{"a=b", "a=b", true, 0},
		{"a=b", "a=c", false, 0},
		{"a b", "a b", true, 0},
		{"a b", "a", false, 0},
	}
	for _, tt := range tests {
		sep, ok := matchTemplate(tt.templ, tt.arg)
		if ok != tt.wantOK || sep != tt.wantSep {
			t.Errorf("matchTemplate(%q, %q) = (%d, %v), want (%d, %v)",
				tt.templ, tt.arg, sep, ok, tt.wantSep, tt.wantOK)
		}
	}
}

func TestFindOptResumes(t *testing.T) {
	spec := []Opt{
		Key("alpha", 1),
		Key("debug", 2),
		Key("debug", 3),
		Key("omega", 4),
	}

	idx, _ := findOpt(spec, 0, "debug")
	if idx != 1 {
		t.Fatalf("first lookup = %d, want 1", idx)
	}
	idx, _ = findOpt(spec, idx+1, "debug")
	if idx != 2 {
		t.Fatalf("second lookup = %d, want 2", idx)
	}
	idx, _ = findOpt(spec, idx+1, "debug")
	if idx != -1 {
		t.Fatalf("third lookup = %d, want -1", idx)
	}
}

func TestMatch(t *testing.T) {
	spec := []Opt{
		Key("ro", 1),
		Key("fsname=%s", 2),
	}
	if !Match(spec, "ro") {
		t.Error("Match(ro) = false, want true")
	}
	if !Match(spec, "fsname=mem") {
		t.Error("Match(fsname=mem) = false, want true")
	}
	if Match(spec, "rw") {
		t.Error("Match(rw) = true, want false")
	}
}

func TestAddOpt(t *testing.T) {
	var opts string
	AddOpt(&opts, "ro")
	AddOpt(&opts, "allow_other")
	if opts != "ro,allow_other" {
		t.Errorf("opts = %q, want %q", opts, "ro,allow_other")
	}
}

func TestAddOptEscaped(t *testing.T) {
	var opts string
	AddOptEscaped(&opts, "a,b")
	AddOptEscaped(&opts, `c\d`)
	want := `a\,b,c\\d`
	if opts != want {
		t.Errorf("opts = %q, want %q", opts, want)
	}
}
