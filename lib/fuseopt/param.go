// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

package fuseopt

import (
	"fmt"
	"strconv"
)

// conversionBase maps a template conversion to the integer base used
// when the destination is an integer field. Length modifiers ("l",
// "ll", "z", "h") are accepted and ignored; the destination's Go type
// fixes the width.
func conversionBase(format string) (base int, verb byte, err error) {
	if len(format) < 2 || format[0] != '%' {
		return 0, 0, fmt.Errorf("malformed conversion %q", format)
	}
	verb = format[len(format)-1]
	for _, c := range []byte(format[1 : len(format)-1]) {
		switch c {
		case 'l', 'z', 'h':
		default:
			return 0, 0, fmt.Errorf("malformed conversion %q", format)
		}
	}
	switch verb {
	case 'd', 'u':
		return 10, verb, nil
	case 'i':
		return 0, verb, nil
	case 'o':
		return 8, verb, nil
	case 'x', 'X':
		return 16, verb, nil
	case 's', 'f', 'g', 'e':
		return 0, verb, nil
	default:
		return 0, 0, fmt.Errorf("unknown conversion %q", format)
	}
}

// ValidConversion reports whether format is a conversion the engine
// understands ("%s", "%d", "%u", "%i", "%o", "%x", "%X", "%f", "%g",
// "%e", with optional length modifiers). Spec-building layers use it
// to reject bad templates at construction time instead of at parse
// time.
func ValidConversion(format string) bool {
	_, _, err := conversionBase(format)
	return err == nil
}

// processParam parses param per the template's conversion and stores
// the result through dest, a pointer into the caller's record. Text
// conversions copy the parameter verbatim; numeric conversions that do
// not scan cleanly are an ErrInvalidParameter naming the full
// offending argument.
func processParam(dest any, format, param, arg string) error {
	base, verb, err := conversionBase(format)
	if err != nil {
		return fmt.Errorf("option %q: %v", arg, err)
	}
	if verb == 's' {
		p, ok := dest.(*string)
		if !ok {
			return fmt.Errorf("option %q: %%s conversion needs a *string destination, have %T", arg, dest)
		}
		*p = param
		return nil
	}

	invalid := func() error {
		return fmt.Errorf("%w in option %q", ErrInvalidParameter, arg)
	}
	switch p := dest.(type) {
	case *int:
		v, err := strconv.ParseInt(param, base, strconv.IntSize)
		if err != nil {
			return invalid()
		}
		*p = int(v)
	case *int32:
		v, err := strconv.ParseInt(param, base, 32)
		if err != nil {
			return invalid()
		}
		*p = int32(v)
	case *int64:
		v, err := strconv.ParseInt(param, base, 64)
		if err != nil {
			return invalid()
		}
		*p = v
	case *uint:
		v, err := strconv.ParseUint(param, base, strconv.IntSize)
		if err != nil {
			return invalid()
		}
		*p = uint(v)
	case *uint32:
		v, err := strconv.ParseUint(param, base, 32)
		if err != nil {
			return invalid()
		}
		*p = uint32(v)
	case *uint64:
		v, err := strconv.ParseUint(param, base, 64)
		if err != nil {
			return invalid()
		}
		*p = v
	case *float32:
		v, err := strconv.ParseFloat(param, 32)
		if err != nil {
			return invalid()
		}
		*p = float32(v)
	case *float64:
		v, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return invalid()
		}
		*p = v
	default:
		return fmt.Errorf("option %q: unsupported destination type %T", arg, dest)
	}
	return nil
}

// storeTag writes an entry's tag value through dest. Toggle templates
// carry no parameter, so the write is the entry's Value itself.
func storeTag(dest any, value int) error {
	switch p := dest.(type) {
	case *int:
		*p = value
	case *int32:
		*p = int32(value)
	case *int64:
		*p = int64(value)
	case *uint:
		*p = uint(value)
	case *uint32:
		*p = uint32(value)
	case *uint64:
		*p = uint64(value)
	case *bool:
		*p = value != 0
	default:
		return fmt.Errorf("unsupported destination type %T for toggle", dest)
	}
	return nil
}
