package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// printfSpecifiers is the fixed scan order used when replacing format
// specifiers. %f/%lf and %d/%ld/%u intentionally share formatting; %ld is
// listed after %d, and a literal "%d" substring search never mistakes a
// %ld occurrence (the two never overlap: "%ld" contains no "%d" substring).
var printfSpecifiers = []string{"%p", "%d", "%i", "%f", "%lf", "%c", "%s", "%ld", "%u", "%x", "%o"}

// formatPrintf substitutes printf arguments into format: for each
// specifier in the fixed order above, while it still occurs in the format
// string and an unused
// argument remains, the leftmost occurrence is replaced once and the
// argument cursor advances. Escape sequences are expected to already have
// been applied to format by the caller.
func formatPrintf(format string, args []Value) (string, error) {
	cursor := 0
	for _, spec := range printfSpecifiers {
		for cursor < len(args) && strings.Contains(format, spec) {
			rendered, err := formatArg(spec, args[cursor])
			if err != nil {
				return "", err
			}
			format = strings.Replace(format, spec, rendered, 1)
			cursor++
		}
	}
	return format, nil
}

// formatArg renders v for one specifier occurrence, following the
// per-variant rendering table below.
func formatArg(spec string, v Value) (string, error) {
	if v.Kind == KindPointer {
		switch spec {
		case "%x":
			return strconv.FormatInt(v.Addr, 16), nil
		case "%o":
			return strconv.FormatInt(v.Addr, 8), nil
		default:
			return fmt.Sprintf("0x%x", v.Addr), nil
		}
	}

	switch spec {
	case "%x":
		n, err := v.Numeric()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 16), nil
	case "%o":
		n, err := v.Numeric()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 8), nil
	case "%c":
		if v.Kind == KindChar {
			return string(v.Char), nil
		}
		n, err := v.Numeric()
		if err != nil {
			return "", err
		}
		return string(rune(n)), nil
	case "%s":
		return v.Format(), nil
	case "%f", "%lf":
		f, err := v.NumericFloat()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case "%u":
		n, err := v.Numeric()
		if err != nil {
			return "", err
		}
		if n < 0 {
			return strconv.FormatUint(uint64(n), 10), nil
		}
		return strconv.FormatInt(n, 10), nil
	default: // %d %i %ld
		n, err := v.Numeric()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	}
}
