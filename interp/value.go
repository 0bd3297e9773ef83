package interp

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

// The value kinds a Value can hold.
const (
	KindInt Kind = iota
	KindFloat
	KindChar
	KindBool
	KindString
	KindArray
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Value is the tagged variant flowing through the evaluator, statement
// executor, and memory: Int, Float, Char, Bool, String, Array, and
// Pointer(address).
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Char  rune
	Bool  bool
	Str   string
	Array []Value
	Addr  int64
}

// IntVal constructs an Int value.
func IntVal(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatVal constructs a Float value.
func FloatVal(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// CharVal constructs a Char value.
func CharVal(c rune) Value { return Value{Kind: KindChar, Char: c} }

// BoolVal constructs a Bool value.
func BoolVal(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// StringVal constructs a String value.
func StringVal(s string) Value { return Value{Kind: KindString, Str: s} }

// ArrayVal constructs an Array value.
func ArrayVal(items []Value) Value { return Value{Kind: KindArray, Array: items} }

// PointerVal constructs a Pointer value carrying addr.
func PointerVal(addr int64) Value { return Value{Kind: KindPointer, Addr: addr} }

// NullPointer is the default value for an uninitialized pointer variable.
var NullPointer = PointerVal(0)

// Numeric converts v to an int64: floats truncate toward zero, chars and
// bools widen, pointers yield their address; strings and arrays cannot be
// converted.
func (v Value) Numeric() (int64, error) {
	switch v.Kind {
	case KindInt:
		return v.Int, nil
	case KindFloat:
		return int64(v.Float), nil
	case KindChar:
		return int64(v.Char), nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case KindPointer:
		return v.Addr, nil
	case KindString:
		return 0, fmt.Errorf("%w: string to number", ErrCannotConvert)
	case KindArray:
		return 0, fmt.Errorf("%w: array to number", ErrCannotConvert)
	default:
		return 0, fmt.Errorf("%w: %v to number", ErrCannotConvert, v.Kind)
	}
}

// NumericFloat is like Numeric but preserves fractional results for Float
// operands; used wherever fractional precision matters: float arithmetic
// and comparison, float coercion, %f, and the math library calls.
func (v Value) NumericFloat() (float64, error) {
	if v.Kind == KindFloat {
		return v.Float, nil
	}
	i, err := v.Numeric()
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}

// Truthy reports whether v is a true condition value, per C truthiness
// (any nonzero numeric value is true).
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindFloat:
		return v.Float != 0
	default:
		n, err := v.Numeric()
		if err != nil {
			return v.Kind == KindString && v.Str != ""
		}
		return n != 0
	}
}

// Format renders v in its default textual form, with no specifier context;
// printf's %s substitution, puts, strlen, strcpy and strcat use it.
func (v Value) Format() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindChar:
		return string(v.Char)
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindString:
		return v.Str
	case KindArray:
		return "[array]"
	case KindPointer:
		return fmt.Sprintf("0x%x", v.Addr)
	default:
		return ""
	}
}
