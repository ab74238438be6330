package rcp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueType tags the variant held by a Value.
type ValueType int

const (
	// TypeInvalid is the zero Value. It is never produced by Infer and always
	// fails to Render.
	TypeInvalid ValueType = iota
	TypeInt
	TypeFloat
	TypeText
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	default:
		return "invalid"
	}
}

// Value is one RCP argument: a 32-bit integer, a 32-bit float, or text.
type Value struct {
	typ ValueType
	i   int32
	f   float32
	s   string
}

func Int(v int32) Value     { return Value{typ: TypeInt, i: v} }
func Float(v float32) Value { return Value{typ: TypeFloat, f: v} }
func Text(v string) Value   { return Value{typ: TypeText, s: v} }

func (v Value) Type() ValueType { return v.typ }

// AsInt returns the integer and whether v holds one.
func (v Value) AsInt() (int32, bool) { return v.i, v.typ == TypeInt }

func (v Value) AsFloat() (float32, bool) { return v.f, v.typ == TypeFloat }

func (v Value) AsText() (string, bool) { return v.s, v.typ == TypeText }

func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		return fmt.Sprintf("Int(%d)", v.i)
	case TypeFloat:
		return fmt.Sprintf("Float(%s)", formatFloat(v.f))
	case TypeText:
		return fmt.Sprintf("Text(%q)", v.s)
	default:
		return "Invalid"
	}
}

// Infer types a raw RCP token. Integers win over floats, and anything that is
// neither is kept verbatim as text, surrounding quotes included.
func Infer(token string) Value {
	if i, err := strconv.ParseInt(token, 10, 32); err == nil {
		return Int(int32(i))
	}
	if !isDecimal(token) {
		return Text(token)
	}
	// Out of range floats still parse, to +-Inf or zero.
	if f, err := strconv.ParseFloat(token, 32); err == nil || errors.Is(err, strconv.ErrRange) {
		return Float(float32(f))
	}
	return Text(token)
}

// Render turns a Value back into an RCP token. Text is wrapped in double quotes
// unless it is already quoted.
func Render(v Value) (string, error) {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(int64(v.i), 10), nil
	case TypeFloat:
		return formatFloat(v.f), nil
	case TypeText:
		if isQuoted(v.s) {
			return v.s, nil
		}
		return `"` + v.s + `"`, nil
	default:
		return "", Errorf(UnsupportedArgumentType, "", "cannot render %s value", v.typ)
	}
}

// isDecimal rejects the number forms strconv accepts beyond plain decimal:
// underscore separators and hex mantissas.
func isDecimal(token string) bool {
	if strings.ContainsRune(token, '_') {
		return false
	}
	t := strings.TrimLeft(token, "+-")
	return !strings.HasPrefix(t, "0x") && !strings.HasPrefix(t, "0X")
}

func formatFloat(f float32) string {
	switch {
	case math.IsInf(float64(f), 1):
		return "inf"
	case math.IsInf(float64(f), -1):
		return "-inf"
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// isQuoted reports whether s starts and ends with a double quote. A lone `"`
// counts.
func isQuoted(s string) bool {
	return strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}
