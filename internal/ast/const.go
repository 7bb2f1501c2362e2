package ast

import (
	"strconv"
	"strings"
)

// ConstKind is the runtime category of a constant.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstComplex
	ConstStr
)

func (k ConstKind) String() string {
	switch k {
	case ConstNone:
		return "NoneType"
	case ConstBool:
		return "bool"
	case ConstInt:
		return "int"
	case ConstFloat:
		return "float"
	case ConstComplex:
		return "complex"
	case ConstStr:
		return "str"
	}
	return "unknown"
}

// ConstValue is a tagged scalar. Only the field matching Kind is meaningful.
// Raw keeps the literal text of integers that do not fit into int64.
type ConstValue struct {
	Kind    ConstKind
	Bool    bool
	Int     int64
	Float   float64
	Complex complex128
	Str     string
	Raw     string
}

func NoneValue() ConstValue                { return ConstValue{Kind: ConstNone} }
func BoolValue(b bool) ConstValue          { return ConstValue{Kind: ConstBool, Bool: b} }
func IntValue(i int64) ConstValue          { return ConstValue{Kind: ConstInt, Int: i} }
func FloatValue(f float64) ConstValue      { return ConstValue{Kind: ConstFloat, Float: f} }
func ComplexValue(c complex128) ConstValue { return ConstValue{Kind: ConstComplex, Complex: c} }
func StrValue(s string) ConstValue         { return ConstValue{Kind: ConstStr, Str: s} }

// IsNumber reports int, float, complex or bool (bool is an int subtype).
func (v ConstValue) IsNumber() bool {
	switch v.Kind {
	case ConstBool, ConstInt, ConstFloat, ConstComplex:
		return true
	}
	return false
}

// Equal follows Python equality for scalars: 1 == 1.0 == True.
func (v ConstValue) Equal(o ConstValue) bool {
	if v.Kind == ConstStr || o.Kind == ConstStr {
		return v.Kind == o.Kind && v.Str == o.Str
	}
	if v.Kind == ConstNone || o.Kind == ConstNone {
		return v.Kind == o.Kind
	}
	if v.Raw != "" || o.Raw != "" {
		return v.Raw == o.Raw
	}
	return v.complex() == o.complex()
}

func (v ConstValue) complex() complex128 {
	switch v.Kind {
	case ConstBool:
		if v.Bool {
			return 1
		}
		return 0
	case ConstInt:
		return complex(float64(v.Int), 0)
	case ConstFloat:
		return complex(v.Float, 0)
	case ConstComplex:
		return v.Complex
	}
	return 0
}

// String renders the value the way Python's repr would.
func (v ConstValue) String() string {
	switch v.Kind {
	case ConstNone:
		return "None"
	case ConstBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case ConstInt:
		if v.Raw != "" {
			return v.Raw
		}
		return strconv.FormatInt(v.Int, 10)
	case ConstFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	case ConstComplex:
		if real(v.Complex) == 0 {
			return strconv.FormatFloat(imag(v.Complex), 'g', -1, 64) + "j"
		}
		return "(" + strconv.FormatFloat(real(v.Complex), 'g', -1, 64) + "+" +
			strconv.FormatFloat(imag(v.Complex), 'g', -1, 64) + "j)"
	case ConstStr:
		return quotePy(v.Str)
	}
	return "?"
}

func quotePy(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r == rune(quote) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
