package pyparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"astroid/internal/ast"
	"astroid/internal/diag"
)

// parseNumber understands decimal, 0x/0o/0b and legacy 0-prefixed octal
// integers, the Python 2 long suffix, underscores, floats and imaginary literals.
func parseNumber(text string) (ast.ConstValue, error) {
	s := strings.ReplaceAll(text, "_", "")
	if s == "" {
		return ast.ConstValue{}, fmt.Errorf("empty number literal")
	}
	if last := s[len(s)-1]; last == 'j' || last == 'J' {
		f, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil {
			return ast.ConstValue{}, fmt.Errorf("bad imaginary literal %q", text)
		}
		return ast.ComplexValue(complex(0, f)), nil
	}
	if last := s[len(s)-1]; last == 'l' || last == 'L' {
		s = s[:len(s)-1]
	}
	lower := strings.ToLower(s)
	isInt := strings.HasPrefix(lower, "0x") || !strings.ContainsAny(lower, ".e")
	if !isInt {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ast.ConstValue{}, fmt.Errorf("bad float literal %q", text)
		}
		return ast.FloatValue(f), nil
	}
	if len(lower) > 1 && lower[0] == '0' && lower[1] >= '0' && lower[1] <= '9' {
		// 017 - восьмеричное в старом синтаксисе
		lower = "0o" + lower[1:]
	}
	i, err := strconv.ParseInt(lower, 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return ast.ConstValue{Kind: ast.ConstInt, Raw: s}, nil
		}
		return ast.ConstValue{}, fmt.Errorf("bad integer literal %q", text)
	}
	return ast.IntValue(i), nil
}

// str returns the value of a string or an implicitly concatenated string.
func (p *parser) str(n *sitter.Node) string {
	if n.Type() == "concatenated_string" {
		var b strings.Builder
		for _, c := range namedChildren(n) {
			b.WriteString(p.str(c))
		}
		return b.String()
	}
	v, err := unquote(p.text(n))
	if err != nil {
		p.report(diag.SynBadLiteral, diag.SevWarning, n, err.Error())
	}
	return v
}

// unquote strips the prefix and quotes of a string literal and decodes escapes
// unless the literal is raw. On a malformed escape the rest is kept verbatim.
func unquote(lit string) (string, error) {
	i := 0
	raw := false
	for i < len(lit) && strings.IndexByte("rRbBuUfF", lit[i]) >= 0 {
		if lit[i] == 'r' || lit[i] == 'R' {
			raw = true
		}
		i++
	}
	body := lit[i:]
	var quote string
	switch {
	case strings.HasPrefix(body, `"""`), strings.HasPrefix(body, `'''`):
		quote = body[:3]
	case strings.HasPrefix(body, `"`), strings.HasPrefix(body, `'`):
		quote = body[:1]
	default:
		return lit, fmt.Errorf("malformed string literal %q", lit)
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return strings.TrimPrefix(body, quote), fmt.Errorf("unterminated string literal")
	}
	body = body[len(quote) : len(body)-len(quote)]
	if raw || !strings.Contains(body, `\`) {
		return body, nil
	}
	return unescape(body)
}

func unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
			// продолжение строки
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			b.WriteRune(rune(v))
			i = j - 1
		case 'x', 'u', 'U':
			width := 2
			switch e {
			case 'u':
				width = 4
			case 'U':
				width = 8
			}
			if i+1+width > len(s) {
				return b.String() + s[i-1:], fmt.Errorf("truncated \\%c escape", e)
			}
			v, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return b.String() + s[i-1:], fmt.Errorf("invalid \\%c escape", e)
			}
			b.WriteRune(rune(v))
			i += width
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String(), nil
}
