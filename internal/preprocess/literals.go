package preprocess

import (
	"math/big"
	"regexp"
	"strings"
)

var numberLiteral = regexp.MustCompile(`\b(?:0[xX][0-9a-fA-F]+|0[bB][01]+|0[oO][0-7]+|\d+\.\d+|\d+)\b`)

// unifyQuotes rewrites "...", '...' and `...` literals to single quotes.
// Single quotes inside a literal are escaped as \'. An unterminated literal
// is left open.
func unifyQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	for i := 0; i < len(s); {
		q := s[i]
		if q != '"' && q != '\'' && q != '`' {
			b.WriteByte(q)
			i++
			continue
		}

		b.WriteByte('\'')
		i++
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				next := s[i+1]
				if next == q && q != '\'' {
					b.WriteByte(next)
				} else {
					b.WriteByte(c)
					b.WriteByte(next)
				}
				i += 2
				continue
			}
			if c == q {
				b.WriteByte('\'')
				i++
				break
			}
			if c == '\'' {
				b.WriteString(`\'`)
			} else {
				b.WriteByte(c)
			}
			i++
		}
	}
	return b.String()
}

// normalizeNumbers rewrites numeric literals to canonical decimal form.
func normalizeNumbers(s string) string {
	return numberLiteral.ReplaceAllStringFunc(s, canonicalNumber)
}

func canonicalNumber(lit string) string {
	if len(lit) > 2 && lit[0] == '0' {
		base := 0
		switch lit[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(lit[2:], base)
			if ok {
				return n.String()
			}
			return lit
		}
	}

	whole, frac, isFloat := strings.Cut(lit, ".")
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	if !isFloat {
		return whole
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
