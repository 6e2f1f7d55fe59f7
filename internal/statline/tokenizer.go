// Package statline segments the packed stat lines of a team-stats table and
// assigns their values to schema columns for both teams.
package statline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	tokenPattern    = regexp.MustCompile(`\([^)]*\)|[0-9][0-9.,/%:]*|[^\s0-9]+`)
	fractionPattern = regexp.MustCompile(`\d/\d`)
)

// decorativeMaxLen is the default cutoff for stage-4 token dropping.
const decorativeMaxLen = 7

// Tokenize splits one stat line into tokens: each run of words becomes one
// label token, numeric parentheticals are unwrapped, fractions are split and
// decorative bracket or percent-sign fragments are dropped.
func Tokenize(line string) []string {
	return tokenize(line, decorativeMaxLen)
}

func tokenize(line string, maxDecorative int) []string {
	raw := tokenPattern.FindAllString(line, -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		tokens = append(tokens, unwrap(tok))
	}

	tokens = mergeWords(tokens)

	split := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if fractionPattern.MatchString(tok) && !hasLetter(tok) {
			for _, part := range strings.Split(tok, "/") {
				if part = strings.TrimSpace(part); part != "" {
					split = append(split, part)
				}
			}
			continue
		}
		split = append(split, tok)
	}

	out := split[:0]
	for _, tok := range split {
		if len(tok) < maxDecorative && decorative(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// unwrap returns the inner value of a parenthetical holding a number,
// percentage or fraction, e.g. "(6)" -> "6".
func unwrap(tok string) string {
	if !strings.HasPrefix(tok, "(") || !strings.HasSuffix(tok, ")") {
		return tok
	}
	inner := strings.TrimSpace(tok[1 : len(tok)-1])
	if IsNumber(inner) || IsPercent(inner) || (fractionPattern.MatchString(inner) && !hasLetter(inner)) {
		return inner
	}
	return tok
}

// mergeWords joins each run of consecutive non-value tokens into one.
func mergeWords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	var words []string
	flush := func() {
		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
			words = words[:0]
		}
	}
	for _, tok := range tokens {
		if isValue(tok) || startsWithDigit(tok) || (tok == "%" && len(words) == 0) {
			flush()
			out = append(out, tok)
			continue
		}
		words = append(words, tok)
	}
	flush()
	return out
}

func decorative(tok string) bool {
	if tok == "%" {
		return true
	}
	return strings.ContainsAny(tok, "()") && !IsPercent(tok)
}

// IsNumber reports whether s is a plain decimal number.
func IsNumber(s string) bool {
	if s == "" || hasLetter(s) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// IsPercent reports whether s looks like "12%" or "12.5%".
func IsPercent(s string) bool {
	return len(s) > 1 && s[0] >= '0' && s[0] <= '9' && strings.HasSuffix(s, "%")
}

func isValue(s string) bool {
	return IsNumber(s) || IsPercent(s)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
