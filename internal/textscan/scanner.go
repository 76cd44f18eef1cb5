// Package textscan implements the quote-aware splitting, quoting and whitespace
// handling shared by the text codec and the encoding validator.
//
// Quoting follows RFC 4180: a double quote toggles quote mode, except that two
// consecutive quotes inside a quoted section stand for one literal quote and do
// not toggle. Separators only split outside quote mode, so quoted tokens may
// carry separators, quotes and line breaks.
package textscan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const quote = '"'

// Split splits s on every occurrence of sep that lies outside a quoted section.
//
// Tokens are returned raw: surrounding whitespace and quotes are kept so that the
// caller can tell a quoted empty string from an empty token. Split of the empty
// string yields a single empty token. An empty sep yields s as the only token.
func Split(s, sep string) []string {
	if sep == "" {
		return []string{s}
	}

	tokens := make([]string, 0, strings.Count(s, sep)+1)
	inQuote := false
	start := 0

	for i := 0; i < len(s); {
		c := s[i]
		if c == quote {
			if inQuote && i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			inQuote = !inQuote
			i++

			continue
		}

		if !inQuote && strings.HasPrefix(s[i:], sep) {
			tokens = append(tokens, s[start:i])
			i += len(sep)
			start = i

			continue
		}
		i++
	}

	return append(tokens, s[start:])
}

// Count returns len(Split(s, sep)) without allocating the tokens.
func Count(s, sep string) int {
	if sep == "" {
		return 1
	}

	n := 1
	inQuote := false
	for i := 0; i < len(s); {
		switch {
		case s[i] == quote && inQuote && i+1 < len(s) && s[i+1] == quote:
			i += 2
		case s[i] == quote:
			inQuote = !inQuote
			i++
		case !inQuote && strings.HasPrefix(s[i:], sep):
			n++
			i += len(sep)
		default:
			i++
		}
	}

	return n
}

// Unquote trims surrounding whitespace from token and, when the result is wrapped
// in double quotes, removes them and collapses every escaped "" into ".
//
// The second result reports whether the token was quoted.
func Unquote(token string) (string, bool) {
	t := strings.TrimSpace(token)
	if len(t) >= 2 && t[0] == quote && t[len(t)-1] == quote {
		return strings.ReplaceAll(t[1:len(t)-1], `""`, `"`), true
	}

	return t, false
}

// NeedsQuote reports whether token must be quoted to survive splitting on
// tokenSep and blockSep.
//
// Besides the RFC 4180 triggers (the token separator, '"', '\n' and '\r'), a token
// containing the block separator is quoted too; with a block separator other than
// a line break the token would otherwise be split into two blocks on decode.
func NeedsQuote(token, tokenSep, blockSep string) bool {
	if strings.ContainsAny(token, "\"\n\r") {
		return true
	}
	if tokenSep != "" && strings.Contains(token, tokenSep) {
		return true
	}

	return blockSep != "" && strings.Contains(token, blockSep)
}

// Quote wraps token in double quotes, doubling inner quotes, when NeedsQuote
// reports it must be; otherwise token is returned unchanged.
func Quote(token, tokenSep, blockSep string) string {
	if !NeedsQuote(token, tokenSep, blockSep) {
		return token
	}

	var b strings.Builder
	b.Grow(len(token) + 2)
	b.WriteByte(quote)
	b.WriteString(strings.ReplaceAll(token, `"`, `""`))
	b.WriteByte(quote)

	return b.String()
}

// IsWhitespace reports whether sep is non-empty and made only of white space.
func IsWhitespace(sep string) bool {
	return sep != "" && strings.TrimSpace(sep) == ""
}

// IsSpaceOrTab reports whether r is a space or a horizontal tab.
func IsSpaceOrTab(r rune) bool {
	return r == ' ' || r == '\t'
}

// Collapse replaces every run of runes matching isRun that lies outside a quoted
// section with repl. Runs at the start and end of s are removed instead.
func Collapse(s, repl string, isRun func(rune) bool) string {
	s = strings.TrimFunc(s, isRun)

	var b strings.Builder
	b.Grow(len(s))

	inQuote := false
	inRun := false
	for _, r := range s {
		if !inQuote && isRun(r) {
			if !inRun {
				b.WriteString(repl)
				inRun = true
			}

			continue
		}
		inRun = false
		if r == quote {
			inQuote = !inQuote
		}
		b.WriteRune(r)
	}

	return b.String()
}

// CollapseWhiteSpaces applies the collapseWhiteSpaces rule to one block: when the
// token separator is itself white space, every white space run becomes one
// separator; otherwise runs of spaces and tabs become a single space.
func CollapseWhiteSpaces(block, tokenSep string) string {
	if IsWhitespace(tokenSep) {
		return Collapse(block, tokenSep, unicode.IsSpace)
	}

	return Collapse(block, " ", IsSpaceOrTab)
}

// IsBlank reports whether s contains only white space.
func IsBlank(s string) bool {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if !unicode.IsSpace(r) {
			return false
		}
		s = s[size:]
	}

	return true
}
