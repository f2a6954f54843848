package preprocess

import (
	"regexp"
	"strings"
)

// DefaultMaxLength bounds normalized text.
const DefaultMaxLength = 512

const ellipsis = "..."

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)

	basicPunct    = regexp.MustCompile(`[^\w\s]`)
	extendedPunct = regexp.MustCompile(`[^\w\s=+\-*/%<>!&|^~?:;,.(){}\[\]'\\]`)

	declaration = regexp.MustCompile(`\b(let|var|const) ([a-z_]\w*)`)
)

// Preprocessor normalizes code for one profile. It holds no mutable state
// and is safe for concurrent use.
type Preprocessor struct {
	profile   Profile
	maxLength int
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithMaxLength overrides DefaultMaxLength. Values below len("...")+1 are ignored.
func WithMaxLength(n int) Option {
	return func(p *Preprocessor) {
		if n > len(ellipsis) {
			p.maxLength = n
		}
	}
}

// New returns a Preprocessor for profile.
func New(profile Profile, opts ...Option) *Preprocessor {
	p := &Preprocessor{profile: profile, maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile returns the configured profile.
func (p *Preprocessor) Profile() Profile {
	return p.profile
}

// MaxLength returns the output bound.
func (p *Preprocessor) MaxLength() int {
	return p.maxLength
}

// Normalize returns the canonical form of code. Empty input yields empty output.
func (p *Preprocessor) Normalize(code string) string {
	if code == "" {
		return ""
	}

	s := blockComment.ReplaceAllString(code, " ")
	s = lineComment.ReplaceAllString(s, " ")

	if p.profile == Extended {
		s = unifyQuotes(s)
	}

	s = strings.ToLower(collapse(s))

	if p.profile == Extended {
		s = canonicalize(collapse(extendedPunct.ReplaceAllString(s, "")))
	} else {
		s = collapse(basicPunct.ReplaceAllString(s, ""))
	}

	return truncate(s, p.maxLength)
}

// canonicalize applies the extended rewrites until none of them changes the
// text, so that normalizing the result again is a no-op.
func canonicalize(s string) string {
	for {
		next := declaration.ReplaceAllStringFunc(s, flattenDeclaration)
		next = collapse(defuseComments(normalizeNumbers(next)))
		if next == s {
			return s
		}
		s = next
	}
}

// collapse replaces whitespace runs with one space and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// flattenDeclaration keeps the keyword and drops underscores from the name.
func flattenDeclaration(m string) string {
	keyword, name, _ := strings.Cut(m, " ")
	return keyword + " " + strings.ReplaceAll(name, "_", "")
}

// defuseComments splits comment openers left behind by punctuation removal
// so that normalizing the output again strips nothing.
func defuseComments(s string) string {
	for strings.Contains(s, "//") || strings.Contains(s, "/*") {
		s = strings.ReplaceAll(s, "//", "/ /")
		s = strings.ReplaceAll(s, "/*", "/ *")
	}
	return s
}

// truncate cuts s to at most max bytes on a word boundary, ending in "...".
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := max - len(ellipsis)
	head := s[:cut]
	if s[cut] != ' ' {
		if idx := strings.LastIndexByte(head, ' '); idx > 0 {
			head = head[:idx]
		}
	}
	return strings.TrimRight(head, " ") + ellipsis
}
