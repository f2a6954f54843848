package preprocess

import (
	"errors"
	"fmt"
	"strings"
)

// Profile selects how aggressively code is normalized.
type Profile int

const (
	// Basic strips comments, whitespace, case and every non-word character.
	Basic Profile = iota
	// Extended also canonicalizes declarations and literals, and keeps
	// operator and grouping punctuation.
	Extended
)

// ErrUnknownProfile is returned by ParseProfile.
var ErrUnknownProfile = errors.New("unknown preprocessing profile")

// ParseProfile parses "basic" or "extended".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic", "":
		return Basic, nil
	case "extended":
		return Extended, nil
	default:
		return Basic, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
	}
}

func (p Profile) String() string {
	switch p {
	case Basic:
		return "basic"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}
