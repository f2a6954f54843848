package secrets

import (
	"fmt"
	"regexp"
)

// Config configures the scrubber.
type Config struct {
	// Enabled controls whether scrubbing is active.
	Enabled bool

	// Gitleaks enables the gitleaks default rule set.
	Gitleaks bool

	// Patterns are extra regular expressions whose matches are redacted.
	Patterns []string

	// AllowList matches are never redacted.
	AllowList []string

	// RedactionString replaces each finding (default: "[REDACTED]").
	RedactionString string

	compiledPatterns  []*regexp.Regexp
	compiledAllowList []*regexp.Regexp
}

// DefaultConfig returns a configuration backed by gitleaks.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Gitleaks:        true,
		RedactionString: "[REDACTED]",
	}
}

// Validate validates and compiles the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.RedactionString == "" {
		c.RedactionString = "[REDACTED]"
	}

	c.compiledPatterns = make([]*regexp.Regexp, 0, len(c.Patterns))
	for i, p := range c.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("pattern %d: %w", i, err)
		}
		c.compiledPatterns = append(c.compiledPatterns, re)
	}

	c.compiledAllowList = make([]*regexp.Regexp, 0, len(c.AllowList))
	for i, p := range c.AllowList {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("allow_list %d: %w", i, err)
		}
		c.compiledAllowList = append(c.compiledAllowList, re)
	}

	return nil
}
