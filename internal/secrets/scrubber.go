package secrets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// Scrubber detects and redacts secrets from content.
type Scrubber interface {
	// Scrub redacts secrets from the content.
	Scrub(content string) *Result

	// IsEnabled returns whether scrubbing is enabled.
	IsEnabled() bool
}

type scrubber struct {
	config *Config

	// gitleaks detectors carry per-scan state.
	mu       sync.Mutex
	detector *detect.Detector
}

type span struct {
	start, end int
	ruleID     string
}

// New creates a Scrubber with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &scrubber{config: cfg}
	if cfg.Enabled && cfg.Gitleaks {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return nil, fmt.Errorf("creating gitleaks detector: %w", err)
		}
		s.detector = d
	}
	return s, nil
}

// Scrub redacts secrets from the content.
func (s *scrubber) Scrub(content string) *Result {
	result := &Result{
		Scrubbed: content,
		ByRule:   make(map[string]int),
	}
	if !s.config.Enabled || content == "" {
		return result
	}

	spans := s.patternSpans(content)
	spans = append(spans, s.gitleaksSpans(content)...)
	if len(spans) == 0 {
		return result
	}

	for _, sp := range spans {
		result.Findings = append(result.Findings, Finding{
			RuleID:     sp.ruleID,
			StartIndex: sp.start,
			EndIndex:   sp.end,
		})
		result.ByRule[sp.ruleID]++
	}

	result.Scrubbed = apply(content, merge(spans), s.config.RedactionString)
	return result
}

// IsEnabled returns whether scrubbing is enabled.
func (s *scrubber) IsEnabled() bool {
	return s.config.Enabled
}

func (s *scrubber) patternSpans(content string) []span {
	var spans []span
	for i, re := range s.config.compiledPatterns {
		for _, m := range re.FindAllStringIndex(content, -1) {
			if m[0] == m[1] || s.isAllowed(content[m[0]:m[1]]) {
				continue
			}
			spans = append(spans, span{start: m[0], end: m[1], ruleID: fmt.Sprintf("pattern-%d", i)})
		}
	}
	return spans
}

// gitleaksSpans locates each reported secret value in content. Gitleaks
// reports columns per line, so offsets are recovered by searching.
func (s *scrubber) gitleaksSpans(content string) []span {
	if s.detector == nil {
		return nil
	}

	s.mu.Lock()
	findings := s.detector.DetectString(content)
	s.mu.Unlock()

	var spans []span
	for _, f := range findings {
		secret := f.Secret
		if secret == "" {
			secret = f.Match
		}
		if secret == "" || s.isAllowed(secret) {
			continue
		}
		for off := 0; off < len(content); {
			idx := strings.Index(content[off:], secret)
			if idx < 0 {
				break
			}
			start := off + idx
			spans = append(spans, span{start: start, end: start + len(secret), ruleID: f.RuleID})
			off = start + len(secret)
		}
	}
	return spans
}

func (s *scrubber) isAllowed(match string) bool {
	for _, re := range s.config.compiledAllowList {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

// merge sorts spans and merges overlapping or adjacent ones.
func merge(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	merged := []span{spans[0]}
	for _, curr := range spans[1:] {
		last := &merged[len(merged)-1]
		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
			continue
		}
		merged = append(merged, curr)
	}
	return merged
}

// apply replaces merged spans, which must be sorted and disjoint.
func apply(content string, spans []span, marker string) string {
	var b strings.Builder
	b.Grow(len(content))
	prev := 0
	for _, sp := range spans {
		b.WriteString(content[prev:sp.start])
		b.WriteString(marker)
		prev = sp.end
	}
	b.WriteString(content[prev:])
	return b.String()
}

// NoopScrubber returns content unchanged.
type NoopScrubber struct{}

// Scrub returns content unchanged.
func (NoopScrubber) Scrub(content string) *Result {
	return &Result{Scrubbed: content, ByRule: map[string]int{}}
}

// IsEnabled returns false.
func (NoopScrubber) IsEnabled() bool {
	return false
}

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = NoopScrubber{}
)
