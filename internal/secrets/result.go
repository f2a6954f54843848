package secrets

// Result contains the scrubbing result.
type Result struct {
	// Scrubbed is the content with secrets redacted.
	Scrubbed string `json:"scrubbed"`

	// Findings never include the matched value.
	Findings []Finding `json:"findings,omitempty"`

	// ByRule maps rule IDs to finding counts.
	ByRule map[string]int `json:"by_rule,omitempty"`
}

// Finding represents a detected secret.
type Finding struct {
	RuleID     string `json:"rule_id"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// HasFindings returns true if any secrets were found.
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}
