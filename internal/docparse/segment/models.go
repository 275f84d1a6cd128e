package segment

import "fmt"

// Option is one lettered answer option as extracted from the document.
// Correct is inferred from bold emphasis in the source; it is a hint for
// the review step, never an automatic source of truth.
type Option struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// ParsedQuestion is the parser's intermediate question record. It is
// mutated only during the segmentation pass; once returned it is treated
// as immutable by all downstream code.
type ParsedQuestion struct {
	Number      int        `json:"number"`
	Text        string     `json:"text"`
	VariantBank []string   `json:"variant_bank,omitempty"`
	Options     []Option   `json:"options"`
	HasTable    bool       `json:"has_table,omitempty"`
	Table       [][]string `json:"table,omitempty"`

	// Defects lists per-question structural problems (too few options,
	// duplicate labels). Defective questions are still returned so the
	// caller can surface them for manual correction.
	Defects []string `json:"defects,omitempty"`
}

// Complete reports whether the question collected its full option set.
func (q *ParsedQuestion) Complete() bool { return len(q.Options) == 4 }

func (q *ParsedQuestion) computeDefects() {
	if len(q.Options) != 4 {
		q.Defects = append(q.Defects, fmt.Sprintf("question %d: %d options, want 4", q.Number, len(q.Options)))
	}
	seen := map[string]bool{}
	for _, o := range q.Options {
		if seen[o.Label] {
			q.Defects = append(q.Defects, fmt.Sprintf("question %d: duplicate option label %s", q.Number, o.Label))
		}
		seen[o.Label] = true
	}
}
