// Package mathrun splits normalized text into plain-text and formula runs
// for rich rendering. Formula detection works on the canonical notation
// the normalizer emits (base_sub, ^{sup}, the · multiplication token).
package mathrun

import (
	"regexp"
	"strings"
)

type RunType string

const (
	RunText    RunType = "text"
	RunFormula RunType = "formula"
)

// Run is one typed segment. Value holds plain text for RunText and a
// LaTeX fragment for RunFormula.
type Run struct {
	Type  RunType `json:"type"`
	Value string  `json:"value"`
}

// Alternatives ordered by precedence: a compound parenthesized formula
// must win over splitting into element + text + trailing subscript. The
// element chain around the group is optional on both sides, covering
// (NH_4)_2SO_4 as well as Al_2(SO_4)_3.
const (
	patCompound = `(?:[A-Z][a-z]?(?:_\d+)?)*\([A-Za-z0-9_]+\)_\d+(?:[A-Z][a-z]?(?:_\d+)?)*`
	patChain    = `(?:[A-Z][a-z]?(?:_\d+)?)+`
	patSuper    = `\d+(?:[.,]\d+)?\^(?:\{[^}]*\}|\d+)`
	patMulDot   = `·`
)

var reFormula = regexp.MustCompile(patCompound + "|" + patSuper + "|" + patChain + "|" + patMulDot)

var (
	reBraceSub   = regexp.MustCompile(`_(\d{2,})`)
	reBraceSuper = regexp.MustCompile(`\^(\d{2,})`)
)

// Extract produces the ordered run sequence for s. Strings that already
// carry $-delimited math blocks pass through as a single text run;
// re-parsing delimited math risks double-escaping.
func Extract(s string) []Run {
	if s == "" {
		return nil
	}
	if strings.Contains(s, "$") {
		return []Run{{Type: RunText, Value: s}}
	}

	var runs []Run
	prev := 0
	for _, loc := range reFormula.FindAllStringIndex(s, -1) {
		match := s[loc[0]:loc[1]]
		if !isFormula(match) {
			continue // bare capital sequence like "DNA": plain text
		}
		if loc[0] > prev {
			runs = append(runs, Run{Type: RunText, Value: s[prev:loc[0]]})
		}
		runs = append(runs, Run{Type: RunFormula, Value: toLatex(match)})
		prev = loc[1]
	}
	if len(runs) == 0 {
		return []Run{{Type: RunText, Value: s}}
	}
	if prev < len(s) {
		runs = append(runs, Run{Type: RunText, Value: s[prev:]})
	}
	return runs
}

// isFormula filters chain candidates: without a subscript, superscript or
// multiplication token the match is ordinary text.
func isFormula(m string) bool {
	return strings.ContainsAny(m, "_^·")
}

func toLatex(m string) string {
	m = reBraceSub.ReplaceAllString(m, `_{${1}}`)
	m = reBraceSuper.ReplaceAllString(m, `^{${1}}`)
	m = strings.ReplaceAll(m, "·", `\cdot`)
	return m
}
