// Package normalize rewrites converter-emitted markup into canonical
// notation. Rules run in a fixed order; later rules assume earlier ones
// already ran. Normalization is best-effort: unrecognized patterns pass
// through unchanged, and applying the chain twice equals applying it once.
package normalize

import (
	"regexp"
	"strings"
)

// MulDot is the canonical multiplication-operator token (rule 3 output).
const MulDot = "·"

type Rule struct {
	Name  string
	Apply func(string) string
}

type Normalizer struct {
	rules []Rule
}

func New(rules []Rule) *Normalizer {
	return &Normalizer{rules: rules}
}

func (n *Normalizer) Normalize(s string) string {
	for _, r := range n.rules {
		s = r.Apply(s)
	}
	return s
}

var (
	escapeReplacer = strings.NewReplacer(
		`\.`, ".",
		`\)`, ")",
		`\(`, "(",
		`\'`, "'",
		"\\`", "`",
	)
	reSlashPair  = regexp.MustCompile(`\\\\+|//+`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reMulDot     = regexp.MustCompile(`\s*[·∙•]\s*`)
	// Subscript base is either a parenthesized group or a bare
	// alphanumeric token; restricting to alphanumerics alone would drop
	// (group)~n~ forms.
	reSubscript   = regexp.MustCompile(`(\([^()~]+\)|[A-Za-z0-9]+)~([^~]+)~`)
	reSuperscript = regexp.MustCompile(`\^([^^]+)\^`)
	reElementSub  = regexp.MustCompile(`[A-Z][a-z]?_\d+`)
	reImplicitO2  = regexp.MustCompile(`\b([A-Z])O (ning|dan|da|ga|bilan|va)\b`)
	reCompaction  = regexp.MustCompile(`([A-Z][a-z]?) (\d+)`)
	reDensePair   = regexp.MustCompile(`(?:^|\s)[A-D] \d`)
	reArrowRev    = regexp.MustCompile(`<->|<=>`)
	reArrowRight  = regexp.MustCompile(`-->|->`)
)

// RuleUnescape removes converter-introduced escapes on punctuation.
func RuleUnescape() Rule {
	return Rule{Name: "unescape", Apply: escapeReplacer.Replace}
}

// RuleCollapse drops run-separator artifacts (stray slash pairs) and
// collapses whitespace runs to single spaces.
func RuleCollapse() Rule {
	return Rule{Name: "collapse", Apply: func(s string) string {
		s = reSlashPair.ReplaceAllString(s, "")
		s = reWhitespace.ReplaceAllString(s, " ")
		return strings.TrimSpace(s)
	}}
}

// RuleMulDot canonicalizes centered-dot multiplication characters.
func RuleMulDot() Rule {
	return Rule{Name: "muldot", Apply: func(s string) string {
		return reMulDot.ReplaceAllString(s, " "+MulDot+" ")
	}}
}

// RuleSubSuper converts ~x~ / ^x^ delimiter pairs into base_x and ^{x}.
// Subscripts iterate to a fixpoint so a parenthesized group whose inner
// subscripts were converted on the previous round, e.g. (SO~4~)~3~, still
// picks up its own trailing subscript.
func RuleSubSuper() Rule {
	return Rule{Name: "subsuper", Apply: func(s string) string {
		for i := 0; i < 4; i++ {
			next := reSubscript.ReplaceAllString(s, "${1}_${2}")
			if next == s {
				break
			}
			s = next
		}
		s = reSuperscript.ReplaceAllString(s, "^{${1}}")
		return s
	}}
}

// RuleDedupeElementSub collapses immediately-repeated identical
// element+subscript tokens (duplicate-insertion artifacts), e.g.
// "H_2H_2O" -> "H_2O".
func RuleDedupeElementSub() Rule {
	return Rule{Name: "dedupe-element-sub", Apply: dedupeElementSub}
}

func dedupeElementSub(s string) string {
	locs := reElementSub.FindAllStringIndex(s, -1)
	if len(locs) < 2 {
		return s
	}
	var b strings.Builder
	prevEnd := 0
	for i, loc := range locs {
		tok := s[loc[0]:loc[1]]
		if i > 0 {
			prev := locs[i-1]
			if prev[1] == loc[0] && s[prev[0]:prev[1]] == tok {
				prevEnd = loc[1]
				continue // adjacent duplicate: skip
			}
		}
		b.WriteString(s[prevEnd:loc[0]])
		b.WriteString(tok)
		prevEnd = loc[1]
	}
	b.WriteString(s[prevEnd:])
	return b.String()
}

// RuleImplicitDiatomicSubscript recovers an omitted molecular subscript 2
// on a bare single-uppercase-letter+O token when followed by a linking
// word, e.g. "HO ning" -> "H_2O ning". Authors habitually drop the 2 in
// prose. Heuristic, chemistry-only; never generalize it.
func RuleImplicitDiatomicSubscript() Rule {
	return Rule{Name: "implicit-o2", Apply: func(s string) string {
		return reImplicitO2.ReplaceAllString(s, "${1}_2O ${2}")
	}}
}

// RuleFormulaCompaction removes incidental whitespace between element
// letters and a following bare digit ("H 2O" -> "H2O"). It deliberately
// skips option-label letters A-D on dense option lines and digit groups
// that continue as comma lists, which are answer enumerations rather than
// formulas.
func RuleFormulaCompaction() Rule {
	return Rule{Name: "compaction", Apply: compactFormulas}
}

func compactFormulas(s string) string {
	locs := reCompaction.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	// two or more standalone A-D+digit pairs mark a dense option line;
	// every A-D letter on it is a label, wherever it sits
	denseOptions := len(reDensePair.FindAllString(s, 2)) >= 2
	var b strings.Builder
	prevEnd := 0
	for _, m := range locs {
		start, end := m[0], m[1]
		letter := s[m[2]:m[3]]
		if start < prevEnd {
			continue
		}
		if len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'D' {
			// leading A-D at line start is an option label, not an element
			if start == 0 || denseOptions {
				continue
			}
		}
		// digits continuing as a comma list are an enumeration
		if end < len(s) && s[end] == ',' {
			continue
		}
		b.WriteString(s[prevEnd:start])
		b.WriteString(letter)
		b.WriteString(s[m[4]:m[5]])
		prevEnd = end
	}
	if prevEnd == 0 {
		return s
	}
	b.WriteString(s[prevEnd:])
	return b.String()
}

// RuleArrows converts ASCII arrow digraphs to Unicode equivalents.
func RuleArrows() Rule {
	return Rule{Name: "arrows", Apply: func(s string) string {
		s = reArrowRev.ReplaceAllString(s, "⇄")
		s = reArrowRight.ReplaceAllString(s, "→")
		return s
	}}
}

// GenericRules is the subject-independent rule chain.
func GenericRules() []Rule {
	return []Rule{
		RuleUnescape(),
		RuleCollapse(),
		RuleMulDot(),
		RuleSubSuper(),
		RuleArrows(),
	}
}

// ChemistryRules adds the formula-specific rules between subscript
// conversion and arrow rewriting.
func ChemistryRules() []Rule {
	return []Rule{
		RuleUnescape(),
		RuleCollapse(),
		RuleMulDot(),
		RuleSubSuper(),
		RuleDedupeElementSub(),
		RuleImplicitDiatomicSubscript(),
		RuleFormulaCompaction(),
		RuleArrows(),
	}
}
