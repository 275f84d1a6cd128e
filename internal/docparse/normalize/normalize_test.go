package normalize

import "testing"

func TestChemistryRules(t *testing.T) {
	n := New(ChemistryRules())

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"subscript pair", `H~2~SO~4~`, "H_2SO_4"},
		{"superscript pair", `10^23^`, "10^{23}"},
		{"parenthesized group subscript", `Al~2~(SO~4~)~3~`, "Al_2(SO_4)_3"},
		{"escaped punctuation", `O\'simlik \(barg\)\.`, "O'simlik (barg)."},
		{"whitespace collapse", "suv   va\ttuz", "suv va tuz"},
		{"multiplication dot", `5·10^23^`, "5 · 10^{23}"},
		{"duplicate element token", "H_2H_2O", "H_2O"},
		{"implied molecular subscript", "HO ning massasi", "H_2O ning massasi"},
		{"no implied subscript mid-formula", "H_2O ning massasi", "H_2O ning massasi"},
		{"formula compaction", "H 2O hosil bo'ladi", "H2O hosil bo'ladi"},
		{"compaction skips option label", "A 2,3,4 B 5,6,7", "A 2,3,4 B 5,6,7"},
		{"compaction skips dense numeric options", "A 23 B 47 C 56 D 78", "A 23 B 47 C 56 D 78"},
		{"compaction still fires between labels", "A H 2O B CO 2 C N 2 D Cl 2", "A H2O B CO2 C N2 D Cl2"},
		{"right arrow", "2H2 + O2 -> 2H2O", "2H2 + O2 → 2H2O"},
		{"reversible arrow", "N2 + 3H2 <-> 2NH3", "N2 + 3H2 ⇄ 2NH3"},
		{"unknown pattern passes through", "~odd marker", "~odd marker"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// Normalization is a projection: applying it twice must equal applying it
// once.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`H~2~SO~4~ eritmasi`,
		`Al~2~(SO~4~)~3~`,
		`10^23^ ta molekula`,
		`5·10^23^`,
		"HO ning massasi",
		"H 2O hosil bo'ladi",
		"2H2 + O2 -> 2H2O",
		"A 2,3,4 B 5,6,7 C 8,9,10 D 11,12,13",
		"A 23 B 47 C 56 D 78",
		"oddiy matn, formulasiz.",
	}
	for _, profile := range [][]Rule{ChemistryRules(), GenericRules()} {
		n := New(profile)
		for _, in := range inputs {
			once := n.Normalize(in)
			twice := n.Normalize(once)
			if once != twice {
				t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
			}
		}
	}
}

func TestGenericRulesSkipChemistryHeuristics(t *testing.T) {
	n := New(GenericRules())
	if got := n.Normalize("HO ning massasi"); got != "HO ning massasi" {
		t.Errorf("generic profile applied chemistry heuristic: %q", got)
	}
	if got := n.Normalize("H 2O hosil"); got != "H 2O hosil" {
		t.Errorf("generic profile applied compaction: %q", got)
	}
}

func TestDedupeElementSubNonAdjacent(t *testing.T) {
	// identical tokens separated by other text are not artifacts
	n := New([]Rule{RuleDedupeElementSub()})
	in := "H_2 va H_2"
	if got := n.Normalize(in); got != in {
		t.Errorf("collapsed non-adjacent duplicates: %q", got)
	}
}
