package docparse

import (
	"github.com/bilimtest/bilimtest-server/internal/docparse/normalize"
	"github.com/bilimtest/bilimtest-server/internal/docparse/segment"
)

// Profile bundles the per-subject normalization rules and classification
// vocabulary. One shared pipeline serves every subject; only the rule set
// and vocabulary vary.
type Profile struct {
	Name  string
	Rules []normalize.Rule
	Vocab segment.Vocabulary
}

func GenericProfile() Profile {
	return Profile{
		Name:  "generic",
		Rules: normalize.GenericRules(),
		Vocab: segment.DefaultVocabulary(),
	}
}

func ChemistryProfile() Profile {
	return Profile{
		Name:  "chemistry",
		Rules: normalize.ChemistryRules(),
		Vocab: segment.DefaultVocabulary(),
	}
}

func BiologyProfile() Profile {
	return Profile{
		Name:  "biology",
		Rules: normalize.GenericRules(),
		Vocab: segment.BiologyVocabulary(),
	}
}

// ProfileByName resolves a profile; unknown names get the generic one.
func ProfileByName(name string) Profile {
	switch name {
	case "chemistry":
		return ChemistryProfile()
	case "biology":
		return BiologyProfile()
	default:
		return GenericProfile()
	}
}
