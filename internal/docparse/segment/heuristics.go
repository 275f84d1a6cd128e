package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Verdict is a heuristic classification with the rule that produced it,
// so misclassifications can be traced back to a single named signal.
type Verdict struct {
	Match  bool
	Reason string
}

func verdict(reason string) Verdict { return Verdict{Match: true, Reason: reason} }

var noMatch = Verdict{}

// Vocabulary parameterizes the classification heuristics per subject, so
// one segmentation core serves chemistry, biology and generic documents.
type Vocabulary struct {
	CommandVerbs   []string // imperative exam verbs: determine, find, calculate
	Interrogatives []string // quantity/selection words: how many, which
	BankTerms      []string // terms that open auxiliary answer-bank entries
	MinQuestionLen int      // length threshold for the uppercase-prose signal
}

// DefaultVocabulary covers the Uzbek exam phrasing common to all subjects.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		CommandVerbs:   []string{"aniqlang", "toping", "hisoblang", "belgilang", "ko'rsating"},
		Interrogatives: []string{"nechta", "qaysi", "qancha", "necha"},
		MinQuestionLen: 40,
	}
}

// BiologyVocabulary adds the term-list categories that open answer banks
// in biology documents.
func BiologyVocabulary() Vocabulary {
	v := DefaultVocabulary()
	v.BankTerms = []string{
		"eukariot", "prokariot", "avtotrof", "geterotrof",
		"fotosintez", "xemosintez", "mitoz", "meyoz",
	}
	return v
}

var reNumberToken = regexp.MustCompile(`\d+[.)]`)

// IsQuestion reports whether a numbered line's text likely starts a new
// question rather than continuing a variant bank or option list.
func IsQuestion(text string, vocab Vocabulary) Verdict {
	if strings.Contains(text, "?") {
		return verdict("question mark")
	}
	low := strings.ToLower(text)
	for _, verb := range vocab.CommandVerbs {
		if strings.Contains(low, verb) {
			return verdict("command verb: " + verb)
		}
	}
	for _, w := range vocab.Interrogatives {
		if strings.Contains(low, w) {
			return verdict("interrogative: " + w)
		}
	}
	if utf8.RuneCountInString(text) > vocab.MinQuestionLen && startsUpper(text) {
		return verdict("long uppercase-initial prose")
	}
	return noMatch
}

// IsVariantEntry reports whether a numbered line's text is an auxiliary
// answer-bank entry rather than a question.
func IsVariantEntry(text string, vocab Vocabulary) Verdict {
	if startsLower(text) {
		return verdict("lowercase-initial")
	}
	if len(reNumberToken.FindAllString(text, 3)) >= 2 {
		return verdict("embedded number list")
	}
	low := strings.ToLower(text)
	for _, term := range vocab.BankTerms {
		if strings.HasPrefix(low, term) {
			return verdict("bank term: " + term)
		}
	}
	return noMatch
}

// countNumberTokens counts embedded number+delimiter tokens; two or more
// mark a line as "more list" rather than narrative prose.
func countNumberTokens(line string) int {
	return len(reNumberToken.FindAllString(line, -1))
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}
