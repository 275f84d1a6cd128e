package testbank

import (
	"fmt"
	"strings"

	"github.com/bilimtest/bilimtest-server/internal/docparse/segment"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	KindTest      = "test"
	KindBlockTest = "block_test"
)

// Letters a question's four variants must carry, in order.
var Letters = []string{"A", "B", "C", "D"}

// QuestionVariant is one lettered answer option of an author-confirmed
// question.
type QuestionVariant struct {
	Letter   string `json:"letter"`
	Text     string `json:"text"`
	Formula  string `json:"formula,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Question is the normalized, author-confirmed form of a parsed question.
// CorrectAnswer is empty while the question awaits review; publishing
// requires it to name one of the four letters.
type Question struct {
	Text          string            `json:"text"`
	ContextText   string            `json:"context_text,omitempty"`
	ContextImage  string            `json:"context_image,omitempty"`
	Formula       string            `json:"formula,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
	Variants      []QuestionVariant `json:"variants"`
	CorrectAnswer string            `json:"correct_answer"`
	Points        float64           `json:"points"`
}

// Validate checks the publishable invariants: exactly 4 variants with
// distinct letters A-D, and CorrectAnswer referencing one of them or
// empty (pending review).
func (q Question) Validate() error {
	if len(q.Variants) != 4 {
		return fmt.Errorf("%d variants, want 4", len(q.Variants))
	}
	seen := map[string]bool{}
	for _, v := range q.Variants {
		if !validLetter(v.Letter) {
			return fmt.Errorf("invalid variant letter %q", v.Letter)
		}
		if seen[v.Letter] {
			return fmt.Errorf("duplicate variant letter %s", v.Letter)
		}
		seen[v.Letter] = true
	}
	if q.CorrectAnswer != "" && !seen[q.CorrectAnswer] {
		return fmt.Errorf("correct answer %q matches no variant", q.CorrectAnswer)
	}
	return nil
}

type Test struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Subject   string     `json:"subject"`
	Class     string     `json:"class"`
	Group     string     `json:"group"`
	OwnerID   string     `json:"owner_id"`
	Status    string     `json:"status"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"created_at"`
}

// SubjectGroup is one per-subject question group of a block test.
type SubjectGroup struct {
	Subject   string     `json:"subject"`
	Questions []Question `json:"questions"`
}

// BlockTest is a test composed of multiple per-subject question groups
// administered together.
type BlockTest struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Class     string         `json:"class"`
	Group     string         `json:"group"`
	OwnerID   string         `json:"owner_id"`
	Status    string         `json:"status"`
	Groups    []SubjectGroup `json:"groups"`
	CreatedAt int64          `json:"created_at"`
}

// ValidateForPublish enforces the published-test invariant over every
// question: no question may remain un-reviewed.
func (t Test) ValidateForPublish() error {
	return validateQuestions(t.Questions)
}

func (bt BlockTest) ValidateForPublish() error {
	for _, g := range bt.Groups {
		if err := validateQuestions(g.Questions); err != nil {
			return fmt.Errorf("subject %s: %w", g.Subject, err)
		}
	}
	return nil
}

func validateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("no questions")
	}
	for i, q := range qs {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		if q.CorrectAnswer == "" {
			return fmt.Errorf("question %d: correct answer not confirmed", i+1)
		}
	}
	return nil
}

// FromParsed converts a parser question into the authoring schema. The
// bold-emphasis correct-answer hint carries over only when it is
// unambiguous; otherwise CorrectAnswer stays empty for manual review.
func FromParsed(pq segment.ParsedQuestion) Question {
	q := Question{
		Text:   pq.Text,
		Points: 1,
	}
	correct := ""
	ambiguous := false
	for _, o := range pq.Options {
		q.Variants = append(q.Variants, QuestionVariant{
			Letter: strings.ToUpper(o.Label),
			Text:   o.Text,
		})
		if o.Correct {
			if correct != "" {
				ambiguous = true
			}
			correct = strings.ToUpper(o.Label)
		}
	}
	if !ambiguous {
		q.CorrectAnswer = correct
	}
	return q
}

func validLetter(l string) bool {
	for _, x := range Letters {
		if l == x {
			return true
		}
	}
	return false
}
