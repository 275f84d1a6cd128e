package variant

import (
	"github.com/bilimtest/bilimtest-server/internal/testbank"
)

// ShuffledQuestion is one entry of a student's variant: the source
// question's index, the reshuffled options relabeled A-D in their new
// order, and the correct answer's new label. The option text at
// CorrectAnswer is always identical to the source question's correct
// option text; shuffling moves content, never changes it.
type ShuffledQuestion struct {
	OriginalIndex int                        `json:"original_index"`
	Subject       string                     `json:"subject,omitempty"` // block tests only
	Text          string                     `json:"text"`
	Variants      []testbank.QuestionVariant `json:"variants"`
	CorrectAnswer string                     `json:"correct_answer"`
	Points        float64                    `json:"points"`
}

// StudentVariant is one (student, test) pairing with its unique code.
type StudentVariant struct {
	TestID    string             `json:"test_id"`
	StudentID string             `json:"student_id"`
	Code      string             `json:"variant_code"`
	Questions []ShuffledQuestion `json:"questions"`
	CreatedAt int64              `json:"created_at"`
}

// AnswerKey returns the per-position correct letters, for print/export.
// Regenerating variants invalidates any previously printed key; callers
// own that workflow.
func (v StudentVariant) AnswerKey() []string {
	key := make([]string, len(v.Questions))
	for i, q := range v.Questions {
		key[i] = q.CorrectAnswer
	}
	return key
}
