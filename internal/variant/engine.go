// Package variant produces per-student shuffled test variants: a
// permutation of question order and, per question, a permutation of its
// four options, with a unique human-writable code and a stored mapping
// sufficient to regenerate the answer key.
package variant

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bilimtest/bilimtest-server/internal/testbank"
)

type Store interface {
	// LoadCodes returns every variant code ever issued; the engine
	// pre-loads them so check-and-reserve never races a stale read.
	LoadCodes(ctx context.Context) (map[string]struct{}, error)
	// ReplaceForTest persists a full batch, replacing all prior variants
	// of the test. Regeneration is a replace, never a merge.
	ReplaceForTest(ctx context.Context, testID string, vs []StudentVariant) error
	ListForTest(ctx context.Context, testID string) ([]StudentVariant, error)
	GetByCode(ctx context.Context, code string) (StudentVariant, error)
}

// QuestionDefect names one question the engine refuses to shuffle.
type QuestionDefect struct {
	Index  int    `json:"index"` // 0-based position in the source list
	Reason string `json:"reason"`
}

// ValidationError reports every defective question, so remediation can
// target the exact questions rather than an aggregate count.
type ValidationError struct {
	Defects []QuestionDefect
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Defects))
	for i, d := range e.Defects {
		parts[i] = fmt.Sprintf("question %d: %s", d.Index+1, d.Reason)
	}
	return "ungradable questions: " + strings.Join(parts, "; ")
}

type Engine struct {
	store       Store
	codeLength  int
	maxAttempts int
	log         *zap.Logger
}

type Option func(*Engine)

func WithCodeLength(n int) Option   { return func(e *Engine) { e.codeLength = n } }
func WithMaxAttempts(n int) Option  { return func(e *Engine) { e.maxAttempts = n } }
func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.log = l } }

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		codeLength:  6,
		maxAttempts: 50,
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// sourceQuestion pairs a question with its block-test subject, empty for
// plain tests.
type sourceQuestion struct {
	subject string
	q       testbank.Question
}

// Generate produces one StudentVariant per student and persists the batch,
// replacing any prior variants of the test.
func (e *Engine) Generate(ctx context.Context, t testbank.Test, studentIDs []string) ([]StudentVariant, error) {
	src := make([]sourceQuestion, len(t.Questions))
	for i, q := range t.Questions {
		src[i] = sourceQuestion{q: q}
	}
	return e.generate(ctx, t.ID, src, studentIDs)
}

// GenerateBlock flattens the block test's subject groups in order and
// shuffles across the combined list; each shuffled entry keeps its
// subject so grading maps back per group.
func (e *Engine) GenerateBlock(ctx context.Context, bt testbank.BlockTest, studentIDs []string) ([]StudentVariant, error) {
	var src []sourceQuestion
	for _, g := range bt.Groups {
		for _, q := range g.Questions {
			src = append(src, sourceQuestion{subject: g.Subject, q: q})
		}
	}
	return e.generate(ctx, bt.ID, src, studentIDs)
}

func (e *Engine) generate(ctx context.Context, testID string, src []sourceQuestion, studentIDs []string) ([]StudentVariant, error) {
	if defects := validate(src); len(defects) > 0 {
		return nil, &ValidationError{Defects: defects}
	}
	if len(studentIDs) == 0 {
		return nil, fmt.Errorf("no students given")
	}

	codes, err := e.store.LoadCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing codes: %w", err)
	}
	reg := newCodeRegistry(codes, e.codeLength, e.maxAttempts)

	now := time.Now().Unix()
	out := make([]StudentVariant, 0, len(studentIDs))
	for _, sid := range studentIDs {
		// Seeded per (test, student): regenerating with unchanged inputs
		// reproduces the same orderings.
		rng := rand.New(rand.NewSource(variantSeed(testID, sid)))

		sv := StudentVariant{
			TestID:    testID,
			StudentID: sid,
			CreatedAt: now,
		}
		for _, qi := range rng.Perm(len(src)) {
			sq, err := shuffleQuestion(rng, qi, src[qi])
			if err != nil {
				return nil, fmt.Errorf("student %s: %w", sid, err)
			}
			sv.Questions = append(sv.Questions, sq)
		}
		code, err := reg.Issue(rng)
		if err != nil {
			return nil, fmt.Errorf("student %s: %w", sid, err)
		}
		sv.Code = code
		out = append(out, sv)
	}

	if err := e.store.ReplaceForTest(ctx, testID, out); err != nil {
		return nil, fmt.Errorf("persist variants: %w", err)
	}
	e.log.Info("variants generated",
		zap.String("test_id", testID),
		zap.Int("students", len(studentIDs)),
		zap.Int("questions", len(src)))
	return out, nil
}

// shuffleQuestion permutes the four options, relabels them A-D in their
// new order, and derives the new correct label from the option whose text
// equals the original correct option's text. The label is derived, never
// copied.
func shuffleQuestion(rng *rand.Rand, originalIndex int, src sourceQuestion) (ShuffledQuestion, error) {
	q := src.q
	correctText, ok := correctOptionText(q)
	if !ok {
		// validate() already rejects this; guard against racing edits
		return ShuffledQuestion{}, fmt.Errorf("question %d: correct answer unresolvable", originalIndex+1)
	}

	perm := rng.Perm(len(q.Variants))
	sq := ShuffledQuestion{
		OriginalIndex: originalIndex,
		Subject:       src.subject,
		Text:          q.Text,
		Points:        q.Points,
	}
	for pos, from := range perm {
		v := q.Variants[from]
		v.Letter = testbank.Letters[pos]
		sq.Variants = append(sq.Variants, v)
		if v.Text == correctText && sq.CorrectAnswer == "" {
			sq.CorrectAnswer = v.Letter
		}
	}
	if sq.CorrectAnswer == "" {
		return ShuffledQuestion{}, fmt.Errorf("question %d: shuffled options lost the correct text", originalIndex+1)
	}
	return sq, nil
}

func validate(src []sourceQuestion) []QuestionDefect {
	var defects []QuestionDefect
	for i, s := range src {
		if err := s.q.Validate(); err != nil {
			defects = append(defects, QuestionDefect{Index: i, Reason: err.Error()})
			continue
		}
		if s.q.CorrectAnswer == "" {
			defects = append(defects, QuestionDefect{Index: i, Reason: "correct answer not confirmed"})
			continue
		}
		if _, ok := correctOptionText(s.q); !ok {
			defects = append(defects, QuestionDefect{Index: i, Reason: fmt.Sprintf("no option labeled %s", s.q.CorrectAnswer)})
		}
	}
	return defects
}

func correctOptionText(q testbank.Question) (string, bool) {
	for _, v := range q.Variants {
		if v.Letter == q.CorrectAnswer {
			return v.Text, true
		}
	}
	return "", false
}

func variantSeed(testID, studentID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(testID))
	h.Write([]byte{'|'})
	h.Write([]byte(studentID))
	return int64(h.Sum64())
}
