// Package segment assembles ParsedQuestions from a normalized block
// stream. A small state machine classifies each line as question-start,
// continuation, answer-bank entry, option content or table, with the
// priority order fixed: option detection first, numbered-line
// classification second, continuation last.
package segment

import (
	"regexp"
	"strconv"
	"strings"
)

type state int

const (
	stateIdle state = iota
	stateQuestion
	stateVariants
	stateOptions
)

var (
	reOptionStart = regexp.MustCompile(`^[A-D][).\s]`)
	reNumbered    = regexp.MustCompile(`^(\d+)[.)]\s*(.*)$`)
	reRuleLine    = regexp.MustCompile(`^[-_*]{3,}$`)
	reTablePipe   = regexp.MustCompile(`^\s*[|+]`)
)

type Segmenter struct {
	vocab Vocabulary
	st    state
	cur   *ParsedQuestion
	bank  []string
	out   []ParsedQuestion
}

func New(vocab Vocabulary) *Segmenter {
	return &Segmenter{vocab: vocab}
}

// FeedLine consumes one normalized line. Transition rules are evaluated
// top to bottom; the first match wins.
func (s *Segmenter) FeedLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" || reRuleLine.MatchString(line) || reTablePipe.MatchString(line) {
		return
	}

	// Rule 1: option content beats everything while a question is open.
	if s.cur != nil && reOptionStart.MatchString(line) {
		if opts := ExtractOptions(line); len(opts) > 0 {
			s.flushBank()
			s.cur.Options = append(s.cur.Options, opts...)
			if len(s.cur.Options) >= 4 {
				s.finalize()
			} else {
				s.st = stateOptions
			}
			return
		}
	}

	// Rule 2: numbered line.
	if m := reNumbered.FindStringSubmatch(line); m != nil {
		num, _ := strconv.Atoi(m[1])
		rest := strings.TrimSpace(m[2])
		qv := IsQuestion(rest, s.vocab)
		vv := IsVariantEntry(rest, s.vocab)

		// Tie-break: a document restarting local numbering at 1 inside a
		// variant bank must not be mistaken for a new question.
		if s.cur != nil && len(s.cur.Options) == 0 && num == 1 && vv.Match {
			s.bank = append(s.bank, line)
			s.st = stateVariants
			return
		}
		if qv.Match {
			s.finalize()
			s.cur = &ParsedQuestion{Number: num, Text: rest}
			s.st = stateQuestion
			return
		}
		if vv.Match && s.cur != nil && len(s.cur.Options) == 0 {
			s.bank = append(s.bank, line)
			s.st = stateVariants
			return
		}
		// neither heuristic fired: fall through to continuation
	}

	// Rule 3: continuation.
	if s.cur == nil {
		return // narrative prose outside any question (headers, footers)
	}
	if s.st == stateVariants && countNumberTokens(line) >= 2 {
		s.bank = append(s.bank, line)
		return
	}
	s.cur.Text = strings.TrimSpace(s.cur.Text + " " + line)
	if s.st != stateOptions {
		s.st = stateQuestion
	}
}

// FeedTable attaches table rows to the open question. Table blocks do not
// change the line-classification state.
func (s *Segmenter) FeedTable(rows [][]string) {
	if s.cur == nil || len(rows) == 0 {
		return
	}
	s.cur.HasTable = true
	s.cur.Table = append(s.cur.Table, rows...)
}

// Finish closes any still-open question and returns the result list.
func (s *Segmenter) Finish() []ParsedQuestion {
	s.finalize()
	return s.out
}

// flushBank folds pending variant-bank lines into the open question's
// text; banks are documentary context preceding the options, not a
// replacement for them.
func (s *Segmenter) flushBank() {
	if s.cur == nil || len(s.bank) == 0 {
		s.bank = nil
		return
	}
	for _, ln := range s.bank {
		s.cur.Text = strings.TrimSpace(s.cur.Text + " " + ln)
		s.cur.VariantBank = append(s.cur.VariantBank, ln)
	}
	s.bank = nil
}

func (s *Segmenter) finalize() {
	if s.cur != nil {
		s.flushBank()
		if s.cur.Number >= 1 {
			s.cur.computeDefects()
			s.out = append(s.out, *s.cur)
		}
	}
	s.cur = nil
	s.bank = nil
	s.st = stateIdle
}
