package segment

import (
	"regexp"
	"strings"
)

var (
	reBold        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reDenseLabel  = regexp.MustCompile(`(?:^|\s)([A-D])\s+`)
	reParenLabel  = regexp.MustCompile(`([A-D])\)\s*`)
	rePeriodLabel = regexp.MustCompile(`([A-D])\.\s*`)
)

// ExtractOptions pulls lettered options out of one line. Formats are tried
// in precedence order and the first yielding at least one option wins:
//
//  1. dense unparenthesized multi-option: "A 2,3 B 4,5 ..." — the next
//     standalone capital A-D is the hard boundary;
//  2. dense unparenthesized single option spanning the whole line;
//  3. delimited options, "A) text" or "A. text", with the delimiter that
//     actually appears in the line (mixed delimiters are unsupported).
//
// Empty-text options are discarded. The caller validates that exactly four
// distinct labels were ultimately produced.
func ExtractOptions(line string) []Option {
	boldSpans := reBold.FindAllStringSubmatch(line, -1)
	clean := reBold.ReplaceAllString(line, "${1}")

	opts := extractDense(clean)
	if len(opts) == 0 {
		opts = extractDelimited(clean)
	}

	markCorrect(opts, boldSpans)
	return opts
}

// markCorrect sets the bold correct-answer hint. An exact text match wins
// outright; substring containment is only a fallback, since a short bold
// span contained in several options would otherwise mark all of them.
func markCorrect(opts []Option, boldSpans [][]string) {
	exact := false
	for i := range opts {
		for _, span := range boldSpans {
			if marked := strings.TrimSpace(span[1]); marked != "" && marked == opts[i].Text {
				opts[i].Correct = true
				exact = true
			}
		}
	}
	if exact {
		return
	}
	for i := range opts {
		for _, span := range boldSpans {
			marked := strings.TrimSpace(span[1])
			if marked == "" {
				continue
			}
			if strings.Contains(marked, opts[i].Text) || strings.Contains(opts[i].Text, marked) {
				opts[i].Correct = true
			}
		}
	}
}

func extractDense(line string) []Option {
	ms := reDenseLabel.FindAllStringSubmatchIndex(line, -1)
	if len(ms) == 0 {
		return nil
	}
	if len(ms) == 1 {
		// single dense option only when the label opens the line; a lone
		// mid-line capital is not evidence of an option list
		if ms[0][2] != 0 {
			return nil
		}
		text := strings.TrimSpace(line[ms[0][1]:])
		if text == "" {
			return nil
		}
		return []Option{{Label: line[ms[0][2]:ms[0][3]], Text: text}}
	}
	var opts []Option
	for i, m := range ms {
		end := len(line)
		if i+1 < len(ms) {
			end = ms[i+1][0]
		}
		text := strings.TrimSpace(line[m[1]:end])
		if text == "" {
			continue
		}
		opts = append(opts, Option{Label: line[m[2]:m[3]], Text: text})
	}
	return opts
}

func extractDelimited(line string) []Option {
	re := reParenLabel
	if !re.MatchString(line) {
		re = rePeriodLabel
		if !re.MatchString(line) {
			return nil
		}
	}
	ms := re.FindAllStringSubmatchIndex(line, -1)
	var opts []Option
	for i, m := range ms {
		end := len(line)
		if i+1 < len(ms) {
			end = ms[i+1][0]
		}
		text := strings.TrimSpace(line[m[1]:end])
		if text == "" {
			continue
		}
		opts = append(opts, Option{Label: line[m[2]:m[3]], Text: text})
	}
	return opts
}
