// Package docparse converts teacher-authored exam documents into
// structured question records: external converter → notation normalizer →
// segmentation state machine, with option and formula extraction applied
// per question.
package docparse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilimtest/bilimtest-server/internal/docparse/convert"
	"github.com/bilimtest/bilimtest-server/internal/docparse/normalize"
	"github.com/bilimtest/bilimtest-server/internal/docparse/segment"
)

// ParsedQuestion is re-exported for callers that never touch the
// segmentation internals.
type ParsedQuestion = segment.ParsedQuestion

type Parser struct {
	conv *convert.Converter
	prof Profile
	norm *normalize.Normalizer
}

func NewParser(conv *convert.Converter, prof Profile) *Parser {
	return &Parser{
		conv: conv,
		prof: prof,
		norm: normalize.New(prof.Rules),
	}
}

// Parse runs the full pipeline over the document at path. Converter
// failure aborts the whole parse; structural defects stay per-question.
// Given identical document bytes and converter version the result is
// deterministic.
func (p *Parser) Parse(ctx context.Context, path string) ([]ParsedQuestion, error) {
	blocks, err := p.conv.Blocks(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", filepath.Base(path), err)
	}

	seg := segment.New(p.prof.Vocab)
	for _, b := range blocks {
		switch b.Kind {
		case convert.KindParagraph:
			for _, ln := range strings.Split(renderRuns(b.Runs), "\n") {
				seg.FeedLine(p.norm.Normalize(ln))
			}
		case convert.KindTable:
			rows := make([][]string, len(b.Rows))
			for i, row := range b.Rows {
				rows[i] = make([]string, len(row))
				for j, cell := range row {
					rows[i][j] = p.norm.Normalize(cell)
				}
			}
			seg.FeedTable(rows)
		}
	}
	return seg.Finish(), nil
}

// ParseBytes writes data to a temporary file and parses it. ext selects
// the converter's input format detection (".docx" and friends).
func (p *Parser) ParseBytes(ctx context.Context, data []byte, ext string) ([]ParsedQuestion, error) {
	if ext == "" {
		ext = ".docx"
	}
	tmp, err := os.CreateTemp("", "bilimtest-upload-*"+ext)
	if err != nil {
		return nil, err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return p.Parse(ctx, tmp.Name())
}

// renderRuns flattens styled runs into the inline-marker notation the
// normalizer understands: **bold**, ~subscript~, ^superscript^. Adjacent
// runs with identical style merge first so markers wrap whole words, not
// converter-split fragments.
func renderRuns(runs []convert.Run) string {
	var b strings.Builder
	for i := 0; i < len(runs); {
		j := i
		for j < len(runs) && sameStyle(runs[j], runs[i]) {
			j++
		}
		var text strings.Builder
		for k := i; k < j; k++ {
			text.WriteString(runs[k].Text)
		}
		seg := text.String()
		core := strings.TrimSpace(seg)
		if core == "" {
			b.WriteString(seg)
			i = j
			continue
		}
		switch {
		case runs[i].Sub:
			core = "~" + core + "~"
		case runs[i].Super:
			core = "^" + core + "^"
		}
		if runs[i].Bold {
			core = "**" + core + "**"
		}
		// preserve surrounding whitespace outside the markers
		lead := seg[:len(seg)-len(strings.TrimLeft(seg, " "))]
		trail := seg[len(strings.TrimRight(seg, " ")):]
		b.WriteString(lead)
		b.WriteString(core)
		b.WriteString(trail)
		i = j
	}
	return b.String()
}

func sameStyle(a, b convert.Run) bool {
	return a.Bold == b.Bold && a.Sub == b.Sub && a.Super == b.Super
}
