package convert

import (
	"encoding/json"
	"fmt"
)

type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindTable
)

// Run is one inline text run with its style flags.
type Run struct {
	Text  string
	Bold  bool
	Sub   bool
	Super bool
}

// RawBlock is one converter-emitted unit: a paragraph of styled runs, or a
// table of plain-text cells. Consumed during segmentation, never stored.
type RawBlock struct {
	Kind BlockKind
	Runs []Run
	Rows [][]string
}

// pandoc AST node: {"t": "Str", "c": ...}. Most payloads are positional
// arrays, so c stays raw until the node type is known.
type node struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c"`
}

type document struct {
	Blocks []node `json:"blocks"`
}

// DecodeAST turns pandoc's JSON AST into RawBlocks. Unknown node types are
// descended into generically so future pandoc versions degrade to plain
// text rather than dropping content.
func DecodeAST(data []byte) ([]RawBlock, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode converter AST: %w", err)
	}
	var out []RawBlock
	for _, b := range doc.Blocks {
		out = append(out, decodeBlock(b)...)
	}
	return out, nil
}

func decodeBlock(b node) []RawBlock {
	switch b.T {
	case "Para", "Plain":
		var inlines []node
		if err := json.Unmarshal(b.C, &inlines); err != nil {
			return nil
		}
		runs := decodeInlines(inlines, style{})
		if len(runs) == 0 {
			return nil
		}
		return []RawBlock{{Kind: KindParagraph, Runs: runs}}
	case "Header":
		// c = [level, attr, inlines]
		var parts []json.RawMessage
		if err := json.Unmarshal(b.C, &parts); err != nil || len(parts) < 3 {
			return nil
		}
		var inlines []node
		if err := json.Unmarshal(parts[2], &inlines); err != nil {
			return nil
		}
		return []RawBlock{{Kind: KindParagraph, Runs: decodeInlines(inlines, style{})}}
	case "Table":
		rows := decodeTable(b.C)
		if len(rows) == 0 {
			return nil
		}
		return []RawBlock{{Kind: KindTable, Rows: rows}}
	case "BulletList", "OrderedList":
		return decodeList(b)
	case "HorizontalRule":
		return nil
	case "Div", "BlockQuote":
		var inner []node
		if b.T == "Div" {
			// c = [attr, [block]]
			var parts []json.RawMessage
			if err := json.Unmarshal(b.C, &parts); err != nil || len(parts) < 2 {
				return nil
			}
			if err := json.Unmarshal(parts[1], &inner); err != nil {
				return nil
			}
		} else if err := json.Unmarshal(b.C, &inner); err != nil {
			return nil
		}
		var out []RawBlock
		for _, nb := range inner {
			out = append(out, decodeBlock(nb)...)
		}
		return out
	default:
		return nil
	}
}

func decodeList(b node) []RawBlock {
	// BulletList c = [[block]]; OrderedList c = [listAttrs, [[block]]]
	var items []json.RawMessage
	if b.T == "OrderedList" {
		var parts []json.RawMessage
		if err := json.Unmarshal(b.C, &parts); err != nil || len(parts) < 2 {
			return nil
		}
		if err := json.Unmarshal(parts[1], &items); err != nil {
			return nil
		}
	} else if err := json.Unmarshal(b.C, &items); err != nil {
		return nil
	}
	var out []RawBlock
	for _, item := range items {
		var inner []node
		if err := json.Unmarshal(item, &inner); err != nil {
			continue
		}
		for _, nb := range inner {
			out = append(out, decodeBlock(nb)...)
		}
	}
	return out
}

type style struct {
	bold, sub, super bool
}

func decodeInlines(inlines []node, st style) []Run {
	var runs []Run
	for _, in := range inlines {
		switch in.T {
		case "Str":
			var s string
			if err := json.Unmarshal(in.C, &s); err == nil && s != "" {
				runs = append(runs, Run{Text: s, Bold: st.bold, Sub: st.sub, Super: st.super})
			}
		case "Space", "SoftBreak", "LineBreak":
			runs = append(runs, Run{Text: " ", Bold: st.bold, Sub: st.sub, Super: st.super})
		case "Strong":
			runs = append(runs, nestedInlines(in.C, style{bold: true, sub: st.sub, super: st.super})...)
		case "Emph", "Underline", "SmallCaps", "Span", "Link":
			runs = append(runs, nestedInlines(inlineContent(in), st)...)
		case "Subscript":
			runs = append(runs, nestedInlines(in.C, style{bold: st.bold, sub: true})...)
		case "Superscript":
			runs = append(runs, nestedInlines(in.C, style{bold: st.bold, super: true})...)
		case "Quoted":
			// c = [quoteType, inlines]
			var parts []json.RawMessage
			if err := json.Unmarshal(in.C, &parts); err == nil && len(parts) == 2 {
				var inner []node
				if err := json.Unmarshal(parts[1], &inner); err == nil {
					runs = append(runs, Run{Text: "'", Bold: st.bold})
					runs = append(runs, decodeInlines(inner, st)...)
					runs = append(runs, Run{Text: "'", Bold: st.bold})
				}
			}
		case "Math":
			// c = [mathType, tex]; keep the $-delimiters so downstream
			// formula extraction knows to pass the string through.
			var parts []json.RawMessage
			if err := json.Unmarshal(in.C, &parts); err == nil && len(parts) == 2 {
				var tex string
				if err := json.Unmarshal(parts[1], &tex); err == nil && tex != "" {
					runs = append(runs, Run{Text: "$" + tex + "$"})
				}
			}
		case "Code":
			var parts []json.RawMessage
			if err := json.Unmarshal(in.C, &parts); err == nil && len(parts) == 2 {
				var s string
				if err := json.Unmarshal(parts[1], &s); err == nil && s != "" {
					runs = append(runs, Run{Text: s, Bold: st.bold})
				}
			}
		}
	}
	return runs
}

// inlineContent extracts the inline payload for wrapper nodes whose c is
// either a bare inline list (Emph) or [attr, inlines] (Span, Link).
func inlineContent(in node) json.RawMessage {
	switch in.T {
	case "Span", "Link":
		var parts []json.RawMessage
		if err := json.Unmarshal(in.C, &parts); err == nil && len(parts) >= 2 {
			return parts[1]
		}
		return nil
	default:
		return in.C
	}
}

func nestedInlines(c json.RawMessage, st style) []Run {
	var inner []node
	if err := json.Unmarshal(c, &inner); err != nil {
		return nil
	}
	return decodeInlines(inner, st)
}

// decodeTable handles the positional table layout of pandoc's current AST:
// c = [attr, caption, colspecs, head, [body...], foot] where head/body rows
// are [attr, [cell]] and a cell is [attr, align, rowspan, colspan, [block]].
func decodeTable(c json.RawMessage) [][]string {
	var parts []json.RawMessage
	if err := json.Unmarshal(c, &parts); err != nil || len(parts) < 6 {
		return nil
	}
	var rows [][]string

	// head = [attr, [row]]
	var head []json.RawMessage
	if err := json.Unmarshal(parts[3], &head); err == nil && len(head) == 2 {
		rows = append(rows, decodeRows(head[1])...)
	}

	// bodies = [[attr, rowHeadCols, [row], [row]]]
	var bodies []json.RawMessage
	if err := json.Unmarshal(parts[4], &bodies); err == nil {
		for _, body := range bodies {
			var bp []json.RawMessage
			if err := json.Unmarshal(body, &bp); err != nil || len(bp) < 4 {
				continue
			}
			rows = append(rows, decodeRows(bp[2])...)
			rows = append(rows, decodeRows(bp[3])...)
		}
	}
	return rows
}

func decodeRows(raw json.RawMessage) [][]string {
	var rowList []json.RawMessage
	if err := json.Unmarshal(raw, &rowList); err != nil {
		return nil
	}
	var rows [][]string
	for _, r := range rowList {
		var rp []json.RawMessage
		if err := json.Unmarshal(r, &rp); err != nil || len(rp) != 2 {
			continue
		}
		var cells []json.RawMessage
		if err := json.Unmarshal(rp[1], &cells); err != nil {
			continue
		}
		row := make([]string, 0, len(cells))
		for _, cell := range cells {
			var cp []json.RawMessage
			if err := json.Unmarshal(cell, &cp); err != nil || len(cp) < 5 {
				row = append(row, "")
				continue
			}
			var blocks []node
			if err := json.Unmarshal(cp[4], &blocks); err != nil {
				row = append(row, "")
				continue
			}
			row = append(row, blocksText(blocks))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func blocksText(blocks []node) string {
	var s string
	for _, b := range blocks {
		for _, rb := range decodeBlock(b) {
			for _, run := range rb.Runs {
				s += run.Text
			}
		}
	}
	return s
}
