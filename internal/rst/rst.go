// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rst renders notebook documents as reStructuredText lines.
//
// Code cells become a code-block directive followed by a literal block of
// their outputs. Markdown cells are copied line by line with three rewrites:
// image links become image directives, "## " headings become underlined
// section titles, and backticks are doubled. The first cell of every
// worksheet is a title placeholder and is never rendered.
package rst

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/nbrst/pkg/types"
)

const (
	indent = "    "

	// hiddenMarker on a line of its own hides that line from rendered code.
	hiddenMarker = "##"

	literalMarker = "::"
	headingPrefix = "## "
	imagePrefix   = "!["
	imageSep      = "]("
)

// Options controls rendering.
type Options struct {
	// Language is named in each code-block directive. Empty means
	// types.DefaultLanguage.
	Language string
}

// Stats counts what a transform saw and produced.
type Stats struct {
	CodeCells     int `json:"code_cells" yaml:"code_cells"`
	MarkdownCells int `json:"markdown_cells" yaml:"markdown_cells"`

	// Skipped counts first-of-worksheet cells and cells of unrendered types.
	Skipped int `json:"skipped" yaml:"skipped"`

	Lines int `json:"lines" yaml:"lines"`
}

// Transform renders doc as reStructuredText, one string per output line.
// doc is not modified.
func Transform(doc types.Document, opts Options) []string {
	lines, _ := TransformWithStats(doc, opts)
	return lines
}

// TransformWithStats is Transform that also reports cell counts.
func TransformWithStats(doc types.Document, opts Options) ([]string, Stats) {
	lang := opts.Language
	if lang == "" {
		lang = types.DefaultLanguage
	}
	r := &renderer{codeBlock: ".. code-block:: " + lang}

	for _, ws := range doc.Worksheets {
		if len(ws.Cells) > 0 {
			r.stats.Skipped++
		}
		for i := 1; i < len(ws.Cells); i++ {
			switch c := ws.Cells[i].(type) {
			case *types.CodeCell:
				r.stats.CodeCells++
				r.code(c)
			case *types.MarkdownCell:
				r.stats.MarkdownCells++
				r.markdown(c)
			default:
				r.stats.Skipped++
			}
		}
	}

	r.stats.Lines = len(r.out)
	return r.out, r.stats
}

// Write writes lines to w, each followed by a newline.
func Write(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

type renderer struct {
	codeBlock string
	out       []string
	stats     Stats
}

func (r *renderer) emit(lines ...string) {
	r.out = append(r.out, lines...)
}

func (r *renderer) code(c *types.CodeCell) {
	r.emit("", r.codeBlock, "")
	for _, line := range c.Input {
		line = rstrip(line)
		if line == hiddenMarker {
			continue
		}
		r.emit(indent + line)
	}

	r.emit("", literalMarker, "")
	for _, o := range c.Outputs {
		switch {
		case o.Text != nil:
			text := *o.Text
			start := 0
			if len(text) > 0 && text[0] == "" {
				start = 1
			}
			for _, line := range text[start:] {
				r.emit(indent + rstrip(line))
			}
		case o.Traceback != nil:
			for _, raw := range *o.Traceback {
				for _, line := range strings.Split(Strip(raw), "\n") {
					r.emit(indent + line)
				}
			}
		}
	}

	// A literal block with no body is dropped.
	if n := len(r.out); n >= 2 && r.out[n-2] == literalMarker && r.out[n-1] == "" {
		r.out = r.out[:n-2]
	}
}

func (r *renderer) markdown(c *types.MarkdownCell) {
	r.emit("")
	for _, line := range c.Source {
		line = rstrip(line)

		if caption, link, ok := parseImage(line); ok {
			r.emit(".. image:: "+link, "   :alt: "+caption)
			continue
		}

		if title, ok := strings.CutPrefix(line, headingPrefix); ok {
			r.emit(title, strings.Repeat("-", utf8.RuneCountInString(title)))
			continue
		}

		r.emit(strings.ReplaceAll(line, "`", "``"))
	}
}

// parseImage splits "![caption](link)" at the first "](". A line that starts
// with "![" but has no "](" is not an image.
func parseImage(line string) (caption, link string, ok bool) {
	rest, ok := strings.CutPrefix(line, imagePrefix)
	if !ok {
		return "", "", false
	}
	caption, link, ok = strings.Cut(rest, imageSep)
	if !ok {
		return "", "", false
	}
	return caption, strings.TrimSuffix(link, ")"), true
}

func rstrip(s string) string {
	return strings.TrimRightFunc(s, isSpace)
}

// isSpace is unicode.IsSpace plus the information separators U+001C
// through U+001F, which notebook tooling also treats as line whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || ('\x1c' <= r && r <= '\x1f')
}
