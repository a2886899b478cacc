// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CellType is the cell_type tag carried by every notebook cell.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
)

// Document is a parsed notebook: an ordered list of worksheets.
// nbformat 4 notebooks, which have no worksheets, load as a single worksheet.
//
// Document is not decoded directly from JSON: Cell is an interface, so the
// tree is built by the internal/notebook loader.
type Document struct {
	// Format is the nbformat major version the document was decoded from.
	Format int

	Worksheets []Worksheet
}

// Worksheet is an ordered list of cells. The first cell of a worksheet is
// treated as a title placeholder and never rendered.
type Worksheet struct {
	Cells []Cell
}

// Cell is the closed set of notebook cell variants: *CodeCell,
// *MarkdownCell, and *OtherCell for any tag this tool does not render.
type Cell interface {
	Type() CellType
	sealedCell()
}

// CodeCell holds source lines and the outputs captured when they ran.
type CodeCell struct {
	Input   Lines    `json:"input" yaml:"input"`
	Outputs []Output `json:"outputs" yaml:"outputs"`
}

// MarkdownCell holds prose source lines.
type MarkdownCell struct {
	Source Lines `json:"source" yaml:"source"`
}

// OtherCell stands in for raw, heading, and any other unrecognized cell.
type OtherCell struct {
	Tag CellType `json:"cell_type" yaml:"cell_type"`
}

func (*CodeCell) Type() CellType     { return CellCode }
func (*MarkdownCell) Type() CellType { return CellMarkdown }
func (c *OtherCell) Type() CellType  { return c.Tag }

func (*CodeCell) sealedCell()     {}
func (*MarkdownCell) sealedCell() {}
func (*OtherCell) sealedCell()    {}

// Output is one captured result of a code cell. Text and Traceback are nil
// when the field is absent from the notebook, which is distinct from present
// but empty.
type Output struct {
	OutputType string `json:"output_type,omitempty" yaml:"output_type,omitempty"`

	// Text holds stream or plain-text result lines.
	Text *Lines `json:"text,omitempty" yaml:"text,omitempty"`

	// Traceback holds raw error lines, which may embed ANSI color sequences.
	Traceback *Lines `json:"traceback,omitempty" yaml:"traceback,omitempty"`
}

// Lines is a notebook multiline string. On disk it is either an array of
// strings or one string; a single string is split after each newline, with
// the terminators kept, to match the array form.
type Lines []string

// UnmarshalJSON accepts both representations of a multiline string.
func (l *Lines) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*l = nil
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitLines(s)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("multiline string must be a string or an array of strings: %w", err)
	}
	*l = Lines(arr)
	return nil
}

// SplitLines splits s after every newline, keeping the terminators. A
// trailing newline does not produce an empty final element.
func SplitLines(s string) Lines {
	if s == "" {
		return Lines{}
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return Lines(parts)
}
