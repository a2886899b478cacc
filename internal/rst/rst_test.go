// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rst

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nbrst/pkg/types"
)

// title is the placeholder first cell every worksheet starts with.
var title = &types.MarkdownCell{Source: types.Lines{"# Notebook title"}}

func lines(s ...string) *types.Lines {
	l := types.Lines(s)
	return &l
}

func docOf(cells ...types.Cell) types.Document {
	return types.Document{Worksheets: []types.Worksheet{{Cells: append([]types.Cell{title}, cells...)}}}
}

func TestTransform_CodeCell(t *testing.T) {
	tests := []struct {
		name string
		cell *types.CodeCell
		want []string
	}{
		{
			name: "hidden marker line dropped",
			cell: &types.CodeCell{
				Input:   types.Lines{"x = 1\n", "##\n", "print(x)"},
				Outputs: []types.Output{{Text: lines("1\n")}},
			},
			want: []string{"", ".. code-block:: python", "", "    x = 1", "    print(x)", "", "::", "", "    1"},
		},
		{
			name: "no outputs drops literal block",
			cell: &types.CodeCell{Input: types.Lines{"a = 2"}},
			want: []string{"", ".. code-block:: python", "", "    a = 2", ""},
		},
		{
			name: "outputs without text drop literal block",
			cell: &types.CodeCell{
				Input:   types.Lines{"plot()"},
				Outputs: []types.Output{{OutputType: "display_data"}},
			},
			want: []string{"", ".. code-block:: python", "", "    plot()", ""},
		},
		{
			name: "leading empty text line skipped",
			cell: &types.CodeCell{
				Input:   types.Lines{"f()"},
				Outputs: []types.Output{{Text: lines("", "a  ", "", "b")}},
			},
			want: []string{"", ".. code-block:: python", "", "    f()", "", "::", "", "    a", "    ", "    b"},
		},
		{
			name: "trailing whitespace trimmed from source",
			cell: &types.CodeCell{
				Input:   types.Lines{"y = 3   \n", "##   "},
				Outputs: []types.Output{},
			},
			want: []string{"", ".. code-block:: python", "", "    y = 3", ""},
		},
		{
			name: "traceback stripped and split",
			cell: &types.CodeCell{
				Input: types.Lines{"1/0"},
				Outputs: []types.Output{{
					OutputType: "pyerr",
					Traceback:  lines("\x1b[0;31mZeroDivisionError\x1b[0m  Traceback\n\x1b[1;32m----> 1\x1b[0m 1/0", "\x1b[31merror\x1b[0m"),
				}},
			},
			want: []string{
				"", ".. code-block:: python", "", "    1/0", "", "::", "",
				"    ZeroDivisionError  Traceback",
				"    ----> 1 1/0",
				"    error",
			},
		},
		{
			name: "text wins over traceback",
			cell: &types.CodeCell{
				Input:   types.Lines{"x"},
				Outputs: []types.Output{{Text: lines("out"), Traceback: lines("tb")}},
			},
			want: []string{"", ".. code-block:: python", "", "    x", "", "::", "", "    out"},
		},
		{
			name: "empty source keeps framing",
			cell: &types.CodeCell{Input: types.Lines{}},
			want: []string{"", ".. code-block:: python", "", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(docOf(tt.cell), Options{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransform_MarkdownCell(t *testing.T) {
	tests := []struct {
		name   string
		source types.Lines
		want   []string
	}{
		{
			name:   "heading underlined",
			source: types.Lines{"## Title"},
			want:   []string{"", "Title", "-----"},
		},
		{
			name:   "heading underline counts characters not bytes",
			source: types.Lines{"## Café ✓\n"},
			want:   []string{"", "Café ✓", "------"},
		},
		{
			name:   "image directive",
			source: types.Lines{"![a cat](http://x/cat.png)"},
			want:   []string{"", ".. image:: http://x/cat.png", "   :alt: a cat"},
		},
		{
			name:   "image link drops only a final paren",
			source: types.Lines{"![a](b.png)."},
			want:   []string{"", ".. image:: b.png).", "   :alt: a"},
		},
		{
			name:   "image link without closing paren kept whole",
			source: types.Lines{"![a](b.png"},
			want:   []string{"", ".. image:: b.png", "   :alt: a"},
		},
		{
			name:   "image caption may be empty",
			source: types.Lines{"![](x.svg)"},
			want:   []string{"", ".. image:: x.svg", "   :alt: "},
		},
		{
			name:   "image without separator is prose",
			source: types.Lines{"![not an image"},
			want:   []string{"", "![not an image"},
		},
		{
			name:   "backticks doubled",
			source: types.Lines{"use `len(x)` here  \n"},
			want:   []string{"", "use ``len(x)`` here"},
		},
		{
			name:   "level one and three headings are prose",
			source: types.Lines{"# Top", "### Deep", "##NoSpace"},
			want:   []string{"", "# Top", "### Deep", "##NoSpace"},
		},
		{
			name:   "mixed lines",
			source: types.Lines{"## Setup\n", "\n", "Run `make`.\n", "![diagram](img/d.svg)\n"},
			want: []string{
				"", "Setup", "-----", "", "Run ``make``.",
				".. image:: img/d.svg", "   :alt: diagram",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(docOf(&types.MarkdownCell{Source: tt.source}), Options{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransform_SkipsFirstCellOfEachWorksheet(t *testing.T) {
	doc := types.Document{Worksheets: []types.Worksheet{
		{Cells: []types.Cell{&types.MarkdownCell{Source: types.Lines{"## Hidden"}}}},
		{Cells: nil},
		{Cells: []types.Cell{
			&types.CodeCell{Input: types.Lines{"skipped()"}},
			&types.MarkdownCell{Source: types.Lines{"kept"}},
		}},
	}}

	got, stats := TransformWithStats(doc, Options{})

	assert.Equal(t, []string{"", "kept"}, got)
	assert.Equal(t, Stats{MarkdownCells: 1, Skipped: 2, Lines: 2}, stats)
}

func TestTransform_UnknownCellTypesIgnored(t *testing.T) {
	doc := docOf(
		&types.OtherCell{Tag: "raw"},
		&types.OtherCell{Tag: "heading"},
		&types.MarkdownCell{Source: types.Lines{"text"}},
	)

	got, stats := TransformWithStats(doc, Options{})

	assert.Equal(t, []string{"", "text"}, got)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 1, stats.MarkdownCells)
}

func TestTransform_Language(t *testing.T) {
	got := Transform(docOf(&types.CodeCell{Input: types.Lines{"1 + 1"}}), Options{Language: "julia"})
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, ".. code-block:: julia", got[1])
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	text := lines("", "result")
	cell := &types.CodeCell{Input: types.Lines{"f()  "}, Outputs: []types.Output{{Text: text}}}

	Transform(docOf(cell), Options{})

	assert.Equal(t, types.Lines{"", "result"}, *text)
	assert.Equal(t, types.Lines{"f()  "}, cell.Input)
}

func TestTransform_HiddenMarkerNeverRendered(t *testing.T) {
	cell := &types.CodeCell{
		Input:   types.Lines{"##", "a()", "##  \n", "b()", "##"},
		Outputs: []types.Output{{Text: lines("done")}},
	}

	for _, line := range Transform(docOf(cell), Options{}) {
		assert.NotEqual(t, "##", strings.TrimSpace(line))
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []string{"", "Title", "-----"}))
	assert.Equal(t, "\nTitle\n-----\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_Error(t *testing.T) {
	err := Write(failingWriter{}, []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRstrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "x = 1  \n", want: "x = 1"},
		{in: "tab\t\r\n", want: "tab"},
		{in: "sep\x1c\x1d\x1e\x1f", want: "sep"},
		{in: "nbsp\u00a0\u2003", want: "nbsp"},
		{in: "  lead kept", want: "  lead kept"},
		{in: "bell\x07", want: "bell\x07"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rstrip(tt.in), "rstrip(%q)", tt.in)
	}
}

func TestTransform_SeparatorsTrimmedFromSource(t *testing.T) {
	cell := &types.CodeCell{Input: types.Lines{"##\x1f", "y\x1e"}}
	got := Transform(docOf(cell), Options{})
	assert.Equal(t, []string{"", ".. code-block:: python", "", "    y", ""}, got)
}
