package format

import (
	"sort"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count runes.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// LineIndex maps byte offsets of a source text to line positions.
type LineIndex struct {
	src    string
	starts []int
}

func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// Line returns the 0-based line containing offset.
func (idx *LineIndex) Line(offset int) int {
	offset = idx.clamp(offset)
	return sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > offset }) - 1
}

func (idx *LineIndex) Position(offset int) Position {
	offset = idx.clamp(offset)
	line := idx.Line(offset)
	col := utf8.RuneCountInString(idx.src[idx.starts[line]:offset])
	return Position{Line: line + 1, Column: col + 1}
}

// UTF16Position returns the 0-based line and the UTF-16 code unit column of
// offset, as language server clients count them.
func (idx *LineIndex) UTF16Position(offset int) (line, character int) {
	offset = idx.clamp(offset)
	line = idx.Line(offset)
	for _, r := range idx.src[idx.starts[line]:offset] {
		if r >= 0x10000 {
			character += 2
		} else {
			character++
		}
	}
	return line, character
}

// Offset converts a 0-based line and UTF-16 column back to a byte offset.
func (idx *LineIndex) Offset(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(idx.starts) {
		return len(idx.src)
	}
	offset := idx.starts[line]
	for i, r := range idx.src[offset:] {
		if character <= 0 || r == '\n' {
			return offset + i
		}
		if r >= 0x10000 {
			character -= 2
		} else {
			character--
		}
	}
	return len(idx.src)
}

func (idx *LineIndex) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(idx.src) {
		return len(idx.src)
	}
	return offset
}
