package incsearch

import (
	"strings"
	"unicode/utf8"
)

// LineIndex maps between flat character offsets and (line, ch)
// positions. It stores, per line, the cumulative character count
// including the trailing line separator, packed as uint32 to keep the
// table at four bytes per line even for very large documents.
//
// The table treats every line as separator-terminated, including the
// final line, so the entry for the final line exceeds the document's
// character count by the separator width. Offset conversions account
// for this.
type LineIndex struct {
	cumulative []uint32
	sepLen     int
}

// BuildLineIndex scans the document text once and builds the cumulative
// table. Splitting once is faster than querying the document per line.
func BuildLineIndex(text, separator string) *LineIndex {
	if separator == "" {
		separator = "\n"
	}

	lines := strings.Split(text, separator)
	sepLen := utf8.RuneCountInString(separator)

	idx := &LineIndex{
		cumulative: make([]uint32, len(lines)),
		sepLen:     sepLen,
	}

	total := uint32(0)
	for i, line := range lines {
		total += uint32(utf8.RuneCountInString(line) + sepLen)
		idx.cumulative[i] = total
	}
	return idx
}

// LineCount returns the number of lines in the index.
func (idx *LineIndex) LineCount() int {
	return len(idx.cumulative)
}

// LineStart returns the character offset of the first character of the
// given line. Lines past the end clamp to the final entry.
func (idx *LineIndex) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	if line >= len(idx.cumulative) {
		line = len(idx.cumulative)
	}
	return int(idx.cumulative[line-1])
}

// End returns the highest offset the table covers: the cumulative count
// through the final line, separator included.
func (idx *LineIndex) End() int {
	if len(idx.cumulative) == 0 {
		return 0
	}
	return int(idx.cumulative[len(idx.cumulative)-1])
}

// IndexFromPos converts a position to a flat character offset. Lines
// past the end of the table clamp to the final line.
func (idx *LineIndex) IndexFromPos(pos Position) int {
	line := pos.Line
	if line < 0 {
		line = 0
	}
	if line >= len(idx.cumulative) {
		line = len(idx.cumulative) - 1
	}
	if line < 0 {
		return 0
	}
	return idx.LineStart(line) + pos.Ch
}

// PosFromIndex converts a flat character offset to a position by
// scanning forward from startLine. Successive conversions during match
// iteration pass the previous result's line as the hint, which keeps
// the amortized cost of a full scan at O(lines + matches); pass 0 when
// no hint is available. Offsets past the end of the table clamp to the
// final line.
func (idx *LineIndex) PosFromIndex(startLine, offset int) Position {
	if len(idx.cumulative) == 0 {
		return Position{}
	}
	if offset < 0 {
		offset = 0
	}

	line := startLine
	if line < 0 {
		line = 0
	}
	if line >= len(idx.cumulative) {
		line = len(idx.cumulative) - 1
	}

	// The hint may be past the target; back up first.
	for line > 0 && int(idx.cumulative[line-1]) > offset {
		line--
	}
	for line < len(idx.cumulative)-1 && int(idx.cumulative[line]) <= offset {
		line++
	}

	start := idx.LineStart(line)
	ch := offset - start
	if ch < 0 {
		ch = 0
	}
	return Position{Line: line, Ch: ch}
}
