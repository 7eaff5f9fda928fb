package incsearch

import (
	"sort"
	"unicode/utf8"
)

// matchGroupSize is the MatchTable tuple arity: (startOffset, endOffset).
const matchGroupSize = 2

// DefaultMaxResults bounds a scan when the caller does not supply a
// limit.
const DefaultMaxResults = 10_000_000

// MatchIndexer scans a document for all occurrences of a query and
// stores their offsets in a packed MatchTable. It provides offset
// lookup, cursor-style navigation, in-order iteration, and the bucketed
// line pattern used for minimap overlays.
//
// Offsets are measured in characters from the start of the document,
// matching the query engine's rune-based indices.
type MatchIndexer struct {
	docText   string
	runeCount int
	lineIndex *LineIndex
	query     *Query
	maxResults int

	table *GroupArray

	// lastMatchedLine accelerates successive offset-to-position
	// conversions; matches are visited in ascending order, so a linear
	// walk from the previous line beats bisection across a full scan.
	lastMatchedLine int
}

// NewMatchIndexer scans docText for all matches of query and returns
// the populated indexer. The scan is cursor-relative: it first collects
// matches from start to the end of the document, then wraps to cover
// the region before start, so that when maxResults truncates the scan
// the retained matches are the ones near the caller's position.
func NewMatchIndexer(docText string, lineIndex *LineIndex, query *Query, maxResults int, start Position) (*MatchIndexer, error) {
	if query == nil {
		return nil, ErrNoQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	mi := &MatchIndexer{
		docText:    docText,
		runeCount:  utf8.RuneCountInString(docText),
		lineIndex:  lineIndex,
		query:      query,
		maxResults: maxResults,
	}
	if err := mi.scan(start); err != nil {
		return nil, err
	}
	return mi, nil
}

// scan runs the two-phase cursor-relative scan and installs the result
// as the MatchTable.
func (mi *MatchIndexer) scan(start Position) error {
	s := mi.lineIndex.IndexFromPos(start)
	if s < 0 {
		s = 0
	}
	if s > mi.runeCount {
		s = mi.runeCount
	}

	primary := NewGroupArray(matchGroupSize)
	if err := mi.searchAndAddResultsToArray(primary, s, -1, mi.maxResults); err != nil {
		return err
	}

	if s == 0 || primary.ItemCount() >= mi.maxResults {
		mi.table = primary
		return nil
	}

	// Wrap: cover [0, s), keeping only matches that end at or before
	// the starting offset so the joined table stays in document order.
	secondary := NewGroupArray(matchGroupSize)
	if err := mi.searchAndAddResultsToArray(secondary, 0, s, mi.maxResults-primary.ItemCount()); err != nil {
		return err
	}

	// A match starting exactly at s is collected by both phases; drop
	// the duplicate at the join edge.
	if primary.ItemCount() > 0 && secondary.ItemCount() > 0 {
		last := secondary.ItemCount() - 1
		if secondary.GroupValue(last, 0) == primary.GroupValue(0, 0) &&
			secondary.GroupValue(last, 1) == primary.GroupValue(0, 1) {
			secondary.PopGroup()
		}
	}

	secondary.Concat(primary)
	mi.table = secondary
	return nil
}

// searchAndAddResultsToArray repeatedly executes the query from startAt
// and appends (start, end) pairs to table. A non-negative endCap keeps
// only matches ending at or before that offset. The limit counts
// matches; the group-size scaling happens here, against buffer indices.
func (mi *MatchIndexer) searchAndAddResultsToArray(table *GroupArray, startAt, endCap, limit int) error {
	pos := startAt
	for pos <= mi.runeCount && table.Len() < limit*matchGroupSize {
		m, err := mi.query.findMatchStartingAt(mi.docText, pos)
		if err != nil {
			return err
		}
		if m == nil {
			break
		}

		start := m.Index
		end := m.Index + m.Length
		if endCap >= 0 && end > endCap {
			break
		}

		table.Push(uint32(start))
		table.Push(uint32(end))

		pos = end
		if m.Length == 0 {
			// Zero-width match: advance by one to guarantee progress.
			pos++
		}
	}
	return nil
}

// MatchCount returns the number of stored matches. When the scan was
// truncated this equals the configured maximum and is a ceiling.
func (mi *MatchIndexer) MatchCount() int {
	return mi.table.ItemCount()
}

// MatchBounds returns the (start, end) character offsets of match k.
func (mi *MatchIndexer) MatchBounds(k int) (int, int) {
	return int(mi.table.GroupValue(k, 0)), int(mi.table.GroupValue(k, 1))
}

// MatchRange converts match k's offsets to positions, advancing the
// internal line hint.
func (mi *MatchIndexer) MatchRange(k int) Range {
	start, end := mi.MatchBounds(k)
	from := mi.lineIndex.PosFromIndex(mi.lastMatchedLine, start)
	to := mi.lineIndex.PosFromIndex(from.Line, end)
	mi.lastMatchedLine = to.Line
	return Range{From: from, To: to}
}

// CurrentMatchNumber returns the match number under the navigation
// cursor, or false when the cursor is at the sentinel.
func (mi *MatchIndexer) CurrentMatchNumber() (int, bool) {
	return mi.table.CurrentGroup()
}

// SetCurrentMatch places the navigation cursor on match k.
func (mi *MatchIndexer) SetCurrentMatch(k int) {
	mi.table.SetCurrentGroup(k)
}

// ResetCursor returns the navigation cursor to the "before first"
// sentinel.
func (mi *MatchIndexer) ResetCursor() {
	mi.table.ResetCursor()
}

// NextMatch advances the navigation cursor and returns the next match
// range. Past the last match it resets the cursor and reports false.
func (mi *MatchIndexer) NextMatch() (Range, bool) {
	gi, ok := mi.table.NextGroupIndex()
	if !ok {
		return Range{}, false
	}
	return mi.MatchRange(gi / matchGroupSize), true
}

// PrevMatch steps the navigation cursor back and returns the previous
// match range. Before the first match it resets the cursor and reports
// false.
func (mi *MatchIndexer) PrevMatch() (Range, bool) {
	gi, ok := mi.table.PrevGroupIndex()
	if !ok {
		return Range{}, false
	}
	return mi.MatchRange(gi / matchGroupSize), true
}

// FindResultIndexNearPos bisects the MatchTable by start offset. An
// exact hit returns that match. Otherwise the forward direction returns
// the first match starting after offset and the reverse direction the
// last match starting before it; false means no match lies in the
// requested direction. An empty table reports false.
func (mi *MatchIndexer) FindResultIndexNearPos(offset int, reverse bool) (int, bool) {
	n := mi.table.ItemCount()
	if n == 0 {
		return 0, false
	}

	k := sort.Search(n, func(i int) bool {
		return int(mi.table.GroupValue(i, 0)) >= offset
	})

	if !reverse {
		if k >= n {
			return 0, false
		}
		return k, true
	}

	if k < n && int(mi.table.GroupValue(k, 0)) == offset {
		return k, true
	}
	if k == 0 {
		return 0, false
	}
	return k - 1, true
}

// ForEachMatch visits every match in document order. Returning false
// from fn stops the iteration. The navigation cursor is unaffected.
func (mi *MatchIndexer) ForEachMatch(fn func(k int, r Range) bool) {
	n := mi.table.ItemCount()
	line := 0
	for k := 0; k < n; k++ {
		start, end := mi.MatchBounds(k)
		from := mi.lineIndex.PosFromIndex(line, start)
		to := mi.lineIndex.PosFromIndex(from.Line, end)
		line = to.Line
		if !fn(k, Range{From: from, To: to}) {
			return
		}
	}
}

// ForEachMatchWithinRange visits, in order, every match starting at or
// after from and beginning on a line no later than to.Line. Returning
// false from fn stops the iteration early.
func (mi *MatchIndexer) ForEachMatchWithinRange(from, to Position, fn func(k int, r Range) bool) {
	k, ok := mi.FindResultIndexNearPos(mi.lineIndex.IndexFromPos(from), false)
	if !ok {
		return
	}

	n := mi.table.ItemCount()
	line := from.Line
	for ; k < n; k++ {
		start, end := mi.MatchBounds(k)
		fromPos := mi.lineIndex.PosFromIndex(line, start)
		if fromPos.Line > to.Line {
			return
		}
		toPos := mi.lineIndex.PosFromIndex(fromPos.Line, end)
		line = toPos.Line
		if !fn(k, Range{From: fromPos, To: toPos}) {
			return
		}
	}
}

// FillPattern marks, for each match, the bucket covering the match's
// starting line. The caller provides a zeroed buffer; buckets are never
// cleared here. Returns the number of lines each bucket covers.
func (mi *MatchIndexer) FillPattern(out []byte) float64 {
	if len(out) == 0 {
		return 0
	}

	linesPerBucket := float64(mi.lineIndex.LineCount()) / float64(len(out))
	if linesPerBucket <= 0 {
		return linesPerBucket
	}

	n := mi.table.ItemCount()
	line := 0
	for k := 0; k < n; k++ {
		start, _ := mi.MatchBounds(k)
		pos := mi.lineIndex.PosFromIndex(line, start)
		line = pos.Line

		bucket := int(float64(pos.Line) / linesPerBucket)
		if bucket >= len(out) {
			bucket = len(out) - 1
		}
		out[bucket] = 1
	}
	return linesPerBucket
}
