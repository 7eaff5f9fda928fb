package incsearch

// ScanOptions configures a stateless document scan. Exactly one of
// SearchText, SearchPattern, and Query must be provided, along with a
// document and a callback.
type ScanOptions struct {
	Document      Document
	SearchText    string
	SearchPattern string
	Query         *Query

	// IgnoreCase folds case when compiling SearchText or
	// SearchPattern.
	IgnoreCase bool

	// Range restricts the scan; matches must lie entirely within it.
	// Nil scans the whole document.
	Range *Range

	// OnMatch is called for every match in document order. Returning
	// false stops the scan.
	OnMatch func(from, to Position, groups []string) bool
}

// ScanDocumentForMatches runs the query over the document and reports
// each match through the callback, retaining no state. It is the fast
// path for callers that need match positions and groups but not
// navigation.
func ScanDocumentForMatches(opts ScanOptions) error {
	if opts.Document == nil {
		return ErrNoDocument
	}
	if opts.OnMatch == nil {
		return ErrNoQuery
	}

	query, err := queryFromProperties(SearchProperties{
		SearchText:    opts.SearchText,
		SearchPattern: opts.SearchPattern,
		Query:         opts.Query,
		IgnoreCase:    opts.IgnoreCase,
	})
	if err != nil {
		return err
	}
	if query == nil {
		return ErrNoQuery
	}

	entry := cachedDocEntry(opts.Document)

	startAt := 0
	endCap := -1
	line := 0
	if opts.Range != nil {
		startAt = entry.lineIndex.IndexFromPos(opts.Range.From)
		endCap = entry.lineIndex.IndexFromPos(opts.Range.To)
		line = opts.Range.From.Line
	}

	total := entry.lineIndex.End()
	pos := startAt
	for pos <= total {
		m, err := query.findMatchStartingAt(entry.text, pos)
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

		from := entry.lineIndex.PosFromIndex(line, start)
		to := entry.lineIndex.PosFromIndex(from.Line, end)
		line = to.Line

		var groups []string
		for _, g := range m.Groups() {
			groups = append(groups, g.String())
		}
		if !opts.OnMatch(from, to, groups) {
			return nil
		}

		pos = end
		if m.Length == 0 {
			pos++
		}
	}
	return nil
}
