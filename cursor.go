package incsearch

// SearchProperties configures a SearchCursor. Fields left at their zero
// value keep the cursor's current setting, so the same struct serves
// both construction and partial updates.
//
// At most one of SearchText, SearchPattern, and Query may be set per
// call. IgnoreCase applies when SearchText or SearchPattern is being
// compiled.
type SearchProperties struct {
	// Document binds the cursor to a text source. Nil keeps the
	// current document.
	Document Document

	// SearchText is a literal query; metacharacters match themselves.
	SearchText string

	// SearchPattern is a regular-expression query source.
	SearchPattern string

	// Query is a precompiled query, for callers that validate
	// patterns up front.
	Query *Query

	// IgnoreCase folds case when compiling SearchText or
	// SearchPattern.
	IgnoreCase bool

	// Position seeds the cursor so the next Find starts near it.
	Position *Range

	// MaxResults caps the number of stored matches. Zero keeps the
	// current cap (DefaultMaxResults initially).
	MaxResults int
}

// MatchInfo is the full description of one match: its positions and the
// capture groups recovered by re-executing the query at the stored
// offset. Groups[0] is the whole match.
type MatchInfo struct {
	From   Position
	To     Position
	Groups []string
}

// LinePattern is a bucketed overview of which document regions contain
// matches, sized for minimap rendering.
type LinePattern struct {
	LinesPerBucket float64
	Buckets        []byte
}

// SearchCursor binds a document, a query, and a position into a
// navigable search session. Results are computed lazily and recomputed
// when the query changes or the document's revision moves.
//
// A cursor is a single-goroutine object; all operations are synchronous
// and run to completion, bounded by MaxResults.
type SearchCursor struct {
	doc        Document
	query      *Query
	maxResults int

	currentPosition *Range
	atOccurrence    bool
	resultsCurrent  bool

	indexer         *MatchIndexer
	indexedRevision uint64
	indexedEntry    *docEntry
}

// NewSearchCursor creates a cursor from the given properties. Document
// and query may be supplied later via SetSearchDocumentAndQuery.
func NewSearchCursor(props SearchProperties) (*SearchCursor, error) {
	sc := &SearchCursor{maxResults: DefaultMaxResults}
	if err := sc.SetSearchDocumentAndQuery(props); err != nil {
		return nil, err
	}
	return sc, nil
}

// SetSearchDocumentAndQuery applies a partial update: any field present
// replaces the current value. A query that fails to compile leaves the
// previous query in place and returns the error. Changing the query
// source or its case folding invalidates the stored results; the cursor
// always leaves this call off any occurrence.
func (sc *SearchCursor) SetSearchDocumentAndQuery(props SearchProperties) error {
	query, err := queryFromProperties(props)
	if err != nil {
		return err
	}
	if query != nil && !query.equals(sc.query) {
		sc.query = query
		sc.resultsCurrent = false
	}

	if props.Document != nil && props.Document != sc.doc {
		sc.doc = props.Document
		sc.resultsCurrent = false
	}

	if props.MaxResults > 0 && props.MaxResults != sc.maxResults {
		sc.maxResults = props.MaxResults
		sc.resultsCurrent = false
	}

	if props.Position != nil {
		pos := *props.Position
		sc.currentPosition = &pos
	}

	sc.atOccurrence = false
	return nil
}

// queryFromProperties compiles whichever query field is present.
func queryFromProperties(props SearchProperties) (*Query, error) {
	set := 0
	if props.SearchText != "" {
		set++
	}
	if props.SearchPattern != "" {
		set++
	}
	if props.Query != nil {
		set++
	}
	if set > 1 {
		return nil, ErrInvalidQuery
	}

	switch {
	case props.Query != nil:
		return props.Query, nil
	case props.SearchText != "":
		return NewTextQuery(props.SearchText, props.IgnoreCase)
	case props.SearchPattern != "":
		return NewRegexQuery(props.SearchPattern, props.IgnoreCase)
	}
	return nil, nil
}

// ensureResults performs the lazy refresh: reindex when the document
// revision moved, rescan when the query or configuration changed.
func (sc *SearchCursor) ensureResults() error {
	if sc.doc == nil {
		return ErrNoDocument
	}
	if sc.query == nil {
		return ErrNoQuery
	}

	if sc.resultsCurrent && sc.indexer != nil &&
		sc.indexedRevision == sc.doc.Revision() {
		return nil
	}

	entry := cachedDocEntry(sc.doc)

	seed := Position{}
	if sc.currentPosition != nil {
		seed = sc.currentPosition.From
	}

	indexer, err := NewMatchIndexer(entry.text, entry.lineIndex, sc.query, sc.maxResults, seed)
	if err != nil {
		return err
	}

	sc.indexer = indexer
	sc.indexedEntry = entry
	sc.indexedRevision = entry.revision
	sc.resultsCurrent = true
	sc.atOccurrence = false
	return nil
}

// Find returns the next match in the given direction, or nil when the
// document boundary is reached. After a nil result the cursor is off
// any occurrence, so the following Find reseeds from the corresponding
// boundary and wraps around.
func (sc *SearchCursor) Find(reverse bool) (*Range, error) {
	if err := sc.ensureResults(); err != nil {
		return nil, err
	}

	if !sc.atOccurrence {
		var offset int
		switch {
		case sc.currentPosition != nil:
			offset = sc.indexer.lineIndex.IndexFromPos(sc.currentPosition.From)
		case reverse:
			offset = sc.indexer.runeCount
		default:
			offset = 0
		}

		k, ok := sc.indexer.FindResultIndexNearPos(offset, reverse)
		if !ok {
			return nil, nil
		}
		sc.indexer.SetCurrentMatch(k)
		r := sc.indexer.MatchRange(k)
		sc.currentPosition = &r
		sc.atOccurrence = true
		return &r, nil
	}

	var r Range
	var ok bool
	if reverse {
		r, ok = sc.indexer.PrevMatch()
	} else {
		r, ok = sc.indexer.NextMatch()
	}
	if !ok {
		sc.atOccurrence = false
		sc.currentPosition = nil
		return nil, nil
	}

	sc.currentPosition = &r
	sc.atOccurrence = true
	return &r, nil
}

// GetMatchCount returns the number of indexed matches, refreshing
// results if needed. When the scan was truncated the count equals the
// configured maximum and is a ceiling.
func (sc *SearchCursor) GetMatchCount() (int, error) {
	if err := sc.ensureResults(); err != nil {
		return 0, err
	}
	return sc.indexer.MatchCount(), nil
}

// GetCurrentMatchNumber returns the zero-based number of the current
// match, or -1 when the cursor is not at a match.
func (sc *SearchCursor) GetCurrentMatchNumber() int {
	if !sc.atOccurrence || sc.indexer == nil {
		return -1
	}
	k, ok := sc.indexer.CurrentMatchNumber()
	if !ok {
		return -1
	}
	return k
}

// CurrentPosition returns the range of the last match found or the
// explicit seed, or nil when neither is set.
func (sc *SearchCursor) CurrentPosition() *Range {
	if sc.currentPosition == nil {
		return nil
	}
	r := *sc.currentPosition
	return &r
}

// AtOccurrence reports whether the cursor currently sits on a real
// match.
func (sc *SearchCursor) AtOccurrence() bool {
	return sc.atOccurrence
}

// ForEachMatch visits every match in document order. Returning false
// from fn stops the iteration. The cursor's navigation state is not
// disturbed.
func (sc *SearchCursor) ForEachMatch(fn func(r Range) bool) error {
	if err := sc.ensureResults(); err != nil {
		return err
	}
	sc.indexer.ForEachMatch(func(_ int, r Range) bool {
		return fn(r)
	})
	return nil
}

// ForEachMatchWithinRange visits matches starting at or after from and
// beginning on a line no later than to.Line, in document order.
func (sc *SearchCursor) ForEachMatchWithinRange(from, to Position, fn func(r Range) bool) error {
	if err := sc.ensureResults(); err != nil {
		return err
	}
	sc.indexer.ForEachMatchWithinRange(from, to, func(_ int, r Range) bool {
		return fn(r)
	})
	return nil
}

// GetFullInfoForCurrentMatch re-executes the query at the current
// match's start offset to recover capture groups, which the MatchTable
// does not store to keep match lists compact. Returns nil when the
// cursor is not at a match.
func (sc *SearchCursor) GetFullInfoForCurrentMatch() (*MatchInfo, error) {
	if err := sc.ensureResults(); err != nil {
		return nil, err
	}
	if !sc.atOccurrence {
		return nil, nil
	}
	k, ok := sc.indexer.CurrentMatchNumber()
	if !ok {
		return nil, nil
	}

	start, end := sc.indexer.MatchBounds(k)
	m, err := sc.query.findMatchStartingAt(sc.indexedEntry.text, start)
	if err != nil {
		return nil, err
	}

	info := &MatchInfo{
		From: sc.indexer.lineIndex.PosFromIndex(0, start),
		To:   sc.indexer.lineIndex.PosFromIndex(0, end),
	}
	if m != nil && m.Index == start {
		for _, g := range m.Groups() {
			info.Groups = append(info.Groups, g.String())
		}
	}
	return info, nil
}

// CreateMatchedLinePattern builds a bucketed overview of matched lines
// for minimap rendering.
func (sc *SearchCursor) CreateMatchedLinePattern(bucketCount int) (*LinePattern, error) {
	if bucketCount <= 0 {
		return nil, ErrInvalidBucketCount
	}
	if err := sc.ensureResults(); err != nil {
		return nil, err
	}

	buckets := make([]byte, bucketCount)
	linesPerBucket := sc.indexer.FillPattern(buckets)
	return &LinePattern{LinesPerBucket: linesPerBucket, Buckets: buckets}, nil
}

// ScanDocumentAndStoreResultsInCursor forces a fresh scan regardless of
// cached state and returns the match count.
func (sc *SearchCursor) ScanDocumentAndStoreResultsInCursor() (int, error) {
	sc.resultsCurrent = false
	if err := sc.ensureResults(); err != nil {
		return 0, err
	}
	return sc.indexer.MatchCount(), nil
}
