package incsearch

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// Query is a compiled search query. String queries are escaped and
// compiled as literal patterns; regex queries keep only their source
// pattern, with flags reset to multiline (+ case folding when
// requested) regardless of any flags the host attached.
//
// The engine is regexp2, which matches over characters (runes), so
// match indices line up with the engine's character-offset model, and
// zero-width assertions such as (?=x) are supported.
type Query struct {
	source     string
	ignoreCase bool
	literal    bool
	re         *regexp2.Regexp
}

// NewTextQuery compiles a literal text query. The text is escaped so
// regex metacharacters match themselves.
func NewTextQuery(text string, ignoreCase bool) (*Query, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	return compileQuery(regexp2.Escape(text), ignoreCase, true)
}

// NewRegexQuery compiles a regular-expression query from its source
// pattern.
func NewRegexQuery(pattern string, ignoreCase bool) (*Query, error) {
	if pattern == "" {
		return nil, ErrEmptyQuery
	}
	return compileQuery(pattern, ignoreCase, false)
}

func compileQuery(pattern string, ignoreCase, literal bool) (*Query, error) {
	opts := regexp2.RegexOptions(regexp2.Multiline)
	if ignoreCase {
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	return &Query{
		source:     pattern,
		ignoreCase: ignoreCase,
		literal:    literal,
		re:         re,
	}, nil
}

// Source returns the compiled source pattern (post-escaping for literal
// queries).
func (q *Query) Source() string {
	return q.source
}

// IgnoreCase reports whether the query folds case.
func (q *Query) IgnoreCase() bool {
	return q.ignoreCase
}

// Literal reports whether the query was compiled from escaped text.
func (q *Query) Literal() bool {
	return q.literal
}

// SetMatchTimeout bounds the time the engine may spend on a single
// match attempt. Zero means no bound.
func (q *Query) SetMatchTimeout(d time.Duration) {
	if d <= 0 {
		d = regexp2.DefaultMatchTimeout
	}
	q.re.MatchTimeout = d
}

// equals reports whether two queries would index identically.
func (q *Query) equals(other *Query) bool {
	if q == nil || other == nil {
		return q == other
	}
	return q.source == other.source && q.ignoreCase == other.ignoreCase
}

// findMatchStartingAt runs the query against text from the given
// character offset. A nil match means no further occurrence.
func (q *Query) findMatchStartingAt(text string, startAt int) (*regexp2.Match, error) {
	// FindStringMatchStartingAt takes a byte index; the rune form takes
	// the character offset the engine works in.
	runes := []rune(text)
	if startAt > len(runes) {
		return nil, nil
	}
	m, err := q.re.FindRunesMatchStartingAt(runes, startAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return m, nil
}
