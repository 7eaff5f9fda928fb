package incsearch

import (
	"errors"
	"testing"
)

// ====================
// Compilation Tests
// ====================

func TestTextQueryEscapesMetacharacters(t *testing.T) {
	q, err := NewTextQuery("a.c", false)
	if err != nil {
		t.Fatalf("NewTextQuery error: %v", err)
	}
	if !q.Literal() {
		t.Error("Expected literal query")
	}

	m, err := q.findMatchStartingAt("abc a.c", 0)
	if err != nil {
		t.Fatalf("findMatchStartingAt error: %v", err)
	}
	if m == nil {
		t.Fatal("Expected match, got nil")
	}
	if m.Index != 4 {
		t.Errorf("Expected literal match at 4, got %d", m.Index)
	}
}

func TestRegexQuery(t *testing.T) {
	q, err := NewRegexQuery(`\d+`, false)
	if err != nil {
		t.Fatalf("NewRegexQuery error: %v", err)
	}
	if q.Literal() {
		t.Error("Expected non-literal query")
	}

	m, err := q.findMatchStartingAt("abc 42 def", 0)
	if err != nil {
		t.Fatalf("findMatchStartingAt error: %v", err)
	}
	if m == nil || m.Index != 4 || m.Length != 2 {
		t.Fatalf("Expected match (4,2), got %v", m)
	}
}

func TestEmptyQueryRejected(t *testing.T) {
	if _, err := NewTextQuery("", false); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Expected ErrEmptyQuery, got %v", err)
	}
	if _, err := NewRegexQuery("", true); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Expected ErrEmptyQuery, got %v", err)
	}
}

func TestInvalidPatternRejected(t *testing.T) {
	if _, err := NewRegexQuery("(unclosed", false); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery, got %v", err)
	}
}

func TestIgnoreCase(t *testing.T) {
	q, err := NewTextQuery("Hello", true)
	if err != nil {
		t.Fatalf("NewTextQuery error: %v", err)
	}
	if !q.IgnoreCase() {
		t.Error("Expected case-folded query")
	}

	m, err := q.findMatchStartingAt("say HELLO", 0)
	if err != nil {
		t.Fatalf("findMatchStartingAt error: %v", err)
	}
	if m == nil || m.Index != 4 {
		t.Fatalf("Expected folded match at 4, got %v", m)
	}
}

// ====================
// Matching Tests
// ====================

func TestFindMatchStartingAtResumes(t *testing.T) {
	q, _ := NewTextQuery("ab", false)

	m, err := q.findMatchStartingAt("ab ab", 1)
	if err != nil {
		t.Fatalf("findMatchStartingAt error: %v", err)
	}
	if m == nil || m.Index != 3 {
		t.Fatalf("Expected match at 3, got %v", m)
	}

	m, err = q.findMatchStartingAt("ab ab", 4)
	if err != nil {
		t.Fatalf("findMatchStartingAt error: %v", err)
	}
	if m != nil {
		t.Errorf("Expected no match past last occurrence, got %v", m)
	}
}

func TestMultilineAnchors(t *testing.T) {
	q, err := NewRegexQuery("^b", false)
	if err != nil {
		t.Fatalf("NewRegexQuery error: %v", err)
	}

	m, err := q.findMatchStartingAt("abc\nbcd", 0)
	if err != nil {
		t.Fatalf("findMatchStartingAt error: %v", err)
	}
	if m == nil || m.Index != 4 {
		t.Fatalf("Expected line-anchored match at 4, got %v", m)
	}
}

func TestLookaheadSupported(t *testing.T) {
	q, err := NewRegexQuery("a(?=b)", false)
	if err != nil {
		t.Fatalf("NewRegexQuery error: %v", err)
	}

	m, err := q.findMatchStartingAt("ac ab", 0)
	if err != nil {
		t.Fatalf("findMatchStartingAt error: %v", err)
	}
	if m == nil || m.Index != 3 || m.Length != 1 {
		t.Fatalf("Expected lookahead match (3,1), got %v", m)
	}
}

func TestQueryEquals(t *testing.T) {
	a, _ := NewTextQuery("abc", false)
	b, _ := NewTextQuery("abc", false)
	c, _ := NewTextQuery("abc", true)
	d, _ := NewTextQuery("abd", false)

	if !a.equals(b) {
		t.Error("Identical queries should be equal")
	}
	if a.equals(c) {
		t.Error("Case folding should distinguish queries")
	}
	if a.equals(d) {
		t.Error("Different sources should not be equal")
	}
	if a.equals(nil) {
		t.Error("Non-nil query should not equal nil")
	}
}
