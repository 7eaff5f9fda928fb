package incsearch

import "testing"

// ====================
// Cache Tests
// ====================

func TestCachedDocEntryReused(t *testing.T) {
	doc := NewTextDocument("ab\ncd")
	defer ReleaseDocument(doc)

	first := cachedDocEntry(doc)
	second := cachedDocEntry(doc)
	if first != second {
		t.Error("Expected the same entry while the revision is unchanged")
	}
	if first.text != "ab\ncd" {
		t.Errorf("Unexpected cached text %q", first.text)
	}
	if first.lineIndex.LineCount() != 2 {
		t.Errorf("Expected 2 indexed lines, got %d", first.lineIndex.LineCount())
	}
}

func TestCachedDocEntryRebuildOnRevision(t *testing.T) {
	doc := NewTextDocument("ab")
	defer ReleaseDocument(doc)

	stale := cachedDocEntry(doc)
	doc.SetValue("ab\ncd\nef")

	fresh := cachedDocEntry(doc)
	if fresh == stale {
		t.Fatal("Expected a new entry after the revision moved")
	}
	if fresh.text != "ab\ncd\nef" {
		t.Errorf("Unexpected text %q", fresh.text)
	}
	if fresh.revision != doc.Revision() {
		t.Errorf("Entry revision %d does not match document %d", fresh.revision, doc.Revision())
	}

	// The stale entry stays usable for callers still holding it.
	if stale.text != "ab" {
		t.Errorf("Stale entry mutated: %q", stale.text)
	}
}

func TestNeedToIndex(t *testing.T) {
	doc := NewTextDocument("ab")
	defer ReleaseDocument(doc)

	if !needToIndex(doc) {
		t.Error("Expected uncached document to need indexing")
	}

	cachedDocEntry(doc)
	if needToIndex(doc) {
		t.Error("Expected cached document not to need indexing")
	}

	doc.SetValue("cd")
	if !needToIndex(doc) {
		t.Error("Expected edited document to need indexing")
	}
}

func TestReleaseDocument(t *testing.T) {
	doc := NewTextDocument("ab")

	cachedDocEntry(doc)
	ReleaseDocument(doc)
	if !needToIndex(doc) {
		t.Error("Expected released document to need indexing")
	}

	// Releasing twice is harmless.
	ReleaseDocument(doc)
}
