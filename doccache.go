package incsearch

import "sync"

// docEntry is an immutable snapshot of a document at one revision.
// Entries are replaced wholesale when the revision changes, so a caller
// holding an entry can keep using it for the duration of a call even if
// the cache moves on.
type docEntry struct {
	text      string
	lineIndex *LineIndex
	revision  uint64
}

// documentCache is the process-wide mapping from document identity to
// its indexed snapshot. Go offers no weak interface-keyed maps, so
// entries live until the revision changes or the host calls
// ReleaseDocument when it drops a document.
var documentCache = struct {
	mu      sync.RWMutex
	entries map[Document]*docEntry
}{
	entries: make(map[Document]*docEntry),
}

// needToIndex reports whether doc has no cached snapshot at its current
// revision. Revision counters are used rather than timestamps because
// undo typically reverts timestamps but still advances the counter.
func needToIndex(doc Document) bool {
	documentCache.mu.RLock()
	entry := documentCache.entries[doc]
	documentCache.mu.RUnlock()
	return entry == nil || entry.revision != doc.Revision()
}

// cachedDocEntry returns the snapshot for doc at its current revision,
// building and caching one when missing or stale.
func cachedDocEntry(doc Document) *docEntry {
	rev := doc.Revision()

	documentCache.mu.RLock()
	entry := documentCache.entries[doc]
	documentCache.mu.RUnlock()
	if entry != nil && entry.revision == rev {
		return entry
	}

	text := doc.GetValue()
	entry = &docEntry{
		text:      text,
		lineIndex: BuildLineIndex(text, doc.LineSeparator()),
		revision:  rev,
	}

	documentCache.mu.Lock()
	documentCache.entries[doc] = entry
	documentCache.mu.Unlock()
	return entry
}

// ReleaseDocument drops the cached snapshot for doc. Hosts call this
// when a document is closed; cursors bound to the document simply
// reindex on their next use.
func ReleaseDocument(doc Document) {
	documentCache.mu.Lock()
	delete(documentCache.entries, doc)
	documentCache.mu.Unlock()
}
