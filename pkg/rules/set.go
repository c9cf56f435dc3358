package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Set is an immutable snapshot of a full load session's documents. Resolution
// always operates against an explicit Set, never ambient state, so concurrent
// sessions and reloads cannot interfere with each other.
type Set struct {
	docs map[string]*Document
	ids  []string
	hash string
}

// NewSet collects documents into a [Set]. IDs must be unique.
func NewSet(docs ...*Document) (*Set, error) {
	byID := make(map[string]*Document, len(docs))
	ids := make([]string, 0, len(docs))

	for _, d := range docs {
		if _, exists := byID[d.ID]; exists {
			return nil, &DuplicateDocumentError{ID: d.ID}
		}

		byID[d.ID] = d
		ids = append(ids, d.ID)
	}

	sort.Strings(ids)

	return &Set{
		docs: byID,
		ids:  ids,
		hash: hashFingerprints(byID, ids),
	}, nil
}

// MustNewSet collects documents into a [Set] and panics on duplicate IDs.
func MustNewSet(docs ...*Document) *Set {
	s, err := NewSet(docs...)
	if err != nil {
		panic(err)
	}

	return s
}

// Get returns the document with the given ID.
func (s *Set) Get(id string) (*Document, bool) {
	d, ok := s.docs[id]

	return d, ok
}

// IDs returns all document IDs in ascending order.
func (s *Set) IDs() []string {
	return s.ids
}

// Len returns the number of documents in the set.
func (s *Set) Len() int {
	return len(s.ids)
}

// Hash is the session-wide fingerprint-set hash. It changes whenever any
// document's content changes, or documents are added or removed, which makes
// it suitable as a cache key component.
func (s *Set) Hash() string {
	return s.hash
}

func hashFingerprints(docs map[string]*Document, ids []string) string {
	h := sha256.New()

	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
		h.Write([]byte(docs[id].Fingerprint))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
