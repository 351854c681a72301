package vault

import (
	"fmt"
	"sort"
	"strings"
)

// MemStore is an in-memory Store. It backs tests and preview runs that
// must not touch the real vault.
type MemStore struct {
	docs map[string]string
}

// NewMemStore creates an empty MemStore
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]string)}
}

// Put seeds a document, creating or replacing it
func (ms *MemStore) Put(id, text string) {
	ms.docs[id] = text
}

// Exists reports whether a document with the given ID exists
func (ms *MemStore) Exists(id string) bool {
	_, ok := ms.docs[id]
	return ok
}

// Read returns the full text of a document
func (ms *MemStore) Read(id string) (string, error) {
	text, ok := ms.docs[id]
	if !ok {
		return "", fmt.Errorf("document not found: %s", id)
	}
	return text, nil
}

// Write replaces the text of an existing document
func (ms *MemStore) Write(id string, text string) error {
	if _, ok := ms.docs[id]; !ok {
		return fmt.Errorf("document not found: %s", id)
	}
	ms.docs[id] = text
	return nil
}

// Create creates a new document with the given text
func (ms *MemStore) Create(id string, text string) error {
	if _, ok := ms.docs[id]; ok {
		return fmt.Errorf("document already exists: %s", id)
	}
	ms.docs[id] = text
	return nil
}

// ListCollection returns the documents whose IDs sit directly under the
// named collection prefix, ordered by basename
func (ms *MemStore) ListCollection(name string) ([]Entry, error) {
	prefix := name + "/"

	entries := []Entry{}
	for id := range ms.docs {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		rest := strings.TrimPrefix(id, prefix)
		if strings.Contains(rest, "/") || !strings.HasSuffix(rest, ".md") {
			continue
		}
		entries = append(entries, Entry{
			ID:       id,
			Basename: strings.TrimSuffix(rest, ".md"),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Basename < entries[j].Basename
	})

	return entries, nil
}
