package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Entry describes one document in a collection listing.
type Entry struct {
	ID       string // opaque path-like identifier, usable with Read/Write
	Basename string // file name without extension
}

// Store is the document storage contract. IDs are opaque path-like
// strings; the engine never interprets storage errors beyond
// success/failure.
type Store interface {
	// Exists reports whether a document with the given ID exists
	Exists(id string) bool

	// Read returns the full text of a document
	Read(id string) (string, error)

	// Write replaces the text of an existing document
	Write(id string, text string) error

	// Create creates a new document with the given text
	Create(id string, text string) error

	// ListCollection returns the documents in a named collection,
	// ordered by basename
	ListCollection(name string) ([]Entry, error)
}

// FileStore implements Store on a directory tree of markdown documents
type FileStore struct {
	root   string
	logger *zap.Logger
}

// NewFileStore creates a FileStore rooted at the given directory
func NewFileStore(root string, logger *zap.Logger) *FileStore {
	return &FileStore{
		root:   root,
		logger: logger,
	}
}

func (fs *FileStore) path(id string) string {
	return filepath.Join(fs.root, filepath.FromSlash(id))
}

// Exists reports whether a document with the given ID exists
func (fs *FileStore) Exists(id string) bool {
	info, err := os.Stat(fs.path(id))
	return err == nil && !info.IsDir()
}

// Read returns the full text of a document
func (fs *FileStore) Read(id string) (string, error) {
	data, err := os.ReadFile(fs.path(id))
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", id, err)
	}
	return string(data), nil
}

// Write replaces the text of an existing document
func (fs *FileStore) Write(id string, text string) error {
	if err := os.WriteFile(fs.path(id), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", id, err)
	}

	fs.logger.Debug("Document written",
		zap.String("id", id),
		zap.Int("bytes", len(text)))

	return nil
}

// Create creates a new document, making parent directories as needed
func (fs *FileStore) Create(id string, text string) error {
	path := fs.path(id)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create collection for %s: %w", id, err)
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to create document %s: %w", id, err)
	}

	fs.logger.Debug("Document created",
		zap.String("id", id),
		zap.Int("bytes", len(text)))

	return nil
}

// ListCollection returns the markdown documents directly inside the
// named collection directory, ordered by basename
func (fs *FileStore) ListCollection(name string) ([]Entry, error) {
	dir := filepath.Join(fs.root, filepath.FromSlash(name))

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", name, err)
	}

	entries := []Entry{}
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		entries = append(entries, Entry{
			ID:       name + "/" + de.Name(),
			Basename: strings.TrimSuffix(de.Name(), ".md"),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Basename < entries[j].Basename
	})

	return entries, nil
}
