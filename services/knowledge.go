package services

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"kbassistant/models"
)

// KnowledgeSeparator is placed between documents in the joined knowledge base
const KnowledgeSeparator = "\n\n---\n\n"

// ErrEmptyKnowledgeBase is returned when no usable document was found
var ErrEmptyKnowledgeBase = errors.New("knowledge base is empty")

// KnowledgeBase is the immutable corpus sent with every question
type KnowledgeBase struct {
	source    string
	documents []models.KnowledgeDocument
	text      string
	loadedAt  time.Time
}

// LoadKnowledgeBase walks fsys in lexical order and joins every supported document
func LoadKnowledgeBase(fsys fs.FS, source string) (*KnowledgeBase, error) {
	var docs []models.KnowledgeDocument

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if p != "." && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !isSupportedFileType(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		content := strings.TrimSpace(string(data))
		if content == "" {
			return nil
		}

		docs = append(docs, models.KnowledgeDocument{Name: p, Content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base from %s: %w", source, err)
	}

	kb, err := NewKnowledgeBase(docs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	kb.source = source

	return kb, nil
}

// NewKnowledgeBase joins docs in the given order
func NewKnowledgeBase(docs []models.KnowledgeDocument) (*KnowledgeBase, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}

	return &KnowledgeBase{
		source:    "memory",
		documents: append([]models.KnowledgeDocument(nil), docs...),
		text:      strings.Join(parts, KnowledgeSeparator),
		loadedAt:  time.Now(),
	}, nil
}

// Text returns the joined knowledge base
func (kb *KnowledgeBase) Text() string {
	return kb.text
}

// Documents returns the document names in join order
func (kb *KnowledgeBase) Documents() []string {
	names := make([]string, len(kb.documents))
	for i, doc := range kb.documents {
		names[i] = doc.Name
	}
	return names
}

// GetStatus summarises the knowledge base for the health endpoint
func (kb *KnowledgeBase) GetStatus() models.KnowledgeStatus {
	return models.KnowledgeStatus{
		Source:    kb.source,
		Documents: kb.Documents(),
		Bytes:     len(kb.text),
		LoadedAt:  kb.loadedAt,
	}
}

func isSupportedFileType(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown", ".txt":
		return true
	}
	return false
}
