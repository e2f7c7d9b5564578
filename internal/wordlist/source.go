package wordlist

import (
	"context"

	"go.uber.org/zap"

	"github.com/verte-zerg/typetest/internal/model"
)

// Catalog is the stored collection of named word lists.
type Catalog interface {
	GetWordList(ctx context.Context, name string) ([]model.Word, error)
	FirstWordList(ctx context.Context) (string, []model.Word, error)
}

// Source resolves the words for a test. It never fails: a missing list falls
// back to the first stored list and then to the built-in default list.
type Source struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewSource returns a Source backed by catalog. A nil catalog always yields
// the default list.
func NewSource(catalog Catalog, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{catalog: catalog, logger: logger}
}

// Words returns the resolved list name and its words.
func (s *Source) Words(ctx context.Context, name string) (string, []model.Word) {
	if s.catalog == nil || name == DefaultListName {
		return DefaultListName, DefaultWords()
	}
	if name != "" {
		words, err := s.catalog.GetWordList(ctx, name)
		if err != nil {
			s.logger.Warn("failed to load word list", zap.String("list", name), zap.Error(err))
			return DefaultListName, DefaultWords()
		}
		if len(words) > 0 {
			return name, words
		}
		s.logger.Info("word list not found, trying first stored list", zap.String("list", name))
	}
	first, words, err := s.catalog.FirstWordList(ctx)
	if err != nil {
		s.logger.Warn("failed to load fallback word list", zap.Error(err))
		return DefaultListName, DefaultWords()
	}
	if first == "" || len(words) == 0 {
		return DefaultListName, DefaultWords()
	}
	return first, words
}
