// Package results revalidates finished test summaries and records them.
package results

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/typing"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

// MaxPlausibleWPM is the anti-abuse ceiling applied when recording results.
const MaxPlausibleWPM = 300

var (
	ErrNegativeChars       = errors.New("character counts must not be negative")
	ErrNonPositiveDuration = errors.New("test duration must be positive")
	ErrImplausibleWPM      = errors.New("wpm too high, possible error")
	ErrUnknownWordList     = errors.New("word list not found")
)

// Store is the persistence the recorder needs.
type Store interface {
	WordListExists(ctx context.Context, name string) (bool, error)
	InsertResult(ctx context.Context, rec model.ResultRecord, chars []model.CharStats) (string, error)
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultRecord, error)
	GetWeakChars(ctx context.Context, window int, wordList string) ([]model.CharAggregate, error)
}

// Recorder validates and persists finished test summaries.
type Recorder struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewRecorder returns a Recorder writing to st.
func NewRecorder(st Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		store:    st,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate checks summary and recomputes its metrics with the same formulas
// the test screen uses.
func (r *Recorder) Evaluate(summary model.ResultSummary) (model.ResultRecord, error) {
	if err := r.validate.Struct(summary); err != nil {
		return model.ResultRecord{}, formatValidationError(err)
	}
	wpm := typing.WPM(summary.CorrectChars, summary.TestDurationMs)
	if wpm > MaxPlausibleWPM {
		return model.ResultRecord{}, fmt.Errorf("%w: %d", ErrImplausibleWPM, wpm)
	}
	return model.ResultRecord{
		WordListName:    summary.WordListName,
		DurationSeconds: summary.DurationSeconds,
		WPM:             wpm,
		Accuracy:        typing.Accuracy(summary.CorrectChars, summary.IncorrectChars),
		CorrectChars:    summary.CorrectChars,
		IncorrectChars:  summary.IncorrectChars,
		TotalChars:      summary.CorrectChars + summary.IncorrectChars,
		TestDurationMs:  summary.TestDurationMs,
	}, nil
}

// Save validates summary, checks its word list and stores it with chars.
func (r *Recorder) Save(ctx context.Context, summary model.ResultSummary, chars []model.CharStats) (model.ResultRecord, error) {
	rec, err := r.Evaluate(summary)
	if err != nil {
		r.logger.Info("rejected result", zap.Error(err))
		return model.ResultRecord{}, err
	}
	if rec.WordListName != wordlist.DefaultListName {
		ok, err := r.store.WordListExists(ctx, rec.WordListName)
		if err != nil {
			return model.ResultRecord{}, fmt.Errorf("failed to look up word list: %w", err)
		}
		if !ok {
			return model.ResultRecord{}, fmt.Errorf("%w: %s", ErrUnknownWordList, rec.WordListName)
		}
	}
	rec.CreatedAt = r.now()
	id, err := r.store.InsertResult(ctx, rec, chars)
	if err != nil {
		return model.ResultRecord{}, fmt.Errorf("failed to save result: %w", err)
	}
	rec.ID = id
	r.logger.Debug("saved result",
		zap.String("id", id),
		zap.String("list", rec.WordListName),
		zap.Int("wpm", rec.WPM),
		zap.Int("accuracy", rec.Accuracy))
	return rec, nil
}

// History returns recorded results for a word list, oldest first.
func (r *Recorder) History(ctx context.Context, wordList string) ([]model.ResultRecord, error) {
	return r.store.ListResults(ctx, model.StatsConfig{WordList: wordList})
}

// WeakChars aggregates character stats over the last window results.
func (r *Recorder) WeakChars(ctx context.Context, window int, wordList string) ([]model.CharAggregate, error) {
	return r.store.GetWeakChars(ctx, window, wordList)
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Field() {
		case "CorrectChars", "IncorrectChars":
			return ErrNegativeChars
		case "TestDurationMs":
			return ErrNonPositiveDuration
		}
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
