// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for word lists and test results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS word_lists (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY,
			list_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS test_results (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			word_list TEXT NOT NULL,
			duration_s INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			incorrect_chars INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			test_duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_char_stats (
			result_id TEXT NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (result_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_words_list ON words(list_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_test_results_created_at ON test_results(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_result_char_stats_char ON result_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceWordList stores words under name, replacing any list with that name.
func (s *Store) ReplaceWordList(ctx context.Context, name string, words []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM words WHERE list_id IN (SELECT id FROM word_lists WHERE name = ?)`, name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM word_lists WHERE name = ?`, name); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO word_lists (name, created_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return err
	}
	listID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words (list_id, position, text) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, word := range words {
		if _, err = stmt.ExecContext(ctx, listID, i, word); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// WordListExists reports whether a list with name is stored.
func (s *Store) WordListExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM word_lists WHERE name = ?`, name).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetWordList returns the words of the named list in stored order. A missing
// list yields no words and no error.
func (s *Store) GetWordList(ctx context.Context, name string) ([]model.Word, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT w.id, w.text
		FROM words w
		JOIN word_lists l ON l.id = w.list_id
		WHERE l.name = ?
		ORDER BY w.position ASC`, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var words []model.Word
	for rows.Next() {
		var id int64
		var w model.Word
		if err := rows.Scan(&id, &w.Text); err != nil {
			return nil, err
		}
		w.ID = fmt.Sprintf("%s-%d", name, id)
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// FirstWordList returns the alphabetically first non-empty list, or an empty
// name when none is stored.
func (s *Store) FirstWordList(ctx context.Context) (string, []model.Word, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT l.name
		FROM word_lists l
		WHERE EXISTS (SELECT 1 FROM words w WHERE w.list_id = l.id)
		ORDER BY l.name ASC
		LIMIT 1`).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	words, err := s.GetWordList(ctx, name)
	if err != nil {
		return "", nil, err
	}
	return name, words, nil
}

// ListWordLists returns stored lists with their word counts.
func (s *Store) ListWordLists(ctx context.Context) ([]model.WordListInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT l.name, l.created_at, COUNT(w.id)
		FROM word_lists l
		LEFT JOIN words w ON w.list_id = l.id
		GROUP BY l.id
		ORDER BY l.name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var lists []model.WordListInfo
	for rows.Next() {
		var info model.WordListInfo
		var createdAt string
		if err := rows.Scan(&info.Name, &createdAt, &info.Words); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		info.CreatedAt = parsed
		lists = append(lists, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lists, nil
}

// InsertResult stores a result and its per-character stats. An empty rec.ID
// is replaced with a new UUID; the stored ID is returned.
func (s *Store) InsertResult(ctx context.Context, rec model.ResultRecord, chars []model.CharStats) (id string, err error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO test_results (id, created_at, word_list, duration_s, wpm, accuracy, correct_chars, incorrect_chars, total_chars, test_duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(timeLayout),
		rec.WordListName,
		rec.DurationSeconds,
		rec.WPM,
		rec.Accuracy,
		rec.CorrectChars,
		rec.IncorrectChars,
		rec.TotalChars,
		rec.TestDurationMs,
	)
	if err != nil {
		return "", err
	}

	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO result_char_stats (result_id, char, correct, incorrect) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, rec.ID, cs.Char, cs.Correct, cs.Incorrect); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ListResults returns results filtered by stats config, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.WordList != "" {
		clauses = append(clauses, "word_list = ?")
		args = append(args, cfg.WordList)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, created_at, word_list, duration_s, wpm, accuracy, correct_chars, incorrect_chars, total_chars, test_duration_ms
		FROM test_results
		WHERE %s
		ORDER BY created_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ResultRecord
	for rows.Next() {
		var rec model.ResultRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.WordListName, &rec.DurationSeconds, &rec.WPM, &rec.Accuracy,
			&rec.CorrectChars, &rec.IncorrectChars, &rec.TotalChars, &rec.TestDurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = parsed
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	return results, nil
}

// GetWeakChars aggregates character stats over the most recent results.
func (s *Store) GetWeakChars(ctx context.Context, window int, wordList string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT id FROM test_results
		WHERE (? = '' OR word_list = ?)
		ORDER BY created_at DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect
	FROM result_char_stats cs
	JOIN recent r ON r.id = cs.result_id
	GROUP BY cs.char`
	return s.queryCharAggregates(ctx, query, wordList, wordList, window)
}

// ListCharAggregates aggregates per-character stats across results.
func (s *Store) ListCharAggregates(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]any, len(resultIDs))
	for i, id := range resultIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM result_char_stats
		WHERE result_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	return s.queryCharAggregates(ctx, query, args...)
}

func (s *Store) queryCharAggregates(ctx context.Context, query string, args ...any) ([]model.CharAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
