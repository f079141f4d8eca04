// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/readquiz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// dateLayout is fixed width so quiz_date sorts and compares as text.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a quiz id does not exist.
var ErrNotFound = errors.New("quiz not found")

// Store wraps SQLite access for quiz history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
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
		`CREATE TABLE IF NOT EXISTS quizzes (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			book_id INTEGER NOT NULL,
			book_title TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			quiz_date TEXT NOT NULL,
			category TEXT NOT NULL,
			score_percentage REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS responses (
			id INTEGER PRIMARY KEY,
			question_type TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			quiz_id INTEGER NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_date ON quizzes(quiz_date);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_quiz ON responses(quiz_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertQuiz stores a completed quiz and its responses in one transaction.
// Response QuizID fields are ignored; the new quiz id is used instead.
func (s *Store) InsertQuiz(ctx context.Context, quiz model.QuizRecord, responses []model.ResponseRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO quizzes (session_id, book_id, book_title, word_count, duration_seconds, quiz_date, category, score_percentage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		quiz.SessionID,
		quiz.BookID,
		quiz.BookTitle,
		quiz.WordCount,
		quiz.DurationSeconds,
		quiz.Date.UTC().Format(dateLayout),
		string(quiz.Category),
		quiz.ScorePercentage,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(responses) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO responses (question_type, is_correct, quiz_id) VALUES (?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, r := range responses {
			if _, err = stmt.ExecContext(ctx, r.QuestionType, r.IsCorrect, id); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListQuizzes returns quizzes in ascending date order, optionally limited to
// those on or after since.
func (s *Store) ListQuizzes(ctx context.Context, since *time.Time) ([]model.QuizRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if since != nil {
		clauses = append(clauses, "quiz_date >= ?")
		args = append(args, since.UTC().Format(dateLayout))
	}
	query := fmt.Sprintf(`SELECT id, session_id, book_id, book_title, word_count, duration_seconds, quiz_date, category, score_percentage
		FROM quizzes
		WHERE %s
		ORDER BY quiz_date ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var quizzes []model.QuizRecord
	for rows.Next() {
		var q model.QuizRecord
		var date, category string
		if err := rows.Scan(&q.ID, &q.SessionID, &q.BookID, &q.BookTitle, &q.WordCount,
			&q.DurationSeconds, &date, &category, &q.ScorePercentage); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("quiz %d date: %w", q.ID, err)
		}
		q.Date = parsed.Local()
		q.Category = model.Category(category)
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// ListResponses returns every response, or only those of quizID when it is positive.
func (s *Store) ListResponses(ctx context.Context, quizID int64) ([]model.ResponseRecord, error) {
	query := `SELECT id, question_type, is_correct, quiz_id FROM responses`
	args := []any{}
	if quizID > 0 {
		query += ` WHERE quiz_id = ?`
		args = append(args, quizID)
	}
	query += ` ORDER BY id ASC`
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

	var responses []model.ResponseRecord
	for rows.Next() {
		var r model.ResponseRecord
		if err := rows.Scan(&r.ID, &r.QuestionType, &r.IsCorrect, &r.QuizID); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return responses, nil
}

// Snapshot reads every quiz and response.
func (s *Store) Snapshot(ctx context.Context) (model.Snapshot, error) {
	quizzes, err := s.ListQuizzes(ctx, nil)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("list quizzes: %w", err)
	}
	responses, err := s.ListResponses(ctx, 0)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("list responses: %w", err)
	}
	return model.Snapshot{Quizzes: quizzes, Responses: responses}, nil
}

// DeleteQuiz removes a quiz; its responses are removed by the cascade.
func (s *Store) DeleteQuiz(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes the whole history.
func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quizzes`)
	return err
}
