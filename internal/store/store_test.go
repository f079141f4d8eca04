package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/readquiz/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "readquiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testQuiz(date time.Time, words int, score float64) model.QuizRecord {
	return model.QuizRecord{
		SessionID:       "session-1",
		BookID:          1342,
		BookTitle:       "Pride and Prejudice",
		WordCount:       words,
		DurationSeconds: words,
		Date:            date,
		Category:        model.CategoryForWords(words),
		ScorePercentage: score,
	}
}

func TestInsertAndSnapshot(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)

	id, err := st.InsertQuiz(ctx, testQuiz(base.Add(time.Hour), 320, 50), []model.ResponseRecord{
		{QuestionType: model.QuestionVocabulary, IsCorrect: true},
		{QuestionType: model.QuestionComprehension, IsCorrect: false},
	})
	if err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
	earlier, err := st.InsertQuiz(ctx, testQuiz(base, 100, 100), nil)
	if err != nil {
		t.Fatalf("insert quiz: %v", err)
	}

	snap, err := st.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Quizzes) != 2 || len(snap.Responses) != 2 {
		t.Fatalf("unexpected snapshot sizes: %d quizzes, %d responses", len(snap.Quizzes), len(snap.Responses))
	}
	if snap.Quizzes[0].ID != earlier || snap.Quizzes[1].ID != id {
		t.Fatalf("expected date order, got %+v", snap.Quizzes)
	}
	q := snap.Quizzes[1]
	if !q.Date.Equal(base.Add(time.Hour)) || q.Category != model.CategoryHard || q.BookTitle != "Pride and Prejudice" {
		t.Fatalf("unexpected round trip: %+v", q)
	}
	for _, r := range snap.Responses {
		if r.QuizID != id {
			t.Fatalf("expected response to reference quiz %d, got %+v", id, r)
		}
	}
	if !snap.Responses[0].IsCorrect || snap.Responses[1].IsCorrect {
		t.Fatalf("unexpected correctness: %+v", snap.Responses)
	}
}

func TestListQuizzesSince(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := st.InsertQuiz(ctx, testQuiz(base.AddDate(0, 0, i), 120, 80), nil); err != nil {
			t.Fatalf("insert quiz: %v", err)
		}
	}
	since := base.AddDate(0, 0, 1)
	quizzes, err := st.ListQuizzes(ctx, &since)
	if err != nil {
		t.Fatalf("list quizzes: %v", err)
	}
	if len(quizzes) != 2 {
		t.Fatalf("expected 2 quizzes, got %d", len(quizzes))
	}
}

func TestDeleteQuizCascades(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, err := st.InsertQuiz(ctx, testQuiz(time.Now(), 200, 100), []model.ResponseRecord{
		{QuestionType: model.QuestionVocabulary, IsCorrect: true},
	})
	if err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
	if err := st.DeleteQuiz(ctx, id); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	responses, err := st.ListResponses(ctx, id)
	if err != nil {
		t.Fatalf("list responses: %v", err)
	}
	if len(responses) != 0 {
		t.Fatalf("expected cascade delete, got %+v", responses)
	}
	if err := st.DeleteQuiz(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := st.InsertQuiz(ctx, testQuiz(time.Now(), 50, 0), []model.ResponseRecord{
			{QuestionType: model.QuestionVocabulary},
		}); err != nil {
			t.Fatalf("insert quiz: %v", err)
		}
	}
	if err := st.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	snap, err := st.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Quizzes) != 0 || len(snap.Responses) != 0 {
		t.Fatalf("expected empty history, got %+v", snap)
	}
}

func TestSubSecondDatesKeepOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	whole := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	half := whole.Add(500 * time.Millisecond)

	if _, err := st.InsertQuiz(ctx, testQuiz(half, 200, 50), nil); err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
	if _, err := st.InsertQuiz(ctx, testQuiz(whole, 100, 100), nil); err != nil {
		t.Fatalf("insert quiz: %v", err)
	}

	all, err := st.ListQuizzes(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || !all[0].Date.Equal(whole) || !all[1].Date.Equal(half) {
		t.Fatalf("expected whole second before half second, got %v", all)
	}

	since, err := st.ListQuizzes(ctx, &half)
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(since) != 1 || !since[0].Date.Equal(half) {
		t.Fatalf("expected only the later quiz, got %v", since)
	}
}
