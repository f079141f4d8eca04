// Package server exposes quiz history, statistics and the pagination helpers
// over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/log"
	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/reader"
	"github.com/verte-zerg/readquiz/internal/stats"
	"github.com/verte-zerg/readquiz/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8088"

const shutdownTimeout = 5 * time.Second

// Store is the persistence the API needs.
type Store interface {
	stats.RecordStore
	ListQuizzes(ctx context.Context, since *time.Time) ([]model.QuizRecord, error)
	InsertQuiz(ctx context.Context, quiz model.QuizRecord, responses []model.ResponseRecord) (int64, error)
	DeleteQuiz(ctx context.Context, id int64) error
}

// Server serves the JSON API.
type Server struct {
	store Store
	now   func() time.Time
}

// New returns a server over st. A nil now uses time.Now.
func New(st Store, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{store: st, now: now}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	sr := router.PathPrefix("/api/v1").Subrouter()
	sr.Use(logRequests)

	sr.HandleFunc("/stats", s.getStats).Methods(http.MethodGet)
	sr.HandleFunc("/quizzes", s.listQuizzes).Methods(http.MethodGet)
	sr.HandleFunc("/quizzes", s.createQuiz).Methods(http.MethodPost)
	sr.HandleFunc("/quizzes/{id:[0-9]+}", s.deleteQuiz).Methods(http.MethodDelete)
	sr.HandleFunc("/plan", s.plan).Methods(http.MethodGet)
	sr.HandleFunc("/paginate", s.paginate).Methods(http.MethodPost)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		ok(w, map[string]string{"status": "ok"})
	}).Name("healthcheck")
	return router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("stopping http server")
	return srv.Shutdown(shutdownCtx)
}

type categoryStats struct {
	Category     model.Category `json:"category"`
	Quizzes      int            `json:"quizzes"`
	AverageScore float64        `json:"average_score"`
	Words        int            `json:"words"`
	Minutes      float64        `json:"minutes"`
}

type typeStats struct {
	Type           string  `json:"type"`
	PercentCorrect float64 `json:"percent_correct"`
	Count          int     `json:"count"`
}

type dailyStats struct {
	Quizzes int     `json:"quizzes"`
	Words   int     `json:"words"`
	Minutes float64 `json:"minutes"`
}

type windowStats struct {
	Quizzes      int     `json:"quizzes"`
	AverageScore float64 `json:"average_score"`
	Words        int     `json:"words"`
}

type statsResponse struct {
	Quizzes        int             `json:"quizzes"`
	Responses      int             `json:"responses"`
	AverageScore   float64         `json:"average_score"`
	Correct        int             `json:"correct"`
	Incorrect      int             `json:"incorrect"`
	CorrectPercent float64         `json:"correct_percent"`
	WordsRead      int             `json:"words_read"`
	Minutes        float64         `json:"minutes"`
	Streak         int             `json:"streak"`
	Today          dailyStats      `json:"today"`
	Categories     []categoryStats `json:"categories"`
	QuestionTypes  []typeStats     `json:"question_types"`
	Scores         []float64       `json:"scores"`
	Window         windowStats     `json:"window"`
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	cfg, err := statsConfigFromQuery(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	report, err := stats.BuildReport(r.Context(), s.store, cfg)
	if err != nil {
		serverError(w, r, err)
		return
	}
	ok(w, buildStatsResponse(report, s.now()))
}

func buildStatsResponse(report stats.Report, now time.Time) statsResponse {
	a := report.Analytics
	today := a.DailyMetrics(now)
	resp := statsResponse{
		Quizzes:        a.QuizCount(),
		Responses:      a.ResponseCount(),
		AverageScore:   a.AverageScore(),
		Correct:        a.CorrectCount(),
		Incorrect:      a.IncorrectCount(),
		CorrectPercent: a.CorrectPercent(),
		WordsRead:      a.TotalWordsRead(),
		Minutes:        a.TotalTimeMinutes(),
		Streak:         a.CurrentStreak(now),
		Today:          dailyStats{Quizzes: today.Quizzes, Words: today.Words, Minutes: today.Minutes},
		Categories:     []categoryStats{},
		QuestionTypes:  []typeStats{},
		Scores:         a.ScoreSeries(),
		Window: windowStats{
			Quizzes:      report.Window.QuizCount(),
			AverageScore: report.Window.AverageScore(),
			Words:        report.Window.TotalWordsRead(),
		},
	}
	scores := a.PerformanceByCategory()
	words := a.WordsByCategory()
	times := a.TimeByCategoryMinutes()
	dist := a.ScoresByCategory()
	for i, c := range scores {
		resp.Categories = append(resp.Categories, categoryStats{
			Category:     c.Category,
			Quizzes:      len(dist[i].Scores),
			AverageScore: c.AverageScore,
			Words:        words[i].Words,
			Minutes:      times[i].Minutes,
		})
	}
	for _, p := range a.PerformanceByQuestionType() {
		resp.QuestionTypes = append(resp.QuestionTypes, typeStats{Type: p.Type, PercentCorrect: p.PercentCorrect, Count: p.Count})
	}
	return resp
}

func statsConfigFromQuery(r *http.Request) (model.StatsConfig, error) {
	q := r.URL.Query()
	cfg := model.StatsConfig{CurveWindow: 10}
	if v := q.Get("since"); v != "" {
		since, err := time.ParseInLocation(time.DateOnly, v, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since %q (expected YYYY-MM-DD)", v)
		}
		cfg.Since = &since
	}
	if v := q.Get("category"); v != "" {
		if _, valid := model.ParseCategory(v); !valid {
			return cfg, fmt.Errorf("invalid category %q", v)
		}
		cfg.Category = v
	}
	var err error
	if cfg.Last, err = intParam(q.Get("last"), 0, 0); err != nil {
		return cfg, fmt.Errorf("invalid last: %w", err)
	}
	if cfg.CurveWindow, err = intParam(q.Get("window"), cfg.CurveWindow, 1); err != nil {
		return cfg, fmt.Errorf("invalid window: %w", err)
	}
	return cfg, nil
}

func (s *Server) listQuizzes(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, v, time.Local)
		if err != nil {
			badRequest(w, r, fmt.Errorf("invalid since %q (expected YYYY-MM-DD)", v))
			return
		}
		since = &parsed
	}
	quizzes, err := s.store.ListQuizzes(r.Context(), since)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if quizzes == nil {
		quizzes = []model.QuizRecord{}
	}
	ok(w, quizzes)
}

type createQuizRequest struct {
	Quiz      model.QuizRecord       `json:"quiz"`
	Responses []model.ResponseRecord `json:"responses"`
}

type createQuizResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, fmt.Errorf("invalid JSON payload: %w", err))
		return
	}
	quiz := req.Quiz
	if quiz.WordCount < 0 || quiz.DurationSeconds < 0 {
		badRequest(w, r, errors.New("word_count and duration_seconds must not be negative"))
		return
	}
	if quiz.ScorePercentage < 0 || quiz.ScorePercentage > 100 {
		badRequest(w, r, errors.New("score_percentage must be within [0, 100]"))
		return
	}
	if quiz.Category == "" {
		quiz.Category = model.CategoryForWords(quiz.WordCount)
	} else if _, valid := model.ParseCategory(string(quiz.Category)); !valid {
		badRequest(w, r, fmt.Errorf("invalid category %q", quiz.Category))
		return
	}
	if quiz.Date.IsZero() {
		quiz.Date = s.now()
	}
	id, err := s.store.InsertQuiz(r.Context(), quiz, req.Responses)
	if err != nil {
		serverError(w, r, err)
		return
	}
	created(w, createQuizResponse{ID: id})
}

func (s *Server) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		badRequest(w, r, errors.New("invalid quiz id"))
		return
	}
	if err := s.store.DeleteQuiz(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, r, err)
			return
		}
		serverError(w, r, err)
		return
	}
	noContent(w)
}

type planResponse struct {
	Positions []int `json:"positions"`
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("pages") == "" || q.Get("quizzes") == "" {
		badRequest(w, r, errors.New("pages and quizzes are required"))
		return
	}
	pages, err := intParam(q.Get("pages"), 0, 0)
	if err != nil {
		badRequest(w, r, fmt.Errorf("invalid pages: %w", err))
		return
	}
	quizzes, err := intParam(q.Get("quizzes"), 0, 0)
	if err != nil {
		badRequest(w, r, fmt.Errorf("invalid quizzes: %w", err))
		return
	}
	if err := checkQuizCount(quizzes); err != nil {
		badRequest(w, r, err)
		return
	}
	ok(w, planResponse{Positions: reader.Plan(pages, quizzes)})
}

type paginateRequest struct {
	Text     string `json:"text"`
	PageSize int    `json:"page_size"`
	Quizzes  int    `json:"quizzes"`
}

type paginateResponse struct {
	Pages     []string `json:"pages"`
	Positions []int    `json:"positions"`
	Words     int      `json:"words"`
}

func (s *Server) paginate(w http.ResponseWriter, r *http.Request) {
	var req paginateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, fmt.Errorf("invalid JSON payload: %w", err))
		return
	}
	if err := checkQuizCount(req.Quizzes); err != nil {
		badRequest(w, r, err)
		return
	}
	pages := reader.Paginate(req.Text, req.PageSize)
	ok(w, paginateResponse{
		Pages:     pages,
		Positions: reader.Plan(len(pages), req.Quizzes),
		Words:     reader.WordCount(req.Text),
	})
}

func checkQuizCount(n int) error {
	if n < 0 || n > reader.MaxQuizzes {
		return fmt.Errorf("quizzes must be between 0 and %d", reader.MaxQuizzes)
	}
	return nil
}

func intParam(raw string, def, minValue int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	if v < minValue {
		return 0, fmt.Errorf("%d is below %d", v, minValue)
	}
	return v, nil
}
