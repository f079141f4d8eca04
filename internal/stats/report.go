package stats

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/readquiz/internal/model"
)

// RecordStore provides the quiz history used for reporting.
type RecordStore interface {
	Snapshot(ctx context.Context) (model.Snapshot, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Snapshot  model.Snapshot
	Analytics *Analytics
	// Window holds the analytics for the last CurveWindow quizzes.
	Window *Analytics
}

// BuildReport loads the history and applies the filters of cfg.
func BuildReport(ctx context.Context, st RecordStore, cfg model.StatsConfig) (Report, error) {
	snap, err := st.Snapshot(ctx)
	if err != nil {
		return Report{}, err
	}
	snap = FilterSnapshot(snap, cfg)
	window := snap
	if cfg.CurveWindow > 0 && len(snap.Quizzes) > cfg.CurveWindow {
		window = restrict(snap, snap.Quizzes[len(snap.Quizzes)-cfg.CurveWindow:])
	}
	return Report{
		Snapshot:  snap,
		Analytics: NewAnalytics(snap),
		Window:    NewAnalytics(window),
	}, nil
}

// FilterSnapshot keeps quizzes matching the date and category filters, then
// the most recent cfg.Last of them. Responses follow their quizzes.
func FilterSnapshot(snap model.Snapshot, cfg model.StatsConfig) model.Snapshot {
	quizzes := lo.Filter(snap.Quizzes, func(q model.QuizRecord, _ int) bool {
		if cfg.Since != nil && q.Date.Before(*cfg.Since) {
			return false
		}
		return cfg.Category == "" || string(q.Category) == cfg.Category
	})
	sort.SliceStable(quizzes, func(i, j int) bool { return quizzes[i].Date.Before(quizzes[j].Date) })
	if cfg.Last > 0 && len(quizzes) > cfg.Last {
		quizzes = quizzes[len(quizzes)-cfg.Last:]
	}
	return restrict(snap, quizzes)
}

func restrict(snap model.Snapshot, quizzes []model.QuizRecord) model.Snapshot {
	ids := make(map[int64]struct{}, len(quizzes))
	for _, q := range quizzes {
		ids[q.ID] = struct{}{}
	}
	responses := lo.Filter(snap.Responses, func(r model.ResponseRecord, _ int) bool {
		_, ok := ids[r.QuizID]
		return ok
	})
	return model.Snapshot{Quizzes: quizzes, Responses: responses}
}
