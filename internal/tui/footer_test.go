package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/reader"
)

func TestRenderFooterFormats(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 3, 29, 10, 0, 0, 0, time.UTC) }
	m := &Model{
		session: reader.NewSession(model.Book{ID: 1, Title: "Emma"}, []string{"a b", "c", "d", "e"}, 2, now),
		notice:  "Quiz saved",
	}
	m.session.Next()
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Page 2/4", "Progress 50%", "Quizzes 0/2", "Words 3", "Quiz saved"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterWithoutSession(t *testing.T) {
	if out := (&Model{}).renderFooter(); out != "" {
		t.Fatalf("expected empty footer, got %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
