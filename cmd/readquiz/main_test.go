package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readquiz/internal/config"
	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/store"
)

func isolateXDG(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{PageSize: 1500, Quizzes: 8, Questions: 3}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []struct {
		name string
		mut  func(*model.Config)
	}{
		{"page size", func(c *model.Config) { c.PageSize = 0 }},
		{"too few quizzes", func(c *model.Config) { c.Quizzes = 0 }},
		{"too many quizzes", func(c *model.Config) { c.Quizzes = 21 }},
		{"questions", func(c *model.Config) { c.Questions = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mut(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseBookID(t *testing.T) {
	if id, err := parseBookID(" 1342 "); err != nil || id != 1342 {
		t.Fatalf("unexpected result %d %v", id, err)
	}
	for _, raw := range []string{"", "abc", "0", "-3"} {
		if _, err := parseBookID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var quizzes int
	cmd.Flags().IntVar(&quizzes, "quizzes", defaultQuizzes, "")
	fromFile := 12
	applyIntConfig(cmd, "quizzes", &quizzes, &fromFile)
	if quizzes != 12 {
		t.Fatalf("expected config value, got %d", quizzes)
	}
	if err := cmd.Flags().Set("quizzes", "4"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	applyIntConfig(cmd, "quizzes", &quizzes, &fromFile)
	if quizzes != 4 {
		t.Fatalf("expected flag value, got %d", quizzes)
	}
	applyIntConfig(cmd, "quizzes", &quizzes, nil)
	if quizzes != 4 {
		t.Fatalf("nil config value must not change target")
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	isolateXDG(t)
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template must decode: %v", err)
	}
	if cfg.Reader.Quizzes != nil || cfg.Server.Addr != nil {
		t.Fatalf("template values should be commented out: %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("[reader]\nquizzes = 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write config: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "quizzes = 5") {
		t.Fatalf("existing config was overwritten")
	}
}

func TestBuildStatsConfig(t *testing.T) {
	cfg, err := buildStatsConfig("2025-01-02", "hard", 5, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Day() != 2 || cfg.Category != "hard" || cfg.Last != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	bad := []struct {
		since, category string
		last, window    int
	}{
		{"02/01/2025", "", 0, 1},
		{"", "brutal", 0, 1},
		{"", "", -1, 1},
		{"", "", 0, 0},
	}
	for _, b := range bad {
		if _, err := buildStatsConfig(b.since, b.category, b.last, b.window); err == nil {
			t.Fatalf("expected error for %+v", b)
		}
	}
}

func TestSeedListDeleteAndPlainStats(t *testing.T) {
	isolateXDG(t)

	out, err := execute(t, "seed", "--quizzes", "4", "--responses", "5")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "Inserted 4 quizzes with 20 responses") {
		t.Fatalf("unexpected seed output %q", out)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	snap, err := st.Snapshot(context.Background())
	_ = st.Close()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Quizzes) != 4 || len(snap.Responses) != 20 {
		t.Fatalf("unexpected history %d/%d", len(snap.Quizzes), len(snap.Responses))
	}

	out, err = execute(t, "quizzes", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Fatalf("expected header plus 4 rows, got:\n%s", out)
	}

	out, err = execute(t, "stats", "--plain")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Quizzes: 4", "By Category", "By Question Type", "Score Over Time"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plain stats missing %q:\n%s", want, out)
		}
	}

	id := snap.Quizzes[0].ID
	if _, err := execute(t, "quizzes", "delete", formatID(id)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := execute(t, "quizzes", "delete", formatID(id)); err == nil {
		t.Fatalf("expected error deleting a missing quiz")
	}

	if _, err := execute(t, "seed", "--quizzes", "2", "--responses", "1", "--reset"); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	out, err = execute(t, "stats", "--plain", "--last", "1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Quizzes: 1") {
		t.Fatalf("expected last filter to apply:\n%s", out)
	}
}

func TestPlainStatsEmptyHistory(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "stats", "--plain")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if strings.TrimSpace(out) != "No quizzes found." {
		t.Fatalf("unexpected output %q", out)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
