package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/config"
	"github.com/verte-zerg/readquiz/internal/generator"
	"github.com/verte-zerg/readquiz/internal/log"
	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/server"
	"github.com/verte-zerg/readquiz/internal/stats"
	"github.com/verte-zerg/readquiz/internal/statsui"
	"github.com/verte-zerg/readquiz/internal/store"
)

const plainPlotHeight = 8

var (
	statsSince       string
	statsCategory    string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	listSince string

	seedQuizzes   int
	seedResponses int
	seedReset     bool

	serveAddr string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading and quiz statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&statsCategory, "category", "", "category filter (easy, medium, hard)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N quizzes")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flush := setupLogging(cmd, fileCfg, statsPlain)
	defer flush()

	cfg, err := buildStatsConfig(statsSince, statsCategory, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if statsPlain {
		out := cmd.OutOrStdout()
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return renderPlainReport(out, report, cfg.CurveWindow, time.Now(), stats.UseColor(out))
	}

	m := statsui.NewModel(st, cfg, time.Now)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(since, category string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: last, CurveWindow: window}
	if since != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if category != "" {
		if _, ok := model.ParseCategory(category); !ok {
			return cfg, fmt.Errorf("invalid --category %q (use easy, medium or hard)", category)
		}
		cfg.Category = category
	}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return cfg, fmt.Errorf("--curve-window must be >= 1")
	}
	return cfg, nil
}

func renderPlainReport(w io.Writer, report stats.Report, window int, now time.Time, useColor bool) error {
	a := report.Analytics
	if err := stats.RenderSummary(w, a, now); err != nil {
		return err
	}
	if a.QuizCount() == 0 {
		return nil
	}
	steps := []func() error{
		func() error { return stats.RenderCategoryTable(w, a) },
		func() error { return stats.RenderTypeTable(w, a) },
		func() error { return stats.RenderCategoryBars(w, a, 0) },
		func() error { return stats.RenderCurves(w, a, window, 0, plainPlotHeight, useColor) },
		func() error { return stats.RenderScoreDistribution(w, a) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func newQuizzesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quizzes",
		Short: "List or delete recorded quizzes",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded quizzes",
		Args:  cobra.NoArgs,
		RunE:  runQuizzesListCmd,
	}
	list.Flags().StringVar(&listSince, "since", "", "start date (YYYY-MM-DD)")
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a quiz and its responses",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuizzesDeleteCmd,
	}
	cmd.AddCommand(list, del)
	return cmd
}

func runQuizzesListCmd(cmd *cobra.Command, _ []string) error {
	var since *time.Time
	if listSince != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, listSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	quizzes, err := st.ListQuizzes(cmd.Context(), since)
	if err != nil {
		return fmt.Errorf("failed to list quizzes: %w", err)
	}
	return writeQuizList(cmd.OutOrStdout(), quizzes)
}

func writeQuizList(w io.Writer, quizzes []model.QuizRecord) error {
	if len(quizzes) == 0 {
		_, err := fmt.Fprintln(w, "No quizzes found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "%5s  %-16s  %-6s  %6s  %6s  %s\n", "ID", "Date", "Level", "Score", "Words", "Book"); err != nil {
		return err
	}
	for _, q := range quizzes {
		if _, err := fmt.Fprintf(w, "%5d  %-16s  %-6s  %5.1f%%  %6d  %s\n",
			q.ID, q.Date.Format("2006-01-02 15:04"), q.Category, q.ScorePercentage, q.WordCount, q.BookTitle); err != nil {
			return err
		}
	}
	return nil
}

func runQuizzesDeleteCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid quiz id %q", args[0])
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flush := setupLogging(cmd, fileCfg, false)
	defer flush()

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.DeleteQuiz(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete quiz %d: %w", id, err)
	}
	log.Info("quiz deleted", zap.Int64("quiz_id", id))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted quiz %d\n", id)
	return err
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the history with sample quizzes",
		Args:  cobra.NoArgs,
		RunE:  runSeedCmd,
	}
	cmd.Flags().IntVar(&seedQuizzes, "quizzes", generator.DefaultSampleQuizzes, "number of sample quizzes")
	cmd.Flags().IntVar(&seedResponses, "responses", generator.DefaultSampleResponses, "responses per quiz")
	cmd.Flags().BoolVar(&seedReset, "reset", false, "delete the existing history first")
	return cmd
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	if seedQuizzes <= 0 || seedResponses <= 0 {
		return fmt.Errorf("--quizzes and --responses must be > 0")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flush := setupLogging(cmd, fileCfg, false)
	defer flush()

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	if seedReset {
		if err := st.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to reset history: %w", err)
		}
	}
	snap := generator.New(nil).SampleHistory(seedQuizzes, seedResponses, time.Now())
	if err := insertSnapshot(ctx, st, snap); err != nil {
		return err
	}
	log.Info("sample history written", zap.Int("quizzes", len(snap.Quizzes)), zap.Int("responses", len(snap.Responses)))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d quizzes with %d responses\n", len(snap.Quizzes), len(snap.Responses))
	return err
}

func insertSnapshot(ctx context.Context, st *store.Store, snap model.Snapshot) error {
	byQuiz := lo.GroupBy(snap.Responses, func(r model.ResponseRecord) int64 { return r.QuizID })
	for _, q := range snap.Quizzes {
		if _, err := st.InsertQuiz(ctx, q, byQuiz[q.ID]); err != nil {
			return fmt.Errorf("failed to insert sample quiz: %w", err)
		}
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve statistics and quiz history over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flush := setupLogging(cmd, fileCfg, true)
	defer flush()
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(st, nil).Run(ctx, serveAddr)
}
