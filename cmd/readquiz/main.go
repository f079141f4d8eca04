// Package main provides the CLI entrypoint for readquiz.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/readquiz/internal/catalog"
	"github.com/verte-zerg/readquiz/internal/config"
	"github.com/verte-zerg/readquiz/internal/generator"
	"github.com/verte-zerg/readquiz/internal/log"
	"github.com/verte-zerg/readquiz/internal/model"
	"github.com/verte-zerg/readquiz/internal/reader"
	"github.com/verte-zerg/readquiz/internal/server"
	"github.com/verte-zerg/readquiz/internal/store"
	"github.com/verte-zerg/readquiz/internal/tui"
	"github.com/verte-zerg/readquiz/internal/wordlist"
)

const (
	defaultQuizzes     = 8
	maxQuizzes         = reader.MaxQuizzes
	maxQuestions       = 10
	defaultCurveWindow = 10
	defaultLogLevel    = "info"
	apiKeyEnv          = "ANTHROPIC_API_KEY"
)

var (
	logLevel string

	readPageSize    int
	readQuizzes     int
	readQuestions   int
	readDistractors string
	readClaude      bool

	catalogURL     string
	catalogTimeout time.Duration
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "readquiz [book-id]",
		Short:         "Read public-domain books with comprehension quizzes",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runReadCmd,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	addReadFlags(rootCmd)

	readCmd := &cobra.Command{
		Use:   "read [book-id]",
		Short: "Open a book by id, or search the catalog when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runReadCmd,
	}
	addReadFlags(readCmd)

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newQuizzesCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

func addReadFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&readPageSize, "page-size", reader.DefaultPageSize, "maximum characters per page")
	cmd.Flags().IntVar(&readQuizzes, "quizzes", defaultQuizzes, fmt.Sprintf("quizzes per book (1-%d)", maxQuizzes))
	cmd.Flags().IntVar(&readQuestions, "questions", generator.DefaultQuestions, "questions per quiz")
	cmd.Flags().StringVar(&readDistractors, "distractors", "", "word list used for wrong vocabulary answers")
	cmd.Flags().BoolVar(&readClaude, "claude", false, "ask Claude for questions ("+apiKeyEnv+" required)")
	addCatalogFlags(cmd)
}

func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&catalogURL, "catalog-url", catalog.DefaultBaseURL, "Gutendex-compatible catalog endpoint")
	cmd.Flags().DurationVar(&catalogTimeout, "timeout", catalog.DefaultTimeout, "catalog request timeout")
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flush := setupLogging(cmd, fileCfg, false)
	defer flush()

	applyIntConfig(cmd, "page-size", &readPageSize, fileCfg.Reader.PageSize)
	applyIntConfig(cmd, "quizzes", &readQuizzes, fileCfg.Reader.Quizzes)
	applyIntConfig(cmd, "questions", &readQuestions, fileCfg.Reader.Questions)
	applyStringConfig(cmd, "distractors", &readDistractors, fileCfg.Reader.Distractors)
	applyBoolConfig(cmd, "claude", &readClaude, fileCfg.Reader.Claude)
	client, err := catalogClient(cmd, fileCfg)
	if err != nil {
		return err
	}

	cfg := model.Config{
		PageSize:    readPageSize,
		Quizzes:     readQuizzes,
		Questions:   readQuestions,
		Distractors: readDistractors,
		UseClaude:   readClaude,
	}
	if len(args) == 1 {
		if cfg.BookID, err = parseBookID(args[0]); err != nil {
			return err
		}
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	distractors, err := wordlist.Load(resolveDistractorPath(cfg.Distractors))
	if err != nil {
		return fmt.Errorf("failed to load distractors: %w", err)
	}
	questions := questionSource(cfg, generator.Local{Gen: generator.New(distractors)})

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	m := tui.NewModel(tui.Options{
		Config:    cfg,
		Books:     client,
		Questions: questions,
		Saver:     st,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog and list readable books",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearchCmd,
	}
	addCatalogFlags(cmd)
	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flush := setupLogging(cmd, fileCfg, true)
	defer flush()
	client, err := catalogClient(cmd, fileCfg)
	if err != nil {
		return err
	}

	books, err := client.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(books) == 0 {
		_, err := fmt.Fprintln(out, "No books found.")
		return err
	}
	for _, b := range books {
		marker := " "
		if !catalog.HasText(b) {
			marker = "-"
		}
		if _, err := fmt.Fprintf(out, "%s %6d  %s  (%s)\n", marker, b.ID, b.Title, b.AuthorNames()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented template unless a file exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# readquiz configuration
# Uncomment a value to enable it. CLI flags override config values.

[reader]
# page-size = %d          # Maximum characters per page
# quizzes = %d               # Quizzes per book (1-%d)
# questions = %d             # Questions per quiz
# distractors = ""          # Word list for wrong vocabulary answers
# claude = false            # Ask Claude for questions (%s in .env)

[catalog]
# base-url = %q
# timeout = %q

[log]
# level = %q
# file = ""                 # Defaults to the XDG state directory

[server]
# addr = %q
`,
		reader.DefaultPageSize,
		defaultQuizzes,
		maxQuizzes,
		generator.DefaultQuestions,
		apiKeyEnv,
		catalog.DefaultBaseURL,
		catalog.DefaultTimeout.String(),
		defaultLogLevel,
		server.DefaultAddr,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.PageSize <= 0 {
		return fmt.Errorf("--page-size must be > 0")
	}
	if cfg.Quizzes < 1 || cfg.Quizzes > maxQuizzes {
		return fmt.Errorf("--quizzes must be between 1 and %d", maxQuizzes)
	}
	if cfg.Questions < 1 || cfg.Questions > maxQuestions {
		return fmt.Errorf("--questions must be between 1 and %d", maxQuestions)
	}
	if cfg.BookID < 0 {
		return fmt.Errorf("book id must be positive")
	}
	return nil
}

func parseBookID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", raw)
	}
	return id, nil
}

// resolveDistractorPath prefers an explicit path, then the file in the config
// directory, then the built-in list (empty path).
func resolveDistractorPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path := config.DefaultDistractorPath()
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func questionSource(cfg model.Config, local generator.Source) generator.Source {
	if !cfg.UseClaude {
		return local
	}
	if err := godotenv.Load(config.DefaultEnvPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to read .env", zap.Error(err))
	}
	key := strings.TrimSpace(os.Getenv(apiKeyEnv))
	if key == "" {
		logErrf("%s is not set; using local questions\n", apiKeyEnv)
		return local
	}
	return generator.NewClaude(key, local)
}

func catalogClient(cmd *cobra.Command, fileCfg config.FileConfig) (*catalog.Client, error) {
	applyStringConfig(cmd, "catalog-url", &catalogURL, fileCfg.Catalog.BaseURL)
	if fileCfg.Catalog.Timeout != nil && !cmd.Flags().Changed("timeout") {
		parsed, err := time.ParseDuration(*fileCfg.Catalog.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog timeout %q: %w", *fileCfg.Catalog.Timeout, err)
		}
		catalogTimeout = parsed
	}
	return catalog.New(catalogURL, catalogTimeout), nil
}

// setupLogging installs the file logger. Console output stays off while a
// full-screen TUI owns the terminal.
func setupLogging(cmd *cobra.Command, fileCfg config.FileConfig, console bool) func() {
	level := logLevel
	applyStringConfig(cmd, "log-level", &level, fileCfg.Log.Level)
	file := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		file = *fileCfg.Log.File
	}
	return log.Init(log.Options{Level: level, File: file, Console: console})
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
