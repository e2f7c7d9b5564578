// Package main provides the CLI entrypoint for typetest.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/results"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/statsui"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/tui"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

const (
	defaultDuration    = 60
	defaultWordList    = "english_200"
	defaultWords       = generator.MaxWords
	defaultCaps        = 0.0
	defaultPunct       = 0.0
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 10
	maxDuration        = 600
)

const defaultPunctSet = ".,!?;:"

var (
	testDuration   int
	testWordList   string
	testWords      int
	testCaps       float64
	testPunct      float64
	testPunctSet   string
	testFocusWeak  bool
	testWeakTop    int
	testWeakFactor float64
	testWeakWindow int
	debugLog       bool

	statsList        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	importName  string
	importLang  string
	importForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetest",
		Short:         "Timed typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().IntVar(&testDuration, "duration", defaultDuration, "test duration in seconds")
	rootCmd.Flags().StringVar(&testWordList, "word-list", defaultWordList, "stored word list to type")
	rootCmd.Flags().IntVar(&testWords, "words", defaultWords, "maximum words per test")
	rootCmd.Flags().Float64Var(&testCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&testPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&testPunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&testFocusWeak, "focus-weak", false, "bias word selection toward weak characters")
	rootCmd.Flags().IntVar(&testWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&testWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&testWeakWindow, "weak-window", defaultWeakWindow, "number of recent results to compute weak chars")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write a debug log to "+config.DefaultLogPath())

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newListsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolveTestConfig(cmd, fileCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	listName, words := wordlist.NewSource(st, logger).Words(ctx, cfg.WordList)
	cancel()
	if listName != cfg.WordList {
		logger.Info("using fallback word list", zap.String("requested", cfg.WordList), zap.String("list", listName))
	}

	model := tui.NewModel(cfg, listName, words, tui.Deps{
		Recorder:  results.NewRecorder(st, logger),
		Generator: generator.New(),
		Logger:    logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if listName != cfg.WordList {
		logErrf("word list %q not found; used %q (import one with: typetest import --name %s <file>)\n", cfg.WordList, listName, cfg.WordList)
	}
	return nil
}

func resolveTestConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyIntConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	applyStringConfig(cmd, "word-list", &testWordList, fileCfg.Test.WordList)
	applyIntConfig(cmd, "words", &testWords, fileCfg.Test.Words)
	applyFloatConfig(cmd, "caps", &testCaps, fileCfg.Test.CapsPct)
	applyFloatConfig(cmd, "punct", &testPunct, fileCfg.Test.PunctPct)
	applyStringConfig(cmd, "punct-set", &testPunctSet, fileCfg.Test.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &testFocusWeak, fileCfg.Test.FocusWeak)
	applyIntConfig(cmd, "weak-top", &testWeakTop, fileCfg.Test.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &testWeakFactor, fileCfg.Test.WeakFactor)
	applyIntConfig(cmd, "weak-window", &testWeakWindow, fileCfg.Test.WeakWindow)

	return model.Config{
		DurationSeconds: testDuration,
		WordList:        strings.TrimSpace(testWordList),
		Words:           testWords,
		CapsPct:         testCaps,
		PunctPct:        testPunct,
		PunctSet:        testPunctSet,
		FocusWeak:       testFocusWeak,
		WeakTop:         testWeakTop,
		WeakFactor:      testWeakFactor,
		WeakWindow:      testWeakWindow,
	}
}

// newLogger returns a file logger when debugging is on and a no-op logger
// otherwise. The terminal belongs to the TUI, so nothing is logged there.
func newLogger(cmd *cobra.Command, fileCfg config.FileConfig) (*zap.Logger, func(), error) {
	enabled := debugLog
	applyBoolConfig(cmd, "debug", &enabled, fileCfg.Debug)
	if !enabled {
		return zap.NewNop(), func() {}, nil
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, func() {
		if serr := logger.Sync(); serr != nil {
			// Best-effort flush of the debug log.
			_ = serr
		}
	}, nil
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
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List stored word lists",
		Args:  cobra.NoArgs,
		RunE:  runListsCmd,
	}
}

func runListsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	lists, err := st.ListWordLists(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list word lists: %w", err)
	}
	if len(lists) == 0 {
		logErrf("No word lists stored; tests use the built-in %q list. Import one with: typetest import --name <list> <file>\n", wordlist.DefaultListName)
		return nil
	}
	for _, l := range lists {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", l.Name, l.Words); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a word list (one word per line)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importName, "name", "", "word list name (default: file name without extension)")
	cmd.Flags().StringVar(&importLang, "lang", "", "language filter for words (e.g. en)")
	cmd.Flags().BoolVar(&importForce, "force", false, "replace an existing list")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := strings.TrimSpace(importName)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if name == wordlist.DefaultListName {
		return fmt.Errorf("%q is reserved for the built-in list", name)
	}

	words, err := wordlist.LoadWords(path, wordlist.FilterForLang(importLang))
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if !importForce {
		exists, err := st.WordListExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to look up word list: %w", err)
		}
		if exists {
			return fmt.Errorf("word list already exists: %s (use --force to replace)", name)
		}
	}
	if err := st.ReplaceWordList(ctx, name, words); err != nil {
		return fmt.Errorf("failed to store word list: %w", err)
	}
	logErrf("Imported %d words into %s\n", len(words), name)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show result history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsList, "list", "", "word list filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&statsCurveWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report instead of opening the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return report.Render(out, stats.TerminalWidth(out))
	}

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--window must be >= 1")
	}
	return model.StatsConfig{
		WordList:    strings.TrimSpace(statsList),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. CLI flags override config values.

# debug = false           # Write a debug log

[test]
# duration = %d           # Test duration in seconds
# word-list = %q  # Stored word list to type
# words = %d             # Maximum words per test
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set
# focus-weak = false      # Bias word selection toward weak characters
# weak-top = %d            # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent results to compute weak chars
`,
		defaultDuration,
		defaultWordList,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.DurationSeconds <= 0 || cfg.DurationSeconds > maxDuration {
		return fmt.Errorf("--duration must be between 1 and %d", maxDuration)
	}
	if cfg.WordList == "" {
		return fmt.Errorf("--word-list must not be empty")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if strings.ContainsAny(cfg.PunctSet, " \t\n") {
		return fmt.Errorf("--punct-set must not contain whitespace")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
