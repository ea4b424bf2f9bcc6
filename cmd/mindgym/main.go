// Package main provides the CLI entrypoint for mindgym.
package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mindgym-app/mindgym/internal/chart"
	"github.com/mindgym-app/mindgym/internal/config"
	"github.com/mindgym-app/mindgym/internal/dashui"
	"github.com/mindgym-app/mindgym/internal/model"
	"github.com/mindgym-app/mindgym/internal/progress"
	"github.com/mindgym-app/mindgym/internal/store"
	"github.com/mindgym-app/mindgym/internal/tui"
)

const (
	defaultTappingSeconds = 10
	defaultReactionRounds = 5
	defaultStroopTrials   = 20
	defaultSpatialLength  = 4
	defaultHanoiDisks     = 3
	defaultCurveWindow    = 5
)

var (
	playTappingSeconds int
	playReactionRounds int
	playStroopTrials   int
	playSpatialLength  int
	playHanoiDisks     int

	statsWindow int
	statsPlain  bool

	logTaps         int
	logDurationSecs float64
	logCorrect      int
	logIncorrect    int
	logAvgMs        float64
	logMoves        int
	logDisks        int
	logSolveSecs    float64
	logMatches      int
	logAttempts     int
	logLength       int

	resetForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mindgym",
		Short:         "TUI brain trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playTappingSeconds, "tapping-seconds", defaultTappingSeconds, "tapping window in seconds")
	rootCmd.Flags().IntVar(&playReactionRounds, "reaction-rounds", defaultReactionRounds, "reaction rounds per session")
	rootCmd.Flags().IntVar(&playStroopTrials, "stroop-trials", defaultStroopTrials, "stroop trials per session")
	rootCmd.Flags().IntVar(&playSpatialLength, "spatial-length", defaultSpatialLength, "starting spatial sequence length")
	rootCmd.Flags().IntVar(&playHanoiDisks, "hanoi-disks", defaultHanoiDisks, "tower of hanoi disk count")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newChallengeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "tapping-seconds", &playTappingSeconds, fileCfg.Tasks.TappingSeconds)
	applyIntConfig(cmd, "reaction-rounds", &playReactionRounds, fileCfg.Tasks.ReactionRounds)
	applyIntConfig(cmd, "stroop-trials", &playStroopTrials, fileCfg.Tasks.StroopTrials)
	applyIntConfig(cmd, "spatial-length", &playSpatialLength, fileCfg.Tasks.SpatialLength)
	applyIntConfig(cmd, "hanoi-disks", &playHanoiDisks, fileCfg.Tasks.HanoiDisks)

	cfg := model.Config{
		TappingSeconds: playTappingSeconds,
		ReactionRounds: playReactionRounds,
		StroopTrials:   playStroopTrials,
		SpatialLength:  playSpatialLength,
		HanoiDisks:     playHanoiDisks,
	}

	if err := validateConfig(cfg); err != nil {
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

	model := tui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the progress dashboard",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window for trend curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text summary instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
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
		return printPlainStats(cmd, st)
	}

	model := dashui.NewModel(st, statsWindow)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printPlainStats(cmd *cobra.Command, st *store.Store) error {
	report, err := progress.BuildReport(context.Background(), st, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if report.Stats.TasksCompleted == 0 {
		if _, err := fmt.Fprintln(out, "No sessions yet. Run `mindgym` to play a task."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(out, "Brain & Body Score: %d\nStreak: %d day(s)\nSessions: %d\n\n",
		report.Overall, report.Stats.Streak, report.Stats.TasksCompleted); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	rows := make([][]string, 0, len(model.AllTasks))
	for _, task := range model.AllTasks {
		sessions := len(progress.ScoreSeries(report.Performances, task))
		rows = append(rows, []string{
			task.Name(),
			fmt.Sprintf("%.1f", report.Stats.Averages[task]),
			fmt.Sprintf("%d", sessions),
		})
	}
	lines := chart.FormatTable([]string{"Task", "Average", "Sessions"}, rows, map[int]bool{1: true, 2: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	series := make([]chart.Series, 0, len(model.AllTasks))
	for _, task := range model.AllTasks {
		values := progress.ScoreSeries(report.Performances, task)
		if len(values) < 2 {
			continue
		}
		series = append(series, chart.Series{
			Name:   task.Name(),
			Values: chart.MovingAverage(values, statsWindow),
		})
	}
	if len(series) > 0 {
		if _, err := fmt.Fprintln(out, ""); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := chart.PlotSeries(out, "Score trend", series, 0, 10); err != nil {
			return fmt.Errorf("failed to render trend plot: %w", err)
		}
	}
	return nil
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <task>",
		Short: "Record a session played outside the TUI",
		Long: `Record a session played outside the TUI, e.g. a sound-discrimination
session run with external audio. The task decides which flags apply.`,
		Args: cobra.ExactArgs(1),
		RunE: runLogCmd,
	}
	cmd.Flags().IntVar(&logTaps, "taps", 0, "taps (tapping-speed)")
	cmd.Flags().Float64Var(&logDurationSecs, "duration", 0, "window in seconds (tapping-speed)")
	cmd.Flags().IntVar(&logCorrect, "correct", 0, "correct answers (stroop-test, sound-discrimination)")
	cmd.Flags().IntVar(&logIncorrect, "incorrect", 0, "incorrect answers (stroop-test, sound-discrimination)")
	cmd.Flags().Float64Var(&logAvgMs, "avg-ms", 0, "average reaction/response in ms (stroop-test, reaction-time, sound-discrimination)")
	cmd.Flags().IntVar(&logMoves, "moves", 0, "moves used (tower-of-hanoi)")
	cmd.Flags().IntVar(&logDisks, "disks", defaultHanoiDisks, "disk count (tower-of-hanoi)")
	cmd.Flags().Float64Var(&logSolveSecs, "solve-seconds", 0, "solve time in seconds (tower-of-hanoi)")
	cmd.Flags().IntVar(&logMatches, "matches", 0, "correct matches (spatial-memory)")
	cmd.Flags().IntVar(&logAttempts, "attempts", 0, "total attempts (spatial-memory)")
	cmd.Flags().IntVar(&logLength, "length", 0, "longest sequence length (spatial-memory)")
	return cmd
}

func runLogCmd(cmd *cobra.Command, args []string) error {
	task, err := model.ParseTask(args[0])
	if err != nil {
		return err
	}
	metrics, err := metricsFromFlags(task)
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

	perf, stats, err := progress.RecordSession(context.Background(), st, metrics, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s: score %d/100\n", task.Name(), perf.Score); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Streak %d day(s), %d session(s) total\n", stats.Streak, stats.TasksCompleted); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func metricsFromFlags(task model.TaskType) (model.TaskMetrics, error) {
	switch task {
	case model.TaskTapping:
		return model.TappingMetrics{
			Taps:       logTaps,
			DurationMs: int64(logDurationSecs * 1000),
		}, nil
	case model.TaskStroop:
		return model.StroopMetrics{
			Correct:       logCorrect,
			Incorrect:     logIncorrect,
			AvgReactionMs: logAvgMs,
		}, nil
	case model.TaskReaction:
		return model.ReactionMetrics{AvgReactionMs: logAvgMs}, nil
	case model.TaskHanoi:
		if logDisks <= 0 {
			return nil, fmt.Errorf("--disks must be > 0")
		}
		return model.HanoiMetrics{
			MovesUsed:   logMoves,
			MinMoves:    1<<logDisks - 1,
			SolveTimeMs: int64(logSolveSecs * 1000),
		}, nil
	case model.TaskSpatial:
		return model.SpatialMetrics{
			CorrectMatches: logMatches,
			TotalAttempts:  logAttempts,
			SequenceLength: logLength,
		}, nil
	case model.TaskSound:
		return model.SoundMetrics{
			Correct:       logCorrect,
			Incorrect:     logIncorrect,
			AvgResponseMs: logAvgMs,
		}, nil
	case model.TaskDecision:
		return nil, fmt.Errorf("decision-task sessions need the trial log; play it with: mindgym")
	default:
		return nil, fmt.Errorf("unknown task %q", task)
	}
}

func newChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge",
		Short: "Show today's daily challenge",
		Args:  cobra.NoArgs,
		RunE:  runChallengeCmd,
	}
}

func runChallengeCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	ch, err := progress.EnsureTodaysChallenge(context.Background(), st, rnd, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load daily challenge: %w", err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Daily challenge for %s\n", ch.Day); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, task := range ch.Tasks {
		mark := " "
		if ch.TaskDone(task) {
			mark = "x"
		}
		if _, err := fmt.Fprintf(out, "  [%s] %s\n", mark, task.Name()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if ch.Completed {
		if _, err := fmt.Fprintln(out, "Complete!"); err != nil {
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

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetForce, "force", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetForce {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), "Delete all sessions, stats, and challenges? [y/N] "); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted."); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		}
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

	if err := st.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "All progress deleted."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mindgym configuration
# Uncomment a value to enable it. CLI flags override config values.

[tasks]
# tapping-seconds = %d    # Tapping window in seconds
# reaction-rounds = %d     # Reaction rounds per session
# stroop-trials = %d      # Stroop trials per session
# spatial-length = %d      # Starting spatial sequence length
# hanoi-disks = %d         # Tower of Hanoi disk count
`,
		defaultTappingSeconds,
		defaultReactionRounds,
		defaultStroopTrials,
		defaultSpatialLength,
		defaultHanoiDisks,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.TappingSeconds <= 0 {
		return fmt.Errorf("--tapping-seconds must be > 0")
	}
	if cfg.ReactionRounds <= 0 {
		return fmt.Errorf("--reaction-rounds must be > 0")
	}
	if cfg.StroopTrials <= 0 {
		return fmt.Errorf("--stroop-trials must be > 0")
	}
	if cfg.SpatialLength <= 0 {
		return fmt.Errorf("--spatial-length must be > 0")
	}
	if cfg.HanoiDisks <= 0 || cfg.HanoiDisks > 8 {
		return fmt.Errorf("--hanoi-disks must be between 1 and 8")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
