package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/envision/internal/config"
	"github.com/fakeyudi/envision/internal/export"
	"github.com/fakeyudi/envision/internal/logging"
	"github.com/fakeyudi/envision/internal/output"
	"github.com/fakeyudi/envision/internal/session"
)

var (
	// cfg holds the merged configuration, populated in PersistentPreRunE.
	cfg config.Config
	log = zap.NewNop()
	out = output.New(os.Stderr, false)
	// exports collects the statements a command wants the parent shell to
	// evaluate. They are written in PersistentPostRunE, so a failing command
	// emits nothing.
	exports = export.New()

	noColor  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "envision",
	Short: "Track, inspect and undo environment variable changes in your shell",
	Long: `envision records every environment change it makes in your shell and
can tell which changes happened behind its back.

Mutating commands print shell statements on stdout. Install the hook
('envision setup') so your shell evaluates them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		color := !noColor && os.Getenv("NO_COLOR") == ""
		out = output.New(cmd.ErrOrStderr(), color)
		exports = export.New()

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		if err := config.ApplyEnv(&cfg); err != nil {
			return fmt.Errorf("reading ENVISION_* overrides: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		log, err = logging.New(logging.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		log.Debug("configuration loaded",
			zap.String("command", cmd.CommandPath()),
			zap.String("profile_shell", cfg.ProfileShell),
		)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if exports.Len() == 0 {
			return nil
		}
		env := environ()
		exports.UpdateBanner(env)
		fields := []zap.Field{zap.Int("count", exports.Len())}
		if s := exports.Session(); s != nil {
			fields = append(fields, zap.String("session", s.ID), zap.Int("tracked", len(s.Tracked)))
		}
		log.Debug("flushing statements", fields...)
		return exports.Flush(cmd.OutOrStdout(), export.DialectFor(env[session.ShellVar]))
	},
}

// ExitError ends the process with Code without printing an error message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		os.Exit(exit.Code)
	}
	out.Error("Error: " + err.Error())
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
}

// environ returns the current process environment as a map.
func environ() map[string]string {
	return session.ParseEnviron(os.Environ())
}

// requireSession loads the active session from env or explains how to make one.
func requireSession(env map[string]string) (*session.Session, error) {
	s, err := loadSession(env)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: run 'envision session init' first", session.ErrNoActiveSession)
	}
	return s, nil
}

// loadSession is session.LoadFrom with the remedy for a corrupted session.
func loadSession(env map[string]string) (*session.Session, error) {
	s, err := session.LoadFrom(env)
	if err != nil {
		return nil, fmt.Errorf("%w: run 'envision session init --force' to start over", err)
	}
	return s, nil
}

func sortedNames[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
