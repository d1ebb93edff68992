package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/envision/internal/session"
	"github.com/fakeyudi/envision/internal/storage"
)

var (
	initForce      bool
	initResume     bool
	restoreForce   bool
	pruneOlderThan time.Duration
)

// now is replaced in tests.
var now = time.Now

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create, save and restore tracking sessions",
}

var sessionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Capture the current environment as the baseline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := environ()
		existing, err := session.LoadFrom(env)
		if err != nil {
			if !initForce || !errors.Is(err, session.ErrCorruptedSession) {
				return fmt.Errorf("%w: use --force to reinitialize", err)
			}
			out.Warn("Discarding corrupted session data")
		}

		if initResume {
			if existing == nil {
				return fmt.Errorf("%w to resume: run 'envision session init' first", session.ErrNoActiveSession)
			}
			if err := exports.SaveSession(existing); err != nil {
				return err
			}
			out.Success("Session resumed")
			out.KeyValue("Session", existing.ID)
			return nil
		}

		if existing != nil && !initForce {
			return fmt.Errorf("%w: use --force to reinitialize or --resume to continue", session.ErrSessionExists)
		}
		if existing != nil {
			out.Warn("Reinitializing session (previous tracking history will be lost)")
		}

		s := session.New(env)
		if err := exports.SaveSession(s); err != nil {
			return err
		}
		log.Debug("session created", zap.String("id", s.ID), zap.Int("baseline", len(s.Baseline)))

		out.Success("Session initialized")
		out.KeyValue("Session", s.ID)
		out.KeyValue("Variables captured", strconv.Itoa(len(s.Baseline)))
		return nil
	},
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the active session to disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession(environ())
		if err != nil {
			return err
		}
		store, err := storage.NewStore()
		if err != nil {
			return err
		}
		if err := store.Save(s, now()); err != nil {
			return err
		}
		out.Success("Session saved")
		out.KeyValue("Session", s.ID)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewStore()
		if err != nil {
			return err
		}
		snaps, err := store.List()
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			out.Info("No saved sessions.")
			return nil
		}

		active := environ()[session.SessionIDVar]
		for _, snap := range snaps {
			marker := " "
			if snap.Session.ID == active {
				marker = "*"
			}
			out.Info(fmt.Sprintf("%s %s  %s",
				marker,
				out.Bold(snap.Session.ID),
				out.Dim(fmt.Sprintf("saved %s  %d tracked",
					snap.SavedAt.Local().Format("2006-01-02 15:04:05"),
					len(snap.Session.Tracked))),
			))
		}
		return nil
	},
}

var sessionRestoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Make a saved session active and re-apply its tracked changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, err := loadSession(environ())
		if err != nil && !restoreForce {
			return err
		}
		if existing != nil && !restoreForce {
			return fmt.Errorf("%w: use --force to replace it", session.ErrSessionExists)
		}

		store, err := storage.NewStore()
		if err != nil {
			return err
		}
		snap, err := store.Load(args[0])
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no saved session %q: see 'envision session list'", args[0])
			}
			return err
		}

		s := snap.Session
		for _, name := range sortedNames(s.Tracked) {
			c := s.Tracked[name]
			if c.Kind == session.KindSet {
				exports.Set(name, c.Value)
			} else {
				exports.Unset(name)
			}
		}
		if err := exports.SaveSession(s); err != nil {
			return err
		}

		out.Success("Session restored")
		out.KeyValue("Session", s.ID)
		out.KeyValue("Re-applied", strconv.Itoa(len(s.Tracked)))
		return nil
	},
}

var sessionPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete saved sessions older than a cutoff",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewStore()
		if err != nil {
			return err
		}
		removed, err := store.Prune(pruneOlderThan, now())
		if err != nil {
			return err
		}
		for _, id := range removed {
			out.Info("  removed " + id)
		}
		out.Success(fmt.Sprintf("Pruned %d saved session(s)", len(removed)))
		return nil
	},
}

func init() {
	sessionInitCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing session")
	sessionInitCmd.Flags().BoolVar(&initResume, "resume", false, "continue the existing session")
	sessionInitCmd.MarkFlagsMutuallyExclusive("force", "resume")

	sessionRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "replace the active session")
	sessionPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 720*time.Hour, "age beyond which saved sessions are deleted")

	sessionCmd.AddCommand(sessionInitCmd, sessionSaveCmd, sessionListCmd, sessionRestoreCmd, sessionPruneCmd)
	rootCmd.AddCommand(sessionCmd)
}
