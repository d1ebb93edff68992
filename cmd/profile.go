package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/envision/internal/profile"
	"github.com/fakeyudi/envision/internal/session"
)

var (
	profileYes    bool
	profileDryRun bool
)

var profileCmd = &cobra.Command{
	Use:   "profile PATH",
	Short: "Source a profile script and track every variable it changes",
	Long: `Runs PATH (*.profile.sh or *.envision) in a clean, non-interactive shell,
diffs the environment it leaves behind against the current one and applies
the difference as tracked changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path := profile.ResolvePath(args[0], cwd)
		if err := profile.Check(path); err != nil {
			return err
		}

		env := environ()
		s, err := loadSession(env)
		if err != nil {
			return err
		}

		if cfg.Confirm() && !profileYes && env[session.ProfileChecksumVar] == "" {
			out.Warn("Loading profile: " + path)
			if err := confirm(cmd, "Continue?", "--yes"); err != nil {
				if errors.Is(err, errCancelled) {
					return fmt.Errorf("profile loading cancelled")
				}
				return err
			}
		}

		runner := &profile.Runner{Shell: cfg.ProfileShell, Log: log}
		after, err := runner.Run(cmd.Context(), path)
		if err != nil {
			return err
		}
		changes := profile.Diff(env, after, cfg.NoiseVars...)
		name := profile.Name(path, env[session.ProfileVar])
		for _, c := range changes {
			if c.Kind != profile.ChangeSet {
				continue
			}
			if err := session.ValidateValue(c.Name, c.Value); err != nil {
				return fmt.Errorf("profile '%s': %w", name, err)
			}
		}

		if profileDryRun {
			out.Info(fmt.Sprintf("Dry run for profile '%s':", name))
			if len(changes) == 0 {
				out.Info("  (no changes)")
			}
			for _, c := range changes {
				out.Info("  " + describeChange(c))
			}
			return nil
		}

		checksum, err := profile.Checksum(path)
		if err != nil {
			return err
		}

		if s == nil {
			s = session.New(env)
			out.Success("Session initialized")
			out.KeyValue("Session", s.ID)
		}

		for _, c := range changes {
			if session.IsCritical(c.Name, cfg.CriticalVars...) {
				out.Warn(fmt.Sprintf("Warning: profile changes system-critical variable '%s'", c.Name))
			}
			if c.Kind == profile.ChangeUnset {
				exports.Unset(c.Name)
				s.TrackUnset(c.Name)
				continue
			}
			exports.Set(c.Name, c.Value)
			s.TrackSet(c.Name, c.Value)
		}
		exports.Set(session.ProfileVar, name)
		exports.Set(session.ProfileChecksumVar, checksum)
		if err := exports.SaveSession(s); err != nil {
			return err
		}
		log.Debug("profile applied", zap.String("profile", name), zap.Int("changes", len(changes)))

		out.Success(fmt.Sprintf("Profile '%s' loaded", name))
		out.KeyValue("Variables changed", strconv.Itoa(len(changes)))
		return nil
	},
}

func describeChange(c profile.Change) string {
	if c.Kind == profile.ChangeUnset {
		return "unset " + c.Name
	}
	return fmt.Sprintf("set %s=%s", c.Name, c.Value)
}

func init() {
	profileCmd.Flags().BoolVarP(&profileYes, "yes", "y", false, "skip the first-load confirmation")
	profileCmd.Flags().BoolVar(&profileDryRun, "dry-run", false, "show the changes without applying them")
	rootCmd.AddCommand(profileCmd)
}
