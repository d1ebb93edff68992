package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/envision/internal/session"
)

var setCmd = &cobra.Command{
	Use:   "set VAR VALUE",
	Short: "Set a variable and track the change",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], args[1]
		if err := checkName(name); err != nil {
			return err
		}
		if err := session.ValidateValue(name, value); err != nil {
			return err
		}
		env := environ()
		s, err := loadSession(env)
		if err != nil {
			return err
		}

		if session.IsCritical(name, cfg.CriticalVars...) {
			out.Warn(fmt.Sprintf("Warning: '%s' is a system-critical variable", name))
		}
		exports.Set(name, value)
		out.Success(fmt.Sprintf("Set %s=%s", name, value))

		if s == nil {
			return nil
		}
		if c, ok := s.Tracked[name]; ok && c.Kind == session.KindSet && c.Value == value {
			return exports.SaveSession(s)
		}
		if _, tracked := s.Tracked[name]; !tracked && s.InBaseline(name) {
			if _, live := env[name]; live {
				out.Warn(fmt.Sprintf("'%s' predates the session; 'envision clear' will unset it rather than restore it", name))
			}
		}

		res := s.TrackSet(name, value)
		if err := exports.SaveSession(s); err != nil {
			return err
		}
		log.Debug("tracked set", zap.String("name", name), zap.Stringer("overwrite", res.Overwrite))

		if res.Previous != nil {
			suffix := ""
			switch res.Overwrite {
			case session.OverwriteTracked:
				suffix = " (was tracked)"
			case session.OverwriteUntracked:
				suffix = " (was untracked)"
			}
			out.KeyValue("Previous", *res.Previous+suffix)
		}
		return nil
	},
}

// checkName rejects invalid identifiers and envision's own variables.
func checkName(name string) error {
	if err := session.ValidateName(name); err != nil {
		return err
	}
	if session.IsReserved(name) {
		return fmt.Errorf("%s is managed by envision and cannot be changed directly", name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(setCmd)
}
