package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakeyudi/envision/internal/session"
)

var unsetCmd = &cobra.Command{
	Use:   "unset VAR",
	Short: "Unset a variable and track the change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := checkName(name); err != nil {
			return err
		}
		env := environ()
		current, ok := env[name]
		if !ok {
			out.Warn(fmt.Sprintf("Variable '%s' is not set", name))
			return nil
		}
		s, err := loadSession(env)
		if err != nil {
			return err
		}

		if session.IsCritical(name, cfg.CriticalVars...) {
			out.Warn(fmt.Sprintf("Warning: '%s' is a system-critical variable", name))
		}
		exports.Unset(name)
		out.Success(fmt.Sprintf("Unset %s (was: %s)", name, current))

		if s == nil {
			return nil
		}
		res := s.TrackUnset(name)
		if err := exports.SaveSession(s); err != nil {
			return err
		}
		log.Debug("tracked unset", zap.String("name", name), zap.Stringer("previous", res.PreviousKind))

		if res.Previous != nil {
			out.KeyValue("Was", res.PreviousKind.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unsetCmd)
}
