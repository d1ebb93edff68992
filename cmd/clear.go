package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/envision/internal/session"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Undo every tracked change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := requireSession(environ())
		if err != nil {
			return err
		}
		if len(s.Tracked) == 0 {
			out.Success("Nothing to clear")
			return nil
		}

		plan := session.PlanRestore(s)
		out.Info(fmt.Sprintf("%d tracked change(s) to clear:", len(s.Tracked)))
		for _, name := range plan.Unset {
			out.Info("  unset " + name)
		}
		for _, a := range plan.Restore {
			out.Info(fmt.Sprintf("  restore %s=%s", a.Name, a.Value))
		}

		if !clearForce {
			if err := confirm(cmd, "Clear all tracked changes?", "--force"); err != nil {
				if errors.Is(err, errCancelled) {
					return fmt.Errorf("clear cancelled")
				}
				return err
			}
		}

		for _, name := range plan.Unset {
			exports.Unset(name)
		}
		for _, a := range plan.Restore {
			exports.Set(a.Name, a.Value)
		}
		s.ClearTracked()
		if err := exports.SaveSession(s); err != nil {
			return err
		}

		if len(plan.Unset) > 0 {
			out.KeyValue("Removed", strconv.Itoa(len(plan.Unset)))
		}
		if len(plan.Restore) > 0 {
			out.KeyValue("Restored", strconv.Itoa(len(plan.Restore)))
		}
		out.Success("Tracked changes cleared")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
