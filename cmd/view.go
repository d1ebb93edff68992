package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/envision/internal/report"
	"github.com/fakeyudi/envision/internal/session"
	"github.com/fakeyudi/envision/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the active session interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := environ()
		s, err := requireSession(env)
		if err != nil {
			return err
		}
		st := report.Build(s, env)

		if plainOutput || !isTTY(cmd.OutOrStdout()) {
			data, err := (&report.MarkdownRenderer{}).Render(st)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return tui.Run(st, session.PlanRestore(s))
	},
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "print a Markdown summary instead of opening the viewer")
	rootCmd.AddCommand(viewCmd)
}
