package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/envision/internal/report"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracked and untracked changes; exits 1 when dirty",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := environ()
		s, err := requireSession(env)
		if err != nil {
			return err
		}
		st := report.Build(s, env)

		if statusFormat != "text" {
			renderer, err := report.ForFormat(statusFormat)
			if err != nil {
				return err
			}
			data, err := renderer.Render(st)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(append(data, '\n')); err != nil {
				return err
			}
		} else {
			out.KeyValue("Session", st.Session.ID)
			out.KeyValue("Baseline", st.Session.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
			out.KeyValue("Tracked changes", strconv.Itoa(len(st.Tracked)))
			out.KeyValue("Untracked changes", strconv.Itoa(st.Untracked))
			out.KeyValue("Total changed", strconv.Itoa(st.Total))
			if st.Dirty {
				out.Warn("State: dirty")
			} else {
				out.Success("State: clean")
			}
		}

		if st.Dirty {
			return &ExitError{Code: 1}
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "text", "output format: text, json or markdown")
	rootCmd.AddCommand(statusCmd)
}
