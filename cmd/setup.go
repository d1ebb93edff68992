package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/envision/internal/shell"
)

var setupShell string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the shell hook (re-run anytime to refresh it)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := setupShell
		if sh == "" {
			sh = shell.DetectShell()
		}

		reinstall := shell.IsInstalled(sh)
		path, err := shell.Install(sh)
		if err != nil {
			return fmt.Errorf("installing %s hook: %w", sh, err)
		}
		if reinstall {
			out.Success("Hook updated: " + path)
			return nil
		}

		out.Success("Hook installed: " + path)
		out.Info(fmt.Sprintf("Add this line to %s:", shell.RCFile(sh)))
		out.Info("")
		out.Info("    source " + path)
		out.Info("")
		out.Info("Then start a new shell and run 'envision session init'.")
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupShell, "shell", "", "shell to install the hook for (default: $SHELL)")
	rootCmd.AddCommand(setupCmd)
}
