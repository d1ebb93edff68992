package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/envision/internal/shell"
)

var hookCmd = &cobra.Command{
	Use:       "hook SHELL",
	Short:     "Print the shell hook (bash, zsh or fish)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: shell.Supported,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := shell.Hook(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), script)
		return err
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
