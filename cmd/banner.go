package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/envision/internal/session"
)

var bannerCmd = &cobra.Command{
	Use:    "banner",
	Short:  "Print the status banner line; exits 1 when nothing is active",
	Args:   cobra.NoArgs,
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := environ()
		s, err := session.LoadFrom(env)
		content := bannerContent(env[session.ProfileVar], s, env[session.DirtyVar] == "1", err != nil)
		if content == "" {
			return &ExitError{Code: 1}
		}

		width, err := strconv.Atoi(env["COLUMNS"])
		if err != nil || width <= 0 {
			width = 80
		}
		if pad := width - lipgloss.Width(content); pad > 0 {
			content += strings.Repeat(" ", pad)
		}

		if !noColor && os.Getenv("NO_COLOR") == "" {
			style := lipgloss.NewRenderer(cmd.OutOrStdout()).NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("4"))
			content = style.Render(content)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
		return err
	},
}

// bannerContent is the unstyled banner text, empty when neither a profile
// nor a session is active. A session that fails to decode shows as corrupted.
func bannerContent(profileName string, s *session.Session, dirty, corrupted bool) string {
	var parts []string
	if profileName != "" {
		parts = append(parts, " "+profileName)
	}
	if corrupted {
		parts = append(parts, "session corrupted")
	} else if s != nil {
		state := "clean"
		if dirty {
			state = "dirty"
		}
		parts = append(parts, fmt.Sprintf("%s | %d tracked | %s", s.ID, len(s.Tracked), state))
	}
	if len(parts) == 0 {
		return ""
	}
	line := strings.Join(parts, " | ")
	if !strings.HasPrefix(line, " ") {
		line = " " + line
	}
	return line + " "
}

func init() {
	rootCmd.AddCommand(bannerCmd)
}
