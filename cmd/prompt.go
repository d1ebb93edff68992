package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var errCancelled = errors.New("cancelled")

// isTTY reports whether v is a file attached to a terminal.
func isTTY(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func(r io.Reader) bool { return isTTY(r) }

// confirm asks a y/N question on stderr. When stdin is not a terminal it
// fails and names skipFlag as the way around the prompt.
func confirm(cmd *cobra.Command, question, skipFlag string) error {
	in := cmd.InOrStdin()
	if !stdinIsTerminal(in) {
		return fmt.Errorf("cannot prompt for confirmation: not a terminal, use %s to skip", skipFlag)
	}
	fmt.Fprintf(out.Writer(), "%s [y/N] ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(line), "y") {
		return errCancelled
	}
	return nil
}
