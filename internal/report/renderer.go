package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fakeyudi/envision/internal/session"
)

// Renderer serializes a Status to bytes.
type Renderer interface {
	Render(st *Status) ([]byte, error)
}

// ForFormat returns the renderer for "json" or "markdown".
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	}
	return nil, fmt.Errorf("unsupported format %q: use text, json or markdown", format)
}

// JSONRenderer renders a Status as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(st *Status) ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}

// MarkdownRenderer renders a Status as a human-readable Markdown document.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(st *Status) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# envision session %s\n\n", st.Session.ID)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Baseline: %s (%d variables)\n",
		st.Session.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		st.Session.Baseline,
	)
	if st.Session.Profile != "" {
		fmt.Fprintf(&sb, "- Profile: %s\n", st.Session.Profile)
	}
	fmt.Fprintf(&sb, "- Tracked changes: %d\n", len(st.Tracked))
	fmt.Fprintf(&sb, "- Untracked changes: %d\n", st.Untracked)
	fmt.Fprintf(&sb, "- Total changed: %d\n", st.Total)
	fmt.Fprintf(&sb, "- State: %s\n", st.State())
	sb.WriteString("\n")

	sb.WriteString("## Tracked\n\n")
	if len(st.Tracked) == 0 {
		sb.WriteString("_No tracked changes._\n")
	} else {
		sb.WriteString("| Variable | Change | Value | Previous |\n")
		sb.WriteString("|----------|--------|-------|----------|\n")
		for _, t := range st.Tracked {
			prev := "_none_"
			if t.Previous != nil {
				prev = "`" + cell(*t.Previous) + "`"
			}
			value := ""
			if t.Kind == session.KindSet {
				value = "`" + cell(t.Value) + "`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", t.Name, t.Kind, value, prev)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Drift\n\n")
	if len(st.Drift) == 0 {
		sb.WriteString("_No untracked changes._\n")
	} else {
		for _, d := range st.Drift {
			fmt.Fprintf(&sb, "- %s (%s)\n", d.Name, d.Kind)
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// cell keeps a value on one table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
