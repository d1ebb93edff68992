// Package tui provides a Bubble Tea viewer for the active envision session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/envision/internal/report"
	"github.com/fakeyudi/envision/internal/session"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	setStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	unsetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	cleanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	dirtyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabTracked
	tabDrift
	tabRestore
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Tracked", "Drift", "Restore"}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the viewer.
type Model struct {
	status    *report.Status
	plan      session.RestorePlan
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	// Tracked tab: cursor position and expanded set
	cursor   int
	expanded map[int]bool
}

// New creates a viewer for st. plan is what `envision clear` would do.
func New(st *report.Status, plan session.RestorePlan) Model {
	return Model{
		status:   st,
		plan:     plan,
		expanded: make(map[int]bool),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "up", "k":
			if m.activeTab == tabTracked && m.cursor > 0 {
				m.cursor--
				m.rebuildTrackedViewport()
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabTracked && m.cursor < len(m.status.Tracked)-1 {
				m.cursor++
				m.rebuildTrackedViewport()
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabTracked && len(m.status.Tracked) > 0 {
				if m.expanded[m.cursor] {
					delete(m.expanded, m.cursor)
				} else {
					m.expanded[m.cursor] = true
				}
				m.rebuildTrackedViewport()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  envision  session " + m.status.Session.ID)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-4 jump  q quit"
	if m.activeTab == tabTracked {
		hint += "  enter show previous"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuildTrackedViewport() {
	m.viewports[tabTracked].SetContent(m.renderTab(tabTracked))
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabTracked:
		return m.renderTracked()
	case tabDrift:
		return m.renderDrift()
	case tabRestore:
		return m.renderRestore()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	st := m.status
	var sb strings.Builder
	sb.WriteString(heading("Session Summary"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Session:", st.Session.ID)
	row("Baseline:", st.Session.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if st.Session.Profile != "" {
		row("Profile:", st.Session.Profile)
	}
	state := cleanStyle.Render("clean")
	if st.Dirty {
		state = dirtyStyle.Render("dirty")
	}
	row("State:", state)

	sb.WriteString(heading("Counts"))
	row("Baseline:", fmt.Sprintf("%d", st.Session.Baseline))
	row("Tracked:", fmt.Sprintf("%d", len(st.Tracked)))
	row("Untracked:", fmt.Sprintf("%d", st.Untracked))
	row("Total:", fmt.Sprintf("%d", st.Total))
	return sb.String()
}

func (m *Model) renderTracked() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Tracked Changes (%d)", len(m.status.Tracked))))
	if len(m.status.Tracked) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}
	for i, t := range m.status.Tracked {
		toggle := dimStyle.Render("  ▶ ")
		if m.expanded[i] {
			toggle = dimStyle.Render("  ▼ ")
		}

		var line string
		if t.Kind == session.KindSet {
			line = setStyle.Render("SET  ") + " " + t.Name + "=" + t.Value
		} else {
			line = unsetStyle.Render("UNSET") + " " + t.Name
		}

		row := toggle + line
		if i == m.cursor {
			row = selectedRowStyle.Width(max(m.width-2, 1)).Render(row)
		}
		sb.WriteString(row + "\n")

		if m.expanded[i] {
			prev := "(not set before)"
			if t.Previous != nil {
				prev = *t.Previous
			}
			sb.WriteString(dimStyle.Render("        previous: "+prev) + "\n")
		}
	}
	return sb.String()
}

func (m *Model) renderDrift() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Untracked Changes (%d)", len(m.status.Drift))))
	if len(m.status.Drift) == 0 {
		sb.WriteString(dimStyle.Render("  (none, environment matches the baseline)") + "\n")
		return sb.String()
	}
	for _, d := range m.status.Drift {
		badge := changedStyle.Render(fmt.Sprintf("  %-8s", strings.ToUpper(string(d.Kind))))
		sb.WriteString(badge + "  " + d.Name + "\n")
	}
	return sb.String()
}

func (m *Model) renderRestore() string {
	var sb strings.Builder
	sb.WriteString(heading("Restore Plan"))
	if m.plan.Empty() {
		sb.WriteString(dimStyle.Render("  (nothing to restore)") + "\n")
		return sb.String()
	}
	for _, name := range m.plan.Unset {
		sb.WriteString(unsetStyle.Render("  unset  ") + " " + name + "\n")
	}
	for _, a := range m.plan.Restore {
		sb.WriteString(setStyle.Render("  restore") + " " + a.Name + "=" + a.Value + "\n")
	}
	sb.WriteString("\n" + dimStyle.Render("  run `envision clear` to apply") + "\n")
	return sb.String()
}

// Run starts the viewer.
func Run(st *report.Status, plan session.RestorePlan) error {
	p := tea.NewProgram(New(st, plan), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
