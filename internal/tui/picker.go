// Package tui provides the full-screen commit picker used when no
// explicit range references are given.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/gitreport/internal/git"
)

var ErrSelectionAborted = errors.New("selection aborted")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// Pick presents commits (newest first) and returns the index of the
// chosen entry. Aborting the picker returns ErrSelectionAborted.
func Pick(prompt string, commits []git.Commit) (int, error) {
	if len(commits) == 0 {
		return 0, errors.New("no commits to select from")
	}

	p := tea.NewProgram(newPicker(prompt, commits), tea.WithAltScreen())
	out, err := p.Run()
	if err != nil {
		return 0, err
	}

	final := out.(*picker)
	if final.aborted || !final.done {
		return 0, ErrSelectionAborted
	}
	return final.selected, nil
}

type picker struct {
	prompt string
	labels []string

	visible   []int
	cursor    int
	filtering bool
	input     textinput.Model

	width  int
	height int

	selected int
	done     bool
	aborted  bool
}

func newPicker(prompt string, commits []git.Commit) *picker {
	ti := textinput.New()
	ti.Placeholder = "Filter commits"
	ti.CharLimit = 100
	ti.Width = 40

	labels := make([]string, len(commits))
	visible := make([]int, len(commits))
	for i, c := range commits {
		labels[i] = commitLabel(i, c)
		visible[i] = i
	}

	return &picker{
		prompt:  prompt,
		labels:  labels,
		visible: visible,
		input:   ti,
	}
}

func commitLabel(index int, c git.Commit) string {
	return fmt.Sprintf("%d. %s - %s (%s)", index+1, shortHash(c.Hash), c.Subject, c.Date.Format("2006-01-02"))
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func (p *picker) Init() tea.Cmd {
	return nil
}

func (p *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

func (p *picker) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		p.aborted = true
		return p, tea.Quit
	}

	if p.filtering {
		return p.handleFilterKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.visible)-1 {
			p.cursor++
		}
	case "enter":
		return p.selectCurrent()
	case "/":
		p.filtering = true
		p.input.Focus()
	case "q", "esc":
		p.aborted = true
		return p, tea.Quit
	}

	return p, nil
}

func (p *picker) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if p.cursor > 0 {
			p.cursor--
		}
		return p, nil
	case "down":
		if p.cursor < len(p.visible)-1 {
			p.cursor++
		}
		return p, nil
	case "enter":
		return p.selectCurrent()
	case "esc":
		p.filtering = false
		p.input.Reset()
		p.input.Blur()
		p.applyFilter()
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.applyFilter()
	return p, cmd
}

func (p *picker) selectCurrent() (tea.Model, tea.Cmd) {
	if len(p.visible) == 0 {
		return p, nil
	}
	p.selected = p.visible[p.cursor]
	p.done = true
	return p, tea.Quit
}

func (p *picker) applyFilter() {
	query := strings.ToLower(p.input.Value())

	p.visible = p.visible[:0]
	for i, label := range p.labels {
		if query == "" || strings.Contains(strings.ToLower(label), query) {
			p.visible = append(p.visible, i)
		}
	}

	if p.cursor >= len(p.visible) {
		p.cursor = max(0, len(p.visible)-1)
	}
}

func (p *picker) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.prompt))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Select a commit (newest first):"))
	b.WriteString("\n\n")

	if p.filtering {
		b.WriteString(p.input.View())
		b.WriteString("\n\n")
	}

	if len(p.visible) == 0 {
		b.WriteString(dimStyle.Render("No commits match the filter."))
		b.WriteString("\n")
	}

	start, end := p.window()
	for row := start; row < end; row++ {
		cursor := "  "
		style := normalStyle
		if row == p.cursor {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(style.Render(cursor + p.labels[p.visible[row]]))
		b.WriteString("\n")
	}

	help := "[enter] Select  [/] Filter  [q/esc] Abort"
	if p.filtering {
		help = "[enter] Select  [esc] Clear filter"
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// window keeps the cursor on screen when the list is taller than the
// terminal.
func (p *picker) window() (int, int) {
	rows := len(p.visible)
	limit := p.height - 8
	if limit <= 0 || rows <= limit {
		return 0, rows
	}

	start := p.cursor - limit/2
	if start < 0 {
		start = 0
	}
	if start+limit > rows {
		start = rows - limit
	}
	return start, start + limit
}
