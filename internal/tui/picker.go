package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duboisf/donate/internal/format"
)

// Campaign is one row of the picker.
type Campaign struct {
	Slug     string
	Title    string
	Raised   float64
	Goal     float64
	Currency string
}

// Column widths (minimums).
const (
	colSlug       = 20
	colRaised     = 16
	colProgress   = 8
	minTitleWidth = 10
)

// Model implements tea.Model for the interactive campaign picker.
type Model struct {
	campaigns []Campaign
	filtered  []int // indices into campaigns
	filter    textinput.Model
	cursor    int
	selected  string // slug of the selected campaign, empty if cancelled
	quitting  bool
	width     int
	height    int
	color     bool
}

// NewModel creates a new picker model.
func NewModel(campaigns []Campaign, color bool) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100

	m := Model{
		campaigns: campaigns,
		filter:    ti,
		color:     color,
	}
	m.applyFilter()
	return m
}

func (m *Model) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.filtered = m.filtered[:0]
	for i, c := range m.campaigns {
		if query == "" ||
			strings.Contains(strings.ToLower(c.Slug), query) ||
			strings.Contains(strings.ToLower(c.Title), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	m.cursor = 0
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				m.selected = m.campaigns[m.filtered[m.cursor]].Slug
			}
			m.quitting = true
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlK:
			m.move(-1)
			return m, nil
		case tea.KeyDown, tea.KeyCtrlJ:
			m.move(1)
			return m, nil
		case tea.KeyRunes:
			// j and k navigate until the user starts typing a filter.
			if len(msg.Runes) == 1 && m.filter.Value() == "" {
				switch msg.Runes[0] {
				case 'k':
					m.move(-1)
					return m, nil
				case 'j':
					m.move(1)
					return m, nil
				}
			}
		}
	}

	prevValue := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prevValue {
		m.applyFilter()
	}
	return m, cmd
}

func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.filtered) {
		m.cursor = next
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(" Filter: ")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	width := m.width
	if width == 0 {
		width = 80
	}

	// "   " marker + slug + "  " + title + "  " + raised + "  " + progress
	fixedWidth := 3 + colSlug + 2 + 2 + colRaised + 2 + colProgress
	titleWidth := max(width-fixedWidth, minTitleWidth)

	header := fmt.Sprintf("   %-*s  %-*s  %-*s  %-*s",
		colSlug, "SLUG",
		titleWidth, "TITLE",
		colRaised, "RAISED",
		colProgress, "FUNDED",
	)
	if m.color {
		header = lipgloss.NewStyle().Bold(true).Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")

	// Leave room for the filter (2 lines), header (1 line) and help (2 lines).
	visibleRows := m.height - 5
	if visibleRows < 3 {
		visibleRows = len(m.filtered)
	}

	startIdx := 0
	if m.cursor >= visibleRows {
		startIdx = m.cursor - visibleRows + 1
	}
	endIdx := min(startIdx+visibleRows, len(m.filtered))

	for i := startIdx; i < endIdx; i++ {
		c := m.campaigns[m.filtered[i]]
		isSelected := i == m.cursor

		marker := "  "
		if isSelected {
			marker = " ▸"
		}

		title := c.Title
		if len(title) > titleWidth {
			title = title[:titleWidth-1] + "…"
		}

		pct := format.Progress(c.Raised, c.Goal)
		progressCol := format.PadColor(m.color, format.ProgressColor(pct), fmt.Sprintf("%.0f%%", pct), colProgress)

		row := fmt.Sprintf("%s %-*s  %-*s  %-*s  %s",
			marker,
			colSlug, c.Slug,
			titleWidth, title,
			colRaised, format.Money(c.Raised, c.Currency),
			progressCol,
		)
		if isSelected && m.color {
			row = lipgloss.NewStyle().Bold(true).Render(row)
		}

		b.WriteString(row)
		b.WriteString("\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString("   No matching campaigns.\n")
	}

	b.WriteString("\n")
	helpText := "up/down navigate | enter select | esc quit | type to filter"
	if m.color {
		helpText = lipgloss.NewStyle().Faint(true).Render(helpText)
	}
	b.WriteString(" " + helpText)

	return b.String()
}

// Selected returns the slug of the selected campaign, or empty if cancelled.
func (m Model) Selected() string {
	return m.selected
}

// RunPicker launches the interactive campaign picker and returns the
// selected slug. Returns empty string if the user cancelled.
func RunPicker(campaigns []Campaign, in io.Reader, out io.Writer) (string, error) {
	if len(campaigns) == 0 {
		return "", fmt.Errorf("no campaigns to pick from")
	}

	_, noColor := os.LookupEnv("NO_COLOR")
	m := NewModel(campaigns, !noColor)

	opts := []tea.ProgramOption{
		tea.WithOutput(out),
	}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}

	result, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return "", fmt.Errorf("running picker: %w", err)
	}
	return result.(Model).Selected(), nil
}
