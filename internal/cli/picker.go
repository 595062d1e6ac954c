package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/dmdpattern/pkg/catalog"
)

// isTerminal reports whether list may start the interactive picker.
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

var (
	pickerHeaderStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	pickerBorderStyle = lipgloss.NewStyle().Foreground(colorFaint)
	pickerCursorStyle = lipgloss.NewStyle().Foreground(colorGood).Bold(true)
)

// =============================================================================
// EntryListModel - Interactive catalog entry selection
// =============================================================================

// EntryListModel is the bubbletea model that picks one catalog entry.
type EntryListModel struct {
	Entries  []catalog.Entry
	Cursor   int
	Offset   int
	Height   int
	Selected *catalog.Entry
}

// NewEntryListModel creates a picker over entries, newest first as listed.
func NewEntryListModel(entries []catalog.Entry) EntryListModel {
	return EntryListModel{Entries: entries, Height: 15}
}

func (m EntryListModel) Init() tea.Cmd { return nil }

func (m EntryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Entries)-1, 0)
		case "enter":
			if len(m.Entries) == 0 {
				return m, tea.Quit
			}
			e := m.Entries[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}

	// Keep the cursor inside the visible window.
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m EntryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Pattern"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ show  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			e.Name,
			e.Kind,
			fmt.Sprintf("%dx%d", e.Rows, e.Cols),
			fmt.Sprintf("%d", e.OnCount),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(pickerBorderStyle).
		Headers("", "Name", "Kind", "Device", "On", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return pickerHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return pickerCursorStyle
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))
	return b.String()
}

// pickEntry runs the picker and returns the chosen entry, or nil when the
// user quit without choosing.
func pickEntry(entries []catalog.Entry) (*catalog.Entry, error) {
	final, err := tea.NewProgram(NewEntryListModel(entries)).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(EntryListModel)
	if !ok {
		return nil, nil
	}
	return m.Selected, nil
}
