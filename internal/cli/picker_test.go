package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/matzehuels/dmdpattern/pkg/catalog"
)

func testEntries(n int) []catalog.Entry {
	entries := make([]catalog.Entry, n)
	for i := range entries {
		entries[i] = catalog.Entry{
			ID:   uuid.New(),
			Name: fmt.Sprintf("p%d.bmp", i),
			Kind: "circle",
			Rows: 40,
			Cols: 30,
		}
	}
	return entries
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m EntryListModel, keys ...string) EntryListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(EntryListModel)
	}
	return m
}

func TestEntryListModelSelect(t *testing.T) {
	entries := testEntries(3)

	tests := []struct {
		name string
		keys []string
		want string // selected name, empty for none
	}{
		{"first", []string{"enter"}, "p0.bmp"},
		{"down twice", []string{"down", "j", "enter"}, "p2.bmp"},
		{"clamped at end", []string{"j", "j", "j", "j", "enter"}, "p2.bmp"},
		{"back up", []string{"G", "k", "enter"}, "p1.bmp"},
		{"clamped at start", []string{"up", "enter"}, "p0.bmp"},
		{"quit", []string{"down", "q"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewEntryListModel(entries), tt.keys...)
			switch {
			case tt.want == "" && m.Selected != nil:
				t.Errorf("selected %q, want none", m.Selected.Name)
			case tt.want != "" && (m.Selected == nil || m.Selected.Name != tt.want):
				t.Errorf("selected %+v, want %q", m.Selected, tt.want)
			}
		})
	}
}

func TestEntryListModelScrolls(t *testing.T) {
	m := NewEntryListModel(testEntries(20))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(EntryListModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}

	m = press(m, "j", "j", "j", "j", "j", "j", "j")
	if m.Cursor != 7 || m.Offset != 3 {
		t.Errorf("cursor/offset = %d/%d, want 7/3", m.Cursor, m.Offset)
	}

	view := m.View()
	if !strings.Contains(view, "p7.bmp") || strings.Contains(view, "p0.bmp") {
		t.Errorf("view does not follow the cursor:\n%s", view)
	}
	if !strings.Contains(view, "[8/20]") {
		t.Errorf("view lacks position marker:\n%s", view)
	}
}

func TestEntryListModelEmpty(t *testing.T) {
	m := press(NewEntryListModel(nil), "enter")
	if m.Selected != nil {
		t.Errorf("selected %+v from an empty list", m.Selected)
	}
}
