package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/poolreview/poolreview/pkg/pool"
	"github.com/poolreview/poolreview/pkg/review"
)

func browserFixture() closureModel {
	id := func(s string) uuid.UUID { return uuid.MustParse(s) }
	c := &review.Closure{
		Nodes: []review.Node{
			{Ref: pool.Ref(pool.TypePart, id("00000000-0000-0000-0000-0000000000b1")), Name: "R-0402", Depth: 0, InChange: true},
			{Ref: pool.Ref(pool.TypeEntity, id("00000000-0000-0000-0000-0000000000b2")), Name: "Resistor", Depth: 1},
			{Ref: pool.Ref(pool.TypeUnit, id("00000000-0000-0000-0000-0000000000b3")), Name: "Resistor", Depth: 2},
		},
		Warnings: []string{"something odd"},
	}
	return newClosureModel(c)
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{}
}

func TestClosureModelNavigation(t *testing.T) {
	m := browserFixture()

	next, _ := m.Update(keyMsg("j"))
	m = next.(closureModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(closureModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}

	// Cursor clamps at the top
	next, _ = m.Update(keyMsg("k"))
	m = next.(closureModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after clamp", m.Cursor)
	}
}

func TestClosureModelSelect(t *testing.T) {
	m := browserFixture()

	next, _ := m.Update(keyMsg("j"))
	m = next.(closureModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(closureModel)

	if m.Selected == nil {
		t.Fatal("enter should select the cursor node")
	}
	if m.Selected.Name != "Resistor" || m.Selected.Ref.Type != pool.TypeEntity {
		t.Errorf("Selected = %+v", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestClosureModelQuit(t *testing.T) {
	m := browserFixture()
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestClosureModelView(t *testing.T) {
	m := browserFixture()
	view := m.View()

	if !strings.Contains(view, "Dependency Closure") {
		t.Error("view should contain the title")
	}
	if !strings.Contains(view, "R-0402") {
		t.Error("view should list the root part")
	}
	if !strings.Contains(view, "[1/3]") {
		t.Errorf("view should show position, got:\n%s", view)
	}
	if !strings.Contains(view, "1 warnings") {
		t.Error("view should show the warning count")
	}
}

func TestClosureModelViewport(t *testing.T) {
	m := browserFixture()
	m.Height = 2

	// Move past the visible window
	for range 2 {
		next, _ := m.Update(keyMsg("j"))
		m = next.(closureModel)
	}
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}

	view := m.View()
	if strings.Contains(view, "R-0402") {
		t.Error("scrolled view should not show the first row")
	}
}
