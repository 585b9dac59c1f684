package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/comictalker/mangabaka/internal/comicmeta"
)

func sampleCandidates() []comicmeta.Series {
	return []comicmeta.Series{
		{
			ID:          "1",
			Name:        "Naruto",
			StartYear:   1999,
			Publisher:   "Viz Media",
			Rating:      7.9,
			Format:      "manga",
			Description: "A young ninja seeks recognition",
		},
		{
			ID:        "2",
			Name:      "Naruto: Gold",
			StartYear: 2015,
			Format:    "manga",
		},
	}
}

func newTestModel() *model {
	candidates := sampleCandidates()
	items := make([]seriesItem, len(candidates))
	for i, c := range candidates {
		items[i] = seriesItem{Series: c}
	}
	return newModel("naruto", items)
}

func TestSelectSeriesSkipsEmptyCandidates(t *testing.T) {
	called := false
	orig := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		called = true
		return m, nil
	}
	defer func() { runProgram = orig }()

	result, err := SelectSeries("naruto", nil)
	if err != nil {
		t.Fatalf("SelectSeries failed: %v", err)
	}
	if result.Action != ActionSkipped {
		t.Errorf("Expected ActionSkipped, got %v", result.Action)
	}
	if called {
		t.Error("Program should not run when there are no candidates")
	}
}

func TestSelectSeriesReturnsProgramResult(t *testing.T) {
	orig := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		typed := m.(*model)
		selection := sampleCandidates()[0]
		typed.result = SelectionResult{Action: ActionSelected, Selection: &selection}
		return typed, nil
	}
	defer func() { runProgram = orig }()

	result, err := SelectSeries("naruto", sampleCandidates())
	if err != nil {
		t.Fatalf("SelectSeries failed: %v", err)
	}
	if result.Action != ActionSelected {
		t.Fatalf("Expected ActionSelected, got %v", result.Action)
	}
	if result.Selection == nil || result.Selection.ID != "1" {
		t.Errorf("Expected selection of series 1, got %+v", result.Selection)
	}
}

func TestSelectSeriesPropagatesProgramError(t *testing.T) {
	orig := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		return nil, errors.New("terminal unavailable")
	}
	defer func() { runProgram = orig }()

	_, err := SelectSeries("naruto", sampleCandidates())
	if err == nil {
		t.Fatal("Expected an error from the program runner")
	}
}

func TestModelKeyHandling(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want SelectionAction
	}{
		{"enter selects", tea.KeyMsg{Type: tea.KeyEnter}, ActionSelected},
		{"s skips", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, ActionSkipped},
		{"esc skips", tea.KeyMsg{Type: tea.KeyEsc}, ActionSkipped},
		{"q stops", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, ActionStopped},
		{"ctrl+c stops", tea.KeyMsg{Type: tea.KeyCtrlC}, ActionStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel()
			updated, _ := m.Update(tt.key)
			typed, ok := updated.(*model)
			if !ok {
				t.Fatal("Update returned an unexpected model type")
			}
			if typed.result.Action != tt.want {
				t.Errorf("Expected action %v, got %v", tt.want, typed.result.Action)
			}
		})
	}
}

func TestEnterSelectsHighlightedCandidate(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	typed := updated.(*model)
	updated, _ = typed.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typed = updated.(*model)

	if typed.result.Action != ActionSelected {
		t.Fatalf("Expected ActionSelected, got %v", typed.result.Action)
	}
	if typed.result.Selection == nil || typed.result.Selection.ID != "2" {
		t.Errorf("Expected second candidate selected, got %+v", typed.result.Selection)
	}
}

func TestFormatMetadata(t *testing.T) {
	got := formatMetadata(comicmeta.Series{}, 80)
	if got != "No metadata available" {
		t.Errorf("Expected fallback line, got %q", got)
	}

	got = formatMetadata(sampleCandidates()[0], 80)
	for _, want := range []string{"Viz Media", "1999"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected metadata to contain %q, got %q", want, got)
		}
	}
}

func TestCandidateTitleOmitsZeroYear(t *testing.T) {
	got := candidateTitle(comicmeta.Series{Name: "Berserk"})
	if got != "BERSERK" {
		t.Errorf("Expected bare name, got %q", got)
	}

	got = candidateTitle(comicmeta.Series{Name: "Berserk", StartYear: 1989})
	if got != "BERSERK (1989)" {
		t.Errorf("Expected year suffix, got %q", got)
	}
}
