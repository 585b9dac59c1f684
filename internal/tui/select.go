// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/comictalker/mangabaka/internal/comicmeta"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected a candidate.
	ActionSelected
	// ActionSkipped indicates the user skipped the selection.
	ActionSkipped
	// ActionStopped indicates the user stopped processing entirely.
	ActionStopped
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *comicmeta.Series
}

type seriesItem struct {
	comicmeta.Series
}

func (i seriesItem) FilterValue() string {
	return i.Name
}

type itemStyles struct {
	normal        lipgloss.Style
	selected      lipgloss.Style
	formatStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	ratingStyle   lipgloss.Style
	metadataStyle lipgloss.Style
	summaryStyle  lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		formatStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		ratingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		summaryStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
	}
}

type seriesDelegate struct {
	styles itemStyles
}

func newDelegate() seriesDelegate {
	return seriesDelegate{styles: newItemStyles()}
}

func (d seriesDelegate) Height() int                         { return 5 }
func (d seriesDelegate) Spacing() int                        { return 1 }
func (d seriesDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d seriesDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	candidate, ok := item.(seriesItem)
	if !ok {
		return
	}

	format := candidate.Format
	if format == "" {
		format = "series"
	}
	summary := candidate.Description
	if len(summary) > 0 {
		summary = truncate(summary, m.Width()-4)
	}

	formatLine := d.styles.formatStyle.Render(fmt.Sprintf("[%s]", strings.ToUpper(format)))
	metadataLine := d.styles.metadataStyle.Render(formatMetadata(candidate.Series, m.Width()-4))
	titleLine := d.styles.titleStyle.Render(candidateTitle(candidate.Series))
	ratingLine := d.styles.ratingStyle.Render(formatRating(candidate.Rating))
	summaryLine := d.styles.summaryStyle.Render(summary)

	content := lipgloss.JoinVertical(lipgloss.Left, formatLine, metadataLine, titleLine, ratingLine, summaryLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

func candidateTitle(s comicmeta.Series) string {
	name := strings.ToUpper(s.Name)
	if s.StartYear > 0 {
		return fmt.Sprintf("%s (%d)", name, s.StartYear)
	}
	return name
}

func formatRating(rating float64) string {
	if rating <= 0 {
		return "unrated"
	}
	return fmt.Sprintf("%.1f/10", rating)
}

type model struct {
	list        list.Model
	searchTitle string
	result      SelectionResult
}

func newModel(title string, items []seriesItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:        l,
		searchTitle: title,
		result: SelectionResult{
			Action: ActionNone,
		},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(seriesItem); ok {
				result := selected.Series
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: &result,
				}
				return m, tea.Quit
			}
		case "s":
			m.result = SelectionResult{Action: ActionSkipped}
			return m, tea.Quit
		case "ctrl+c", "q":
			m.result = SelectionResult{Action: ActionStopped}
			return m, tea.Quit
		case "esc":
			m.result = SelectionResult{Action: ActionSkipped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Multiple results found for: %s", m.searchTitle))
	listView := m.list.View()
	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		skipButtonStyle.Render(" Skip "),
		lipgloss.NewStyle().Padding(0, 2).Render(""),
		stopButtonStyle.Render(" Stop Processing "),
	)
	help := helpStyle.Render("Up/Down navigate | Enter select | s skip | q stop")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, buttons, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	skipButtonStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("178")).
			Foreground(lipgloss.Color("0")).
			Bold(true)

	stopButtonStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("161")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// SelectSeries presents an interactive picker over search candidates. An empty
// candidate list skips without drawing anything.
func SelectSeries(query string, candidates []comicmeta.Series) (SelectionResult, error) {
	if len(candidates) == 0 {
		return SelectionResult{Action: ActionSkipped}, nil
	}

	items := make([]seriesItem, len(candidates))
	for i, candidate := range candidates {
		items[i] = seriesItem{Series: candidate}
	}
	m := newModel(query, items)
	finalModel, err := runProgram(m)
	if err != nil {
		return SelectionResult{}, err
	}

	if typed, ok := finalModel.(*model); ok {
		return typed.result, nil
	}

	return SelectionResult{}, fmt.Errorf("unexpected program result")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

// formatMetadata creates the metadata line with publisher, year, and counts.
func formatMetadata(s comicmeta.Series, availableWidth int) string {
	var parts []string

	if s.Publisher != "" {
		parts = append(parts, s.Publisher)
	}
	if s.StartYear > 0 {
		parts = append(parts, fmt.Sprintf("%d", s.StartYear))
	}
	if s.CountOfIssues > 0 {
		parts = append(parts, fmt.Sprintf("%d chapters", s.CountOfIssues))
	}
	if s.CountOfVolumes > 0 {
		parts = append(parts, fmt.Sprintf("%d volumes", s.CountOfVolumes))
	}

	if len(parts) == 0 {
		return "No metadata available"
	}

	metadata := strings.Join(parts, " | ")
	if availableWidth > 0 && len(metadata) > availableWidth {
		metadata = truncate(metadata, availableWidth)
	}

	return metadata
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
