// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// linesPerResult is the height of one rendered result.
const linesPerResult = 2

// ResultList displays ranked skills in a navigable list, marking the
// characters of each name that match the committed query.
type ResultList struct {
	results    []domain.QueryResult
	query      string
	highlights []map[int]bool
	selected   int
	styles     *styles.Styles
	width      int
	height     int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// nameSource exposes result names to the fuzzy matcher.
type nameSource []domain.QueryResult

func (n nameSource) String(i int) string { return n[i].Name }
func (n nameSource) Len() int            { return len(n) }

// matchHighlights returns, per result, the byte offsets of name characters
// matched by any query term.
func matchHighlights(query string, results []domain.QueryResult) []map[int]bool {
	out := make([]map[int]bool, len(results))
	for i := range out {
		out[i] = map[int]bool{}
	}
	for _, term := range strings.Fields(query) {
		for _, m := range fuzzy.FindFrom(term, nameSource(results)) {
			for _, idx := range m.MatchedIndexes {
				out[m.Index][idx] = true
			}
		}
	}
	return out
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		if domain.IsBlankQuery(r.query) {
			return ""
		}
		return r.styles.Muted.Render("No matching skills")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Skills (%d)", len(r.results)))
	lines = append(lines, header, "")

	visible := (r.height - 2) / linesPerResult
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one skill as a name line and a summary line.
func (r *ResultList) renderResult(index int) string {
	res := &r.results[index]

	base := r.styles.Normal
	indicator := "  "
	if index == r.selected {
		base = r.styles.Selected
		indicator = "> "
	}

	name := truncate(res.Name, r.width-30)
	title := base.Render(indicator) + r.renderName(name, r.highlights[index], base)
	meta := r.styles.Muted.Render(fmt.Sprintf("  %s  %s", FormatInstalls(res.Installs), res.Source))

	summary := "    " + truncate(res.Description, r.width-6)
	line2 := r.styles.Muted.Render(summary)
	if len(res.Technologies) > 0 {
		line2 += "  " + r.styles.Tag.Render(strings.Join(res.Technologies, " "))
	}

	return title + meta + "\n" + line2
}

// renderName styles matched characters with the highlight style.
func (r *ResultList) renderName(name string, marks map[int]bool, base lipgloss.Style) string {
	if len(marks) == 0 {
		return base.Render(name)
	}
	var b strings.Builder
	for i, c := range name {
		if marks[i] {
			b.WriteString(r.styles.Highlight.Inherit(base).Render(string(c)))
		} else {
			b.WriteString(base.Render(string(c)))
		}
	}
	return b.String()
}

// Detail renders the selected skill in full, or "" when nothing is selected.
func (r *ResultList) Detail() string {
	res := r.SelectedResult()
	if res == nil {
		return ""
	}

	lines := []string{
		r.styles.Subtitle.Render(res.Name) + r.styles.Muted.Render("  "+res.Source+"/"+res.SkillID),
	}
	if res.Description != "" {
		lines = append(lines, r.styles.Normal.Width(r.width).Render(res.Description))
	}
	if len(res.Technologies) > 0 {
		lines = append(lines, r.styles.Tag.Render(strings.Join(res.Technologies, ", ")))
	}
	lines = append(lines, r.styles.Muted.Render(
		fmt.Sprintf("%s installs  skilldex install %s %s", FormatInstalls(res.Installs), res.Source, res.SkillID),
	))
	return strings.Join(lines, "\n")
}

// FormatInstalls renders an install count compactly: 950, 1.2k, 3.4M.
func FormatInstalls(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// SetResults replaces the results shown for query. The selection is kept
// on the same skill when it is still present.
func (r *ResultList) SetResults(query string, results []domain.QueryResult) {
	var keep domain.SkillKey
	prev := r.SelectedResult()
	if prev != nil {
		keep = prev.Key()
	}

	r.query = query
	r.results = results
	r.highlights = matchHighlights(query, results)
	r.selected = 0

	if prev == nil {
		return
	}
	for i := range results {
		if results[i].Key() == keep {
			r.selected = i
			return
		}
	}
}

// Results returns the current results.
func (r *ResultList) Results() []domain.QueryResult {
	return r.results
}

// Highlights returns the matched byte offsets of the name at index i.
func (r *ResultList) Highlights(i int) map[int]bool {
	if i < 0 || i >= len(r.highlights) {
		return nil
	}
	return r.highlights[i]
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.QueryResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
