package styles

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PresetItem represents a saved preset for the list.
type PresetItem struct {
	Name       string
	Properties int
	Selected   bool
	UpdatedAt  time.Time
}

// FilterValue implements list.Item.
func (i PresetItem) FilterValue() string {
	return i.Name
}

// PresetDelegate renders preset items with theme styling.
type PresetDelegate struct {
	Theme *Theme
}

// NewPresetDelegate creates a themed preset list delegate.
func NewPresetDelegate(theme *Theme) PresetDelegate {
	return PresetDelegate{Theme: theme}
}

// Height returns the height of each item.
func (d PresetDelegate) Height() int {
	return 2
}

// Spacing returns the spacing between items.
func (d PresetDelegate) Spacing() int {
	return 0
}

// Update handles item-level events.
func (d PresetDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders a single list item.
func (d PresetDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(PresetItem)
	if !ok {
		return
	}

	t := d.Theme
	isCursor := index == m.Index()

	cursor := cursorEmpty
	titleStyle := t.ListItemTitle
	if isCursor {
		cursor = cursorSelected
		titleStyle = titleStyle.Foreground(t.Accent).Bold(true)
	}

	name := pi.Name
	if pi.Selected {
		name += " " + t.AccentBadge("active")
	}

	line1 := lipgloss.JoinHorizontal(
		lipgloss.Left,
		t.Highlight.Render(cursor),
		titleStyle.Render(name),
	)

	meta := fmt.Sprintf("%d properties", pi.Properties)
	if !pi.UpdatedAt.IsZero() {
		meta += " " + t.MutedBadge(RelativeTime(pi.UpdatedAt))
	}

	line2 := lipgloss.JoinHorizontal(
		lipgloss.Left,
		strings.Repeat(" ", len(cursorSelected)),
		t.ListItemDesc.Render(meta),
	)

	_, _ = fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// NewPresetList creates a themed list for preset items.
func NewPresetList(theme *Theme, items []PresetItem, width, height int) list.Model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, NewPresetDelegate(theme), width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)

	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	l.Styles.ActivePaginationDot = lipgloss.NewStyle().Foreground(theme.Accent)
	l.Styles.InactivePaginationDot = lipgloss.NewStyle().Foreground(theme.Muted)

	return l
}

// RelativeTime formats a timestamp as a short relative string.
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
