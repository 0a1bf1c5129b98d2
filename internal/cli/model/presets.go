// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/retint/internal/cli/styles"
	"github.com/bnema/retint/internal/domain/repository"
	"github.com/bnema/retint/internal/logging"
)

// PresetsModel is the Bubble Tea model for the interactive preset
// browser.
type PresetsModel struct {
	list list.Model
	help help.Model
	keys styles.PresetKeyMap

	showHelp bool
	status   string
	width    int
	height   int
	err      error

	ctx   context.Context
	store repository.TweakStore
	theme *styles.Theme
}

// NewPresetsModel creates a new preset browser model.
func NewPresetsModel(ctx context.Context, theme *styles.Theme, store repository.TweakStore) PresetsModel {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating presets model")

	return PresetsModel{
		list:  styles.NewPresetList(theme, nil, 80, 20),
		help:  help.New(),
		keys:  styles.DefaultPresetKeyMap(),
		ctx:   ctx,
		store: store,
		theme: theme,
		width: 80,
		height: 24,
	}
}

// Init implements tea.Model.
func (m PresetsModel) Init() tea.Cmd {
	return m.loadPresets
}

// presetsLoadedMsg is sent when the preset list is loaded.
type presetsLoadedMsg struct {
	items []styles.PresetItem
}

// presetActionMsg is sent after a select or delete action.
type presetActionMsg struct {
	status string
	err    error
}

// loadPresets reads every preset and the current selection.
func (m PresetsModel) loadPresets() tea.Msg {
	presets := m.store.GetAllPresets(m.ctx)
	selected := m.store.GetSelectedPreset(m.ctx)

	items := make([]styles.PresetItem, 0, len(presets))
	for name, p := range presets {
		items = append(items, styles.PresetItem{
			Name:       name,
			Properties: len(p.CSSProperties),
			Selected:   name == selected,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return presetsLoadedMsg{items: items}
}

func (m PresetsModel) selectPreset(name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.SetSelectedPreset(m.ctx, name); err != nil {
			return presetActionMsg{err: err}
		}
		return presetActionMsg{status: "selected " + name}
	}
}

func (m PresetsModel) deletePreset(name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.DeletePreset(m.ctx, name); err != nil {
			return presetActionMsg{err: err}
		}
		return presetActionMsg{status: "deleted " + name}
	}
}

// Update implements tea.Model.
func (m PresetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case presetsLoadedMsg:
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = item
		}
		return m, m.list.SetItems(items)

	case presetActionMsg:
		m.err = msg.err
		m.status = msg.status
		return m, m.loadPresets

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if item, ok := m.list.SelectedItem().(styles.PresetItem); ok {
				return m, m.selectPreset(item.Name)
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(styles.PresetItem); ok {
				return m, m.deletePreset(item.Name)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PresetsModel) View() string {
	t := m.theme

	header := t.Title.Render("Presets")
	body := m.list.View()

	footer := ""
	switch {
	case m.err != nil:
		footer = t.ErrorStyle.Render(m.err.Error())
	case m.status != "":
		footer = t.Subtle.Render(m.status)
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		helpView = m.help.FullHelpView(m.keys.FullHelp())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		body,
		footer,
		helpView,
	)
}
