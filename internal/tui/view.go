package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/league-pool/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("#5B8DEF"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))
	enabledStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7BD88F"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// View renders the current state to a string.
func (a *App) View() string {
	view := a.session.View()
	header := headerStyle.Render("⬡ LEAGUE POOL")

	sections := []string{a.panel(focusRole, a.roleMenu.View())}
	if view.SectionsVisible() {
		pickers := lipgloss.JoinHorizontal(lipgloss.Top,
			a.panel(focusInclude, a.pickerWithAction(a.includeMenu, view.CanInclude, "add")),
			a.panel(focusExclude, a.pickerWithAction(a.excludeMenu, view.CanExclude, "exclude")),
			a.panel(focusIncluded, a.includedList.View()),
			a.panel(focusExcluded, a.excludedList.View()),
		)
		sections = append(sections, pickers)
	} else if view.State == session.StateRoleLoading {
		sections = append(sections, hintStyle.Render(fmt.Sprintf("Loading %s...", view.Role)))
	}
	if len(view.Suggestions) > 0 {
		sections = append(sections, a.panel(focusSuggestions, a.suggestions.View()))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if logPanel := a.renderLogPanel(); logPanel != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", logPanel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, a.renderFooter(view))
}

func (a *App) panel(f focus, body string) string {
	if a.focus == f {
		return focusedPanelStyle.Render(body)
	}
	return panelStyle.Render(body)
}

// pickerWithAction appends the picker's action affordance, greyed out while
// the placeholder is chosen.
func (a *App) pickerWithAction(menu list.Model, enabled bool, action string) string {
	label := fmt.Sprintf("[enter] %s", action)
	if enabled {
		label = enabledStyle.Render(label)
	} else {
		label = disabledStyle.Render(label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, menu.View(), label)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Width(max(30, a.width/3)).
		Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderFooter(view session.View) string {
	status := a.statusMsg
	if view.Err != nil && view.State == session.StateFailed {
		status = errorStyle.Render(status)
	}
	keys := "tab: next panel · enter: select · q: quit"
	if view.CanQuery {
		keys = "tab: next panel · enter: select · c: calculate pools · q: quit"
	} else if view.State == session.StateFailed {
		keys = "r: retry · enter: select role · q: quit"
	}
	return lipgloss.JoinVertical(lipgloss.Left, "", status, hintStyle.Render(keys))
}
