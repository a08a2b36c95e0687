// internal/tui/app.go
//
// This is the terminal front end of the pool picker. It uses bubbletea,
// which follows The Elm Architecture:
//
// 1. Model: the App below, wrapping a session.Session
// 2. Update: turns key presses and fetch completions into session calls
// 3. View: renders the session snapshot
//
// Network work runs inside tea.Cmds and comes back as messages, so every
// session mutation happens in Update, in the order completions arrive.

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/league-pool/internal/champion"
	"github.com/kingrea/league-pool/internal/logbook"
	"github.com/kingrea/league-pool/internal/session"
)

const (
	defaultRequestTimeout = 10 * time.Second

	roleLabel     = "Select a Role"
	championLabel = "Select a Champion"
)

// focus is the panel receiving navigation keys.
type focus int

const (
	focusRole focus = iota
	focusInclude
	focusExclude
	focusIncluded
	focusExcluded
	focusSuggestions
)

var focusOrder = []focus{focusRole, focusInclude, focusExclude, focusIncluded, focusExcluded, focusSuggestions}

type roleLoadedMsg struct {
	result session.RoleResult
}

type poolsCalculatedMsg struct {
	result session.QueryResult
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook shows the logbook tail beside the picker.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithRequestTimeout bounds each candidate or recommendation request.
func WithRequestTimeout(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// App is the bubbletea model for the picker.
type App struct {
	session *session.Session
	logbook *logbook.Logbook
	timeout time.Duration
	focus   focus

	roleMenu     list.Model
	includeMenu  list.Model
	excludeMenu  list.Model
	includedList list.Model
	excludedList list.Model
	suggestions  list.Model

	statusMsg string
	width     int
	height    int
}

// candidateItem implements list.Item for roles and champions.
type candidateItem struct {
	value       string
	placeholder string
}

func (i candidateItem) Title() string {
	if i.value == "" {
		return i.placeholder
	}
	return i.value
}
func (i candidateItem) Description() string { return "" }
func (i candidateItem) FilterValue() string { return i.value }

type suggestionItem struct {
	suggestion session.Suggestion
}

func (i suggestionItem) Title() string {
	if len(i.suggestion.Pools) == 0 {
		return "(no pool covers this role)"
	}
	return i.suggestion.String()
}
func (i suggestionItem) Description() string {
	return fmt.Sprintf("%s · %s", i.suggestion.Role, i.suggestion.Params.Encode())
}
func (i suggestionItem) FilterValue() string { return i.suggestion.String() }

// NewApp wires the picker UI to sess. roles populate the role menu after
// its placeholder.
func NewApp(sess *session.Session, roles []string, opts ...AppOption) *App {
	a := &App{
		session: sess,
		timeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	roleItems := []list.Item{candidateItem{placeholder: roleLabel}}
	for _, r := range roles {
		roleItems = append(roleItems, candidateItem{value: r, placeholder: roleLabel})
	}
	a.roleMenu = newList("ROLE", roleItems, false)
	a.includeMenu = newList("ADD TO POOL", nil, false)
	a.excludeMenu = newList("EXCLUDE", nil, false)
	a.includedList = newList("CHAMPION POOL", nil, false)
	a.excludedList = newList("EXCLUDED", nil, false)
	a.suggestions = newList("SUGGESTED POOLS", nil, true)
	a.statusMsg = "Choose a role to begin"
	a.refreshLists()
	return a
}

func newList(title string, items []list.Item, withDescription bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = withDescription
	if !withDescription {
		delegate.SetSpacing(0)
	}
	l := list.New(items, delegate, 28, 10)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case roleLoadedMsg:
		a.handleRoleLoaded(msg)
		return a, nil

	case poolsCalculatedMsg:
		a.handlePoolsCalculated(msg)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "tab":
			a.cycleFocus(1)
			return a, nil
		case "shift+tab":
			a.cycleFocus(-1)
			return a, nil
		case "c":
			return a, a.calculatePools()
		case "r":
			return a, a.retryRole()
		case "enter":
			return a, a.activate()
		}
	}

	focused := a.focusedList()
	if focused == nil {
		return a, nil
	}
	var cmd tea.Cmd
	*focused, cmd = focused.Update(msg)
	a.syncChoices()
	return a, cmd
}

// activate runs the action bound to enter in the focused panel.
func (a *App) activate() tea.Cmd {
	switch a.focus {
	case focusRole:
		item, ok := a.roleMenu.SelectedItem().(candidateItem)
		if !ok {
			return nil
		}
		return a.selectRole(champion.Role(item.value))
	case focusInclude:
		a.commit(session.PickerInclude)
	case focusExclude:
		a.commit(session.PickerExclude)
	case focusIncluded:
		a.release(a.includedList)
	case focusExcluded:
		a.release(a.excludedList)
	}
	return nil
}

func (a *App) selectRole(role champion.Role) tea.Cmd {
	req, ok := a.session.SelectRole(role)
	a.refreshLists()
	if !ok {
		a.focus = focusRole
		a.statusMsg = "Choose a role to begin"
		return nil
	}
	a.statusMsg = fmt.Sprintf("Loading %s champions...", role)
	return a.fetchRole(req)
}

func (a *App) retryRole() tea.Cmd {
	if a.session.State() != session.StateFailed {
		return nil
	}
	return a.selectRole(a.session.Role())
}

func (a *App) fetchRole(req session.RoleRequest) tea.Cmd {
	sess, timeout := a.session, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return roleLoadedMsg{result: sess.FetchRole(ctx, req)}
	}
}

func (a *App) handleRoleLoaded(msg roleLoadedMsg) {
	err := a.session.ApplyRole(msg.result)
	switch {
	case errors.Is(err, session.ErrStaleCompletion):
		return
	case err != nil:
		a.statusMsg = fmt.Sprintf("Could not load %s: %v (r to retry)", msg.result.Request.Role, err)
		a.focus = focusRole
	default:
		a.statusMsg = fmt.Sprintf("%s ready · tab to move between panels", msg.result.Request.Role)
	}
	a.refreshLists()
}

func (a *App) commit(p session.Picker) {
	if !a.session.CanCommit(p) {
		a.statusMsg = "Select a champion first"
		return
	}
	c := a.session.Choice(p)
	if err := a.session.Commit(p); err != nil {
		a.statusMsg = err.Error()
		return
	}
	if p == session.PickerExclude {
		a.statusMsg = fmt.Sprintf("Excluded %s", c)
	} else {
		a.statusMsg = fmt.Sprintf("Added %s to the pool", c)
	}
	a.refreshLists()
}

func (a *App) release(from list.Model) {
	item, ok := from.SelectedItem().(candidateItem)
	if !ok || item.value == "" {
		return
	}
	c := champion.Candidate(item.value)
	if err := a.session.Release(c); err != nil {
		a.statusMsg = err.Error()
		return
	}
	a.statusMsg = fmt.Sprintf("Released %s", c)
	a.refreshLists()
}

func (a *App) calculatePools() tea.Cmd {
	req, err := a.session.BeginQuery()
	if err != nil {
		a.statusMsg = "Choose a role before calculating pools"
		return nil
	}
	a.statusMsg = "Calculating pools..."
	sess, timeout := a.session, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return poolsCalculatedMsg{result: sess.RunQuery(ctx, req)}
	}
}

func (a *App) handlePoolsCalculated(msg poolsCalculatedMsg) {
	if err := a.session.ApplyQuery(msg.result); err != nil {
		a.statusMsg = fmt.Sprintf("Pool calculation failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("%d pool(s) suggested", len(msg.result.Pools))
	a.refreshLists()
	a.suggestions.Select(len(a.suggestions.Items()) - 1)
}

// syncChoices records the highlighted picker entries as the session's choices.
func (a *App) syncChoices() {
	if a.session.State() != session.StateReady {
		return
	}
	for p, menu := range map[session.Picker]*list.Model{
		session.PickerInclude: &a.includeMenu,
		session.PickerExclude: &a.excludeMenu,
	} {
		item, ok := menu.SelectedItem().(candidateItem)
		if !ok {
			continue
		}
		_ = a.session.Choose(p, champion.Candidate(item.value))
	}
}

// refreshLists rebuilds every list from a fresh session snapshot.
func (a *App) refreshLists() {
	view := a.session.View()

	pickerItems := candidateItems(view.PickerOptions(), championLabel)
	a.includeMenu.SetItems(pickerItems)
	a.includeMenu.Select(indexOf(view.PickerOptions(), view.IncludeChoice))
	a.excludeMenu.SetItems(pickerItems)
	a.excludeMenu.Select(indexOf(view.PickerOptions(), view.ExcludeChoice))
	a.includedList.SetItems(candidateItems(view.Included, ""))
	a.excludedList.SetItems(candidateItems(view.Excluded, ""))

	items := make([]list.Item, len(view.Suggestions))
	for i, s := range view.Suggestions {
		items[i] = suggestionItem{suggestion: s}
	}
	a.suggestions.SetItems(items)

	if !view.SectionsVisible() {
		a.focus = focusRole
	}
}

func (a *App) cycleFocus(step int) {
	if !a.session.View().SectionsVisible() {
		a.focus = focusRole
		return
	}
	pos := 0
	for i, f := range focusOrder {
		if f == a.focus {
			pos = i
		}
	}
	pos = (pos + step + len(focusOrder)) % len(focusOrder)
	if focusOrder[pos] == focusSuggestions && len(a.suggestions.Items()) == 0 {
		pos = (pos + step + len(focusOrder)) % len(focusOrder)
	}
	a.focus = focusOrder[pos]
}

func (a *App) focusedList() *list.Model {
	switch a.focus {
	case focusRole:
		return &a.roleMenu
	case focusInclude:
		return &a.includeMenu
	case focusExclude:
		return &a.excludeMenu
	case focusIncluded:
		return &a.includedList
	case focusExcluded:
		return &a.excludedList
	case focusSuggestions:
		return &a.suggestions
	}
	return nil
}

func (a *App) resize() {
	column := max(20, (a.width-8)/4)
	rows := max(6, (a.height-14)/2)
	a.roleMenu.SetSize(column, rows)
	a.includeMenu.SetSize(column, rows)
	a.excludeMenu.SetSize(column, rows)
	a.includedList.SetSize(column, rows)
	a.excludedList.SetSize(column, rows)
	a.suggestions.SetSize(max(40, column*2), rows)
}

func candidateItems(values []champion.Candidate, placeholder string) []list.Item {
	items := make([]list.Item, len(values))
	for i, v := range values {
		items[i] = candidateItem{value: string(v), placeholder: placeholder}
	}
	return items
}

func indexOf(values []champion.Candidate, target champion.Candidate) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return 0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
