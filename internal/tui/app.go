package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/majorhelp/tuitioncalc/internal/calculator"
	"github.com/majorhelp/tuitioncalc/internal/database/repository"
)

// PresetStore persists named calculator selections.
type PresetStore interface {
	Save(ctx context.Context, p repository.Preset) (repository.Preset, error)
	Search(ctx context.Context, query string) ([]repository.Preset, error)
	Delete(ctx context.Context, name string) error
}

// Resetter wipes every saved preset.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Options carries the optional collaborators of an App. Preset keys report an
// error on the status line when Presets is nil.
type Options struct {
	Presets     PresetStore
	Maintenance Resetter
	Logger      log.Logger
}

type field int

const (
	fieldSearch field = iota
	fieldUniversities
	fieldDepartments
	fieldMajors
	fieldAid
	fieldOutOfState
	fieldCount
)

// pane is the per-calculator input state the manager does not track.
type pane struct {
	search textinput.Model
	focus  field
	cursor [fieldCount]int
}

type modalState string

const (
	modalNone         modalState = ""
	modalSave         modalState = "save"
	modalPresets      modalState = "presets"
	modalConfirmReset modalState = "confirmReset"
)

// App is the Bubble Tea model. It routes keys to the active calculator and
// forwards API results to the manager.
type App struct {
	ctx         context.Context
	mgr         *calculator.Manager
	presets     PresetStore
	maintenance Resetter
	logger      log.Logger
	keys        keyMap
	help        help.Model

	panes  map[int]*pane
	active int
	width  int
	height int

	status    string
	statusErr bool

	modal        modalState
	prompt       textinput.Model
	presetList   []repository.Preset
	presetCursor int
}

func New(ctx context.Context, mgr *calculator.Manager, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	a := &App{
		ctx:         ctx,
		mgr:         mgr,
		presets:     opts.Presets,
		maintenance: opts.Maintenance,
		logger:      logger,
		keys:        defaultKeys(),
		help:        help.New(),
		panes:       make(map[int]*pane),
		prompt:      newInput(""),
	}
	if all := mgr.Instances(); len(all) > 0 {
		a.active = all[0].Index
	}
	return a
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 120
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (a *App) paneFor(index int) *pane {
	p, ok := a.panes[index]
	if !ok {
		p = &pane{search: newInput("Search universities")}
		_ = p.search.Focus()
		a.panes[index] = p
	}
	return p
}

func (a *App) current() (*calculator.Instance, *pane, bool) {
	in, ok := a.mgr.Instance(a.active)
	if !ok {
		return nil, nil, false
	}
	return in, a.paneFor(in.Index), true
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)
	case statusMsg:
		a.setStatus(string(m), false)
	case errMsg:
		_ = level.Warn(a.logger).Log("msg", "command failed", "err", m.error)
		a.setStatus("error: "+m.Error(), true)
	case presetsMsg:
		if m.query == a.prompt.Value() {
			a.presetList = m.list
			a.presetCursor = clamp(a.presetCursor, len(a.presetList))
		}
	case presetSavedMsg:
		if in, ok := a.mgr.Instance(m.index); ok {
			in.Name = m.preset.Name
		}
		a.setStatus(fmt.Sprintf("saved preset %q", m.preset.Name), false)
	case presetDeletedMsg:
		a.setStatus(fmt.Sprintf("deleted preset %q", m.name), false)
		if a.modal == modalPresets {
			return a, a.searchPresetsCmd(a.prompt.Value())
		}
	case presetsResetMsg:
		a.presetList = nil
		a.presetCursor = 0
		a.setStatus("all presets deleted", false)
	default:
		return a, a.mgr.Update(msg)
	}
	return a, nil
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	in, p, ok := a.current()
	if !ok {
		return a, nil
	}
	if !a.available(in, p.focus) {
		a.setFocus(p, fieldSearch)
	}
	switch {
	case key.Matches(m, a.keys.NextField):
		a.moveFocus(in, p, 1)
	case key.Matches(m, a.keys.PrevField):
		a.moveFocus(in, p, -1)
	case key.Matches(m, a.keys.NextCalc):
		a.switchCalc(1)
	case key.Matches(m, a.keys.PrevCalc):
		a.switchCalc(-1)
	case key.Matches(m, a.keys.NewCalc):
		added, err := a.mgr.CloneNew()
		if err != nil {
			a.setStatus("error: "+err.Error(), true)
			return a, nil
		}
		a.active = added.Index
		return a, statusCmd("added "+added.Name)
	case key.Matches(m, a.keys.OutOfState):
		a.mgr.SetOutOfState(in.Index, !in.View.OutOfStateChecked)
	case key.Matches(m, a.keys.Save):
		if a.presets == nil {
			a.setStatus("error: presets are not configured", true)
			return a, nil
		}
		a.openModal(modalSave, "Preset name")
		a.prompt.SetValue(in.Name)
		a.prompt.CursorEnd()
	case key.Matches(m, a.keys.Presets):
		if a.presets == nil {
			a.setStatus("error: presets are not configured", true)
			return a, nil
		}
		a.openModal(modalPresets, "Filter presets")
		a.presetList = nil
		a.presetCursor = 0
		return a, a.searchPresetsCmd("")
	case key.Matches(m, a.keys.Up):
		a.moveCursor(in, p, -1)
	case key.Matches(m, a.keys.Down):
		a.moveCursor(in, p, 1)
	case key.Matches(m, a.keys.Select):
		return a, a.activate(in, p)
	case p.focus == fieldOutOfState && m.String() == " ":
		a.mgr.SetOutOfState(in.Index, !in.View.OutOfStateChecked)
	case p.focus == fieldSearch:
		before := p.search.Value()
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(m)
		if p.search.Value() == before {
			return a, cmd
		}
		p.cursor[fieldUniversities] = 0
		return a, tea.Batch(cmd, a.mgr.SearchUniversities(in.Index, p.search.Value()))
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalSave:
		switch {
		case key.Matches(m, a.keys.Cancel):
			a.closeModal()
		case key.Matches(m, a.keys.Select):
			name := a.prompt.Value()
			a.closeModal()
			in, _, ok := a.current()
			if !ok {
				return a, nil
			}
			return a, a.savePresetCmd(in.Index, name, in.Snapshot())
		default:
			var cmd tea.Cmd
			a.prompt, cmd = a.prompt.Update(m)
			return a, cmd
		}
	case modalPresets:
		switch {
		case key.Matches(m, a.keys.Cancel):
			a.closeModal()
		case key.Matches(m, a.keys.Up):
			a.presetCursor = clamp(a.presetCursor-1, len(a.presetList))
		case key.Matches(m, a.keys.Down):
			a.presetCursor = clamp(a.presetCursor+1, len(a.presetList))
		case key.Matches(m, a.keys.Select):
			if len(a.presetList) == 0 {
				return a, nil
			}
			pr := a.presetList[a.presetCursor]
			a.closeModal()
			return a, a.restorePreset(pr)
		case key.Matches(m, a.keys.Delete):
			if len(a.presetList) == 0 {
				return a, nil
			}
			return a, a.deletePresetCmd(a.presetList[a.presetCursor].Name)
		case key.Matches(m, a.keys.Reset):
			if a.maintenance == nil {
				a.setStatus("error: maintenance is not configured", true)
				return a, nil
			}
			a.modal = modalConfirmReset
		default:
			before := a.prompt.Value()
			var cmd tea.Cmd
			a.prompt, cmd = a.prompt.Update(m)
			if a.prompt.Value() == before {
				return a, cmd
			}
			a.presetCursor = 0
			return a, tea.Batch(cmd, a.searchPresetsCmd(a.prompt.Value()))
		}
	case modalConfirmReset:
		switch {
		case key.Matches(m, a.keys.Confirm):
			a.modal = modalPresets
			return a, a.resetCmd()
		case key.Matches(m, a.keys.Cancel), m.String() == "n":
			a.modal = modalPresets
		}
	}
	return a, nil
}

func (a *App) openModal(state modalState, placeholder string) {
	a.modal = state
	a.prompt = newInput(placeholder)
	_ = a.prompt.Focus()
}

func (a *App) closeModal() {
	a.modal = modalNone
	a.prompt.Blur()
}

func (a *App) restorePreset(pr repository.Preset) tea.Cmd {
	in, p, ok := a.current()
	if !ok {
		return nil
	}
	in.Name = pr.Name
	p.search.SetValue("")
	p.cursor = [fieldCount]int{}
	a.setFocus(p, fieldSearch)
	return tea.Batch(
		statusCmd(fmt.Sprintf("restoring preset %q", pr.Name)),
		a.mgr.Restore(in.Index, calculator.Selection{
			University: pr.University,
			OutOfState: pr.OutOfState,
			Department: pr.Department,
			Major:      pr.Major,
			Aid:        pr.Aid,
		}),
	)
}

func (a *App) switchCalc(delta int) {
	all := a.mgr.Instances()
	if len(all) == 0 {
		return
	}
	pos := 0
	for i, in := range all {
		if in.Index == a.active {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(all)) % len(all)
	a.active = all[pos].Index
}

func (a *App) setFocus(p *pane, f field) {
	p.focus = f
	if f == fieldSearch {
		_ = p.search.Focus()
	} else {
		p.search.Blur()
	}
}

func (a *App) moveFocus(in *calculator.Instance, p *pane, step int) {
	f := p.focus
	for i := 0; i < int(fieldCount); i++ {
		f = field((int(f) + step + int(fieldCount)) % int(fieldCount))
		if a.available(in, f) {
			a.setFocus(p, f)
			return
		}
	}
}

func (a *App) available(in *calculator.Instance, f field) bool {
	switch f {
	case fieldSearch, fieldOutOfState:
		return true
	case fieldDepartments:
		return in.View.UniversityVisible
	default:
		return len(rowValues(in, f)) > 0
	}
}

func (a *App) moveCursor(in *calculator.Instance, p *pane, delta int) {
	n := len(rowValues(in, p.focus))
	if n == 0 {
		return
	}
	p.cursor[p.focus] = clamp(p.cursor[p.focus]+delta, n)
}

// activate selects the row under the cursor of the focused list and moves
// focus to the next step of the flow.
func (a *App) activate(in *calculator.Instance, p *pane) tea.Cmd {
	switch p.focus {
	case fieldSearch:
		if len(in.View.Universities.Rows) > 0 {
			a.setFocus(p, fieldUniversities)
			p.cursor[fieldUniversities] = 0
		}
		return nil
	case fieldOutOfState:
		a.mgr.SetOutOfState(in.Index, !in.View.OutOfStateChecked)
		return nil
	}
	values := rowValues(in, p.focus)
	if len(values) == 0 {
		return nil
	}
	f := p.focus
	value := values[clamp(p.cursor[f], len(values))]
	cmd := a.mgr.Activate(in.Index, panelFor(f), value)
	switch f {
	case fieldUniversities:
		a.setFocus(p, fieldDepartments)
		p.cursor[fieldDepartments] = 0
	case fieldDepartments:
		a.setFocus(p, fieldMajors)
		p.cursor[fieldMajors] = 0
		p.cursor[fieldAid] = 0
	case fieldMajors:
		p.cursor[fieldAid] = 0
	}
	return cmd
}

func rowValues(in *calculator.Instance, f field) []string {
	var rows []calculator.Row
	switch f {
	case fieldUniversities:
		rows = in.View.Universities.Rows
	case fieldDepartments:
		return in.View.Departments
	case fieldMajors:
		rows = in.View.Majors.Rows
	case fieldAid:
		if !in.View.AidPanelVisible {
			return nil
		}
		rows = in.View.Aids.Rows
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Value
	}
	return out
}

func panelFor(f field) calculator.Panel {
	switch f {
	case fieldDepartments:
		return calculator.PanelDepartments
	case fieldMajors:
		return calculator.PanelMajors
	case fieldAid:
		return calculator.PanelAid
	default:
		return calculator.PanelUniversities
	}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// commands

func statusCmd(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

func (a *App) savePresetCmd(index int, name string, sel calculator.Selection) tea.Cmd {
	return func() tea.Msg {
		p, err := a.presets.Save(a.ctx, repository.Preset{
			Name:       name,
			University: sel.University,
			OutOfState: sel.OutOfState,
			Department: sel.Department,
			Major:      sel.Major,
			Aid:        sel.Aid,
		})
		if err != nil {
			return errMsg{err}
		}
		return presetSavedMsg{index: index, preset: p}
	}
}

func (a *App) searchPresetsCmd(query string) tea.Cmd {
	return func() tea.Msg {
		list, err := a.presets.Search(a.ctx, query)
		if err != nil {
			return errMsg{err}
		}
		return presetsMsg{query: query, list: list}
	}
}

func (a *App) deletePresetCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.presets.Delete(a.ctx, name); err != nil {
			return errMsg{err}
		}
		return presetDeletedMsg{name: name}
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.maintenance.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return presetsResetMsg{}
	}
}

func describePreset(p repository.Preset) string {
	parts := []string{p.University}
	if p.Major != "" {
		parts = append(parts, p.Major)
	}
	if p.Aid != "" && p.Aid != calculator.AidNone {
		parts = append(parts, p.Aid)
	}
	if p.OutOfState {
		parts = append(parts, "out of state")
	}
	return strings.Join(parts, " · ")
}
