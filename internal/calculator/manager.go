package calculator

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/majorhelp/tuitioncalc/internal/api"
)

// ErrNoTemplate is returned by CloneNew when the manager has no template.
var ErrNoTemplate = errors.New("calculator: no template instance")

// Source is the tuition API as the manager consumes it.
type Source interface {
	SearchUniversities(ctx context.Context, query string) (api.UniversitySearch, error)
	Majors(ctx context.Context, university, department string) (api.MajorList, error)
	Aid(ctx context.Context, university string) (api.AidList, error)
	Calculate(ctx context.Context, p api.CalculateParams) (api.Quote, error)
}

// Manager owns the registry and sequences each instance's selection flow.
// It is driven from a single event loop and is not safe for concurrent use;
// the commands it returns only read values captured when they were built.
type Manager struct {
	ctx      context.Context
	src      Source
	logger   log.Logger
	reg      *Registry
	template *Instance
	currency string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the diagnostic logger.
func WithLogger(l log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTemplate sets the instance new calculators are cloned from. A nil
// template makes CloneNew fail.
func WithTemplate(t *Instance) Option {
	return func(m *Manager) { m.template = t }
}

// WithCurrency sets the symbol prefixed to every amount.
func WithCurrency(symbol string) Option {
	return func(m *Manager) {
		if symbol != "" {
			m.currency = symbol
		}
	}
}

// NewManager returns a manager with an empty registry and a blank template.
func NewManager(ctx context.Context, src Source, opts ...Option) *Manager {
	m := &Manager{
		ctx:      ctx,
		src:      src,
		logger:   log.NewNopLogger(),
		reg:      &Registry{},
		template: &Instance{},
		currency: "$",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Instance returns the instance registered under index.
func (m *Manager) Instance(index int) (*Instance, bool) { return m.reg.Get(index) }

// Instances returns every instance in registration order.
func (m *Manager) Instances() []*Instance { return m.reg.All() }

// Register appends a calculator with empty selection state.
func (m *Manager) Register() *Instance {
	in := &Instance{}
	if m.template != nil {
		in.View.OutOfStateChecked = m.template.View.OutOfStateChecked
	}
	return m.reg.add(in)
}

// CloneNew duplicates the template into a new calculator with a fresh index.
func (m *Manager) CloneNew() (*Instance, error) {
	if m.template == nil {
		return nil, ErrNoTemplate
	}
	in := &Instance{View: m.template.View.clone()}
	m.reg.add(in)
	_ = level.Debug(m.logger).Log("msg", "calculator added", "calculator", in.ID())
	return in, nil
}

// SetOutOfState sets the out-of-state checkbox. The value is recorded on the
// instance when a major is selected.
func (m *Manager) SetOutOfState(index int, checked bool) {
	if in, ok := m.reg.Get(index); ok {
		in.View.OutOfStateChecked = checked
	}
}

// SearchUniversities is the search field's input handler.
func (m *Manager) SearchUniversities(index int, query string) tea.Cmd {
	in, ok := m.reg.Get(index)
	if !ok {
		return nil
	}
	in.View.Query = query
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	return func() tea.Msg {
		m.debug(index, api.PathUniversitySearch)
		res, err := m.src.SearchUniversities(m.ctx, q)
		if err != nil {
			m.fail(index, api.PathUniversitySearch, err)
			return universitiesMsg{index: index, query: q}
		}
		return universitiesMsg{index: index, query: q, result: &res}
	}
}

// SelectUniversity confirms a university, offers the departments and resets
// everything downstream of it.
func (m *Manager) SelectUniversity(index int, name string) {
	in, ok := m.reg.Get(index)
	if !ok || name == "" {
		return
	}
	in.restore = nil
	in.University = name
	in.View.UniversityLabel = name
	in.View.UniversityVisible = true
	in.View.Universities = ResultList{}
	in.View.Departments = append([]string(nil), Departments...)
	in.resetDownstream()
	in.stage = StageUniversitySelected
}

// SelectDepartment is the department selector's change handler.
func (m *Manager) SelectDepartment(index int, department string) tea.Cmd {
	in, ok := m.reg.Get(index)
	if !ok || !containsString(in.View.Departments, department) {
		return nil
	}
	in.View.DepartmentValue = department
	return m.SearchMajors(index)
}

// SearchMajors lists the majors of the selected department.
func (m *Manager) SearchMajors(index int) tea.Cmd {
	in, ok := m.reg.Get(index)
	if !ok || in.University == "" || in.View.DepartmentValue == "" {
		return nil
	}
	university, department := in.University, in.View.DepartmentValue
	in.View.Majors = ResultList{}
	return func() tea.Msg {
		m.debug(index, api.PathMajors)
		res, err := m.src.Majors(m.ctx, university, department)
		if err != nil {
			m.fail(index, api.PathMajors, err)
			return majorsMsg{index: index, university: university, department: department}
		}
		return majorsMsg{index: index, university: university, department: department, result: &res}
	}
}

// SelectMajor confirms a major and checks which aid applies. The
// out-of-state checkbox is read now.
func (m *Manager) SelectMajor(index int, major string) tea.Cmd {
	in, ok := m.reg.Get(index)
	if !ok || in.University == "" || major == "" {
		return nil
	}
	in.View.MajorVisible = true
	in.View.MajorLabel = major
	university, outOfState := in.University, in.View.OutOfStateChecked
	return func() tea.Msg {
		m.debug(index, api.PathAid)
		res, err := m.src.Aid(m.ctx, university)
		if err != nil {
			m.fail(index, api.PathAid, err)
			return aidMsg{index: index, university: university, major: major, outOfState: outOfState}
		}
		return aidMsg{index: index, university: university, major: major, outOfState: outOfState, result: &res}
	}
}

// SelectAid records the aid choice (possibly AidNone) and prices the selection.
func (m *Manager) SelectAid(index int, aid string) tea.Cmd {
	in, ok := m.reg.Get(index)
	if !ok || in.University == "" || aid == "" {
		return nil
	}
	in.View.AidLabel = aid
	in.Aid = aid
	in.stage = StageAidChosen
	chosen := aid
	return m.RenderResult(index, in.University, in.View.OutOfStateChecked, in.View.MajorLabel, &chosen)
}

// RenderResult prices a selection and fills the output panel. A nil aid
// means no aid applies.
func (m *Manager) RenderResult(index int, university string, outOfState bool, major string, aid *string) tea.Cmd {
	if _, ok := m.reg.Get(index); !ok {
		return nil
	}
	params := api.CalculateParams{University: university, Major: major, OutOfState: outOfState}
	if aid != nil {
		a := *aid
		params.Aid = &a
	}
	return func() tea.Msg {
		m.debug(index, api.PathCalculate)
		q, err := m.src.Calculate(m.ctx, params)
		if err != nil {
			m.fail(index, api.PathCalculate, err)
			return quoteMsg{index: index, params: params}
		}
		return quoteMsg{index: index, params: params, result: &q}
	}
}

// Activate selects the row carrying value in one of the instance's panels.
// Values that are not currently rendered are ignored.
func (m *Manager) Activate(index int, panel Panel, value string) tea.Cmd {
	in, ok := m.reg.Get(index)
	if !ok {
		return nil
	}
	switch panel {
	case PanelUniversities:
		if in.View.Universities.has(value) {
			m.SelectUniversity(index, value)
		}
	case PanelDepartments:
		return m.SelectDepartment(index, value)
	case PanelMajors:
		if in.View.Majors.has(value) {
			return m.SelectMajor(index, value)
		}
	case PanelAid:
		if in.View.AidPanelVisible && in.View.Aids.has(value) {
			return m.SelectAid(index, value)
		}
	}
	return nil
}

// Restore replays a saved selection through the normal flow. Later steps run
// as the earlier responses arrive.
func (m *Manager) Restore(index int, sel Selection) tea.Cmd {
	in, ok := m.reg.Get(index)
	if !ok || sel.University == "" {
		return nil
	}
	in.View.OutOfStateChecked = sel.OutOfState
	m.SelectUniversity(index, sel.University)
	if sel.Department == "" {
		return nil
	}
	if sel.Major != "" {
		s := sel
		in.restore = &s
	}
	return m.SelectDepartment(index, sel.Department)
}

// Update applies an API result to the instance it belongs to and returns
// any follow-up command.
func (m *Manager) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case universitiesMsg:
		m.applyUniversities(msg)
	case majorsMsg:
		return m.applyMajors(msg)
	case aidMsg:
		return m.applyAid(msg)
	case quoteMsg:
		m.applyQuote(msg)
	}
	return nil
}

func (m *Manager) applyUniversities(msg universitiesMsg) {
	in, ok := m.reg.Get(msg.index)
	if !ok || msg.result == nil {
		return
	}
	if len(msg.result.Universities) == 0 {
		in.View.Universities = ResultList{Message: NoUniversitiesMessage}
		return
	}
	rows := make([]Row, 0, len(msg.result.Universities))
	for _, u := range msg.result.Universities {
		rows = append(rows, Row{Value: u.Name, Label: u.Name, Detail: u.Location})
	}
	in.View.Universities = ResultList{Rows: rows}
}

func (m *Manager) applyMajors(msg majorsMsg) tea.Cmd {
	in, ok := m.reg.Get(msg.index)
	if !ok {
		return nil
	}
	in.Department = msg.department
	in.stage = StageDepartmentChosen

	if msg.result == nil || len(msg.result.Majors) == 0 {
		in.View.Majors = ResultList{Message: NoMajorsMessage}
		in.restore = nil
		return nil
	}
	rows := make([]Row, 0, len(msg.result.Majors))
	for _, mj := range msg.result.Majors {
		rows = append(rows, Row{Value: mj.Name, Label: mj.Name})
	}
	in.View.Majors = ResultList{Rows: rows}

	if in.restore == nil {
		return nil
	}
	if !in.View.Majors.has(in.restore.Major) {
		in.restore = nil
		return nil
	}
	return m.SelectMajor(msg.index, in.restore.Major)
}

func (m *Manager) applyAid(msg aidMsg) tea.Cmd {
	in, ok := m.reg.Get(msg.index)
	if !ok {
		return nil
	}
	if msg.result == nil {
		in.restore = nil
		return nil
	}
	in.OutOfState = msg.outOfState
	in.Major = msg.major
	in.Aid = ""

	if len(msg.result.Aids) == 0 {
		in.restore = nil
		in.View.AidPanelVisible = false
		in.View.Aids = ResultList{}
		in.View.Output.AidVisible = false
		in.View.AidLabel = AidNone
		in.stage = StageNoAidNeeded
		return m.RenderResult(msg.index, msg.university, msg.outOfState, msg.major, nil)
	}

	rows := make([]Row, 0, len(msg.result.Aids)+1)
	rows = append(rows, Row{Value: AidNone, Label: AidNone})
	for _, a := range msg.result.Aids {
		rows = append(rows, Row{Value: a.Name, Label: a.Name, Detail: m.money(a.Amount)})
	}
	in.View.Aids = ResultList{Rows: rows}
	in.View.AidPanelVisible = true
	in.stage = StageMajorSelected

	if in.restore == nil {
		return nil
	}
	aid := in.restore.Aid
	in.restore = nil
	if aid == "" || !in.View.Aids.has(aid) {
		aid = AidNone
	}
	return m.SelectAid(msg.index, aid)
}

func (m *Manager) applyQuote(msg quoteMsg) {
	in, ok := m.reg.Get(msg.index)
	if !ok || msg.result == nil {
		return
	}
	q := msg.result
	p := msg.params

	in.View.MajorLabel = p.Major
	in.View.MajorVisible = true

	out := &in.View.Output
	out.UniversityName = p.University
	out.UniversityTuition = m.span(q.Uni.BaseMinTui, q.Uni.BaseMaxTui)
	out.UniversityFees = m.money(q.Uni.Fees)
	out.MajorName = p.Major
	out.MajorTuition = m.span(q.Major.BaseMinTui, q.Major.BaseMaxTui)
	out.MajorFees = m.money(q.Major.Fees)
	out.Total = m.span(q.MinTui, q.MaxTui)
	out.TotalBottom = out.Total

	if p.Aid != nil && *p.Aid != AidNone {
		applied, ok := q.AppliedAid()
		if !ok {
			applied = api.Aid{Name: *p.Aid}
		}
		out.Summary = Summary(q.Uni.Name, q.Major.Name, applied.Name)
		out.AidVisible = true
		out.AidName = applied.Name
		out.AidAmount = "- " + m.money(applied.Amount)
	} else {
		out.AidVisible = false
		in.View.AidLabel = AidNone
		out.Summary = Summary(q.Uni.Name, q.Major.Name)
	}
	out.SummaryBottom = out.Summary
	out.Visible = true
	in.stage = StageOutputRendered
}

// Summary joins the parts of a priced selection with bullets.
func Summary(parts ...string) string {
	return strings.Join(parts, " • ")
}

func (m *Manager) money(a api.Amount) string {
	return m.currency + a.String()
}

func (m *Manager) span(lo, hi api.Amount) string {
	return m.money(lo) + " - " + m.money(hi)
}

func (m *Manager) debug(index int, endpoint string) {
	_ = level.Debug(m.logger).Log("msg", "api request", "calculator", elementID("calculator", index), "endpoint", endpoint)
}

func (m *Manager) fail(index int, endpoint string, err error) {
	_ = level.Error(m.logger).Log("msg", "api request failed", "calculator", elementID("calculator", index), "endpoint", endpoint, "err", err)
}

func containsString(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
