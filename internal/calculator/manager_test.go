package calculator

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/majorhelp/tuitioncalc/internal/api"
)

var errDown = errors.New("connection refused")

type stubSource struct {
	calls        []string
	universities []api.University
	majors       []api.Major
	aids         []api.Aid
	quote        api.Quote
	fail         map[string]bool
	lastCalc     *api.CalculateParams
}

func newStub() *stubSource {
	return &stubSource{
		universities: []api.University{{Name: "Acme State University", Location: "Acme, ST"}},
		majors:       []api.Major{{Name: "Computer Engineering"}},
		quote: api.Quote{
			Uni:    api.LineItem{Name: "Acme State University", BaseMinTui: "9000", BaseMaxTui: "11000", Fees: "800"},
			Major:  api.LineItem{Name: "Computer Engineering", BaseMinTui: "1500", BaseMaxTui: "2000", Fees: "250"},
			MinTui: "11550",
			MaxTui: "14050",
		},
		fail: map[string]bool{},
	}
}

func (s *stubSource) SearchUniversities(_ context.Context, query string) (api.UniversitySearch, error) {
	s.calls = append(s.calls, "search:"+query)
	if s.fail["search"] {
		return api.UniversitySearch{}, errDown
	}
	return api.UniversitySearch{Universities: s.universities}, nil
}

func (s *stubSource) Majors(_ context.Context, university, department string) (api.MajorList, error) {
	s.calls = append(s.calls, "majors:"+university+"|"+department)
	if s.fail["majors"] {
		return api.MajorList{}, errDown
	}
	return api.MajorList{Majors: s.majors}, nil
}

func (s *stubSource) Aid(_ context.Context, university string) (api.AidList, error) {
	s.calls = append(s.calls, "aid:"+university)
	if s.fail["aid"] {
		return api.AidList{}, &api.StatusError{Path: api.PathAid, Status: 404}
	}
	return api.AidList{Aids: s.aids}, nil
}

func (s *stubSource) Calculate(_ context.Context, p api.CalculateParams) (api.Quote, error) {
	s.calls = append(s.calls, "calculate")
	s.lastCalc = &p
	if s.fail["calculate"] {
		return api.Quote{}, errDown
	}
	q := s.quote
	if p.Aid != nil && *p.Aid != AidNone {
		for _, a := range s.aids {
			if a.Name == *p.Aid {
				aid := a
				q.Aid = &aid
			}
		}
	}
	return q, nil
}

// run executes cmd and feeds every resulting message back through the
// manager until no follow-up command is left.
func run(m *Manager, cmd tea.Cmd) {
	for cmd != nil {
		cmd = m.Update(cmd())
	}
}

// priced drives instance index to a rendered output with no aid.
func priced(t *testing.T, m *Manager, index int) *Instance {
	t.Helper()
	run(m, m.SearchUniversities(index, "Acme"))
	m.SelectUniversity(index, "Acme State University")
	run(m, m.SelectDepartment(index, "Engineering and Technology"))
	run(m, m.SelectMajor(index, "Computer Engineering"))
	in, ok := m.Instance(index)
	require.True(t, ok)
	require.True(t, in.View.Output.Visible)
	return in
}

func TestRegisterAssignsDefaults(t *testing.T) {
	m := NewManager(context.Background(), newStub())
	a := m.Register()
	b := m.Register()

	require.Equal(t, 0, a.Index)
	require.Equal(t, 1, b.Index)
	require.Equal(t, "Preset 1", b.Name)
	require.Equal(t, "calculator-1", b.ID())
	require.Empty(t, a.University)
	require.Equal(t, StageEmpty, a.Stage())
	require.Len(t, m.Instances(), 2)
}

func TestCloneNewUsesTemplateAndFreshIndex(t *testing.T) {
	tmpl := &Instance{View: View{OutOfStateChecked: true}}
	m := NewManager(context.Background(), newStub(), WithTemplate(tmpl))
	m.Register()

	in, err := m.CloneNew()
	require.NoError(t, err)
	require.Equal(t, 1, in.Index)
	require.True(t, in.View.OutOfStateChecked)

	in.View.OutOfStateChecked = false
	require.True(t, tmpl.View.OutOfStateChecked, "clone must not alias the template")

	again, err := m.CloneNew()
	require.NoError(t, err)
	require.Equal(t, 2, again.Index)
}

func TestCloneNewWithoutTemplate(t *testing.T) {
	m := NewManager(context.Background(), newStub(), WithTemplate(nil))
	_, err := m.CloneNew()
	require.ErrorIs(t, err, ErrNoTemplate)
}

func TestSearchUniversitiesBlankQueryIsNoop(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()
	run(m, m.SearchUniversities(0, "Acme"))
	before := in.View.Universities

	for _, q := range []string{"", "   ", "\t\n"} {
		require.Nil(t, m.SearchUniversities(0, q))
	}
	require.Equal(t, []string{"search:Acme"}, src.calls)
	require.Equal(t, before, in.View.Universities)
}

func TestSearchUniversitiesRendersRows(t *testing.T) {
	src := newStub()
	src.universities = append(src.universities, api.University{Name: "Acme Tech", Location: "Acme, ST"})
	m := NewManager(context.Background(), src)
	in := m.Register()

	run(m, m.SearchUniversities(0, "  Acme "))
	require.Equal(t, []string{"search:Acme"}, src.calls)
	require.Equal(t, []Row{
		{Value: "Acme State University", Label: "Acme State University", Detail: "Acme, ST"},
		{Value: "Acme Tech", Label: "Acme Tech", Detail: "Acme, ST"},
	}, in.View.Universities.Rows)
	require.Empty(t, in.View.Universities.Message)
}

func TestSearchUniversitiesEmptyAndFailure(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()

	src.universities = nil
	run(m, m.SearchUniversities(0, "Zz"))
	require.Empty(t, in.View.Universities.Rows)
	require.Equal(t, NoUniversitiesMessage, in.View.Universities.Message)

	src.fail["search"] = true
	run(m, m.SearchUniversities(0, "Zzz"))
	require.Equal(t, NoUniversitiesMessage, in.View.Universities.Message, "failure leaves the panel untouched")
}

func TestSelectUniversityPopulatesDepartments(t *testing.T) {
	m := NewManager(context.Background(), newStub())
	in := m.Register()
	run(m, m.SearchUniversities(0, "Acme"))

	m.SelectUniversity(0, "Acme State University")
	require.Equal(t, "Acme State University", in.University)
	require.True(t, in.View.UniversityVisible)
	require.Equal(t, "Acme State University", in.View.UniversityLabel)
	require.Empty(t, in.View.Universities.Rows)
	require.Equal(t, Departments, in.View.Departments)
	require.Len(t, in.View.Departments, 10)
	require.Empty(t, in.View.DepartmentValue)
	require.Equal(t, StageUniversitySelected, in.Stage())
}

func TestSelectUniversityResetsDownstream(t *testing.T) {
	src := newStub()
	src.aids = []api.Aid{{Name: "Palmetto Fellows", Amount: "6700"}}
	m := NewManager(context.Background(), src)
	m.Register()
	run(m, m.SearchUniversities(0, "Acme"))
	m.SelectUniversity(0, "Acme State University")
	run(m, m.SelectDepartment(0, "Engineering and Technology"))
	run(m, m.SelectMajor(0, "Computer Engineering"))
	run(m, m.SelectAid(0, "Palmetto Fellows"))

	in, _ := m.Instance(0)
	require.Equal(t, "Computer Engineering", in.Major)
	require.Equal(t, "Palmetto Fellows", in.Aid)
	require.True(t, in.View.Output.Visible)

	m.SelectUniversity(0, "Clemson University")
	require.Equal(t, "Clemson University", in.University)
	require.Empty(t, in.Department)
	require.Empty(t, in.Major)
	require.Empty(t, in.Aid)
	require.False(t, in.View.MajorVisible)
	require.Empty(t, in.View.Majors.Rows)
	require.False(t, in.View.AidPanelVisible)
	require.Empty(t, in.View.Aids.Rows)
	require.False(t, in.View.Output.Visible)
	require.Equal(t, StageUniversitySelected, in.Stage())
}

func TestSearchMajorsPreconditions(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	m.Register()

	require.Nil(t, m.SearchMajors(0), "no university")
	m.SelectUniversity(0, "Acme State University")
	require.Nil(t, m.SearchMajors(0), "no department")
	require.Nil(t, m.SelectDepartment(0, DepartmentPlaceholder))
	require.Nil(t, m.SelectDepartment(0, "Astrology"))
	require.Empty(t, src.calls)
}

func TestSearchMajorsRecordsDepartmentRegardlessOfResults(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()
	m.SelectUniversity(0, "Acme State University")

	src.majors = nil
	run(m, m.SelectDepartment(0, "Education"))
	require.Equal(t, "Education", in.Department)
	require.Equal(t, NoMajorsMessage, in.View.Majors.Message)
	require.Equal(t, StageDepartmentChosen, in.Stage())

	src.majors = []api.Major{{Name: "Computer Engineering"}, {Name: "Software Engineering"}}
	run(m, m.SelectDepartment(0, "Engineering and Technology"))
	require.Equal(t, "Engineering and Technology", in.Department)
	require.Len(t, in.View.Majors.Rows, 2)
	require.Empty(t, in.View.Majors.Message)
	require.Equal(t, []string{
		"majors:Acme State University|Education",
		"majors:Acme State University|Engineering and Technology",
	}, src.calls)
}

func TestSelectMajorPreconditions(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()

	require.Nil(t, m.SelectMajor(0, "Computer Engineering"))
	m.SelectUniversity(0, "Acme State University")
	require.Nil(t, m.SelectMajor(0, ""))
	require.False(t, in.View.MajorVisible)
	require.Empty(t, src.calls)
}

func TestEmptyAidListPricesWithoutAid(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := priced(t, m, m.Register().Index)

	require.NotNil(t, src.lastCalc)
	require.Nil(t, src.lastCalc.Aid)
	require.False(t, in.View.AidPanelVisible)
	require.False(t, in.View.Output.AidVisible)
	require.Equal(t, AidNone, in.View.AidLabel)
	require.Equal(t, "Acme State University • Computer Engineering", in.View.Output.Summary)
	require.Equal(t, StageOutputRendered, in.Stage())
}

func TestAidListOffersNoneFirst(t *testing.T) {
	src := newStub()
	src.aids = []api.Aid{{Name: "Palmetto Fellows", Amount: "6700"}, {Name: "LIFE Scholarship", Amount: "5000"}}
	m := NewManager(context.Background(), src)
	in := m.Register()
	m.SelectUniversity(0, "Acme State University")
	run(m, m.SelectDepartment(0, "Engineering and Technology"))
	run(m, m.SelectMajor(0, "Computer Engineering"))

	require.True(t, in.View.AidPanelVisible)
	require.Equal(t, []Row{
		{Value: AidNone, Label: AidNone},
		{Value: "Palmetto Fellows", Label: "Palmetto Fellows", Detail: "$6700"},
		{Value: "LIFE Scholarship", Label: "LIFE Scholarship", Detail: "$5000"},
	}, in.View.Aids.Rows)
	require.Nil(t, src.lastCalc, "nothing priced until an aid is chosen")
	require.Equal(t, StageMajorSelected, in.Stage())
	require.Equal(t, "Computer Engineering", in.Major)
}

func TestSelectAidSummary(t *testing.T) {
	tests := []struct {
		name        string
		aid         string
		wantSummary string
		wantAidLine bool
		wantAmount  string
	}{
		{name: "none sentinel", aid: AidNone, wantSummary: "Acme State University • Computer Engineering"},
		{
			name:        "named aid",
			aid:         "Palmetto Fellows",
			wantSummary: "Acme State University • Computer Engineering • Palmetto Fellows",
			wantAidLine: true,
			wantAmount:  "- $6700",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newStub()
			src.aids = []api.Aid{{Name: "Palmetto Fellows", Amount: "6700"}}
			m := NewManager(context.Background(), src)
			in := m.Register()
			m.SelectUniversity(0, "Acme State University")
			run(m, m.SelectDepartment(0, "Engineering and Technology"))
			run(m, m.SelectMajor(0, "Computer Engineering"))
			run(m, m.Activate(0, PanelAid, tt.aid))

			require.NotNil(t, src.lastCalc.Aid)
			require.Equal(t, tt.aid, *src.lastCalc.Aid)
			require.Equal(t, tt.aid, in.Aid)
			out := in.View.Output
			require.True(t, out.Visible)
			require.Equal(t, tt.wantSummary, out.Summary)
			require.Equal(t, tt.wantSummary, out.SummaryBottom)
			require.Equal(t, tt.wantAidLine, out.AidVisible)
			if tt.wantAidLine {
				require.Equal(t, tt.aid, out.AidName)
				require.Equal(t, tt.wantAmount, out.AidAmount)
			}
			require.Equal(t, StageOutputRendered, in.Stage())
		})
	}
}

func TestOutputFieldsVerbatim(t *testing.T) {
	src := newStub()
	src.quote.MinTui = "11550.00"
	m := NewManager(context.Background(), src, WithCurrency("$"))
	in := priced(t, m, m.Register().Index)

	out := in.View.Output
	require.Equal(t, "Acme State University", out.UniversityName)
	require.Equal(t, "$9000 - $11000", out.UniversityTuition)
	require.Equal(t, "$800", out.UniversityFees)
	require.Equal(t, "Computer Engineering", out.MajorName)
	require.Equal(t, "$1500 - $2000", out.MajorTuition)
	require.Equal(t, "$250", out.MajorFees)
	require.Equal(t, "$11550.00 - $14050", out.Total)
	require.Equal(t, out.Total, out.TotalBottom)
}

func TestFailedCalculateKeepsOutput(t *testing.T) {
	src := newStub()
	src.aids = []api.Aid{{Name: "Palmetto Fellows", Amount: "6700"}}
	m := NewManager(context.Background(), src)
	in := m.Register()
	m.SelectUniversity(0, "Acme State University")
	run(m, m.SelectDepartment(0, "Engineering and Technology"))
	run(m, m.SelectMajor(0, "Computer Engineering"))
	run(m, m.SelectAid(0, AidNone))
	before := in.View.Output

	src.fail["calculate"] = true
	run(m, m.SelectAid(0, "Palmetto Fellows"))
	require.Equal(t, before, in.View.Output)
}

func TestAidFailureStopsFlow(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := priced(t, m, m.Register().Index)
	before := in.View.Output
	calls := len(src.calls)

	src.fail["aid"] = true
	src.majors = []api.Major{{Name: "Computer Engineering"}, {Name: "Robotics"}}
	run(m, m.SelectDepartment(0, "Engineering and Technology"))
	run(m, m.SelectMajor(0, "Robotics"))

	require.Equal(t, "Computer Engineering", in.Major, "major is only recorded after aid succeeds")
	require.Equal(t, "Robotics", in.View.MajorLabel)
	require.Equal(t, before, in.View.Output)
	require.Equal(t, []string{
		"majors:Acme State University|Engineering and Technology",
		"aid:Acme State University",
	}, src.calls[calls:])
}

func TestOutOfStateReadWhenMajorSelected(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()
	m.SelectUniversity(0, "Acme State University")
	run(m, m.SelectDepartment(0, "Engineering and Technology"))

	m.SetOutOfState(0, true)
	cmd := m.SelectMajor(0, "Computer Engineering")
	m.SetOutOfState(0, false)
	run(m, cmd)

	require.True(t, in.OutOfState)
	require.True(t, src.lastCalc.OutOfState)
}

func TestInstancesAreIsolated(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	a := priced(t, m, m.Register().Index)
	b := m.Register()
	m.SelectUniversity(b.Index, "Acme State University")
	run(m, m.SelectDepartment(b.Index, "Engineering and Technology"))
	src.majors = []api.Major{{Name: "Electrical Engineering"}}
	run(m, m.SelectDepartment(b.Index, "Engineering and Technology"))
	run(m, m.SelectMajor(b.Index, "Electrical Engineering"))

	require.Equal(t, "Computer Engineering", a.Major)
	require.Equal(t, "Electrical Engineering", b.Major)

	m.SelectUniversity(a.Index, "Clemson University")
	require.Empty(t, a.Major)
	require.Equal(t, "Electrical Engineering", b.Major)
	require.Equal(t, "Acme State University", b.University)
	require.True(t, b.View.Output.Visible)
}

func TestOverlappingSearchesApplyInArrivalOrder(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()

	first := m.SearchUniversities(0, "Ac")
	second := m.SearchUniversities(0, "Acme")
	secondMsg := second()
	src.universities = []api.University{{Name: "Stale", Location: "Old"}}
	firstMsg := first()

	m.Update(secondMsg)
	m.Update(firstMsg)
	require.Equal(t, "Stale", in.View.Universities.Rows[0].Value)
}

func TestActivateIgnoresUnrenderedRows(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()

	require.Nil(t, m.Activate(0, PanelUniversities, "Acme State University"))
	require.Empty(t, in.University)

	run(m, m.SearchUniversities(0, "Acme"))
	require.Nil(t, m.Activate(0, PanelUniversities, "Acme State University"))
	require.Equal(t, "Acme State University", in.University)

	require.Nil(t, m.Activate(0, PanelMajors, "Computer Engineering"))
	require.Nil(t, m.Activate(0, PanelAid, AidNone))
	require.Nil(t, m.Activate(7, PanelUniversities, "x"))
}

func TestRestoreReplaysSelection(t *testing.T) {
	src := newStub()
	src.aids = []api.Aid{{Name: "Palmetto Fellows", Amount: "6700"}}
	m := NewManager(context.Background(), src)
	in := m.Register()

	run(m, m.Restore(0, Selection{
		University: "Acme State University",
		OutOfState: true,
		Department: "Engineering and Technology",
		Major:      "Computer Engineering",
		Aid:        "Palmetto Fellows",
	}))

	require.Equal(t, []string{
		"majors:Acme State University|Engineering and Technology",
		"aid:Acme State University",
		"calculate",
	}, src.calls)
	require.False(t, in.Restoring())
	require.Equal(t, "Palmetto Fellows", in.Aid)
	require.True(t, in.OutOfState)
	require.Equal(t, "Acme State University • Computer Engineering • Palmetto Fellows", in.View.Output.Summary)
	require.Equal(t, Selection{
		University: "Acme State University",
		OutOfState: true,
		Department: "Engineering and Technology",
		Major:      "Computer Engineering",
		Aid:        "Palmetto Fellows",
	}, in.Snapshot())
}

func TestRestoreStopsWhenMajorMissing(t *testing.T) {
	src := newStub()
	m := NewManager(context.Background(), src)
	in := m.Register()

	run(m, m.Restore(0, Selection{
		University: "Acme State University",
		Department: "Engineering and Technology",
		Major:      "Underwater Basket Weaving",
	}))
	require.Equal(t, []string{"majors:Acme State University|Engineering and Technology"}, src.calls)
	require.False(t, in.Restoring())
	require.Empty(t, in.Major)
}
