package calculator

// Stage is where an instance sits in the selection flow.
type Stage int

const (
	StageEmpty Stage = iota
	StageUniversitySelected
	StageDepartmentChosen
	StageMajorSelected
	StageAidChosen
	StageNoAidNeeded
	StageOutputRendered
)

func (s Stage) String() string {
	switch s {
	case StageUniversitySelected:
		return "university selected"
	case StageDepartmentChosen:
		return "department chosen"
	case StageMajorSelected:
		return "major selected"
	case StageAidChosen:
		return "aid chosen"
	case StageNoAidNeeded:
		return "no aid needed"
	case StageOutputRendered:
		return "output rendered"
	default:
		return "empty"
	}
}

// Panel names a selectable list inside an instance.
type Panel int

const (
	PanelUniversities Panel = iota
	PanelDepartments
	PanelMajors
	PanelAid
)

// Row is one selectable entry. Value is what a selection hands back to the
// manager; Label and Detail are for display.
type Row struct {
	Value  string
	Label  string
	Detail string
}

// ResultList is a results panel: rows, or a message when there are none.
type ResultList struct {
	Rows    []Row
	Message string
}

func (l ResultList) has(value string) bool {
	for _, r := range l.Rows {
		if r.Value == value {
			return true
		}
	}
	return false
}

// Output is the price panel. Every string is rendered as-is.
type Output struct {
	Visible bool

	Summary string
	Total   string

	UniversityName    string
	UniversityTuition string
	UniversityFees    string

	MajorName    string
	MajorTuition string
	MajorFees    string

	AidVisible bool
	AidName    string
	AidAmount  string

	TotalBottom   string
	SummaryBottom string
}

// View is the per-instance display state: inputs, panels, labels and
// visibility toggles.
type View struct {
	Query        string
	Universities ResultList

	UniversityVisible bool
	UniversityLabel   string

	Departments     []string
	DepartmentValue string

	Majors       ResultList
	MajorVisible bool
	MajorLabel   string

	OutOfStateChecked bool

	AidPanelVisible bool
	Aids            ResultList
	AidLabel        string

	Output Output
}

func (v View) clone() View {
	out := v
	out.Universities.Rows = append([]Row(nil), v.Universities.Rows...)
	out.Departments = append([]string(nil), v.Departments...)
	out.Majors.Rows = append([]Row(nil), v.Majors.Rows...)
	out.Aids.Rows = append([]Row(nil), v.Aids.Rows...)
	return out
}

// Selection is the saved part of an instance.
type Selection struct {
	University string
	OutOfState bool
	Department string
	Major      string
	Aid        string
}

// Instance is one calculator.
type Instance struct {
	Index int
	Name  string

	University string
	OutOfState bool
	Department string
	Major      string
	Aid        string

	View View

	stage   Stage
	restore *Selection
}

// Stage reports the instance's position in the selection flow.
func (in *Instance) Stage() Stage { return in.stage }

// ID is the instance's element-id suffix form, e.g. "calculator-3".
func (in *Instance) ID() string { return elementID("calculator", in.Index) }

// Snapshot returns the instance's selection for saving.
func (in *Instance) Snapshot() Selection {
	out := in.OutOfState
	if in.Major == "" {
		out = in.View.OutOfStateChecked
	}
	return Selection{
		University: in.University,
		OutOfState: out,
		Department: in.Department,
		Major:      in.Major,
		Aid:        in.Aid,
	}
}

// Restoring reports whether a preset replay is still in flight.
func (in *Instance) Restoring() bool { return in.restore != nil }

func (in *Instance) resetDownstream() {
	in.Department, in.Major, in.Aid = "", "", ""
	in.View.DepartmentValue = ""
	in.View.Majors = ResultList{}
	in.View.MajorVisible = false
	in.View.MajorLabel = ""
	in.View.AidPanelVisible = false
	in.View.Aids = ResultList{}
	in.View.AidLabel = ""
	in.View.Output.Visible = false
}
