package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/majorhelp/tuitioncalc/internal/calculator"
	"github.com/majorhelp/tuitioncalc/internal/widgets"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

func (a *App) View() string {
	width, height := a.width, a.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	header := a.renderTabs()
	footer := a.renderFooter()
	bodyHeight := max(8, height-lipgloss.Height(header)-lipgloss.Height(footer))
	out := lipgloss.JoinVertical(lipgloss.Left, header, a.renderCalculator(width, bodyHeight), footer)
	if a.modal != modalNone {
		out = widgets.RenderPopup(out, a.renderModal(), width, height)
	}
	return out
}

func (a *App) renderTabs() string {
	parts := []string{headerAppStyle.Render("Tuition Calculator")}
	for _, in := range a.mgr.Instances() {
		style := inactiveTabStyle
		if in.Index == a.active {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(in.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderFooter() string {
	status := mutedStyle.Render(" ")
	if a.status != "" {
		status = statusStyle.Render(a.status)
		if a.statusErr {
			status = statusErrStyle.Render(a.status)
		}
	}
	bindings := a.keys.calculatorHelp()
	if a.modal != modalNone {
		bindings = a.keys.presetHelp()
	}
	return status + "\n" + a.help.ShortHelpView(bindings)
}

func (a *App) renderCalculator(width, height int) string {
	in, p, ok := a.current()
	if !ok {
		return mutedStyle.Render("No calculators.")
	}
	v := in.View

	universityHead := []string{p.search.View(), checkbox(v.OutOfStateChecked, p.focus == fieldOutOfState)}
	if v.UniversityVisible {
		universityHead = append(universityHead, labelStyle.Render(v.UniversityLabel))
	}
	university := widgets.Pane{
		Title:   "University",
		Focused: p.focus == fieldSearch || p.focus == fieldUniversities || p.focus == fieldOutOfState,
		Body: section{
			head: universityHead,
			list: resultList(v.Universities, p.cursor[fieldUniversities], p.focus == fieldUniversities),
		},
	}

	departmentHead := calculator.DepartmentPlaceholder
	if v.DepartmentValue != "" {
		departmentHead = labelStyle.Render(v.DepartmentValue)
	}
	departments := make([]widgets.ListItem, len(v.Departments))
	for i, d := range v.Departments {
		departments[i] = widgets.ListItem{Label: d}
	}
	department := widgets.Pane{
		Title:   "Department",
		Focused: p.focus == fieldDepartments,
		Body: section{
			head: []string{departmentHead},
			list: widgets.List{Items: departments, Cursor: p.cursor[fieldDepartments], Active: p.focus == fieldDepartments},
		},
	}

	var majorHead []string
	if v.MajorVisible {
		majorHead = []string{labelStyle.Render(v.MajorLabel)}
	}
	major := widgets.Pane{
		Title:   "Major",
		Focused: p.focus == fieldMajors,
		Body: section{
			head: majorHead,
			list: resultList(v.Majors, p.cursor[fieldMajors], p.focus == fieldMajors),
		},
	}

	var aidHead []string
	if v.AidLabel != "" {
		aidHead = []string{labelStyle.Render(v.AidLabel)}
	}
	aidBody := section{head: aidHead}
	if v.AidPanelVisible {
		aidBody.list = resultList(v.Aids, p.cursor[fieldAid], p.focus == fieldAid)
	}
	aid := widgets.Pane{Title: "Financial Aid", Focused: p.focus == fieldAid, Body: aidBody}

	estimate := widgets.Pane{Title: "Estimate · " + in.ID(), Selected: true, Content: a.renderOutput(v.Output)}

	return widgets.HStack{
		Widgets: []widgets.Widget{
			widgets.VStack{Widgets: []widgets.Widget{university, department}, Ratios: []float64{1, 1}},
			widgets.VStack{Widgets: []widgets.Widget{major, aid}, Ratios: []float64{1, 1}},
			estimate,
		},
		Ratios: []float64{1, 1, 1},
		Gap:    1,
	}.Render(width, height)
}

func (a *App) renderOutput(out calculator.Output) string {
	if !out.Visible {
		return mutedStyle.Render("Choose a major to see an estimate.")
	}
	lines := []string{
		summaryStyle.Render(out.Summary),
		"Total: " + totalStyle.Render(out.Total),
		"",
		labelStyle.Render(out.UniversityName),
		"  Tuition " + out.UniversityTuition,
		"  Fees    " + out.UniversityFees,
		labelStyle.Render(out.MajorName),
		"  Tuition " + out.MajorTuition,
		"  Fees    " + out.MajorFees,
	}
	if out.AidVisible {
		lines = append(lines, labelStyle.Render(out.AidName), "  "+out.AidAmount)
	}
	lines = append(lines, "", "Total: "+totalStyle.Render(out.TotalBottom), mutedStyle.Render(out.SummaryBottom))
	return strings.Join(lines, "\n")
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalSave:
		return labelStyle.Render("Save preset") + "\n\n" + a.prompt.View()
	case modalConfirmReset:
		return labelStyle.Render("Delete every saved preset?") + "\n\n" + mutedStyle.Render("y to confirm, n to cancel")
	}
	lines := []string{labelStyle.Render("Presets"), a.prompt.View(), ""}
	if len(a.presetList) == 0 {
		lines = append(lines, mutedStyle.Render("No saved presets."))
	}
	for i, pr := range a.presetList {
		row := fmt.Sprintf("  %s  %s", pr.Name, mutedStyle.Render(describePreset(pr)))
		if i == a.presetCursor {
			row = focusStyle.Render("> "+pr.Name) + "  " + mutedStyle.Render(describePreset(pr))
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func resultList(list calculator.ResultList, cursor int, active bool) widgets.List {
	items := make([]widgets.ListItem, len(list.Rows))
	for i, r := range list.Rows {
		items[i] = widgets.ListItem{Label: r.Label, Detail: r.Detail}
	}
	return widgets.List{Items: items, Cursor: cursor, Active: active, Message: list.Message}
}

func checkbox(checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	line := box + " Out-of-state"
	if focused {
		return focusStyle.Render(line)
	}
	return line
}

// section is a fixed header followed by a list that fills the remaining rows.
type section struct {
	head []string
	list widgets.List
}

func (s section) Render(width, height int) string {
	lines := append([]string(nil), s.head...)
	if rest := height - len(lines); rest > 0 {
		if body := s.list.Render(width, rest); body != "" {
			lines = append(lines, strings.Split(body, "\n")...)
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
