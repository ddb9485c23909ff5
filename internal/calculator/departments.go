package calculator

// DepartmentPlaceholder is the disabled first entry of the department selector.
const DepartmentPlaceholder = "Select a Department"

// Departments is the fixed department list offered once a university is chosen.
var Departments = []string{
	"Humanities and Social Sciences",
	"Natural Sciences and Mathematics",
	"Business and Economics",
	"Education",
	"Engineering and Technology",
	"Health Sciences",
	"Arts and Design",
	"Agriculture and Environmental Studies",
	"Communication and Media",
	"Law and Criminal Justice",
}

// AidNone is the explicit "no financial aid" choice, distinct from an aid
// that has not been chosen yet.
const AidNone = "None"

// Empty-panel messages.
const (
	NoUniversitiesMessage = "No universities found."
	NoMajorsMessage       = "No majors found."
)
