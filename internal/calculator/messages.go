package calculator

import "github.com/majorhelp/tuitioncalc/internal/api"

// A nil result means the request failed and was already logged.

type universitiesMsg struct {
	index  int
	query  string
	result *api.UniversitySearch
}

type majorsMsg struct {
	index      int
	university string
	department string
	result     *api.MajorList
}

type aidMsg struct {
	index      int
	university string
	major      string
	outOfState bool
	result     *api.AidList
}

type quoteMsg struct {
	index  int
	params api.CalculateParams
	result *api.Quote
}
