package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Amount is a monetary value as the server wrote it. The tuition API may
// send JSON numbers or decimal strings; either way the text is kept verbatim.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string { return string(a) }

// University is one row of a university search.
type University struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UniversitySearch is the body of /api/university_search/.
type UniversitySearch struct {
	Universities []University `json:"universities"`
}

// Major is one row of a majors lookup.
type Major struct {
	Name string `json:"name"`
}

// MajorList is the body of /api/majors/.
type MajorList struct {
	Majors []Major `json:"majors"`
}

// Aid is a financial aid package applicable to a university.
type Aid struct {
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

// AidList is the body of /api/aid/.
type AidList struct {
	Aids []Aid `json:"aids"`
}

// LineItem is the university or major part of a quote.
type LineItem struct {
	Name       string `json:"name"`
	BaseMinTui Amount `json:"baseMinTui"`
	BaseMaxTui Amount `json:"baseMaxTui"`
	Fees       Amount `json:"fees"`
}

// Quote is the body of /api/calculate/.
type Quote struct {
	Uni    LineItem `json:"uni"`
	Major  LineItem `json:"major"`
	Aid    *Aid     `json:"aid,omitempty"`
	MinTui Amount   `json:"minTui"`
	MaxTui Amount   `json:"maxTui"`
}

// AppliedAid reports the aid the server applied. The server sends an empty
// object when no aid was requested.
func (q Quote) AppliedAid() (Aid, bool) {
	if q.Aid == nil || q.Aid.Name == "" {
		return Aid{}, false
	}
	return *q.Aid, true
}

// CalculateParams are the query parameters of /api/calculate/.
type CalculateParams struct {
	University string
	Major      string
	OutOfState bool
	// Aid is nil when no aid applies. The literal "None" is passed through.
	Aid *string
}
