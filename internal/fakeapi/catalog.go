package fakeapi

// Catalog is the data served by the fake tuition API.
type Catalog struct {
	Universities []University
}

// University carries base tuition ranges per residency plus flat fees.
type University struct {
	Name          string
	Location      string
	InStateMin    int
	InStateMax    int
	OutOfStateMin int
	OutOfStateMax int
	Fees          int
	Majors        []Major
	Aids          []Aid
}

// Major carries the major's own tuition ranges and fees, added on top of the
// university's.
type Major struct {
	Name          string
	Department    string
	InStateMin    int
	InStateMax    int
	OutOfStateMin int
	OutOfStateMax int
	Fees          int
}

// Aid is a financial aid package subtracted from both ends of the range.
type Aid struct {
	Name     string
	Location string
	Amount   int
}

// DefaultCatalog is the demo data set.
func DefaultCatalog() Catalog {
	return Catalog{Universities: []University{
		{
			Name: "Acme State University", Location: "Acme, ST",
			InStateMin: 9000, InStateMax: 11000, OutOfStateMin: 24000, OutOfStateMax: 28000, Fees: 800,
			Majors: []Major{
				{Name: "Computer Engineering", Department: "Engineering and Technology",
					InStateMin: 1500, InStateMax: 2000, OutOfStateMin: 3000, OutOfStateMax: 3500, Fees: 250},
				{Name: "History", Department: "Humanities and Social Sciences",
					InStateMin: 0, InStateMax: 500, OutOfStateMin: 0, OutOfStateMax: 900, Fees: 50},
				{Name: "Nursing", Department: "Health Sciences",
					InStateMin: 1200, InStateMax: 1800, OutOfStateMin: 2600, OutOfStateMax: 3100, Fees: 400},
			},
		},
		{
			Name: "Clemson University", Location: "Clemson, SC",
			InStateMin: 15000, InStateMax: 17000, OutOfStateMin: 38000, OutOfStateMax: 41000, Fees: 1100,
			Majors: []Major{
				{Name: "Mechanical Engineering", Department: "Engineering and Technology",
					InStateMin: 2000, InStateMax: 2600, OutOfStateMin: 4000, OutOfStateMax: 4600, Fees: 300},
				{Name: "Agricultural Business", Department: "Agriculture and Environmental Studies",
					InStateMin: 800, InStateMax: 1100, OutOfStateMin: 1600, OutOfStateMax: 2000, Fees: 150},
			},
			Aids: []Aid{
				{Name: "Palmetto Fellows", Location: "SC", Amount: 6700},
				{Name: "LIFE Scholarship", Location: "SC", Amount: 5000},
			},
		},
		{
			Name: "University of South Carolina", Location: "Columbia, SC",
			InStateMin: 12000, InStateMax: 13500, OutOfStateMin: 33000, OutOfStateMax: 35500, Fees: 900,
			Majors: []Major{
				{Name: "Computer Information Systems", Department: "Engineering and Technology",
					InStateMin: 1000, InStateMax: 1400, OutOfStateMin: 2200, OutOfStateMax: 2700, Fees: 200},
				{Name: "Journalism", Department: "Communication and Media",
					InStateMin: 600, InStateMax: 900, OutOfStateMin: 1300, OutOfStateMax: 1700, Fees: 120},
				{Name: "Criminal Justice", Department: "Law and Criminal Justice",
					InStateMin: 500, InStateMax: 800, OutOfStateMin: 1100, OutOfStateMax: 1500, Fees: 100},
			},
			Aids: []Aid{
				{Name: "Palmetto Fellows", Location: "SC", Amount: 6700},
				{Name: "HOPE Scholarship", Location: "SC", Amount: 2800},
			},
		},
	}}
}
