package repository

import "time"

// Preset is a saved calculator selection. Key is the lower-cased name.
type Preset struct {
	ID         string
	Key        string
	Name       string
	University string
	OutOfState bool
	Department string
	Major      string
	Aid        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
