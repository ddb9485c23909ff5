package tui

import "github.com/majorhelp/tuitioncalc/internal/database/repository"

type statusMsg string

type errMsg struct{ error }

type presetsMsg struct {
	query string
	list  []repository.Preset
}

type presetSavedMsg struct {
	index  int
	preset repository.Preset
}

type presetDeletedMsg struct{ name string }

type presetsResetMsg struct{}
