package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/majorhelp/tuitioncalc/internal/database/repository"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// PresetService saves and finds calculator presets. Presets are addressed by
// name, case-insensitively.
type PresetService struct {
	Presets *repository.PresetRepo
}

// PresetKey is the storage key for a preset name.
func PresetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Save validates p and stores it, replacing any preset with the same key.
func (s *PresetService) Save(ctx context.Context, p repository.Preset) (repository.Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return repository.Preset{}, fmt.Errorf("%w: name required", ErrInvalidPreset)
	}
	if strings.TrimSpace(p.University) == "" {
		return repository.Preset{}, fmt.Errorf("%w: university required", ErrInvalidPreset)
	}
	if p.Aid != "" && p.Major == "" {
		return repository.Preset{}, fmt.Errorf("%w: aid without a major", ErrInvalidPreset)
	}
	p.Key = PresetKey(p.Name)

	existing, err := s.Presets.ByKey(ctx, p.Key)
	if err != nil {
		return repository.Preset{}, fmt.Errorf("lookup preset %q: %w", p.Name, err)
	}
	if existing != nil {
		p.ID = existing.ID
	} else {
		p.ID = uuid.NewString()
	}
	if err := s.Presets.Upsert(ctx, p); err != nil {
		return repository.Preset{}, fmt.Errorf("save preset %q: %w", p.Name, err)
	}
	return p, nil
}

// Search lists presets whose name contains query, closest names first. An
// empty query lists every preset.
func (s *PresetService) Search(ctx context.Context, query string) ([]repository.Preset, error) {
	q := PresetKey(query)
	if q == "" {
		return s.Presets.List(ctx)
	}
	found, err := s.Presets.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int, len(found))
	for _, p := range found {
		dist[p.Key] = levenshtein.ComputeDistance(q, p.Key)
	}
	sort.SliceStable(found, func(i, j int) bool {
		di, dj := dist[found[i].Key], dist[found[j].Key]
		if di != dj {
			return di < dj
		}
		return found[i].Name < found[j].Name
	})
	return found, nil
}

// Load returns the preset called name.
func (s *PresetService) Load(ctx context.Context, name string) (repository.Preset, error) {
	p, err := s.Presets.ByKey(ctx, PresetKey(name))
	if err != nil {
		return repository.Preset{}, err
	}
	if p == nil {
		return repository.Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return *p, nil
}

// Delete removes the preset called name.
func (s *PresetService) Delete(ctx context.Context, name string) error {
	ok, err := s.Presets.DeleteByKey(ctx, PresetKey(name))
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return nil
}
