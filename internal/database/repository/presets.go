package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PresetRepo handles saved calculator presets.
type PresetRepo struct {
	db *sql.DB
}

func NewPresetRepo(db *sql.DB) *PresetRepo { return &PresetRepo{db: db} }

const presetColumns = `id, key, name, university, out_of_state, department, major, aid, created_at, updated_at`

// Upsert inserts p or overwrites the preset stored under the same key,
// keeping its original id.
func (r *PresetRepo) Upsert(ctx context.Context, p Preset) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO presets(id, key, name, university, out_of_state, department, major, aid, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET
	 name=excluded.name,
	 university=excluded.university,
	 out_of_state=excluded.out_of_state,
	 department=excluded.department,
	 major=excluded.major,
	 aid=excluded.aid,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.Key, p.Name, p.University, p.OutOfState, p.Department, p.Major, p.Aid)
	return err
}

// ByKey returns nil when no preset has key.
func (r *PresetRepo) ByKey(ctx context.Context, key string) (*Preset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+presetColumns+` FROM presets WHERE key = ?`, key)
	p, err := scanPreset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns every preset ordered by name.
func (r *PresetRepo) List(ctx context.Context) ([]Preset, error) {
	return r.query(ctx, `SELECT `+presetColumns+` FROM presets ORDER BY name`)
}

// Search returns presets whose key contains substr.
func (r *PresetRepo) Search(ctx context.Context, substr string) ([]Preset, error) {
	return r.query(ctx, `SELECT `+presetColumns+` FROM presets WHERE instr(key, ?) > 0 ORDER BY name`, substr)
}

// DeleteByKey reports whether a row was removed.
func (r *PresetRepo) DeleteByKey(ctx context.Context, key string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM presets WHERE key = ?`, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PresetRepo) query(ctx context.Context, q string, args ...interface{}) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPreset(s scanner) (Preset, error) {
	var p Preset
	err := s.Scan(&p.ID, &p.Key, &p.Name, &p.University, &p.OutOfState, &p.Department, &p.Major, &p.Aid, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
