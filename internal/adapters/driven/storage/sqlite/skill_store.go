package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// skillStore implements driven.SkillStore.
type skillStore struct {
	store *Store
}

var _ driven.SkillStore = (*skillStore)(nil)

const upsertSkill = `
	INSERT INTO skills (source, skill_id, name, description, installs, technologies)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(source, skill_id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		installs = excluded.installs,
		technologies = excluded.technologies,
		updated_at = CURRENT_TIMESTAMP
`

const selectSkill = `
	SELECT source, skill_id, name, description, installs, technologies
	FROM skills
`

// Save stores or updates a skill.
func (s *skillStore) Save(ctx context.Context, skill domain.Skill) error {
	args, err := skillArgs(skill)
	if err != nil {
		return err
	}
	if _, err := s.store.db.ExecContext(ctx, upsertSkill, args...); err != nil {
		return fmt.Errorf("saving skill %s: %w", skill.Key(), err)
	}
	return nil
}

// SaveBatch stores or updates several skills in one transaction.
func (s *skillStore) SaveBatch(ctx context.Context, skills []domain.Skill) error {
	if len(skills) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, upsertSkill)
	if err != nil {
		return fmt.Errorf("preparing skill upsert: %w", err)
	}
	defer stmt.Close()

	for _, skill := range skills {
		args, err := skillArgs(skill)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("saving skill %s: %w", skill.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing skills: %w", err)
	}
	return nil
}

// Get retrieves a skill by key.
func (s *skillStore) Get(ctx context.Context, key domain.SkillKey) (*domain.Skill, error) {
	row := s.store.db.QueryRowContext(ctx, selectSkill+" WHERE source = ? AND skill_id = ?",
		key.Source, key.SkillID)

	skill, err := scanSkill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return skill, nil
}

// List returns all skills ordered by source then skill ID.
func (s *skillStore) List(ctx context.Context) ([]domain.Skill, error) {
	rows, err := s.store.db.QueryContext(ctx, selectSkill+" ORDER BY source, skill_id")
	if err != nil {
		return nil, fmt.Errorf("querying skills: %w", err)
	}
	defer rows.Close()

	skills := []domain.Skill{}
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skills: %w", err)
	}
	return skills, nil
}

// Delete removes a skill.
func (s *skillStore) Delete(ctx context.Context, key domain.SkillKey) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM skills WHERE source = ? AND skill_id = ?",
		key.Source, key.SkillID)
	if err != nil {
		return fmt.Errorf("deleting skill: %w", err)
	}
	return requireRow(res)
}

// Count returns the number of skills.
func (s *skillStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM skills").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting skills: %w", err)
	}
	return n, nil
}

// AddInstalls adjusts a skill's install count. The count never drops below zero.
func (s *skillStore) AddInstalls(ctx context.Context, key domain.SkillKey, delta int64) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE skills SET installs = MAX(installs + ?, 0), updated_at = CURRENT_TIMESTAMP
		WHERE source = ? AND skill_id = ?
	`, delta, key.Source, key.SkillID)
	if err != nil {
		return fmt.Errorf("updating installs: %w", err)
	}
	return requireRow(res)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSkill(row scanner) (*domain.Skill, error) {
	var skill domain.Skill
	var description sql.NullString
	var technologies string

	if err := row.Scan(&skill.Source, &skill.SkillID, &skill.Name,
		&description, &skill.Installs, &technologies); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning skill: %w", err)
	}

	skill.Description = description.String
	skill.Technologies = []string{}
	if technologies != "" {
		if err := json.Unmarshal([]byte(technologies), &skill.Technologies); err != nil {
			return nil, fmt.Errorf("decoding technologies for %s: %w", skill.Key(), err)
		}
	}
	return &skill, nil
}

func skillArgs(skill domain.Skill) ([]any, error) {
	if err := skill.Validate(); err != nil {
		return nil, err
	}
	techs := skill.Technologies
	if techs == nil {
		techs = []string{}
	}
	technologies, err := json.Marshal(techs)
	if err != nil {
		return nil, fmt.Errorf("encoding technologies: %w", err)
	}
	return []any{
		skill.Source, skill.SkillID, skill.Name,
		nullString(skill.Description), skill.Installs, string(technologies),
	}, nil
}

// nullString stores empty strings as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
