package postgres

import (
	"context"
	"database/sql"

	"wordquiz/internal/domain"
)

// ProfileRepo implements repository.ProfileRepository
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetProfile returns the learner profile or nil if it does not exist
func (r *ProfileRepo) GetProfile(ctx context.Context, name string) (*domain.LearnerProfile, error) {
	var p domain.LearnerProfile
	query := `SELECT name, level, goal, created_at, updated_at FROM learner_profiles WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&p.Name, &p.Level, &p.Goal, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// SaveProfile creates the profile or replaces level and goal of an existing one
func (r *ProfileRepo) SaveProfile(ctx context.Context, p *domain.LearnerProfile) error {
	query := `
		INSERT INTO learner_profiles (name, level, goal)
		VALUES ($1, $2, $3)
		ON CONFLICT (name)
		DO UPDATE SET level = EXCLUDED.level, goal = EXCLUDED.goal, updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, p.Name, string(p.Level), string(p.Goal)).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}
