package postgres

import (
	"context"
	"database/sql"
	"time"

	"wordquiz/internal/domain"
)

// AchievementRepo implements repository.AchievementRepository
type AchievementRepo struct {
	db *sql.DB
}

// NewAchievementRepo creates a new achievement repository
func NewAchievementRepo(db *sql.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// RecordAchievement writes the record once.
// A second write of the same id is ignored and reported as false.
func (r *AchievementRepo) RecordAchievement(ctx context.Context, a *domain.AchievementRecord) (bool, error) {
	query := `
		INSERT INTO achievements (id, learner, content, level, goal, final_accuracy, session_size, awarded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
		RETURNING recorded_at
	`
	var recordedAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Learner, a.Content, string(a.Level), string(a.Goal), a.FinalAccuracy, a.SessionSize, a.AwardedAt,
	).Scan(&recordedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	a.RecordedAt = &recordedAt
	return true, nil
}

// ListAchievements returns a learner's recorded achievements, newest first
func (r *AchievementRepo) ListAchievements(ctx context.Context, learner string) ([]domain.AchievementRecord, error) {
	query := `
		SELECT id, learner, content, level, goal, final_accuracy, session_size, awarded_at, recorded_at
		FROM achievements
		WHERE learner = $1
		ORDER BY awarded_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, learner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AchievementRecord
	for rows.Next() {
		var a domain.AchievementRecord
		var recordedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.Learner, &a.Content, &a.Level, &a.Goal, &a.FinalAccuracy, &a.SessionSize, &a.AwardedAt, &recordedAt); err != nil {
			return nil, err
		}
		if recordedAt.Valid {
			a.RecordedAt = &recordedAt.Time
		}
		records = append(records, a)
	}

	return records, rows.Err()
}
