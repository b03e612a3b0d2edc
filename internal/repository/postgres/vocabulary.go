package postgres

import (
	"context"
	"database/sql"

	"wordquiz/internal/domain"
)

// VocabularyRepo implements repository.VocabularyRepository
type VocabularyRepo struct {
	db *sql.DB
}

// NewVocabularyRepo creates a new vocabulary repository
func NewVocabularyRepo(db *sql.DB) *VocabularyRepo {
	return &VocabularyRepo{db: db}
}

// ListEntries returns every word tagged with the level and goal
func (r *VocabularyRepo) ListEntries(ctx context.Context, level domain.Level, goal domain.Goal) ([]domain.VocabEntry, error) {
	query := `
		SELECT id, word, translation, explanation, level, goal
		FROM vocabulary
		WHERE level = $1 AND goal = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, string(level), string(goal))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.VocabEntry
	for rows.Next() {
		var e domain.VocabEntry
		if err := rows.Scan(&e.ID, &e.Word, &e.Translation, &e.Explanation, &e.Level, &e.Goal); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ListTranslations returns distinct translations of a level across all goals
func (r *VocabularyRepo) ListTranslations(ctx context.Context, level domain.Level) ([]string, error) {
	query := `SELECT DISTINCT translation FROM vocabulary WHERE level = $1 ORDER BY translation`
	return r.queryStrings(ctx, query, string(level))
}

// ListAllTranslations returns distinct translations of the whole vocabulary
func (r *VocabularyRepo) ListAllTranslations(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT translation FROM vocabulary ORDER BY translation`
	return r.queryStrings(ctx, query)
}

func (r *VocabularyRepo) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
