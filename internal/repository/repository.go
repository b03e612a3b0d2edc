package repository

import (
	"context"

	"wordquiz/internal/domain"
)

// ProfileRepository defines learner profile operations
type ProfileRepository interface {
	// GetProfile returns nil, nil when the learner has no profile
	GetProfile(ctx context.Context, name string) (*domain.LearnerProfile, error)
	SaveProfile(ctx context.Context, profile *domain.LearnerProfile) error
}

// VocabularyRepository defines vocabulary source queries
type VocabularyRepository interface {
	ListEntries(ctx context.Context, level domain.Level, goal domain.Goal) ([]domain.VocabEntry, error)
	ListTranslations(ctx context.Context, level domain.Level) ([]string, error)
	ListAllTranslations(ctx context.Context) ([]string, error)
}

// AchievementRepository defines the durable achievement journal
type AchievementRepository interface {
	// RecordAchievement returns false when the record id was already written
	RecordAchievement(ctx context.Context, record *domain.AchievementRecord) (bool, error)
	ListAchievements(ctx context.Context, learner string) ([]domain.AchievementRecord, error)
}
