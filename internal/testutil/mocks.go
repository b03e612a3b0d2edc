package testutil

import (
	"context"

	"wordquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a mock for ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, name string) (*domain.LearnerProfile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnerProfile), args.Error(1)
}

func (m *MockProfileRepository) SaveProfile(ctx context.Context, profile *domain.LearnerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockVocabularyRepository is a mock for VocabularyRepository
type MockVocabularyRepository struct {
	mock.Mock
}

func (m *MockVocabularyRepository) ListEntries(ctx context.Context, level domain.Level, goal domain.Goal) ([]domain.VocabEntry, error) {
	args := m.Called(ctx, level, goal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabEntry), args.Error(1)
}

func (m *MockVocabularyRepository) ListTranslations(ctx context.Context, level domain.Level) ([]string, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVocabularyRepository) ListAllTranslations(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAchievementRepository is a mock for AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) RecordAchievement(ctx context.Context, record *domain.AchievementRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepository) ListAchievements(ctx context.Context, learner string) ([]domain.AchievementRecord, error) {
	args := m.Called(ctx, learner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AchievementRecord), args.Error(1)
}
