package service

import (
	"context"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"

	"go.uber.org/zap"
)

// ProfileService handles learner profile setup
type ProfileService struct {
	profileRepo repository.ProfileRepository
	logger      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo repository.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Setup validates the input and creates or replaces the learner's profile.
// Nothing is written when any field is invalid.
func (s *ProfileService) Setup(ctx context.Context, name, level, goal string) (*domain.LearnerProfile, error) {
	const op = "setup profile"

	normalized, err := domain.NormalizeName(name)
	if err != nil {
		return nil, domain.NewOpError(op, name, err)
	}
	lvl, err := domain.ParseLevel(level)
	if err != nil {
		return nil, domain.NewOpError(op, normalized, err)
	}
	g, err := domain.ParseGoal(goal)
	if err != nil {
		return nil, domain.NewOpError(op, normalized, err)
	}

	profile := &domain.LearnerProfile{Name: normalized, Level: lvl, Goal: g}
	if err := s.profileRepo.SaveProfile(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", zap.String("learner", normalized), zap.Error(err))
		return nil, domain.NewOpError(op, normalized, domain.Upstream("save profile", err))
	}

	s.logger.Info("Profile saved",
		zap.String("learner", normalized),
		zap.String("level", string(lvl)),
		zap.String("goal", string(g)),
	)

	return profile, nil
}

// Get returns the learner's profile or ErrProfileNotFound
func (s *ProfileService) Get(ctx context.Context, name string) (*domain.LearnerProfile, error) {
	const op = "get profile"

	normalized, err := domain.NormalizeName(name)
	if err != nil {
		return nil, domain.NewOpError(op, name, err)
	}

	profile, err := s.profileRepo.GetProfile(ctx, normalized)
	if err != nil {
		return nil, domain.NewOpError(op, normalized, domain.Upstream("load profile", err))
	}
	if profile == nil {
		return nil, domain.NewOpError(op, normalized, domain.ErrProfileNotFound)
	}

	return profile, nil
}
