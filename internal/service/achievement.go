package service

import (
	"context"

	"wordquiz/internal/achievement"
	"wordquiz/internal/domain"
	"wordquiz/internal/repository"

	"go.uber.org/zap"
)

// AchievementService signs earned achievements and records confirmed ones
type AchievementService struct {
	achievementRepo repository.AchievementRepository
	signer          *achievement.Signer
	logger          *zap.Logger
}

// NewAchievementService creates a new achievement service
func NewAchievementService(achievementRepo repository.AchievementRepository, signer *achievement.Signer, logger *zap.Logger) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		signer:          signer,
		logger:          logger,
	}
}

// Issue returns the token the learner presents to confirm recording
func (s *AchievementService) Issue(rec *domain.AchievementRecord) (string, error) {
	token, err := s.signer.Sign(rec)
	if err != nil {
		return "", domain.NewOpError("issue achievement", rec.Learner, err)
	}
	return token, nil
}

// Record verifies a confirmed achievement token and writes the record.
// Writing an already recorded achievement succeeds with recorded=false.
// Write failures are returned as upstream errors and not retried.
func (s *AchievementService) Record(ctx context.Context, token string) (*domain.AchievementRecord, bool, error) {
	const op = "record achievement"

	rec, err := s.signer.Verify(token)
	if err != nil {
		s.logger.Warn("Rejected achievement token", zap.Error(err))
		return nil, false, domain.NewOpError(op, "", err)
	}

	recorded, err := s.achievementRepo.RecordAchievement(ctx, rec)
	if err != nil {
		s.logger.Error("Failed to record achievement",
			zap.String("learner", rec.Learner),
			zap.String("achievement_id", rec.ID),
			zap.Error(err),
		)
		return nil, false, domain.NewOpError(op, rec.Learner, domain.Upstream("write achievement", err))
	}

	if recorded {
		s.logger.Info("Achievement recorded",
			zap.String("learner", rec.Learner),
			zap.String("achievement_id", rec.ID),
			zap.Float64("final_accuracy", rec.FinalAccuracy),
		)
	} else {
		s.logger.Info("Achievement already recorded",
			zap.String("learner", rec.Learner),
			zap.String("achievement_id", rec.ID),
		)
	}

	return rec, recorded, nil
}

// List returns the learner's recorded achievements
func (s *AchievementService) List(ctx context.Context, learner string) ([]domain.AchievementRecord, error) {
	const op = "list achievements"

	name, err := domain.NormalizeName(learner)
	if err != nil {
		return nil, domain.NewOpError(op, learner, err)
	}

	records, err := s.achievementRepo.ListAchievements(ctx, name)
	if err != nil {
		return nil, domain.NewOpError(op, name, domain.Upstream("list achievements", err))
	}
	return records, nil
}
