package scoring

import (
	"strings"
	"time"

	"wordquiz/internal/domain"

	"github.com/google/uuid"
)

// DefaultThreshold is the minimum final accuracy that earns an achievement
const DefaultThreshold = 80.0

// Gate scores answers and decides achievement eligibility
type Gate struct {
	Threshold float64
	now       func() time.Time
	newID     func() string
}

// NewGate creates a gate with the given accuracy threshold in percent
func NewGate(threshold float64) *Gate {
	return &Gate{
		Threshold: threshold,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// IsCorrect compares answers ignoring case and surrounding whitespace
func IsCorrect(correct, chosen string) bool {
	return strings.EqualFold(strings.TrimSpace(correct), strings.TrimSpace(chosen))
}

// Accuracy returns correct/answered as a percentage, 0 when nothing was answered
func Accuracy(correct, answered int) float64 {
	if answered <= 0 {
		return 0
	}
	return float64(correct) / float64(answered) * 100
}

// FinalAccuracy is measured against the session's target length
func FinalAccuracy(correct, target int) float64 {
	return Accuracy(correct, target)
}

// Eligible reports whether a session result qualifies.
// The session must have reached its target and the comparison is inclusive.
func (g *Gate) Eligible(answered, target int, finalAccuracy float64) bool {
	return target > 0 && answered == target && finalAccuracy >= g.Threshold
}

// Evaluate returns an achievement record for a qualifying result, nil otherwise
func (g *Gate) Evaluate(profile domain.LearnerProfile, answered, correct, target int) *domain.AchievementRecord {
	final := FinalAccuracy(correct, target)
	if !g.Eligible(answered, target, final) {
		return nil
	}

	return &domain.AchievementRecord{
		ID:            g.newID(),
		Learner:       profile.Name,
		Content:       domain.AchievementContent(profile.Level),
		Level:         profile.Level,
		Goal:          profile.Goal,
		FinalAccuracy: final,
		SessionSize:   target,
		AwardedAt:     g.now().UTC(),
	}
}
