package domain

import (
	"fmt"
	"time"
)

// AchievementRecord is emitted when a finished session clears the threshold
type AchievementRecord struct {
	ID            string
	Learner       string
	Content       string
	Level         Level
	Goal          Goal
	FinalAccuracy float64
	SessionSize   int
	AwardedAt     time.Time
	RecordedAt    *time.Time
}

// AchievementContent describes what was learned, e.g. "English vocabulary (Beginner level)"
func AchievementContent(level Level) string {
	return fmt.Sprintf("English vocabulary (%s level)", level.Label())
}
