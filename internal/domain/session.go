package domain

import "time"

// SessionState is the lifecycle phase of a learning session
type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateInProgress SessionState = "in_progress"
	StateFinished   SessionState = "finished"
)

// AnswerOutcome is the result of one submitted answer
type AnswerOutcome struct {
	Correct         bool
	CorrectAnswer   string
	Feedback        string
	Explanation     string
	Score           int
	Answered        int
	TargetLength    int
	RunningAccuracy float64

	Finished bool
	// Next is set while the session continues
	Next *Question
	// FinalAccuracy and Achievement are set once the session finishes
	FinalAccuracy float64
	Achievement   *AchievementRecord
}

// SessionSnapshot is a read-only view of a learner's session
type SessionSnapshot struct {
	ID           string
	Learner      string
	State        SessionState
	Answered     int
	Correct      int
	TargetLength int
	Accuracy     float64
	Pending      *Question
	StartedAt    time.Time
	UpdatedAt    time.Time
}
