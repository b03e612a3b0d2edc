package session

import (
	"time"

	"wordquiz/internal/domain"
	"wordquiz/internal/scoring"
)

// Session is one learner's quiz run. It is only touched while the
// learner's lock from Registry.Lock is held.
type Session struct {
	ID        string
	Profile   domain.LearnerProfile
	Target    int
	Presented []string
	Answered  int
	Correct   int
	Pending   *domain.Question
	State     domain.SessionState
	StartedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the session still accepts answers
func (s *Session) Active() bool {
	return s != nil && s.State == domain.StateInProgress
}

// Present makes q the pending question and remembers its word
func (s *Session) Present(q *domain.Question, now time.Time) {
	q.Number = s.Answered + 1
	s.Pending = q
	s.Presented = append(s.Presented, q.Word)
	s.UpdatedAt = now
}

// Snapshot returns a copy safe to hand out; the pending answer is withheld
func (s *Session) Snapshot() *domain.SessionSnapshot {
	snap := &domain.SessionSnapshot{
		ID:           s.ID,
		Learner:      s.Profile.Name,
		State:        s.State,
		Answered:     s.Answered,
		Correct:      s.Correct,
		TargetLength: s.Target,
		Accuracy:     scoring.Accuracy(s.Correct, s.Answered),
		StartedAt:    s.StartedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	snap.Pending = s.Pending.Public()
	return snap
}
