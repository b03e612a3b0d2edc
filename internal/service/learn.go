package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"
	"wordquiz/internal/scoring"
	"wordquiz/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionLength is the number of questions per session
const DefaultSessionLength = 5

// QuestionGenerator builds the next question for a learner
type QuestionGenerator interface {
	Generate(ctx context.Context, profile domain.LearnerProfile, exclude []string) (*domain.Question, error)
}

// LearnService runs learning sessions: NotStarted -> InProgress -> Finished
type LearnService struct {
	profileRepo repository.ProfileRepository
	generator   QuestionGenerator
	gate        *scoring.Gate
	sessions    *session.Registry
	target      int
	logger      *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewLearnService creates a new learn service
func NewLearnService(
	profileRepo repository.ProfileRepository,
	generator QuestionGenerator,
	gate *scoring.Gate,
	sessions *session.Registry,
	sessionLength int,
	logger *zap.Logger,
) *LearnService {
	if sessionLength < 1 {
		sessionLength = DefaultSessionLength
	}
	return &LearnService{
		profileRepo: profileRepo,
		generator:   generator,
		gate:        gate,
		sessions:    sessions,
		target:      sessionLength,
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// SessionLength returns the configured number of questions per session
func (s *LearnService) SessionLength() int {
	return s.target
}

// Start begins a new session for the learner, replacing any previous one,
// and returns its first question.
func (s *LearnService) Start(ctx context.Context, learner string) (*domain.Question, error) {
	const op = "start session"

	name, err := domain.NormalizeName(learner)
	if err != nil {
		return nil, domain.NewOpError(op, learner, err)
	}

	h := s.sessions.Lock(name)
	defer h.Unlock()

	profile, err := s.profileRepo.GetProfile(ctx, name)
	if err != nil {
		s.logger.Error("Failed to load profile", zap.String("learner", name), zap.Error(err))
		return nil, domain.NewOpError(op, name, domain.Upstream("load profile", err))
	}
	if profile == nil {
		return nil, domain.NewOpError(op, name, domain.ErrProfileNotFound)
	}

	q, err := s.generator.Generate(ctx, *profile, nil)
	if err != nil {
		s.logger.Error("Failed to generate first question", zap.String("learner", name), zap.Error(err))
		return nil, domain.NewOpError(op, name, err)
	}

	if prev := h.Session(); prev.Active() {
		s.logger.Info("Replacing unfinished session",
			zap.String("learner", name),
			zap.String("session_id", prev.ID),
			zap.Int("answered", prev.Answered),
		)
	}

	now := s.now()
	sess := &session.Session{
		ID:        s.newID(),
		Profile:   *profile,
		Target:    s.target,
		State:     domain.StateInProgress,
		StartedAt: now,
	}
	sess.Present(q, now)
	h.Replace(sess)

	s.logger.Info("Learning session started",
		zap.String("learner", name),
		zap.String("session_id", sess.ID),
		zap.Int("target", sess.Target),
	)

	return q.Public(), nil
}

// SubmitAnswer scores the answer to the pending question. Each question is
// scored at most once: a word that does not match the pending question is
// rejected as stale without touching the counters.
func (s *LearnService) SubmitAnswer(ctx context.Context, learner, word, chosen string) (*domain.AnswerOutcome, error) {
	return s.AnswerQuestion(ctx, learner, 0, word, chosen)
}

// AnswerQuestion is SubmitAnswer with the question number the client saw.
// A number other than the pending one is stale, which also catches retries
// when the same word is asked twice in a row. Zero skips the number check.
func (s *LearnService) AnswerQuestion(ctx context.Context, learner string, number int, word, chosen string) (*domain.AnswerOutcome, error) {
	const op = "submit answer"

	name, err := domain.NormalizeName(learner)
	if err != nil {
		return nil, domain.NewOpError(op, learner, err)
	}

	h := s.sessions.Lock(name)
	defer h.Unlock()

	sess := h.Session()
	if !sess.Active() {
		return nil, domain.NewOpError(op, name, domain.ErrNoActiveSession)
	}
	pending := sess.Pending
	if pending == nil || !strings.EqualFold(strings.TrimSpace(word), pending.Word) ||
		(number != 0 && number != pending.Number) {
		s.logger.Warn("Stale answer rejected",
			zap.String("learner", name),
			zap.String("session_id", sess.ID),
			zap.String("word", word),
			zap.Int("question_number", number),
		)
		return nil, domain.NewOpError(op, name, fmt.Errorf("%w: %q (question %d) is not the pending question", domain.ErrStaleAnswer, word, number))
	}

	correct := scoring.IsCorrect(pending.Answer, chosen)
	answered := sess.Answered + 1
	score := sess.Correct
	if correct {
		score++
	}

	// The next question is built before anything changes so a failure
	// leaves the pending question answerable.
	var next *domain.Question
	if answered < sess.Target {
		next, err = s.generator.Generate(ctx, sess.Profile, sess.Presented)
		if err != nil {
			s.logger.Error("Failed to generate next question", zap.String("learner", name), zap.Error(err))
			return nil, domain.NewOpError(op, name, err)
		}
	}

	now := s.now()
	sess.Answered = answered
	sess.Correct = score

	outcome := &domain.AnswerOutcome{
		Correct:         correct,
		CorrectAnswer:   pending.Answer,
		Feedback:        feedback(correct, pending.Answer),
		Explanation:     pending.Explanation,
		Score:           score,
		Answered:        answered,
		TargetLength:    sess.Target,
		RunningAccuracy: scoring.Accuracy(score, answered),
	}

	if next != nil {
		sess.Present(next, now)
		outcome.Next = next.Public()
		return outcome, nil
	}

	sess.State = domain.StateFinished
	sess.Pending = nil
	sess.UpdatedAt = now

	outcome.Finished = true
	outcome.FinalAccuracy = scoring.FinalAccuracy(score, sess.Target)
	outcome.Achievement = s.gate.Evaluate(sess.Profile, answered, score, sess.Target)

	s.logger.Info("Learning session finished",
		zap.String("learner", name),
		zap.String("session_id", sess.ID),
		zap.Int("correct", score),
		zap.Int("target", sess.Target),
		zap.Float64("final_accuracy", outcome.FinalAccuracy),
		zap.Bool("achievement", outcome.Achievement != nil),
	)

	return outcome, nil
}

// Abandon ends an unfinished session early. The partial accuracy is
// reported but an abandoned session never earns an achievement.
func (s *LearnService) Abandon(ctx context.Context, learner string) (*domain.SessionSnapshot, error) {
	const op = "end session"

	name, err := domain.NormalizeName(learner)
	if err != nil {
		return nil, domain.NewOpError(op, learner, err)
	}

	h := s.sessions.Lock(name)
	defer h.Unlock()

	sess := h.Session()
	if !sess.Active() {
		return nil, domain.NewOpError(op, name, domain.ErrNoActiveSession)
	}

	sess.State = domain.StateFinished
	sess.Pending = nil
	sess.UpdatedAt = s.now()

	s.logger.Info("Learning session abandoned",
		zap.String("learner", name),
		zap.String("session_id", sess.ID),
		zap.Int("answered", sess.Answered),
		zap.Int("target", sess.Target),
	)

	return sess.Snapshot(), nil
}

// Status reports the learner's session without changing it
func (s *LearnService) Status(ctx context.Context, learner string) (*domain.SessionSnapshot, error) {
	name, err := domain.NormalizeName(learner)
	if err != nil {
		return nil, domain.NewOpError("session status", learner, err)
	}

	h := s.sessions.Lock(name)
	defer h.Unlock()

	sess := h.Session()
	if sess == nil {
		return &domain.SessionSnapshot{Learner: name, State: domain.StateNotStarted}, nil
	}
	return sess.Snapshot(), nil
}

func feedback(correct bool, answer string) string {
	if correct {
		return "Correct!"
	}
	return fmt.Sprintf("Incorrect. The correct answer is %q.", answer)
}
