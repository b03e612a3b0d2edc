package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"wordquiz/internal/domain"
	"wordquiz/internal/quiz"
	"wordquiz/internal/scoring"
	"wordquiz/internal/session"
	"wordquiz/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type learnFixture struct {
	service  *LearnService
	profiles *testutil.FakeProfiles
}

func newLearnFixture(t *testing.T, target int, profiles ...*domain.LearnerProfile) *learnFixture {
	t.Helper()

	vocab := &testutil.FakeVocabulary{}
	for _, level := range domain.Levels {
		for _, goal := range domain.Goals {
			vocab.Entries = append(vocab.Entries, testutil.NewTestEntries(8, level, goal)...)
		}
	}

	fakeProfiles := testutil.NewFakeProfiles(profiles...)
	logger := testutil.NewTestLogger()
	generator := quiz.NewGenerator(vocab, 4, logger)
	svc := NewLearnService(fakeProfiles, generator, scoring.NewGate(80), session.NewRegistry(), target, logger)

	return &learnFixture{service: svc, profiles: fakeProfiles}
}

// answerFor returns the translation of a test entry word ("word3" -> "訳3")
func answerFor(word string) string {
	return "訳" + strings.TrimPrefix(word, "word")
}

func wrongAnswerFor(q *domain.Question) string {
	for _, o := range q.Options {
		if o != answerFor(q.Word) {
			return o
		}
	}
	return "wrong"
}

func TestLearnService_Start_ProfileNotFound(t *testing.T) {
	f := newLearnFixture(t, 3)

	q, err := f.service.Start(context.Background(), "ghost")

	assert.Nil(t, q)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	status, err := f.service.Status(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNotStarted, status.State)
}

func TestLearnService_Start_ReturnsPublicQuestion(t *testing.T) {
	f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))

	q, err := f.service.Start(context.Background(), "taro")

	require.NoError(t, err)
	assert.Equal(t, 1, q.Number)
	assert.Len(t, q.Options, 4)
	assert.Contains(t, q.Options, answerFor(q.Word))
	assert.Empty(t, q.Answer)
	assert.Empty(t, q.Explanation)

	status, err := f.service.Status(context.Background(), "taro")
	require.NoError(t, err)
	assert.Equal(t, domain.StateInProgress, status.State)
	assert.Equal(t, 0, status.Answered)
	assert.Equal(t, q.Word, status.Pending.Word)
	assert.Empty(t, status.Pending.Answer)
}

func TestLearnService_Start_InvalidName(t *testing.T) {
	f := newLearnFixture(t, 3)

	_, err := f.service.Start(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLearnService_FullSession(t *testing.T) {
	tests := []struct {
		name                string
		answers             []bool
		expectedAccuracy    float64
		expectedAchievement bool
	}{
		{
			name:                "correct, correct, incorrect",
			answers:             []bool{true, true, false},
			expectedAccuracy:    200.0 / 3.0,
			expectedAchievement: false,
		},
		{
			name:                "all correct",
			answers:             []bool{true, true, true},
			expectedAccuracy:    100,
			expectedAchievement: true,
		},
		{
			name:                "all wrong",
			answers:             []bool{false, false, false},
			expectedAccuracy:    0,
			expectedAchievement: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelIntermediate, domain.GoalBusinessEnglish))
			ctx := context.Background()

			q, err := f.service.Start(ctx, "taro")
			require.NoError(t, err)

			seen := map[string]bool{}
			correct := 0
			var outcome *domain.AnswerOutcome
			for i, right := range tt.answers {
				assert.False(t, seen[q.Word], "word %q repeated", q.Word)
				seen[q.Word] = true

				choice := wrongAnswerFor(q)
				if right {
					choice = answerFor(q.Word)
					correct++
				}

				outcome, err = f.service.SubmitAnswer(ctx, "taro", q.Word, choice)
				require.NoError(t, err)

				assert.Equal(t, right, outcome.Correct)
				assert.Equal(t, answerFor(q.Word), outcome.CorrectAnswer)
				assert.NotEmpty(t, outcome.Feedback)
				assert.NotEmpty(t, outcome.Explanation)
				assert.Equal(t, i+1, outcome.Answered)
				assert.Equal(t, correct, outcome.Score)
				assert.InDelta(t, float64(correct)/float64(i+1)*100, outcome.RunningAccuracy, 1e-9)

				if i < len(tt.answers)-1 {
					assert.False(t, outcome.Finished)
					require.NotNil(t, outcome.Next)
					assert.Equal(t, i+2, outcome.Next.Number)
					assert.Empty(t, outcome.Next.Answer)
					assert.Nil(t, outcome.Achievement)
					q = outcome.Next
				}
			}

			assert.True(t, outcome.Finished)
			assert.Nil(t, outcome.Next)
			assert.InDelta(t, tt.expectedAccuracy, outcome.FinalAccuracy, 1e-9)
			if tt.expectedAchievement {
				require.NotNil(t, outcome.Achievement)
				assert.Equal(t, "taro", outcome.Achievement.Learner)
				assert.Equal(t, 3, outcome.Achievement.SessionSize)
				assert.Equal(t, 100.0, outcome.Achievement.FinalAccuracy)
				assert.Equal(t, domain.LevelIntermediate, outcome.Achievement.Level)
			} else {
				assert.Nil(t, outcome.Achievement)
			}

			// a finished session accepts nothing further
			_, err = f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
			assert.ErrorIs(t, err, domain.ErrNoActiveSession)

			status, err := f.service.Status(ctx, "taro")
			require.NoError(t, err)
			assert.Equal(t, domain.StateFinished, status.State)
			assert.Equal(t, 3, status.Answered)
			assert.Nil(t, status.Pending)
		})
	}
}

func TestLearnService_SubmitAnswer_DuplicateIsStale(t *testing.T) {
	f := newLearnFixture(t, 5, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	ctx := context.Background()

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)

	first, err := f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Score)

	second, err := f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
	assert.Nil(t, second)
	assert.ErrorIs(t, err, domain.ErrStaleAnswer)

	status, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Answered)
	assert.Equal(t, 1, status.Correct)
	assert.Equal(t, first.Next.Word, status.Pending.Word)
}

func newSmallVocabFixture(t *testing.T, words, target int) *learnFixture {
	t.Helper()

	vocab := &testutil.FakeVocabulary{Entries: testutil.NewTestEntries(words, domain.LevelBeginner, domain.GoalTravel)}
	profiles := testutil.NewFakeProfiles(testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	logger := testutil.NewTestLogger()
	svc := NewLearnService(profiles, quiz.NewGenerator(vocab, 4, logger), scoring.NewGate(80), session.NewRegistry(), target, logger)

	return &learnFixture{service: svc, profiles: profiles}
}

func TestLearnService_AnswerQuestion_RepeatedWordRetryIsStale(t *testing.T) {
	f := newSmallVocabFixture(t, 1, 3)
	ctx := context.Background()

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)
	require.Equal(t, "word1", q.Word)

	out, err := f.service.AnswerQuestion(ctx, "taro", q.Number, "word1", "訳1")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Score)
	// only one word exists, so it is asked again
	require.Equal(t, "word1", out.Next.Word)
	require.Equal(t, 2, out.Next.Number)

	_, err = f.service.AnswerQuestion(ctx, "taro", q.Number, "word1", "訳1")
	assert.ErrorIs(t, err, domain.ErrStaleAnswer)

	status, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Answered)
	assert.Equal(t, 1, status.Correct)
	assert.Equal(t, 2, status.Pending.Number)

	out, err = f.service.AnswerQuestion(ctx, "taro", out.Next.Number, "word1", "訳1")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Score)
}

func TestLearnService_AnswerQuestion_WrongNumberIsStale(t *testing.T) {
	f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	ctx := context.Background()

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)

	_, err = f.service.AnswerQuestion(ctx, "taro", q.Number+1, q.Word, answerFor(q.Word))
	assert.ErrorIs(t, err, domain.ErrStaleAnswer)

	status, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Answered)
}

func TestLearnService_SubmitAnswer_ExhaustedVocabularyRetryIsStale(t *testing.T) {
	f := newSmallVocabFixture(t, 2, 5)
	ctx := context.Background()

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)

	// walk past the point where every word has been presented
	for i := 0; i < 3; i++ {
		out, err := f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
		require.NoError(t, err)
		assert.NotEqual(t, q.Word, out.Next.Word, "the word just answered must not be asked again")

		_, err = f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
		assert.ErrorIs(t, err, domain.ErrStaleAnswer)

		q = out.Next
	}

	status, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, 3, status.Answered)
	assert.Equal(t, 3, status.Correct)
}

func TestLearnService_SubmitAnswer_NoSession(t *testing.T) {
	f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))

	_, err := f.service.SubmitAnswer(context.Background(), "taro", "word1", "訳1")

	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	assert.Contains(t, err.Error(), "taro")
}

func TestLearnService_SubmitAnswer_AnswerNormalization(t *testing.T) {
	f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	ctx := context.Background()

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)

	outcome, err := f.service.SubmitAnswer(ctx, " taro ", "  "+strings.ToUpper(q.Word)+" ", " "+answerFor(q.Word)+"\t")

	require.NoError(t, err)
	assert.True(t, outcome.Correct)
}

func TestLearnService_Start_ReplacesSession(t *testing.T) {
	f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	ctx := context.Background()

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)
	_, err = f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
	require.NoError(t, err)

	before, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)

	_, err = f.service.Start(ctx, "taro")
	require.NoError(t, err)

	after, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)
	assert.NotEqual(t, before.ID, after.ID)
	assert.Equal(t, 0, after.Answered)
	assert.Equal(t, 0, after.Correct)
	assert.Equal(t, 1, after.Pending.Number)
}

func TestLearnService_Start_MissingProfileKeepsExistingSession(t *testing.T) {
	f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	ctx := context.Background()

	_, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)

	_, err = f.service.Start(ctx, "hanako")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	status, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, domain.StateInProgress, status.State)
}

func TestLearnService_Abandon(t *testing.T) {
	f := newLearnFixture(t, 3, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	ctx := context.Background()

	_, err := f.service.Abandon(ctx, "taro")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)
	_, err = f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
	require.NoError(t, err)

	snap, err := f.service.Abandon(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, domain.StateFinished, snap.State)
	assert.Equal(t, 1, snap.Answered)
	assert.Equal(t, 100.0, snap.Accuracy)
	assert.Nil(t, snap.Pending)

	_, err = f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestLearnService_ConcurrentLearnersAreIndependent(t *testing.T) {
	learners := []string{"taro", "hanako", "jiro", "yuki"}
	profiles := make([]*domain.LearnerProfile, 0, len(learners))
	for _, l := range learners {
		profiles = append(profiles, testutil.NewTestProfile(l, domain.LevelBeginner, domain.GoalTravel))
	}
	f := newLearnFixture(t, 5, profiles...)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, len(learners))
	for i, l := range learners {
		wg.Add(1)
		go func(learner string, correctAnswers int) {
			defer wg.Done()

			q, err := f.service.Start(ctx, learner)
			if err != nil {
				errs <- err
				return
			}
			for n := 0; n < 5; n++ {
				choice := wrongAnswerFor(q)
				if n < correctAnswers {
					choice = answerFor(q.Word)
				}
				outcome, err := f.service.SubmitAnswer(ctx, learner, q.Word, choice)
				if err != nil {
					errs <- err
					return
				}
				q = outcome.Next
			}
		}(l, i+1)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, l := range learners {
		status, err := f.service.Status(ctx, l)
		require.NoError(t, err)
		assert.Equal(t, domain.StateFinished, status.State, l)
		assert.Equal(t, 5, status.Answered, l)
		assert.Equal(t, i+1, status.Correct, l)
	}
}

func TestLearnService_ConcurrentDuplicateSubmissions(t *testing.T) {
	f := newLearnFixture(t, 5, testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel))
	ctx := context.Background()

	q, err := f.service.Start(ctx, "taro")
	require.NoError(t, err)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, stale := 0, 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.SubmitAnswer(ctx, "taro", q.Word, answerFor(q.Word))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if assert.ErrorIs(t, err, domain.ErrStaleAnswer) {
				stale++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, attempts-1, stale)

	status, err := f.service.Status(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Answered)
	assert.Equal(t, 1, status.Correct)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, profile domain.LearnerProfile, exclude []string) (*domain.Question, error) {
	args := m.Called(ctx, profile, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func TestLearnService_GeneratorFailureLeavesSessionUnchanged(t *testing.T) {
	profile := testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel)
	gen := new(mockGenerator)
	first := &domain.Question{Word: "hotel", Options: []string{"ホテル", "空港"}, Answer: "ホテル", Explanation: "x"}
	second := &domain.Question{Word: "airport", Options: []string{"空港", "ホテル"}, Answer: "空港", Explanation: "y"}

	gen.On("Generate", mock.Anything, *profile, []string(nil)).Return(first, nil).Once()
	gen.On("Generate", mock.Anything, *profile, []string{"hotel"}).Return(nil, domain.Upstream("list vocabulary", fmt.Errorf("timeout"))).Once()
	gen.On("Generate", mock.Anything, *profile, []string{"hotel"}).Return(second, nil).Once()

	svc := NewLearnService(testutil.NewFakeProfiles(profile), gen, scoring.NewGate(80), session.NewRegistry(), 3, testutil.NewTestLogger())
	ctx := context.Background()

	_, err := svc.Start(ctx, "taro")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, "taro", "hotel", "ホテル")
	assert.ErrorIs(t, err, domain.ErrUpstream)

	status, err := svc.Status(ctx, "taro")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Answered)
	assert.Equal(t, "hotel", status.Pending.Word)

	outcome, err := svc.SubmitAnswer(ctx, "taro", "hotel", "ホテル")
	require.NoError(t, err)
	assert.True(t, outcome.Correct)
	assert.Equal(t, "airport", outcome.Next.Word)

	gen.AssertExpectations(t)
}

func TestLearnService_Start_NoVocabulary(t *testing.T) {
	profile := testutil.NewTestProfile("taro", domain.LevelBeginner, domain.GoalTravel)
	generator := quiz.NewGenerator(&testutil.FakeVocabulary{}, 4, testutil.NewTestLogger())
	svc := NewLearnService(testutil.NewFakeProfiles(profile), generator, scoring.NewGate(80), session.NewRegistry(), 3, testutil.NewTestLogger())

	q, err := svc.Start(context.Background(), "taro")

	assert.Nil(t, q)
	assert.ErrorIs(t, err, domain.ErrNoVocabulary)

	status, err := svc.Status(context.Background(), "taro")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNotStarted, status.State)
}

func TestNewLearnService_DefaultLength(t *testing.T) {
	svc := NewLearnService(nil, nil, scoring.NewGate(80), session.NewRegistry(), 0, testutil.NewTestLogger())
	assert.Equal(t, DefaultSessionLength, svc.SessionLength())
}
