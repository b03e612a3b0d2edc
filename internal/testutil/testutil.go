package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wordquiz/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestProfile creates a test profile
func NewTestProfile(name string, level domain.Level, goal domain.Goal) *domain.LearnerProfile {
	return &domain.LearnerProfile{
		Name:      name,
		Level:     level,
		Goal:      goal,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestEntries creates n entries for one level and goal.
// Words are "word1".."wordN" and translations "訳1".."訳N".
func NewTestEntries(n int, level domain.Level, goal domain.Goal) []domain.VocabEntry {
	entries := make([]domain.VocabEntry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, domain.VocabEntry{
			ID:          i,
			Word:        fmt.Sprintf("word%d", i),
			Translation: fmt.Sprintf("訳%d", i),
			Explanation: fmt.Sprintf("explanation %d", i),
			Level:       level,
			Goal:        goal,
		})
	}
	return entries
}

// FakeVocabulary is an in-memory VocabularyRepository
type FakeVocabulary struct {
	Entries []domain.VocabEntry
}

func (f *FakeVocabulary) ListEntries(_ context.Context, level domain.Level, goal domain.Goal) ([]domain.VocabEntry, error) {
	var out []domain.VocabEntry
	for _, e := range f.Entries {
		if e.Level == level && e.Goal == goal {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *FakeVocabulary) ListTranslations(_ context.Context, level domain.Level) ([]string, error) {
	var out []string
	for _, e := range f.Entries {
		if e.Level == level {
			out = append(out, e.Translation)
		}
	}
	return out, nil
}

func (f *FakeVocabulary) ListAllTranslations(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		out = append(out, e.Translation)
	}
	return out, nil
}

// FakeProfiles is an in-memory ProfileRepository safe for concurrent use
type FakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]domain.LearnerProfile
}

// NewFakeProfiles creates a profile store holding the given profiles
func NewFakeProfiles(profiles ...*domain.LearnerProfile) *FakeProfiles {
	f := &FakeProfiles{profiles: make(map[string]domain.LearnerProfile)}
	for _, p := range profiles {
		f.profiles[p.Name] = *p
	}
	return f
}

func (f *FakeProfiles) GetProfile(_ context.Context, name string) (*domain.LearnerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[name]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *FakeProfiles) SaveProfile(_ context.Context, p *domain.LearnerProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	if existing, ok := f.profiles[p.Name]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	f.profiles[p.Name] = *p
	return nil
}
