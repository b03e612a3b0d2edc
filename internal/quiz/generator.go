package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DefaultOptionCount is the number of answer options per question
const DefaultOptionCount = 4

const noExplanation = "No explanation available."

// Generator builds multiple-choice questions from the vocabulary source
type Generator struct {
	vocab       repository.VocabularyRepository
	optionCount int
	logger      *zap.Logger

	// intn must be safe for concurrent use; rand.Intn is
	intn func(n int) int
}

// NewGenerator creates a new question generator
func NewGenerator(vocab repository.VocabularyRepository, optionCount int, logger *zap.Logger) *Generator {
	if optionCount < 2 {
		optionCount = DefaultOptionCount
	}
	return &Generator{
		vocab:       vocab,
		optionCount: optionCount,
		logger:      logger,
		intn:        rand.Intn,
	}
}

// OptionCount returns the configured number of options per question
func (g *Generator) OptionCount() int {
	return g.optionCount
}

// Generate picks a word for the profile's level and goal that is not in exclude,
// and surrounds its translation with distractors. Repeats are allowed once every
// word has been presented.
func (g *Generator) Generate(ctx context.Context, profile domain.LearnerProfile, exclude []string) (*domain.Question, error) {
	entries, err := g.vocab.ListEntries(ctx, profile.Level, profile.Goal)
	if err != nil {
		return nil, domain.Upstream("list vocabulary", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w for level %s and goal %s", domain.ErrNoVocabulary, profile.Level, profile.Goal)
	}

	presented := lo.Associate(exclude, func(w string) (string, struct{}) {
		return normalize(w), struct{}{}
	})
	candidates := lo.Filter(entries, func(e domain.VocabEntry, _ int) bool {
		_, seen := presented[normalize(e.Word)]
		return !seen
	})
	if len(candidates) == 0 {
		g.logger.Debug("Vocabulary exhausted, allowing repeats",
			zap.String("level", string(profile.Level)),
			zap.String("goal", string(profile.Goal)),
			zap.Int("presented", len(exclude)),
		)
		candidates = entries
		// never ask the word that was just answered again unless it is the only one
		if len(entries) > 1 {
			last := normalize(exclude[len(exclude)-1])
			candidates = lo.Filter(entries, func(e domain.VocabEntry, _ int) bool {
				return normalize(e.Word) != last
			})
		}
	}

	pick := candidates[g.intn(len(candidates))]

	distractors, err := g.distractors(ctx, profile, pick.Translation, entries)
	if err != nil {
		return nil, err
	}

	options := append([]string{pick.Translation}, distractors...)
	g.shuffle(options)

	explanation := pick.Explanation
	if strings.TrimSpace(explanation) == "" {
		explanation = noExplanation
	}

	return &domain.Question{
		Word:        pick.Word,
		Options:     options,
		Answer:      pick.Translation,
		Explanation: explanation,
	}, nil
}

// distractors draws optionCount-1 distinct wrong translations, widening the pool
// from the same level and goal to the same level and then to the whole vocabulary.
func (g *Generator) distractors(ctx context.Context, profile domain.LearnerProfile, answer string, entries []domain.VocabEntry) ([]string, error) {
	need := g.optionCount - 1
	taken := map[string]struct{}{normalize(answer): {}}
	out := make([]string, 0, need)

	take := func(pool []string) {
		pool = lo.Filter(lo.Uniq(pool), func(s string, _ int) bool {
			return strings.TrimSpace(s) != ""
		})
		g.shuffle(pool)
		for _, s := range pool {
			if len(out) == need {
				return
			}
			key := normalize(s)
			if _, dup := taken[key]; dup {
				continue
			}
			taken[key] = struct{}{}
			out = append(out, s)
		}
	}

	take(lo.Map(entries, func(e domain.VocabEntry, _ int) string { return e.Translation }))
	if len(out) == need {
		return out, nil
	}

	sameLevel, err := g.vocab.ListTranslations(ctx, profile.Level)
	if err != nil {
		return nil, domain.Upstream("list level translations", err)
	}
	take(sameLevel)
	if len(out) == need {
		return out, nil
	}

	all, err := g.vocab.ListAllTranslations(ctx)
	if err != nil {
		return nil, domain.Upstream("list all translations", err)
	}
	take(all)

	if len(out) < need {
		g.logger.Warn("Not enough distinct translations for a full option set",
			zap.String("level", string(profile.Level)),
			zap.String("goal", string(profile.Goal)),
			zap.Int("wanted", need),
			zap.Int("found", len(out)),
		)
	}

	return out, nil
}

func (g *Generator) shuffle(s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := g.intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
