package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wordquiz/internal/domain"
	"wordquiz/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgStale   = "This question was already answered."
	msgFailure = "Something went wrong. Please try again later."
)

// handleText answers free text; the quiz itself is driven by buttons
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	return h.handleStart(c)
}

// handleStartQuiz starts a new session and shows the first question
func (h *Handler) handleStartQuiz(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	q, err := h.learn.Start(ctx, middleware.LearnerID(c.Sender()))
	if err != nil {
		return h.replyError(c, err)
	}

	h.setState(userID, &chatState{Question: q})

	text, markup := questionView(q, h.learn.SessionLength())
	return h.show(c, text, markup)
}

// handleAnswer scores the option behind an answer button
func (h *Handler) handleAnswer(c tele.Context, data string) error {
	userID := c.Sender().ID
	learner := middleware.LearnerID(c.Sender())

	number, index, err := parseAnswerData(data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown answer"})
	}

	state := h.getState(userID)
	q := state.Question
	if q == nil || q.Number != number || index >= len(q.Options) {
		return c.Respond(&tele.CallbackResponse{Text: msgStale})
	}

	ctx, cancel := requestContext()
	defer cancel()

	out, err := h.learn.AnswerQuestion(ctx, learner, q.Number, q.Word, q.Options[index])
	if err != nil {
		return h.replyError(c, err)
	}

	text := outcomeText(out)
	var markup *tele.ReplyMarkup

	switch {
	case !out.Finished:
		h.setState(userID, &chatState{Question: out.Next})
		nextText, nextMarkup := questionView(out.Next, out.TargetLength)
		text += "\n\n" + nextText
		markup = nextMarkup

	case out.Achievement != nil:
		token, err := h.achievements.Issue(out.Achievement)
		if err != nil {
			h.logger.Error("Failed to sign achievement",
				zap.String("learner", learner),
				zap.Error(err),
			)
			h.resetState(userID)
			markup = mainMenuMarkup()
			break
		}
		h.setState(userID, &chatState{AchievementToken: token})
		markup = &tele.ReplyMarkup{}
		markup.Inline(
			markup.Row(btnRecord),
			markup.Row(btnMainMenu),
		)

	default:
		h.resetState(userID)
		markup = mainMenuMarkup()
	}

	return h.show(c, text, markup)
}

// handleEndQuiz abandons the running session
func (h *Handler) handleEndQuiz(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	snap, err := h.learn.Abandon(ctx, middleware.LearnerID(c.Sender()))
	if err != nil {
		return h.replyError(c, err)
	}

	h.resetState(userID)

	text := fmt.Sprintf("⏹ Session ended.\n\nCorrect: %d of %d answered\nAccuracy: %.1f%%",
		snap.Correct, snap.Answered, snap.Accuracy)
	return h.show(c, text, mainMenuMarkup())
}

// handleRecordAchievement records the achievement earned by the last session
func (h *Handler) handleRecordAchievement(c tele.Context) error {
	userID := c.Sender().ID

	token := h.getState(userID).AchievementToken
	if token == "" {
		return c.Respond(&tele.CallbackResponse{Text: "Nothing to record.", ShowAlert: true})
	}

	ctx, cancel := requestContext()
	defer cancel()

	rec, recorded, err := h.achievements.Record(ctx, token)
	if err != nil {
		// keep the token so the learner can retry
		return h.replyError(c, err)
	}

	h.resetState(userID)

	text := fmt.Sprintf("🏆 Recorded: %s (%.1f%%)", rec.Content, rec.FinalAccuracy)
	if !recorded {
		text = "🏆 This achievement was already recorded."
	}
	return h.show(c, text, mainMenuMarkup())
}

// handleAchievements lists recorded achievements
func (h *Handler) handleAchievements(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	records, err := h.achievements.List(ctx, middleware.LearnerID(c.Sender()))
	if err != nil {
		return h.replyError(c, err)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))

	return h.show(c, achievementsText(records), markup)
}

// show edits the message behind a callback, or sends a new one for commands
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
				return nil // Message was already modified, just acknowledged
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

// replyError turns an engine error into a message for the learner
func (h *Handler) replyError(c tele.Context, err error) error {
	text := msgFailure
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		text = "Please set up your level and goal first: /setup"
	case errors.Is(err, domain.ErrNoActiveSession):
		text = "No active session. Start a new quiz from the menu."
	case errors.Is(err, domain.ErrStaleAnswer):
		text = msgStale
	case errors.Is(err, domain.ErrNoVocabulary):
		text = "No words are available for your level and goal yet."
	case errors.Is(err, domain.ErrValidation):
		text = "That request was not valid."
	default:
		h.logger.Error("Bot request failed",
			zap.Int64("user_id", c.Sender().ID),
			zap.Error(err),
		)
	}

	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

// parseAnswerData reads "ans_<question>_<option>"
func parseAnswerData(data string) (int, int, error) {
	parts := strings.Split(strings.TrimPrefix(data, "ans_"), "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed answer data %q", data)
	}
	number, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed question number: %w", err)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return 0, 0, fmt.Errorf("malformed option index %q", parts[1])
	}
	return number, index, nil
}

func answerData(number, index int) string {
	return fmt.Sprintf("ans_%d_%d", number, index)
}

func questionView(q *domain.Question, total int) (string, *tele.ReplyMarkup) {
	text := fmt.Sprintf("❓ Question %d/%d\n\n📝 %s\n\nChoose the meaning:", q.Number, total, q.Word)

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(q.Options)+1)
	for i, option := range q.Options {
		rows = append(rows, markup.Row(markup.Data(option, answerData(q.Number, i))))
	}
	rows = append(rows, markup.Row(btnEndQuiz))
	markup.Inline(rows...)

	return text, markup
}

func outcomeText(out *domain.AnswerOutcome) string {
	var b strings.Builder
	if out.Correct {
		b.WriteString("✅ ")
	} else {
		b.WriteString("❌ ")
	}
	b.WriteString(out.Feedback)
	if out.Explanation != "" {
		fmt.Fprintf(&b, "\n💡 %s", out.Explanation)
	}
	fmt.Fprintf(&b, "\nScore: %d/%d", out.Score, out.TargetLength)

	if out.Finished {
		fmt.Fprintf(&b, "\n\n🏁 Session finished! Final accuracy: %.1f%%", out.FinalAccuracy)
		if out.Achievement != nil {
			fmt.Fprintf(&b, "\n🎉 Achievement earned: %s", out.Achievement.Content)
		}
	}
	return b.String()
}

func achievementsText(records []domain.AchievementRecord) string {
	if len(records) == 0 {
		return "🏅 No achievements recorded yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏅 Your achievements (%d):\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(&b, "\n%d. %s, %.1f%% on %s", i+1, rec.Content, rec.FinalAccuracy, rec.AwardedAt.Format("2006-01-02"))
	}
	return b.String()
}
