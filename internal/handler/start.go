package handler

import (
	"errors"
	"fmt"
	"strings"

	"wordquiz/internal/domain"
	"wordquiz/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	learner := middleware.LearnerID(c.Sender())

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	ctx, cancel := requestContext()
	defer cancel()

	profile, err := h.profiles.Get(ctx, learner)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return h.handleSetup(c)
	}
	if err != nil {
		return h.replyError(c, err)
	}

	h.updateState(userID, func(s *chatState) {
		s.Level = ""
	})
	return h.show(c, menuText(profile), mainMenuMarkup())
}

// handleSetup asks for the level, the first step of profile setup
func (h *Handler) handleSetup(c tele.Context) error {
	h.updateState(c.Sender().ID, func(s *chatState) {
		s.Level = ""
	})

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(domain.Levels))
	for _, level := range domain.Levels {
		rows = append(rows, markup.Row(markup.Data(level.Label(), "lvl_"+string(level))))
	}
	markup.Inline(rows...)

	return h.show(c, "👋 Let's set up your vocabulary quiz.\n\nChoose your level:", markup)
}

// handleLevelSelection remembers the level and asks for the goal
func (h *Handler) handleLevelSelection(c tele.Context, data string) error {
	level, err := domain.ParseLevel(strings.TrimPrefix(data, "lvl_"))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown level"})
	}

	h.updateState(c.Sender().ID, func(s *chatState) {
		s.Level = level
	})

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(domain.Goals))
	for _, goal := range domain.Goals {
		rows = append(rows, markup.Row(markup.Data(goal.Label(), "goal_"+string(goal))))
	}
	markup.Inline(rows...)

	return h.show(c, fmt.Sprintf("Level: %s\n\nNow choose your goal:", level.Label()), markup)
}

// handleGoalSelection completes profile setup
func (h *Handler) handleGoalSelection(c tele.Context, data string) error {
	userID := c.Sender().ID
	state := h.getState(userID)
	if state.Level == "" {
		return h.handleSetup(c)
	}

	ctx, cancel := requestContext()
	defer cancel()

	profile, err := h.profiles.Setup(ctx, middleware.LearnerID(c.Sender()), string(state.Level), strings.TrimPrefix(data, "goal_"))
	if err != nil {
		return h.replyError(c, err)
	}

	h.updateState(userID, func(s *chatState) {
		s.Level = ""
	})

	h.logger.Info("Profile set up via bot",
		zap.Int64("user_id", userID),
		zap.String("level", string(profile.Level)),
		zap.String("goal", string(profile.Goal)),
	)

	return h.show(c, "✅ Profile saved!\n\n"+menuText(profile), mainMenuMarkup())
}

func menuText(p *domain.LearnerProfile) string {
	return fmt.Sprintf("🏠 Main menu\n\nLevel: %s\nGoal: %s\n\nChoose an action:", p.Level.Label(), p.Goal.Label())
}
