package handler

import (
	"context"
	"sync"
	"time"

	"wordquiz/internal/domain"
	"wordquiz/internal/middleware"
	"wordquiz/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const requestTimeout = 10 * time.Second

// chatState is what the bot remembers between button presses of one chat
type chatState struct {
	// Level chosen during profile setup, waiting for a goal
	Level domain.Level
	// Question currently shown with answer buttons
	Question *domain.Question
	// Token for an achievement the learner has not recorded yet
	AchievementToken string
}

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	profiles     *service.ProfileService
	learn        *service.LearnService
	achievements *service.AchievementService
	logger       *zap.Logger

	states   map[int64]*chatState
	stateMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	profiles *service.ProfileService,
	learn *service.LearnService,
	achievements *service.AchievementService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:          bot,
		profiles:     profiles,
		learn:        learn,
		achievements: achievements,
		logger:       logger,
		states:       make(map[int64]*chatState),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	profileRequired := middleware.ProfileRequired(h.profiles, h.logger)

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/setup", h.handleSetup)
	h.bot.Handle("/quiz", h.handleStartQuiz, profileRequired)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnStartQuiz, h.handleStartQuiz, profileRequired)
	h.bot.Handle(&btnEndQuiz, h.handleEndQuiz)
	h.bot.Handle(&btnRecord, h.handleRecordAchievement)
	h.bot.Handle(&btnAchievements, h.handleAchievements, profileRequired)
	h.bot.Handle(&btnSetup, h.handleSetup)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// getState returns the chat's current state
func (h *Handler) getState(userID int64) *chatState {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &chatState{}
	}
	copied := *state
	return &copied
}

// setState sets the chat's state
func (h *Handler) setState(userID int64, state *chatState) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// resetState forgets everything about the chat
func (h *Handler) resetState(userID int64) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	delete(h.states, userID)
}

func (h *Handler) updateState(userID int64, fn func(s *chatState)) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	s, ok := h.states[userID]
	if !ok {
		s = &chatState{}
		h.states[userID] = s
	}
	fn(s)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnStartQuiz = tele.Btn{
		Unique: "start_quiz",
		Text:   "📝 Start quiz",
	}
	btnEndQuiz = tele.Btn{
		Unique: "end_quiz",
		Text:   "⏹ End session",
	}
	btnRecord = tele.Btn{
		Unique: "record_achievement",
		Text:   "🏆 Record achievement",
	}
	btnAchievements = tele.Btn{
		Unique: "achievements",
		Text:   "🏅 My achievements",
	}
	btnSetup = tele.Btn{
		Unique: "setup",
		Text:   "⚙️ Change level / goal",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnStartQuiz),
		menu.Row(btnAchievements),
		menu.Row(btnSetup),
	)
	return menu
}
