package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wordquiz/internal/domain"
	"wordquiz/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgSetupFirst = "Please set up your level and goal first: /setup"
	msgFailure    = "Something went wrong. Please try again later."
)

// LearnerID maps a Telegram user onto a learner identity
func LearnerID(user *tele.User) string {
	return fmt.Sprintf("tg-%d", user.ID)
}

// ProfileRequired lets the request through only when the sender has a profile
func ProfileRequired(profiles *service.ProfileService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			learner := LearnerID(c.Sender())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_, err := profiles.Get(ctx, learner)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, domain.ErrProfileNotFound):
				return reply(c, msgSetupFirst)
			default:
				logger.Error("Failed to check profile in middleware",
					zap.String("learner", learner),
					zap.Error(err),
				)
				return reply(c, msgFailure)
			}
		}
	}
}

func reply(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}
