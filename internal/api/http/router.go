package http

import (
	"net/http"
	"time"

	"wordquiz/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Services are the engine operations exposed over HTTP
type Services struct {
	Profiles     *service.ProfileService
	Learn        *service.LearnService
	Achievements *service.AchievementService
}

// NewRouter builds the JSON API
func NewRouter(svc Services, corsOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(logger), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", HealthHandler(logger))

	r.Route("/user", func(r chi.Router) {
		r.Post("/setup", SetupProfileHandler(svc.Profiles, logger))
		r.Get("/profile", GetProfileHandler(svc.Profiles, logger))
	})

	r.Route("/learn", func(r chi.Router) {
		r.Post("/start", StartLearningHandler(svc.Learn, logger))
		r.Post("/submit_answer", SubmitAnswerHandler(svc.Learn, svc.Achievements, logger))
		r.Post("/end_learning_session", EndLearningSessionHandler(svc.Learn, logger))
		r.Get("/session", SessionStatusHandler(svc.Learn, logger))
	})

	r.Post("/blockchain/record_achievement", RecordAchievementHandler(svc.Achievements, logger))
	r.Get("/achievements", ListAchievementsHandler(svc.Achievements, logger))

	return r
}

func HealthHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}
