package http

import (
	"fmt"
	"net/http"

	"wordquiz/internal/domain"
	"wordquiz/internal/service"

	"go.uber.org/zap"
)

type profileDTO struct {
	Name       string `json:"name"`
	Level      string `json:"level"`
	LevelLabel string `json:"level_label"`
	Goal       string `json:"goal"`
	GoalLabel  string `json:"goal_label"`
}

func toProfileDTO(p *domain.LearnerProfile) profileDTO {
	return profileDTO{
		Name:       p.Name,
		Level:      string(p.Level),
		LevelLabel: p.Level.Label(),
		Goal:       string(p.Goal),
		GoalLabel:  p.Goal.Label(),
	}
}

func SetupProfileHandler(profiles *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"name"`
			Level string `json:"level"`
			Goal  string `json:"goal"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, logger, http.StatusBadRequest, "bad json")
			return
		}

		profile, err := profiles.Setup(r.Context(), req.Name, req.Level, req.Goal)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"message": fmt.Sprintf("User %s profile set up successfully!", profile.Name),
			"profile": toProfileDTO(profile),
		})
	}
}

func GetProfileHandler(profiles *service.ProfileService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := profiles.Get(r.Context(), r.URL.Query().Get("user_name"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toProfileDTO(profile))
	}
}
