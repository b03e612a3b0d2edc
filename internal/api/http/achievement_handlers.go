package http

import (
	"net/http"
	"time"

	"wordquiz/internal/domain"
	"wordquiz/internal/service"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type achievementDTO struct {
	AchievementID string     `json:"achievement_id"`
	UserName      string     `json:"user_name"`
	Content       string     `json:"content"`
	Level         string     `json:"level"`
	Goal          string     `json:"goal"`
	FinalAccuracy float64    `json:"final_accuracy"`
	SessionSize   int        `json:"session_size"`
	AwardedAt     time.Time  `json:"awarded_at"`
	RecordedAt    *time.Time `json:"recorded_at,omitempty"`
	Token         string     `json:"token,omitempty"`
}

func toAchievementDTO(rec *domain.AchievementRecord) achievementDTO {
	return achievementDTO{
		AchievementID: rec.ID,
		UserName:      rec.Learner,
		Content:       rec.Content,
		Level:         string(rec.Level),
		Goal:          string(rec.Goal),
		FinalAccuracy: rec.FinalAccuracy,
		SessionSize:   rec.SessionSize,
		AwardedAt:     rec.AwardedAt,
		RecordedAt:    rec.RecordedAt,
	}
}

// RecordAchievementHandler accepts the blockchain_data object returned by
// submit_answer. Only the signed token is trusted.
func RecordAchievementHandler(achievements *service.AchievementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req achievementDTO
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, logger, http.StatusBadRequest, "bad json")
			return
		}

		rec, recorded, err := achievements.Record(r.Context(), req.Token)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		message := "Achievement recorded."
		if !recorded {
			message = "Achievement was already recorded."
		}
		writeJSON(w, logger, http.StatusOK, map[string]any{
			"message":        message,
			"achievement_id": rec.ID,
			"recorded":       recorded,
		})
	}
}

func ListAchievementsHandler(achievements *service.AchievementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := achievements.List(r.Context(), r.URL.Query().Get("user_name"))
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, lo.Map(records, func(rec domain.AchievementRecord, _ int) achievementDTO {
			return toAchievementDTO(&rec)
		}))
	}
}
