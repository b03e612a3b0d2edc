package http

import (
	"fmt"
	"net/http"
	"time"

	"wordquiz/internal/domain"
	"wordquiz/internal/service"

	"go.uber.org/zap"
)

const recordPrompt = "Congratulations! Record this achievement?"

type questionDTO struct {
	QuestionNumber int      `json:"question_number"`
	Word           string   `json:"word"`
	Options        []string `json:"options"`
}

type submitResponse struct {
	IsCorrect       bool    `json:"is_correct"`
	CorrectMeaning  string  `json:"correct_meaning"`
	Feedback        string  `json:"feedback"`
	Explanation     string  `json:"explanation"`
	CurrentScore    string  `json:"current_score"`
	RunningAccuracy float64 `json:"running_accuracy"`
	SessionFinished bool    `json:"session_finished"`

	NextQuestionNumber int      `json:"next_question_number,omitempty"`
	NextWord           string   `json:"next_word,omitempty"`
	NextOptions        []string `json:"next_options,omitempty"`

	Message                string          `json:"message,omitempty"`
	FinalAccuracy          *float64        `json:"final_accuracy,omitempty"`
	BlockchainRecordPrompt string          `json:"blockchain_record_prompt,omitempty"`
	BlockchainData         *achievementDTO `json:"blockchain_data,omitempty"`
}

type snapshotDTO struct {
	SessionID      string       `json:"session_id,omitempty"`
	UserName       string       `json:"user_name"`
	State          string       `json:"state"`
	Answered       int          `json:"answered"`
	CorrectAnswers int          `json:"correct_answers"`
	TotalQuestions int          `json:"total_questions"`
	Accuracy       float64      `json:"accuracy"`
	Pending        *questionDTO `json:"pending,omitempty"`
	StartedAt      *time.Time   `json:"started_at,omitempty"`
	UpdatedAt      *time.Time   `json:"updated_at,omitempty"`
}

func toSnapshotDTO(s *domain.SessionSnapshot) snapshotDTO {
	dto := snapshotDTO{
		SessionID:      s.ID,
		UserName:       s.Learner,
		State:          string(s.State),
		Answered:       s.Answered,
		CorrectAnswers: s.Correct,
		TotalQuestions: s.TargetLength,
		Accuracy:       s.Accuracy,
	}
	if s.Pending != nil {
		dto.Pending = &questionDTO{QuestionNumber: s.Pending.Number, Word: s.Pending.Word, Options: s.Pending.Options}
	}
	if !s.StartedAt.IsZero() {
		started, updated := s.StartedAt, s.UpdatedAt
		dto.StartedAt, dto.UpdatedAt = &started, &updated
	}
	return dto
}

// learnerFrom reads user_name from the query string, falling back to a JSON body
func learnerFrom(r *http.Request) (string, error) {
	if name := r.URL.Query().Get("user_name"); name != "" {
		return name, nil
	}
	var req struct {
		UserName string `json:"user_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	return req.UserName, nil
}

func StartLearningHandler(learn *service.LearnService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		learner, err := learnerFrom(r)
		if err != nil {
			writeDetail(w, logger, http.StatusBadRequest, "bad json")
			return
		}

		q, err := learn.Start(r.Context(), learner)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"message":         "Learning session started!",
			"question_number": q.Number,
			"word":            q.Word,
			"options":         q.Options,
			"total_questions": learn.SessionLength(),
		})
	}
}

func SubmitAnswerHandler(learn *service.LearnService, achievements *service.AchievementService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserName       string `json:"user_name"`
			QuestionNumber int    `json:"question_number"`
			Word           string `json:"word"`
			UserAnswer     string `json:"user_answer"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, logger, http.StatusBadRequest, "bad json")
			return
		}

		out, err := learn.AnswerQuestion(r.Context(), req.UserName, req.QuestionNumber, req.Word, req.UserAnswer)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		resp := submitResponse{
			IsCorrect:       out.Correct,
			CorrectMeaning:  out.CorrectAnswer,
			Feedback:        out.Feedback,
			Explanation:     out.Explanation,
			CurrentScore:    fmt.Sprintf("%d/%d", out.Score, out.TargetLength),
			RunningAccuracy: out.RunningAccuracy,
			SessionFinished: out.Finished,
		}

		if !out.Finished {
			resp.NextQuestionNumber = out.Next.Number
			resp.NextWord = out.Next.Word
			resp.NextOptions = out.Next.Options
			writeJSON(w, logger, http.StatusOK, resp)
			return
		}

		final := out.FinalAccuracy
		resp.FinalAccuracy = &final
		resp.Message = "Learning session finished!"

		if out.Achievement != nil {
			token, err := achievements.Issue(out.Achievement)
			if err != nil {
				// the session already finished; report the result without the prompt
				logger.Error("Failed to sign achievement",
					zap.String("learner", out.Achievement.Learner),
					zap.String("achievement_id", out.Achievement.ID),
					zap.Error(err),
				)
			} else {
				data := toAchievementDTO(out.Achievement)
				data.Token = token
				resp.BlockchainRecordPrompt = recordPrompt
				resp.BlockchainData = &data
			}
		}

		writeJSON(w, logger, http.StatusOK, resp)
	}
}

func EndLearningSessionHandler(learn *service.LearnService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		learner, err := learnerFrom(r)
		if err != nil {
			writeDetail(w, logger, http.StatusBadRequest, "bad json")
			return
		}

		snap, err := learn.Abandon(r.Context(), learner)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"message":         "Learning session ended.",
			"final_accuracy":  snap.Accuracy,
			"correct_answers": snap.Correct,
			"answered":        snap.Answered,
			"total_questions": snap.TargetLength,
		})
	}
}

func SessionStatusHandler(learn *service.LearnService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := learn.Status(r.Context(), r.URL.Query().Get("user_name"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, toSnapshotDTO(snap))
	}
}
