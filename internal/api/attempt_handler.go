package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/samplex/backend/internal/domain/attempt"
	"github.com/samplex/backend/internal/history"
)

// ── Request / Response types ────────────────────────────────────────────────

type SubmitAnswer struct {
	QuestionID int `json:"question_id"`
	Choice     int `json:"choice"`
}

type SubmitAttemptRequest struct {
	// Optional; the server stamps the current time when absent.
	Timestamp string         `json:"timestamp,omitempty"`
	Answers   []SubmitAnswer `json:"answers"`
}

type SubmitAttemptResponse struct {
	AttemptID int64 `json:"attempt_id"`
}

type AttemptResponse struct {
	Timestamp string         `json:"timestamp"`
	Answers   []SubmitAnswer `json:"answers"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /attempts
func (h *Handler) submitAttempt(w http.ResponseWriter, r *http.Request, userID int64) {
	var req SubmitAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Answers) == 0 {
		http.Error(w, "answers are required", http.StatusBadRequest)
		return
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	a := attempt.Attempt{Timestamp: timestamp}
	for _, ans := range req.Answers {
		a.Answers = append(a.Answers, attempt.Answer{
			QuestionID: ans.QuestionID,
			UserAnswer: ans.Choice,
		})
	}

	attemptID, err := h.store.SaveAttempt(userID, a)
	if err != nil {
		h.logger.Error("failed to save attempt", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, SubmitAttemptResponse{AttemptID: attemptID})
}

// GET /attempts/{attemptID}
func (h *Handler) getAttempt(w http.ResponseWriter, r *http.Request, userID int64) {
	attemptID, err := strconv.ParseInt(r.PathValue("attemptID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid attempt id", http.StatusBadRequest)
		return
	}

	a, err := h.store.GetAttempt(userID, attemptID)
	if h.handleStoreError(w, err, "attempt") {
		return
	}

	respondJSON(w, http.StatusOK, toAttemptResponse(*a))
}

// GET /attempts
func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request, userID int64) {
	attempts, err := h.store.ListAttempts(userID)
	if h.handleStoreError(w, err, "attempts") {
		return
	}

	out := make([]AttemptResponse, len(attempts))
	for i, a := range attempts {
		out[i] = toAttemptResponse(a)
	}
	respondJSON(w, http.StatusOK, out)
}

// DELETE /attempts
func (h *Handler) resetAttempts(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := h.store.ResetAttempts(userID); err != nil {
		h.logger.Error("failed to reset attempts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// GET /stats
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request, userID int64) {
	attempts, err := h.store.ListAttempts(userID)
	if h.handleStoreError(w, err, "attempts") {
		return
	}

	result := history.Aggregate(attempts, h.bank, h.logger, time.Now())
	respondJSON(w, http.StatusOK, result)
}

func toAttemptResponse(a attempt.Attempt) AttemptResponse {
	out := AttemptResponse{Timestamp: a.Timestamp, Answers: []SubmitAnswer{}}
	for _, ans := range a.Answers {
		out.Answers = append(out.Answers, SubmitAnswer{
			QuestionID: ans.QuestionID,
			Choice:     ans.UserAnswer,
		})
	}
	return out
}
