package api

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/samplex/backend/internal/domain/questionbank"
	"github.com/samplex/backend/internal/sampler"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateQuizRequest struct {
	// Per-category question counts; categories omitted fall back to the
	// configured default.
	Counts map[string]int `json:"counts,omitempty"`
}

type QuizQuestion struct {
	ID       int      `json:"id"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

type QuizResponse struct {
	Questions []QuizQuestion `json:"questions"`
}

type ReviewResponse struct {
	ReviewNeeded bool           `json:"review_needed"`
	Questions    []QuizQuestion `json:"questions,omitempty"`
}

// quizQuestions strips answer keys before questions go over the wire.
func quizQuestions(questions []questionbank.Question) []QuizQuestion {
	out := make([]QuizQuestion, len(questions))
	for i, q := range questions {
		out[i] = QuizQuestion{
			ID:       q.ID,
			Text:     q.Text,
			Options:  q.Options,
			Category: q.Category,
		}
	}
	return out
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /questions
func (h *Handler) getQuestions(w http.ResponseWriter, r *http.Request) {
	doc := make(map[string][]questionbank.Question, len(h.bank.Categories()))
	for _, category := range h.bank.Categories() {
		doc[category] = h.bank.Questions(category)
	}
	respondJSON(w, http.StatusOK, doc)
}

// POST /quiz
func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	counts := make(map[string]int, len(h.bank.Categories()))
	for _, category := range h.bank.Categories() {
		counts[category] = h.samplePerCategory
	}
	for category, count := range req.Counts {
		counts[category] = count
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	questions := sampler.Sample(h.bank, counts, rng)
	if len(questions) == 0 {
		http.Error(w, "no questions available", http.StatusConflict)
		return
	}

	respondJSON(w, http.StatusOK, QuizResponse{Questions: quizQuestions(questions)})
}

// GET /review
func (h *Handler) getReview(w http.ResponseWriter, r *http.Request, userID int64) {
	attempts, err := h.store.ListAttempts(userID)
	if h.handleStoreError(w, err, "attempts") {
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	questions, err := sampler.SampleForReview(attempts, h.bank, rng)
	if errors.Is(err, sampler.ErrNoReviewNeeded) {
		// Not an error: nothing worth reviewing is a success outcome.
		respondJSON(w, http.StatusOK, ReviewResponse{ReviewNeeded: false})
		return
	}
	if err != nil {
		h.logger.Error("review sampling failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, ReviewResponse{
		ReviewNeeded: true,
		Questions:    quizQuestions(questions),
	})
}
