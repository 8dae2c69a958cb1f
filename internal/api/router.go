package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Auth
	mux.HandleFunc("POST /auth/signup", h.signup)
	mux.HandleFunc("POST /auth/login", h.login)

	// Question bank
	mux.HandleFunc("GET /questions", h.getQuestions)

	// Quiz sampling
	mux.HandleFunc("POST /quiz", h.createQuiz)
	mux.HandleFunc("GET /review", h.withUser(h.getReview))

	// Attempts
	mux.HandleFunc("POST /attempts", h.withUser(h.submitAttempt))
	mux.HandleFunc("GET /attempts", h.withUser(h.listAttempts))
	mux.HandleFunc("GET /attempts/{attemptID}", h.withUser(h.getAttempt))
	mux.HandleFunc("DELETE /attempts", h.withUser(h.resetAttempts))

	// Aggregated statistics
	mux.HandleFunc("GET /stats", h.withUser(h.getStats))
}
