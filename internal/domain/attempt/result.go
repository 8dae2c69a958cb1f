package attempt

import (
	"log/slog"

	"github.com/samplex/backend/internal/domain/questionbank"
)

// Score is a correct/total pair, recomputed on demand and never persisted.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percentage returns 100*correct/total, or 0 for an empty score. An empty
// category scores 0, not 100: no evidence of mastery.
func (s Score) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Correct) / float64(s.Total)
}

// Add folds another score into this one.
func (s *Score) Add(other Score) {
	s.Correct += other.Correct
	s.Total += other.Total
}

// GradedQuestion is a read-only bank question decorated with the answer the
// user gave. UserAnswer is nil when the question was shown but never
// answered; an unanswered question is never correct.
type GradedQuestion struct {
	questionbank.Question
	UserAnswer *int
}

// Correct reports whether the recorded answer matches the answer key.
func (g GradedQuestion) Correct() bool {
	return g.UserAnswer != nil && *g.UserAnswer == g.CorrectAnswer
}

// Result is the per-category score breakdown of one graded question set.
type Result struct {
	Categories map[string]Score `json:"categories"`
}

// ResultFromQuestions scores a graded question set. Questions with no
// category are skipped with a warning rather than failing the whole
// computation; partial results beat no results.
func ResultFromQuestions(graded []GradedQuestion, logger *slog.Logger) Result {
	result := Result{Categories: make(map[string]Score)}
	for _, g := range graded {
		if g.Category == "" {
			logger.Warn("skipping question without category", "question_id", g.ID)
			continue
		}
		score := result.Categories[g.Category]
		score.Total++
		if g.Correct() {
			score.Correct++
		}
		result.Categories[g.Category] = score
	}
	return result
}

// TotalScore sums correct/total across all categories.
func (r Result) TotalScore() Score {
	var total Score
	for _, score := range r.Categories {
		total.Add(score)
	}
	return total
}

// TotalScorePercentage is the overall percentage, 0 when nothing was graded.
func (r Result) TotalScorePercentage() float64 {
	return r.TotalScore().Percentage()
}
