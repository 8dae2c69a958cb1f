// Package sampler draws bounded question sets from the bank, either
// uniformly per category or biased toward previously-missed questions.
package sampler

import (
	"errors"
	"math/rand"

	"github.com/samplex/backend/internal/domain/attempt"
	"github.com/samplex/backend/internal/domain/questionbank"
)

// ErrNoReviewNeeded means the history contains nothing worth reviewing.
// Not a failure: the caller should surface a congratulations outcome.
var ErrNoReviewNeeded = errors.New("no mistakes to review")

const (
	// maxTolerance is the highest mistake-ratio tolerance tried before the
	// review filter gives up on growing past one question.
	maxTolerance = 9

	// maxReviewQuestions caps a review session's length.
	maxReviewQuestions = 10
)

// Sample selects min(perCategory[c], available) questions from each category
// uniformly at random without replacement, then globally shuffles the
// concatenation. Categories absent from perCategory contribute nothing.
func Sample(bank *questionbank.Bank, perCategory map[string]int, rng *rand.Rand) []questionbank.Question {
	var sampled []questionbank.Question
	for _, category := range bank.Categories() {
		count := perCategory[category]
		if count <= 0 {
			continue
		}
		questions := bank.Questions(category)
		if count > len(questions) {
			count = len(questions)
		}
		for _, i := range rng.Perm(len(questions))[:count] {
			q := questions[i]
			q.Category = category
			sampled = append(sampled, q)
		}
	}
	shuffle(sampled, rng)
	return sampled
}

// questionRecord tallies how often one question was answered and missed
// across the whole history.
type questionRecord struct {
	question questionbank.Question
	attempts int
	mistakes int
}

// SampleForReview selects up to 10 questions biased toward consistently
// missed ones. Starting at tolerance 0 (missed on every attempt), the filter
// mistakes+t >= attempts is relaxed until it admits more than one question
// or the tolerance reaches 9. An empty final set yields ErrNoReviewNeeded; a
// single survivor at full tolerance is still a valid session.
func SampleForReview(history []attempt.Attempt, bank *questionbank.Bank, rng *rand.Rand) ([]questionbank.Question, error) {
	records := tallyHistory(history, bank)

	var filtered []*questionRecord
	for t := 0; t <= maxTolerance; t++ {
		filtered = filtered[:0]
		for _, rec := range records {
			if rec.mistakes+t >= rec.attempts {
				filtered = append(filtered, rec)
			}
		}
		if len(filtered) > 1 {
			break
		}
	}
	if len(filtered) == 0 {
		return nil, ErrNoReviewNeeded
	}

	questions := make([]questionbank.Question, len(filtered))
	for i, rec := range filtered {
		questions[i] = rec.question
	}
	shuffle(questions, rng)
	if len(questions) > maxReviewQuestions {
		questions = questions[:maxReviewQuestions]
	}
	return questions, nil
}

// tallyHistory folds every answer ever given into per-question attempt and
// mistake counts. Answers referencing ids no longer in the bank are dropped.
func tallyHistory(history []attempt.Attempt, bank *questionbank.Bank) []*questionRecord {
	byID := make(map[int]*questionRecord)
	var ordered []*questionRecord

	for _, att := range history {
		for _, ans := range att.Answers {
			rec, ok := byID[ans.QuestionID]
			if !ok {
				q, err := bank.FindByID(ans.QuestionID)
				if err != nil {
					continue // stale answer, question was removed
				}
				rec = &questionRecord{question: q}
				byID[ans.QuestionID] = rec
				ordered = append(ordered, rec)
			}
			rec.attempts++
			if ans.UserAnswer != rec.question.CorrectAnswer {
				rec.mistakes++
			}
		}
	}
	return ordered
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle(questions []questionbank.Question, rng *rand.Rand) {
	rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}
