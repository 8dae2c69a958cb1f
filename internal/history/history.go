// Package history folds the append-only attempt history into running
// statistics: per-attempt results, running category totals, day-bucketed
// activity and the consecutive-day streak.
package history

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samplex/backend/internal/domain/attempt"
	"github.com/samplex/backend/internal/domain/questionbank"
)

const dayFormat = "2006-01-02"

// DayActivity is one calendar day's combined score percentage.
type DayActivity struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// AggregateResult is everything the presentation layer derives from the
// history: ephemeral, recomputed on demand.
type AggregateResult struct {
	PerAttempt    []attempt.Result         `json:"per_attempt"`
	RunningTotals map[string]attempt.Score `json:"running_totals"`
	DailyActivity []DayActivity            `json:"daily_activity"`
	Streak        int                      `json:"streak"`
}

// Aggregate scores every attempt against the bank and accumulates the
// running totals, daily activity and streak. Malformed attempts (no
// answers) and answers referencing unknown question ids are skipped with a
// warning; one corrupt record never blanks the whole view. today anchors
// the streak walk and is truncated to its UTC calendar day.
func Aggregate(attempts []attempt.Attempt, bank *questionbank.Bank, logger *slog.Logger, today time.Time) AggregateResult {
	result := AggregateResult{
		RunningTotals: make(map[string]attempt.Score),
	}
	byDay := make(map[string]attempt.Score)

	for i, att := range attempts {
		if len(att.Answers) == 0 {
			logger.Warn("skipping attempt without answers", "attempt_index", i)
			continue
		}

		graded := gradeAnswers(att.Answers, bank, logger)
		attemptResult := attempt.ResultFromQuestions(graded, logger)
		result.PerAttempt = append(result.PerAttempt, attemptResult)

		for category, score := range attemptResult.Categories {
			total := result.RunningTotals[category]
			total.Add(score)
			result.RunningTotals[category] = total
		}

		day := calendarDay(att.Timestamp)
		dayScore := byDay[day]
		dayScore.Add(attemptResult.TotalScore())
		byDay[day] = dayScore
	}

	for day, score := range byDay {
		result.DailyActivity = append(result.DailyActivity, DayActivity{
			Date:  day,
			Value: score.Percentage(),
		})
	}
	sort.Slice(result.DailyActivity, func(i, j int) bool {
		return result.DailyActivity[i].Date < result.DailyActivity[j].Date
	})

	result.Streak = streak(byDay, today)
	return result
}

// gradeAnswers resolves each answer against the bank. Stale answers whose
// question no longer exists are dropped with a warning.
func gradeAnswers(answers []attempt.Answer, bank *questionbank.Bank, logger *slog.Logger) []attempt.GradedQuestion {
	graded := make([]attempt.GradedQuestion, 0, len(answers))
	for _, ans := range answers {
		q, err := bank.FindByID(ans.QuestionID)
		if err != nil {
			if errors.Is(err, questionbank.ErrQuestionNotFound) {
				logger.Warn("skipping answer to unknown question", "question_id", ans.QuestionID)
				continue
			}
			logger.Warn("failed to resolve question", "question_id", ans.QuestionID, "error", err)
			continue
		}
		choice := ans.UserAnswer
		graded = append(graded, attempt.GradedQuestion{Question: q, UserAnswer: &choice})
	}
	return graded
}

// calendarDay extracts the UTC date component of an RFC 3339 timestamp.
func calendarDay(timestamp string) string {
	if i := strings.IndexByte(timestamp, 'T'); i > 0 {
		return timestamp[:i]
	}
	return timestamp
}

// streak counts consecutive active days walking backward from today,
// stopping at the first gap. A day counts as active when any attempt was
// recorded on it. Returns 0 when today itself has no activity.
func streak(byDay map[string]attempt.Score, today time.Time) int {
	count := 0
	day := today.UTC()
	for {
		if _, ok := byDay[day.Format(dayFormat)]; !ok {
			return count
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
}
