package history_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/samplex/backend/internal/domain/attempt"
	"github.com/samplex/backend/internal/domain/questionbank"
	"github.com/samplex/backend/internal/history"
)

var today = time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBank() *questionbank.Bank {
	questions := make([]questionbank.Question, 4)
	for i := range questions {
		questions[i] = questionbank.Question{
			ID:            i + 1,
			Text:          fmt.Sprintf("question %d", i+1),
			Options:       []string{"a", "b"},
			CorrectAnswer: 0,
		}
	}
	return questionbank.New(map[string][]questionbank.Question{"anatomy": questions[:2], "physics": questions[2:]})
}

// attemptOn builds an attempt with the given answers, timestamped daysAgo
// days before the test's fixed today.
func attemptOn(daysAgo int, answers ...attempt.Answer) attempt.Attempt {
	return attempt.Attempt{
		Timestamp: today.AddDate(0, 0, -daysAgo).Format(time.RFC3339),
		Answers:   answers,
	}
}

func TestAggregate_RunningTotalsAndOrder(t *testing.T) {
	attempts := []attempt.Attempt{
		attemptOn(1,
			attempt.Answer{QuestionID: 1, UserAnswer: 0}, // anatomy, correct
			attempt.Answer{QuestionID: 3, UserAnswer: 1}, // physics, wrong
		),
		attemptOn(0,
			attempt.Answer{QuestionID: 2, UserAnswer: 0}, // anatomy, correct
			attempt.Answer{QuestionID: 3, UserAnswer: 0}, // physics, correct
		),
	}

	result := history.Aggregate(attempts, testBank(), discardLogger(), today)

	if len(result.PerAttempt) != 2 {
		t.Fatalf("expected 2 per-attempt results, got %d", len(result.PerAttempt))
	}
	// Chronological order preserved: the first result is the older attempt.
	if got := result.PerAttempt[0].TotalScorePercentage(); got != 50 {
		t.Errorf("first attempt: expected 50%%, got %v", got)
	}
	if got := result.PerAttempt[1].TotalScorePercentage(); got != 100 {
		t.Errorf("second attempt: expected 100%%, got %v", got)
	}

	if got := result.RunningTotals["anatomy"]; got.Correct != 2 || got.Total != 2 {
		t.Errorf("anatomy totals: expected 2/2, got %d/%d", got.Correct, got.Total)
	}
	if got := result.RunningTotals["physics"]; got.Correct != 1 || got.Total != 2 {
		t.Errorf("physics totals: expected 1/2, got %d/%d", got.Correct, got.Total)
	}
}

func TestAggregate_DailyActivityBucketsByUTCDay(t *testing.T) {
	attempts := []attempt.Attempt{
		attemptOn(0, attempt.Answer{QuestionID: 1, UserAnswer: 0}),
		attemptOn(0, attempt.Answer{QuestionID: 2, UserAnswer: 1}),
		attemptOn(2, attempt.Answer{QuestionID: 1, UserAnswer: 0}),
	}

	result := history.Aggregate(attempts, testBank(), discardLogger(), today)

	if len(result.DailyActivity) != 2 {
		t.Fatalf("expected 2 active days, got %d", len(result.DailyActivity))
	}
	// Sorted ascending by date: two days ago first.
	if result.DailyActivity[0].Date != "2026-08-28" || result.DailyActivity[0].Value != 100 {
		t.Errorf("unexpected first day %+v", result.DailyActivity[0])
	}
	// Today combines both attempts: 1 correct of 2.
	if result.DailyActivity[1].Date != "2026-08-30" || result.DailyActivity[1].Value != 50 {
		t.Errorf("unexpected second day %+v", result.DailyActivity[1])
	}
}

func TestAggregate_StreakStopsAtFirstGap(t *testing.T) {
	answer := attempt.Answer{QuestionID: 1, UserAnswer: 0}

	cases := []struct {
		name     string
		daysAgo  []int
		expected int
	}{
		{"today yesterday and gap", []int{0, 1, 3}, 2},
		{"three consecutive days", []int{0, 1, 2}, 3},
		{"middle day missing", []int{0, 2}, 1},
		{"no activity today", []int{1, 2}, 0},
		{"empty history", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var attempts []attempt.Attempt
			for _, d := range tc.daysAgo {
				attempts = append(attempts, attemptOn(d, answer))
			}
			result := history.Aggregate(attempts, testBank(), discardLogger(), today)
			if result.Streak != tc.expected {
				t.Errorf("expected streak %d, got %d", tc.expected, result.Streak)
			}
		})
	}
}

func TestAggregate_SkipsMalformedAttempts(t *testing.T) {
	attempts := []attempt.Attempt{
		{Timestamp: today.Format(time.RFC3339)}, // no answers: corrupt record
		attemptOn(0, attempt.Answer{QuestionID: 1, UserAnswer: 0}),
	}

	result := history.Aggregate(attempts, testBank(), discardLogger(), today)

	if len(result.PerAttempt) != 1 {
		t.Errorf("expected the corrupt attempt skipped, got %d results", len(result.PerAttempt))
	}
}

func TestAggregate_SkipsUnknownQuestionIDs(t *testing.T) {
	attempts := []attempt.Attempt{
		attemptOn(0,
			attempt.Answer{QuestionID: 999, UserAnswer: 0}, // stale
			attempt.Answer{QuestionID: 1, UserAnswer: 0},
		),
	}

	result := history.Aggregate(attempts, testBank(), discardLogger(), today)

	if len(result.PerAttempt) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.PerAttempt))
	}
	if got := result.PerAttempt[0].TotalScore(); got.Total != 1 {
		t.Errorf("expected stale answer dropped, got total %d", got.Total)
	}
}
