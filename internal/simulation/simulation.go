// simulation/simulation.go
package simulation

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/samplex/backend/internal/domain/questionbank"
	"github.com/samplex/backend/internal/domain/quizsession"
	"github.com/samplex/backend/internal/history"
	"github.com/samplex/backend/internal/sampler"
)

// SimulateWork drives one full quiz session end to end: sample a balanced
// set, answer every question (deliberately missing a few), work through the
// review rounds until everything is mastered, persist the attempt and print
// the aggregated statistics. Useful for eyeballing the whole pipeline
// without a browser.
func SimulateWork(bank *questionbank.Bank, historyDir string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	counts := make(map[string]int)
	for _, category := range bank.Categories() {
		counts[category] = 3
	}
	questions := sampler.Sample(bank, counts, rng)

	session, err := quizsession.New(questions, rng, nil)
	if err != nil {
		return err
	}
	fmt.Printf("Session started: %d questions\n", len(questions))

	// Miss every third question on the first pass, then answer correctly
	// in the review rounds.
	asked := 0
	for {
		q, ok := session.Current()
		if !ok {
			break
		}
		asked++
		choice := q.CorrectAnswer
		if session.State() == quizsession.StateInitialRound && asked%3 == 0 {
			choice = (q.CorrectAnswer + 1) % len(q.Options)
		}
		if _, err := session.SubmitAnswer(choice); err != nil {
			return err
		}
	}

	fmt.Printf("Session finished with %d mistake(s) over %d submissions\n", session.Mistakes(), asked)

	persisted, ok := session.Attempt()
	if !ok {
		return fmt.Errorf("session finished without an attempt snapshot")
	}

	store := history.NewFileStore(historyDir)
	if err := store.Append(persisted); err != nil {
		return err
	}

	attempts, err := store.Load()
	if err != nil {
		return err
	}

	result := history.Aggregate(attempts, bank, logger, time.Now())
	fmt.Printf("Attempts: %d, streak: %d day(s)\n", len(result.PerAttempt), result.Streak)
	for category, score := range result.RunningTotals {
		fmt.Printf("  %s: %d/%d (%.2f%%)\n", category, score.Correct, score.Total, score.Percentage())
	}
	return nil
}
