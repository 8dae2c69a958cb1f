package quizsession_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/samplex/backend/internal/domain/questionbank"
	"github.com/samplex/backend/internal/domain/quizsession"
)

func testQuestions(n int) []questionbank.Question {
	questions := make([]questionbank.Question, n)
	for i := range questions {
		questions[i] = questionbank.Question{
			ID:            i + 1,
			Text:          fmt.Sprintf("question %d", i+1),
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: 0,
			Category:      "anatomy",
		}
	}
	return questions
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func newSession(t *testing.T, n int) *quizsession.Session {
	t.Helper()
	s, err := quizsession.New(testQuestions(n), rand.New(rand.NewSource(1)), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestNew_EmptySetFailsFast(t *testing.T) {
	_, err := quizsession.New(nil, rand.New(rand.NewSource(1)), fixedNow)
	if !errors.Is(err, quizsession.ErrNoQuestionsAvailable) {
		t.Errorf("expected ErrNoQuestionsAvailable, got %v", err)
	}
}

func TestSession_AllCorrectFinishesAfterInitialRound(t *testing.T) {
	s := newSession(t, 3)

	for i := 0; i < 3; i++ {
		q, ok := s.Current()
		if !ok {
			t.Fatal("session finished early")
		}
		correct, err := s.SubmitAnswer(q.CorrectAnswer)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !correct {
			t.Error("expected answer to grade correct")
		}
	}

	if s.State() != quizsession.StateFinished {
		t.Errorf("expected finished state, got %s", s.State())
	}
	if s.Mistakes() != 0 {
		t.Errorf("expected 0 mistakes, got %d", s.Mistakes())
	}

	a, ok := s.Attempt()
	if !ok {
		t.Fatal("expected attempt snapshot after the initial round")
	}
	if len(a.Answers) != 3 {
		t.Errorf("expected 3 persisted answers, got %d", len(a.Answers))
	}
	if a.Timestamp != "2026-08-30T12:00:00Z" {
		t.Errorf("unexpected timestamp %q", a.Timestamp)
	}
}

func TestSession_MissedQuestionsEnterReviewRound(t *testing.T) {
	s := newSession(t, 3)

	// Miss the first question, answer the rest correctly.
	wrong := (testQuestions(1)[0].CorrectAnswer + 1) % 3
	for i := 0; i < 3; i++ {
		q, _ := s.Current()
		choice := q.CorrectAnswer
		if i == 0 {
			choice = wrong
		}
		if _, err := s.SubmitAnswer(choice); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if s.State() != quizsession.StateReviewRound {
		t.Fatalf("expected review round, got %s", s.State())
	}
	if _, total := s.Progress(); total != 1 {
		t.Errorf("expected review round of 1 question, got %d", total)
	}

	// The persisted attempt snapshot exists already, with initial answers.
	a, ok := s.Attempt()
	if !ok {
		t.Fatal("expected attempt snapshot at review-round entry")
	}
	if len(a.Answers) != 3 {
		t.Errorf("expected 3 initial-round answers, got %d", len(a.Answers))
	}
}

func TestSession_ReviewRepeatsUntilMastered(t *testing.T) {
	s := newSession(t, 2)

	// Initial round: miss both.
	for i := 0; i < 2; i++ {
		q, _ := s.Current()
		s.SubmitAnswer((q.CorrectAnswer + 1) % 3)
	}

	// Keep missing one of them for a few more rounds.
	rounds := 0
	for s.State() == quizsession.StateReviewRound && rounds < 5 {
		rounds++
		_, total := s.Progress()
		for i := 0; i < total; i++ {
			q, _ := s.Current()
			choice := q.CorrectAnswer
			if rounds < 3 && q.ID == 1 {
				choice = (q.CorrectAnswer + 1) % 3
			}
			s.SubmitAnswer(choice)
		}
	}

	if s.State() != quizsession.StateFinished {
		t.Fatalf("expected session to finish, got %s after %d rounds", s.State(), rounds)
	}
	// Question 1 missed in initial round + rounds 1 and 2; question 2
	// missed once. Mistakes accumulate across all rounds.
	if s.Mistakes() != 4 {
		t.Errorf("expected 4 mistakes, got %d", s.Mistakes())
	}
}

func TestSession_MasteredQuestionsNeverReasked(t *testing.T) {
	s := newSession(t, 4)

	// Master questions 1 and 2, miss 3 and 4.
	for i := 0; i < 4; i++ {
		q, _ := s.Current()
		choice := q.CorrectAnswer
		if q.ID > 2 {
			choice = (q.CorrectAnswer + 1) % 3
		}
		s.SubmitAnswer(choice)
	}

	for s.State() == quizsession.StateReviewRound {
		q, _ := s.Current()
		if s.Mastered(q.ID) {
			t.Fatalf("mastered question %d was re-asked", q.ID)
		}
		if q.ID <= 2 {
			t.Fatalf("question %d answered correctly in the initial round reappeared", q.ID)
		}
		s.SubmitAnswer(q.CorrectAnswer)
	}

	if s.State() != quizsession.StateFinished {
		t.Errorf("expected finished, got %s", s.State())
	}
}

func TestSession_CorrectionsDoNotAlterSnapshot(t *testing.T) {
	s := newSession(t, 2)

	// Miss question 1, get question 2.
	first, _ := s.Current()
	wrongChoice := (first.CorrectAnswer + 1) % 3
	s.SubmitAnswer(wrongChoice)
	second, _ := s.Current()
	s.SubmitAnswer(second.CorrectAnswer)

	snapshot, _ := s.Attempt()

	// Correct question 1 in the review round.
	for s.State() == quizsession.StateReviewRound {
		q, _ := s.Current()
		s.SubmitAnswer(q.CorrectAnswer)
	}

	after, _ := s.Attempt()
	for i, ans := range snapshot.Answers {
		if after.Answers[i] != ans {
			t.Fatalf("review-round correction mutated the persisted snapshot: %v != %v", after.Answers, snapshot.Answers)
		}
	}
	// The initial wrong answer stays recorded.
	if after.Answers[0].UserAnswer != wrongChoice {
		t.Errorf("expected initial answer %d preserved, got %d", wrongChoice, after.Answers[0].UserAnswer)
	}
}

func TestSession_SubmitAfterFinishErrors(t *testing.T) {
	s := newSession(t, 1)
	q, _ := s.Current()
	s.SubmitAnswer(q.CorrectAnswer)

	if _, ok := s.Current(); ok {
		t.Error("expected no current question after finish")
	}
	if _, err := s.SubmitAnswer(0); !errors.Is(err, quizsession.ErrSessionFinished) {
		t.Errorf("expected ErrSessionFinished, got %v", err)
	}
}
