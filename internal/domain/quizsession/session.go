// Package quizsession implements the retry-until-mastered session flow: an
// initial round followed by shuffled review rounds of not-yet-mastered
// questions until every question has been answered correctly at least once.
package quizsession

import (
	"errors"
	"math/rand"
	"time"

	"github.com/samplex/backend/internal/domain/attempt"
	"github.com/samplex/backend/internal/domain/questionbank"
)

var (
	// ErrNoQuestionsAvailable means the session was started with an empty
	// question set. The session never enters the initial round.
	ErrNoQuestionsAvailable = errors.New("no questions available")

	// ErrSessionFinished means an answer was submitted after the terminal
	// state was reached.
	ErrSessionFinished = errors.New("session already finished")
)

// State identifies where a session is in its round flow.
type State string

const (
	StateInitialRound State = "initial_round"
	StateReviewRound  State = "review_round"
	StateFinished     State = "finished"
)

// Session owns all in-flight quiz state: the current round, the mastery set
// and the answer buffer. Callers hold the session and feed it one answer at
// a time; transitions are synchronous.
type Session struct {
	state    State
	full     []questionbank.Question // the initial round's question set
	current  []questionbank.Question // questions of the round in progress
	index    int
	mastered map[int]bool // ids answered correctly at least once
	mistakes int
	recorder *attempt.Recorder
	saved    *attempt.Attempt // snapshot taken when the initial round ends
	rng      *rand.Rand
}

// New starts a session over the sampled question set. An empty set fails
// fast with ErrNoQuestionsAvailable.
func New(questions []questionbank.Question, rng *rand.Rand, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	full := make([]questionbank.Question, len(questions))
	copy(full, questions)
	return &Session{
		state:    StateInitialRound,
		full:     full,
		current:  full,
		mastered: make(map[int]bool),
		recorder: attempt.NewRecorder(now),
		rng:      rng,
	}, nil
}

// State returns the current round state.
func (s *Session) State() State {
	return s.state
}

// Current returns the question awaiting an answer. ok is false once the
// session is finished.
func (s *Session) Current() (q questionbank.Question, ok bool) {
	if s.state == StateFinished {
		return questionbank.Question{}, false
	}
	return s.current[s.index], true
}

// Progress reports the 1-based position within the current round and the
// round's length.
func (s *Session) Progress() (position, total int) {
	if s.state == StateFinished {
		return 0, 0
	}
	return s.index + 1, len(s.current)
}

// Mistakes counts incorrect submissions across all rounds of the session.
func (s *Session) Mistakes() int {
	return s.mistakes
}

// Mastered reports whether the question id has been answered correctly at
// least once this session.
func (s *Session) Mastered(questionID int) bool {
	return s.mastered[questionID]
}

// Attempt returns the persisted-attempt snapshot taken when the initial
// round completed. ok is false while the initial round is still running.
// Review-round corrections never alter this snapshot.
func (s *Session) Attempt() (attempt.Attempt, bool) {
	if s.saved == nil {
		return attempt.Attempt{}, false
	}
	return *s.saved, true
}

// SubmitAnswer records the choice for the current question and advances the
// session, starting a new review round or finishing as needed.
func (s *Session) SubmitAnswer(choice int) (correct bool, err error) {
	if s.state == StateFinished {
		return false, ErrSessionFinished
	}

	q := s.current[s.index]
	s.recorder.RecordAnswer(q.ID, choice)

	correct = choice == q.CorrectAnswer
	if correct {
		s.mastered[q.ID] = true
	} else {
		s.mistakes++
	}

	s.index++
	if s.index < len(s.current) {
		return correct, nil
	}
	s.endOfRound()
	return correct, nil
}

// endOfRound recomputes the unmastered remainder of the full set and either
// finishes the session or starts a reshuffled review round. The attempt
// snapshot is taken exactly once, when the initial round ends.
func (s *Session) endOfRound() {
	if s.state == StateInitialRound {
		a := s.recorder.Finalize()
		s.saved = &a
	}

	remaining := s.unmastered()
	if len(remaining) == 0 {
		s.state = StateFinished
		s.current = nil
		s.index = 0
		return
	}

	s.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	s.state = StateReviewRound
	s.current = remaining
	s.index = 0
}

// unmastered filters the original full set down to questions never yet
// answered correctly. Mastery is global to the session, so a question
// mastered in any earlier round is excluded even if never re-asked since.
func (s *Session) unmastered() []questionbank.Question {
	var remaining []questionbank.Question
	for _, q := range s.full {
		if !s.mastered[q.ID] {
			remaining = append(remaining, q)
		}
	}
	return remaining
}
