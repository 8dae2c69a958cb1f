// Package attempt holds the recorded-answer data model and scoring.
package attempt

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// Answer records the option index a user picked for one question.
// Immutable once created.
type Answer struct {
	QuestionID int `json:"question_id"`
	UserAnswer int `json:"user_answer"`
}

// Attempt is one completed session: a timestamp plus the ordered answers of
// the initial round. Never mutated after creation; its position in the
// history is its stable identifier.
type Attempt struct {
	Timestamp string   `json:"timestamp"`
	Answers   []Answer `json:"answers"`
}

// attemptJSON mirrors Attempt but defers the answers field so both the
// current array shape and the legacy map-from-id-to-choice shape decode.
type attemptJSON struct {
	Timestamp string          `json:"timestamp"`
	Answers   json.RawMessage `json:"answers"`
}

// UnmarshalJSON accepts both history record shapes. Legacy records stored
// answers as {"<question_id>": choice}; those are normalized to an Answer
// sequence in ascending question-id order, matching how the original records
// iterated.
func (a *Attempt) UnmarshalJSON(data []byte) error {
	var raw attemptJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Timestamp = raw.Timestamp
	a.Answers = nil
	if len(raw.Answers) == 0 {
		return nil
	}

	var answers []Answer
	if err := json.Unmarshal(raw.Answers, &answers); err == nil {
		a.Answers = answers
		return nil
	}

	var legacy map[string]int
	if err := json.Unmarshal(raw.Answers, &legacy); err != nil {
		return err
	}
	for key, choice := range legacy {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		a.Answers = append(a.Answers, Answer{QuestionID: id, UserAnswer: choice})
	}
	sort.Slice(a.Answers, func(i, j int) bool {
		return a.Answers[i].QuestionID < a.Answers[j].QuestionID
	})
	return nil
}

// Recorder accumulates answers for a live session. Last write per question
// wins so review-round corrections update the live buffer; first-insertion
// order is preserved. The recorder does no I/O.
type Recorder struct {
	answers []Answer
	byID    map[int]int // question id → index into answers
	now     func() time.Time
}

// NewRecorder creates an empty recorder stamping attempts with now.
// A nil now defaults to time.Now.
func NewRecorder(now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{byID: make(map[int]int), now: now}
}

// RecordAnswer appends an answer, or overwrites the existing one for the
// same question in place.
func (r *Recorder) RecordAnswer(questionID, choice int) {
	if i, ok := r.byID[questionID]; ok {
		r.answers[i].UserAnswer = choice
		return
	}
	r.byID[questionID] = len(r.answers)
	r.answers = append(r.answers, Answer{QuestionID: questionID, UserAnswer: choice})
}

// Answers returns a snapshot of the current buffer.
func (r *Recorder) Answers() []Answer {
	out := make([]Answer, len(r.answers))
	copy(out, r.answers)
	return out
}

// Len reports how many distinct questions have been answered.
func (r *Recorder) Len() int {
	return len(r.answers)
}

// Finalize stamps the current time, snapshots the buffer into an Attempt and
// clears the recorder for a new session. Persisting the attempt is the
// caller's responsibility.
func (r *Recorder) Finalize() Attempt {
	a := Attempt{
		Timestamp: r.now().UTC().Format(time.RFC3339),
		Answers:   r.answers,
	}
	r.answers = nil
	r.byID = make(map[int]int)
	return a
}
