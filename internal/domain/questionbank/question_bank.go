package questionbank

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

var (
	// ErrDataUnavailable means the question source could not be read or parsed.
	// Fatal for the caller: there is no partial bank to work with.
	ErrDataUnavailable = errors.New("question data unavailable")

	// ErrQuestionNotFound means an id is absent from every category.
	ErrQuestionNotFound = errors.New("question not found")
)

// Question is the canonical multiple-choice question shape. Options are
// always an index-based array; lettered source documents are flattened at
// load time and never leak past this package.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Category      string   `json:"category,omitempty"`
}

// Bank holds the full categorized question set, read-only after Load.
type Bank struct {
	categories map[string][]Question
}

// New builds a bank directly from already-canonical questions.
func New(categories map[string][]Question) *Bank {
	return &Bank{categories: categories}
}

// Letters used by lettered-option source documents.
var letters = []string{"A", "B", "C", "D"}

// rawQuestion tolerates both source shapes: options as an ordered array with
// a numeric correct_answer, or a lettered A–D map with a letter key.
type rawQuestion struct {
	ID            int             `json:"id"`
	Question      string          `json:"question"`
	QuestionText  string          `json:"question_text"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
}

// Load reads a category-keyed question document from r and normalizes every
// question into the canonical shape. Any transport or schema problem is
// reported as ErrDataUnavailable.
func Load(r io.Reader) (*Bank, error) {
	var doc map[string][]rawQuestion
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	categories := make(map[string][]Question, len(doc))
	for category, raws := range doc {
		questions := make([]Question, 0, len(raws))
		for _, raw := range raws {
			q, err := normalize(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: category %q: %v", ErrDataUnavailable, category, err)
			}
			questions = append(questions, q)
		}
		categories[category] = questions
	}

	return &Bank{categories: categories}, nil
}

// LoadFile opens and loads a question document from disk.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()
	return Load(f)
}

// normalize converts a raw source question into the canonical shape.
func normalize(raw rawQuestion) (Question, error) {
	text := raw.Question
	if text == "" {
		text = raw.QuestionText
	}
	if text == "" {
		return Question{}, fmt.Errorf("question %d: missing text", raw.ID)
	}
	if len(raw.Options) == 0 {
		return Question{}, fmt.Errorf("question %d: missing options", raw.ID)
	}

	// Array-shaped options with a numeric correct_answer.
	var options []string
	if err := json.Unmarshal(raw.Options, &options); err == nil {
		var correct int
		if err := json.Unmarshal(raw.CorrectAnswer, &correct); err != nil {
			return Question{}, fmt.Errorf("question %d: correct_answer is not an index", raw.ID)
		}
		return validated(raw.ID, text, options, correct)
	}

	// Lettered map: flatten A–D in letter order and remap the correct
	// answer from its letter key to the resulting index.
	var lettered map[string]string
	if err := json.Unmarshal(raw.Options, &lettered); err != nil {
		return Question{}, fmt.Errorf("question %d: unrecognized options shape", raw.ID)
	}
	var correctLetter string
	if err := json.Unmarshal(raw.CorrectAnswer, &correctLetter); err != nil {
		return Question{}, fmt.Errorf("question %d: correct_answer is not a letter key", raw.ID)
	}

	options = options[:0]
	correct := -1
	for _, letter := range letters {
		value, ok := lettered[letter]
		if !ok {
			continue
		}
		if letter == correctLetter {
			correct = len(options)
		}
		options = append(options, value)
	}
	if correct < 0 {
		return Question{}, fmt.Errorf("question %d: correct_answer %q not among options", raw.ID, correctLetter)
	}
	return validated(raw.ID, text, options, correct)
}

func validated(id int, text string, options []string, correct int) (Question, error) {
	if len(options) < 2 || len(options) > 4 {
		return Question{}, fmt.Errorf("question %d: expected 2-4 options, got %d", id, len(options))
	}
	if correct < 0 || correct >= len(options) {
		return Question{}, fmt.Errorf("question %d: correct_answer %d out of range", id, correct)
	}
	return Question{ID: id, Text: text, Options: options, CorrectAnswer: correct}, nil
}

// Categories returns the category names in stable sorted order.
func (b *Bank) Categories() []string {
	names := make([]string, 0, len(b.categories))
	for name := range b.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Questions returns the questions of one category. Callers must treat the
// returned slice as read-only.
func (b *Bank) Questions(category string) []Question {
	return b.categories[category]
}

// Len reports the total number of questions across all categories.
func (b *Bank) Len() int {
	n := 0
	for _, questions := range b.categories {
		n += len(questions)
	}
	return n
}

// FindByID scans categories in stable order and returns a copy of the first
// question with the given id, annotated with its owning category. Duplicate
// ids across categories are a known ambiguity: the first match wins.
func (b *Bank) FindByID(id int) (Question, error) {
	for _, category := range b.Categories() {
		for _, q := range b.categories[category] {
			if q.ID == id {
				found := q
				found.Category = category
				return found, nil
			}
		}
	}
	return Question{}, fmt.Errorf("%w: id %d", ErrQuestionNotFound, id)
}
