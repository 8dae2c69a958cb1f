// internal/store/sqlite.go
package store

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/samplex/backend/internal/domain/attempt"
	"github.com/samplex/backend/internal/id"
)

const schema = `
PRAGMA foreign_keys = 1;

CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tokens (
    token TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS attempts (
    attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    timestamp TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS answers (
    attempt_id INTEGER NOT NULL REFERENCES attempts(attempt_id) ON DELETE CASCADE,
    question_id INTEGER NOT NULL,
    choice INTEGER NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS answers_attempt_idx ON answers(attempt_id);
CREATE INDEX IF NOT EXISTS attempts_user_idx ON attempts(user_id);
`

// SQLiteStore is the remote attempt store: per-user attempts with
// server-assigned integer identifiers, plus the accounts behind them. It
// stores raw answers only; all grading happens in the core.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Users & tokens
// ============================================================================

func (s *SQLiteStore) CreateUser(username, passwordHash string) (int64, error) {
	var existing int64
	err := s.db.QueryRow("SELECT user_id FROM users WHERE username = ?", username).Scan(&existing)
	if err == nil {
		return 0, ErrUsernameTaken
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := s.db.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetUserByName(username string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT user_id, username, password_hash FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateToken issues a fresh opaque bearer token for the user.
func (s *SQLiteStore) CreateToken(userID int64) (string, error) {
	token := id.GenerateToken()
	if _, err := s.db.Exec("INSERT INTO tokens (token, user_id) VALUES (?, ?)", token, userID); err != nil {
		return "", err
	}
	return token, nil
}

// ResolveToken maps a bearer token back to its user id.
func (s *SQLiteStore) ResolveToken(token string) (int64, error) {
	var userID int64
	err := s.db.QueryRow("SELECT user_id FROM tokens WHERE token = ?", token).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// ============================================================================
// Attempts
// ============================================================================

// SaveAttempt persists one attempt's raw answers under the user and returns
// the server-assigned attempt id.
func (s *SQLiteStore) SaveAttempt(userID int64, a attempt.Attempt) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO attempts (user_id, timestamp) VALUES (?, ?)",
		userID, a.Timestamp,
	)
	if err != nil {
		return 0, err
	}
	attemptID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, ans := range a.Answers {
		_, err = tx.Exec(
			"INSERT INTO answers (attempt_id, question_id, choice, position) VALUES (?, ?, ?, ?)",
			attemptID, ans.QuestionID, ans.UserAnswer, i,
		)
		if err != nil {
			return 0, err
		}
	}

	return attemptID, tx.Commit()
}

func (s *SQLiteStore) GetAttempt(userID, attemptID int64) (*attempt.Attempt, error) {
	var a attempt.Attempt
	err := s.db.QueryRow(
		"SELECT timestamp FROM attempts WHERE attempt_id = ? AND user_id = ?",
		attemptID, userID,
	).Scan(&a.Timestamp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT question_id, choice FROM answers WHERE attempt_id = ? ORDER BY position",
		attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ans attempt.Answer
		if err := rows.Scan(&ans.QuestionID, &ans.UserAnswer); err != nil {
			return nil, err
		}
		a.Answers = append(a.Answers, ans)
	}
	return &a, rows.Err()
}

// ListAttempts returns the user's full history in chronological order:
// ascending attempt id, since ids are assigned append-only.
func (s *SQLiteStore) ListAttempts(userID int64) ([]attempt.Attempt, error) {
	rows, err := s.db.Query(
		`SELECT a.attempt_id, a.timestamp, ans.question_id, ans.choice
		 FROM attempts a
		 LEFT JOIN answers ans ON ans.attempt_id = a.attempt_id
		 WHERE a.user_id = ?
		 ORDER BY a.attempt_id, ans.position`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []attempt.Attempt
	lastID := int64(-1)
	for rows.Next() {
		var (
			attemptID  int64
			timestamp  string
			questionID sql.NullInt64
			choice     sql.NullInt64
		)
		if err := rows.Scan(&attemptID, &timestamp, &questionID, &choice); err != nil {
			return nil, err
		}
		if attemptID != lastID {
			attempts = append(attempts, attempt.Attempt{Timestamp: timestamp})
			lastID = attemptID
		}
		if questionID.Valid {
			current := &attempts[len(attempts)-1]
			current.Answers = append(current.Answers, attempt.Answer{
				QuestionID: int(questionID.Int64),
				UserAnswer: int(choice.Int64),
			})
		}
	}
	return attempts, rows.Err()
}

// ResetAttempts deletes the user's entire attempt history. Irreversible;
// the confirmation step is the caller's problem.
func (s *SQLiteStore) ResetAttempts(userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"DELETE FROM answers WHERE attempt_id IN (SELECT attempt_id FROM attempts WHERE user_id = ?)",
		userID,
	)
	if err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM attempts WHERE user_id = ?", userID); err != nil {
		return err
	}
	return tx.Commit()
}
