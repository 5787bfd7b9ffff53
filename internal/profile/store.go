// Package profile stores candidate profile facts, document texts and learned
// form answers, co-resident in the activity database.
package profile

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const timeLayout = "2006-01-02T15:04:05"

// Store wraps the shared activity database handle.
type Store struct {
	db *sql.DB
}

// New returns a profile store over the shared activity database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// NormalizePersonName converts an ALL CAPS name (common after copy/paste)
// to title case; anything else passes through unchanged.
func NormalizePersonName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return s
			}
		}
	}
	if !hasLetter {
		return s
	}
	return titleCase(s)
}

func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) && !prevLetter {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

var (
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeQuestion canonicalizes form-question text for stable answer lookup:
// lowercase, punctuation stripped, whitespace collapsed.
func NormalizeQuestion(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = punctRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(t, " "))
}

func now() string {
	return time.Now().Format(timeLayout)
}

// Load returns all profile facts as a key/value map.
func (s *Store) Load() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM profile_kv")
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("load profile scan: %w", err)
		}
		if k = strings.TrimSpace(k); k != "" {
			out[k] = v
		}
	}
	return out, rows.Err()
}

// Set upserts one profile fact. Blank keys are ignored.
func (s *Store) Set(key, value string) error {
	k := strings.TrimSpace(key)
	if k == "" {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO profile_kv(key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		k, strings.TrimSpace(value), now(),
	)
	if err != nil {
		return fmt.Errorf("set profile key: %w", err)
	}
	return nil
}

// Get returns one profile fact, or fallback when unset or blank.
func (s *Store) Get(key, fallback string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM profile_kv WHERE key = ?", strings.TrimSpace(key)).Scan(&v)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get profile key: %w", err)
	}
	if v == "" {
		return fallback, nil
	}
	return v, nil
}

// SetDocument upserts a document text (CV, cover letter template, pitch).
func (s *Store) SetDocument(docID, docType, content string) error {
	id := strings.TrimSpace(docID)
	if id == "" {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO documents(doc_id, doc_type, content, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			doc_type = excluded.doc_type,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		id, strings.TrimSpace(docType), content, now(),
	)
	if err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}

// Document returns a stored document's content, empty when missing.
func (s *Store) Document(docID string) (string, error) {
	var content string
	err := s.db.QueryRow("SELECT content FROM documents WHERE doc_id = ?", strings.TrimSpace(docID)).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get document: %w", err)
	}
	return content, nil
}

// Answer is one learned form answer, keyed by normalized question text.
type Answer struct {
	Question string // raw question as first seen
	Text     string
	Status   string // e.g. "confirmed", "draft"
}

// SaveAnswer records an answer for a form question. The normalized question is
// the key; a later save for the same question replaces the answer.
func (s *Store) SaveAnswer(question, answer, status string) error {
	qNorm := NormalizeQuestion(question)
	if qNorm == "" {
		return nil
	}
	if strings.TrimSpace(status) == "" {
		status = "draft"
	}
	_, err := s.db.Exec(`
		INSERT INTO answer_bank(q_norm, q_raw, answer, status, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(q_norm) DO UPDATE SET
			answer = excluded.answer,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		qNorm, strings.TrimSpace(question), strings.TrimSpace(answer), strings.TrimSpace(status), now(),
	)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

// LookupAnswer finds a stored answer for a question, matching on the
// normalized text, so wording/punctuation variants still hit.
func (s *Store) LookupAnswer(question string) (*Answer, error) {
	qNorm := NormalizeQuestion(question)
	if qNorm == "" {
		return nil, nil
	}
	var a Answer
	err := s.db.QueryRow("SELECT q_raw, answer, status FROM answer_bank WHERE q_norm = ?", qNorm).
		Scan(&a.Question, &a.Text, &a.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup answer: %w", err)
	}
	return &a, nil
}
