package activity

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout matches how timestamps are stored: local ISO seconds, so that
// substr(occurred_at, 1, 10) yields the day and string ordering is time ordering.
const (
	timeLayout = "2006-01-02T15:04:05"
	dayLayout  = "2006-01-02"
)

// Store is the shared lead/event activity store. One instance per process,
// opened once and closed on shutdown; all collectors and outreach paths share it.
type Store struct {
	db *sql.DB
}

// Open opens (creating if missing) the activity database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create activity db dir: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open activity db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for co-resident subsystems (profile store).
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error {
	return s.db.Close()
}

func norm(v string) string {
	return strings.TrimSpace(v)
}

// NormalizeContact canonicalizes a contact address: trimmed and lower-cased.
// Callers must apply it before querying by contact.
func NormalizeContact(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// Upsert inserts candidate as a new Lead or enriches an existing one.
// Repeated calls with logically equivalent input converge to a single row;
// inserted reports whether this call created the row, so callers can decide
// whether to also record a first-seen event.
func (s *Store) Upsert(c Candidate) (leadID string, inserted bool, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", false, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	leadID, inserted, err = upsertInTx(tx, c)
	if err != nil {
		return "", false, err
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("commit upsert: %w", err)
	}
	return leadID, inserted, nil
}

func upsertInTx(tx *sql.Tx, c Candidate) (string, bool, error) {
	platform := norm(c.Platform)
	leadType := norm(c.LeadType)
	contact := NormalizeContact(c.Contact)
	if platform == "" || leadType == "" || contact == "" {
		return "", false, fmt.Errorf("invalid lead candidate: platform, lead_type and contact are required")
	}

	leadID, found, err := resolveExisting(tx, platform, leadType, contact)
	if err != nil {
		return "", false, fmt.Errorf("resolve lead identity: %w", err)
	}
	if !found {
		leadID = LeadID(c)
	}

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var raw any
	if c.Raw != "" {
		raw = c.Raw
	}

	res, err := tx.Exec(`
		INSERT OR IGNORE INTO leads
		(lead_id, platform, lead_type, contact, url, company, job_title, location, source, created_at, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		leadID, platform, leadType, contact,
		norm(c.URL), norm(c.Company), norm(c.JobTitle), norm(c.Location), norm(c.Source),
		formatTime(createdAt), raw,
	)
	if err != nil {
		return "", false, fmt.Errorf("insert lead: %w", err)
	}
	inserted := false
	if !found {
		n, err := res.RowsAffected()
		if err != nil {
			return "", false, fmt.Errorf("insert lead rowcount: %w", err)
		}
		inserted = n == 1
	}

	// Enrich step: fill blank fields only. First non-blank writer wins.
	if _, err := tx.Exec(`
		UPDATE leads SET
			url = CASE WHEN url = '' THEN ? ELSE url END,
			company = CASE WHEN company = '' THEN ? ELSE company END,
			job_title = CASE WHEN job_title = '' THEN ? ELSE job_title END,
			location = CASE WHEN location = '' THEN ? ELSE location END,
			source = CASE WHEN source = '' THEN ? ELSE source END,
			raw_json = COALESCE(raw_json, ?)
		WHERE lead_id = ?`,
		norm(c.URL), norm(c.Company), norm(c.JobTitle), norm(c.Location), norm(c.Source),
		raw, leadID,
	); err != nil {
		return "", false, fmt.Errorf("enrich lead: %w", err)
	}
	return leadID, inserted, nil
}

// AppendEvent records one action against a lead. Re-appending an identical
// (lead_id, event_type, occurred_at, details) tuple is a silent no-op with
// inserted=false, so every producer is safely re-runnable.
func (s *Store) AppendEvent(leadID, eventType, status string, occurredAt time.Time, details string) (bool, error) {
	return appendEvent(s.db, leadID, eventType, status, occurredAt, details)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func appendEvent(db execer, leadID, eventType, status string, occurredAt time.Time, details string) (bool, error) {
	leadID = norm(leadID)
	eventType = strings.ToLower(norm(eventType))
	if leadID == "" {
		return false, fmt.Errorf("invalid event: lead_id is required")
	}
	if eventType == "" {
		return false, fmt.Errorf("invalid event: event_type is required")
	}
	status = norm(status)
	if status == "" {
		status = StatusOK
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	var detailsCol any
	if details != "" {
		detailsCol = details
	}

	res, err := db.Exec(`
		INSERT OR IGNORE INTO events (lead_id, event_type, status, occurred_at, details_json)
		VALUES (?, ?, ?, ?, ?)`,
		leadID, eventType, status, formatTime(occurredAt), detailsCol,
	)
	if err != nil {
		return false, fmt.Errorf("append event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append event rowcount: %w", err)
	}
	return n == 1, nil
}

// UpsertWithEvent performs an upsert and an event append as one unit of work.
// The lead row is durably visible before its event, and an abort leaves no
// half-written state.
func (s *Store) UpsertWithEvent(c Candidate, eventType, status string, occurredAt time.Time, details string) (leadID string, leadInserted, eventInserted bool, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", false, false, fmt.Errorf("begin upsert+event: %w", err)
	}
	defer tx.Rollback()

	leadID, leadInserted, err = upsertInTx(tx, c)
	if err != nil {
		return "", false, false, err
	}
	eventInserted, err = appendEvent(tx, leadID, eventType, status, occurredAt, details)
	if err != nil {
		return "", false, false, err
	}
	if err := tx.Commit(); err != nil {
		return "", false, false, fmt.Errorf("commit upsert+event: %w", err)
	}
	return leadID, leadInserted, eventInserted, nil
}

// GetLead returns a stored lead by id.
func (s *Store) GetLead(leadID string) (*Lead, error) {
	row := s.db.QueryRow(`
		SELECT lead_id, platform, lead_type, contact, url, company, job_title, location, source, created_at, COALESCE(raw_json,'')
		FROM leads WHERE lead_id = ?`, norm(leadID))
	var l Lead
	var createdAt string
	err := row.Scan(&l.LeadID, &l.Platform, &l.LeadType, &l.Contact, &l.URL, &l.Company, &l.JobTitle, &l.Location, &l.Source, &createdAt, &l.Raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	if t, err := time.ParseInLocation(timeLayout, createdAt, time.Local); err == nil {
		l.CreatedAt = t
	}
	return &l, nil
}

// CountRows returns row counts for the leads, events and blocklist tables.
func (s *Store) CountRows() (map[string]int, error) {
	out := make(map[string]int, 3)
	for _, table := range []string{"leads", "events", "blocklist"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}
