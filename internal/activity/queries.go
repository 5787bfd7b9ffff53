package activity

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Day formats t as the YYYY-MM-DD key used by the per-day aggregates.
func Day(t time.Time) string {
	return t.Format(dayLayout)
}

// CountByDay groups events of one type by the date portion of occurred_at.
func (s *Store) CountByDay(eventType string) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT substr(occurred_at, 1, 10) AS day, COUNT(*) AS c
		FROM events
		WHERE event_type = ?
		GROUP BY day`,
		strings.ToLower(norm(eventType)),
	)
	if err != nil {
		return nil, fmt.Errorf("count by day: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var day string
		var c int
		if err := rows.Scan(&day, &c); err != nil {
			return nil, fmt.Errorf("count by day scan: %w", err)
		}
		if day == "" {
			continue
		}
		out[day] = c
	}
	return out, rows.Err()
}

// LastEventByContact returns, per normalized contact, the most recent
// occurred_at among events of the given type, joined through the owning lead.
// Backs "skip if contacted within N days".
func (s *Store) LastEventByContact(eventType string) (map[string]time.Time, error) {
	rows, err := s.db.Query(`
		SELECT l.contact AS contact, MAX(e.occurred_at) AS ts
		FROM events e
		JOIN leads l ON l.lead_id = e.lead_id
		WHERE e.event_type = ?
		GROUP BY l.contact`,
		strings.ToLower(norm(eventType)),
	)
	if err != nil {
		return nil, fmt.Errorf("last event by contact: %w", err)
	}
	defer rows.Close()

	out := map[string]time.Time{}
	for rows.Next() {
		var contact, ts string
		if err := rows.Scan(&contact, &ts); err != nil {
			return nil, fmt.Errorf("last event by contact scan: %w", err)
		}
		contact = NormalizeContact(contact)
		t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(ts), time.Local)
		if contact == "" || err != nil {
			// Ignore unparsable timestamps.
			continue
		}
		out[contact] = t
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func typesArgs(eventTypes []string) []any {
	args := make([]any, 0, len(eventTypes))
	for _, t := range eventTypes {
		args = append(args, strings.ToLower(norm(t)))
	}
	return args
}

// ExistsAny reports whether any event of the given types is recorded against leadID.
func (s *Store) ExistsAny(leadID string, eventTypes []string) (bool, error) {
	if len(eventTypes) == 0 {
		return false, nil
	}
	args := append([]any{norm(leadID)}, typesArgs(eventTypes)...)
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM events
		WHERE lead_id = ? AND event_type IN (`+placeholders(len(eventTypes))+`)
		LIMIT 1`, args...).Scan(&one)
	return scanExists(one, err)
}

// ExistsByContact reports whether any event of the given types is recorded
// against any lead whose normalized contact matches.
func (s *Store) ExistsByContact(contact string, eventTypes []string) (bool, error) {
	contact = NormalizeContact(contact)
	if contact == "" || len(eventTypes) == 0 {
		return false, nil
	}
	args := append([]any{contact}, typesArgs(eventTypes)...)
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM events e
		JOIN leads l ON l.lead_id = e.lead_id
		WHERE lower(l.contact) = ? AND e.event_type IN (`+placeholders(len(eventTypes))+`)
		LIMIT 1`, args...).Scan(&one)
	return scanExists(one, err)
}

// ExistsByCompany reports whether any event of the given types is recorded
// against any lead sharing the same normalized company name.
func (s *Store) ExistsByCompany(company string, eventTypes []string) (bool, error) {
	company = strings.ToLower(norm(company))
	if company == "" || len(eventTypes) == 0 {
		return false, nil
	}
	args := append([]any{company}, typesArgs(eventTypes)...)
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM events e
		JOIN leads l ON l.lead_id = e.lead_id
		WHERE lower(l.company) = ? AND e.event_type IN (`+placeholders(len(eventTypes))+`)
		LIMIT 1`, args...).Scan(&one)
	return scanExists(one, err)
}

func scanExists(one int, err error) (bool, error) {
	if err == nil {
		return one == 1, nil
	}
	if isNoRows(err) {
		return false, nil
	}
	return false, fmt.Errorf("existence check: %w", err)
}

// LeadFilter narrows SelectLeads. Zero values match everything.
type LeadFilter struct {
	Platform string
	LeadType string
	Limit    int
}

// SelectLeads returns stored leads matching the filter, newest first.
func (s *Store) SelectLeads(f LeadFilter) ([]Lead, error) {
	query := `
		SELECT lead_id, platform, lead_type, contact, url, company, job_title, location, source, created_at, COALESCE(raw_json,'')
		FROM leads WHERE 1=1`
	args := []any{}
	if f.Platform != "" {
		query += " AND platform = ?"
		args = append(args, norm(f.Platform))
	}
	if f.LeadType != "" {
		query += " AND lead_type = ?"
		args = append(args, norm(f.LeadType))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("select leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		var createdAt string
		if err := rows.Scan(&l.LeadID, &l.Platform, &l.LeadType, &l.Contact, &l.URL, &l.Company, &l.JobTitle, &l.Location, &l.Source, &createdAt, &l.Raw); err != nil {
			return nil, fmt.Errorf("select leads scan: %w", err)
		}
		if t, err := time.ParseInLocation(timeLayout, createdAt, time.Local); err == nil {
			l.CreatedAt = t
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
