package activity

import (
	"fmt"
	"time"
)

// IsBlocked reports whether contact is on the permanent exclude-list.
// Consulted before any outbound action, ahead of the dedup policy.
func (s *Store) IsBlocked(contact string) (bool, error) {
	c := NormalizeContact(contact)
	if c == "" {
		return false, nil
	}
	var one int
	err := s.db.QueryRow("SELECT 1 FROM blocklist WHERE contact = ? LIMIT 1", c).Scan(&one)
	return scanExists(one, err)
}

// AddToBlocklist marks contact as permanently excluded. Re-adding an existing
// contact is a no-op; the first recorded reason stands.
func (s *Store) AddToBlocklist(contact, reason string) error {
	c := NormalizeContact(contact)
	if c == "" {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO blocklist (contact, reason, created_at)
		VALUES (?, ?, ?)`,
		c, norm(reason), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("add to blocklist: %w", err)
	}
	return nil
}

// BlocklistContacts returns the full exclude-set of normalized contacts.
func (s *Store) BlocklistContacts() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT contact FROM blocklist")
	if err != nil {
		return nil, fmt.Errorf("load blocklist: %w", err)
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("load blocklist scan: %w", err)
		}
		if c = NormalizeContact(c); c != "" {
			out[c] = struct{}{}
		}
	}
	return out, rows.Err()
}

// Blocklist returns all entries, newest first, for reporting.
func (s *Store) Blocklist() ([]BlocklistEntry, error) {
	rows, err := s.db.Query("SELECT contact, reason, created_at FROM blocklist ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list blocklist: %w", err)
	}
	defer rows.Close()

	var entries []BlocklistEntry
	for rows.Next() {
		var e BlocklistEntry
		var createdAt string
		if err := rows.Scan(&e.Contact, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("list blocklist scan: %w", err)
		}
		if t, err := time.ParseInLocation(timeLayout, createdAt, time.Local); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
