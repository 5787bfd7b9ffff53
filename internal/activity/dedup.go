package activity

import (
	"fmt"
	"strings"
)

// DedupCandidate describes an outreach target for the cross-channel check.
// Contacts carries every known address for the target (a lead can surface
// several extracted emails/handles); any match blocks.
type DedupCandidate struct {
	LeadID   string
	Contacts []string
	Company  string
}

// DedupPolicy answers "was this person or company already contacted on any
// channel". Zero EventTypes falls back to the default ContactEvents set.
type DedupPolicy struct {
	Store      *Store
	EventTypes []string
}

func (p DedupPolicy) eventTypes() []string {
	if len(p.EventTypes) > 0 {
		return p.EventTypes
	}
	return ContactEvents
}

// AlreadyContacted returns a non-empty audit reason when any prior
// contact-equivalent event blocks a new outreach action, checking the
// narrowest signal first: exact lead id, then any candidate contact address,
// then the company name. Empty reason means clear to contact.
func (p DedupPolicy) AlreadyContacted(c DedupCandidate) (string, error) {
	types := p.eventTypes()

	leadID := norm(c.LeadID)
	if leadID != "" {
		eventType, ok, err := p.firstEventByLead(leadID, types)
		if err != nil {
			return "", err
		}
		if ok {
			return "lead_already_contacted:" + eventType, nil
		}
	}

	for _, raw := range c.Contacts {
		contact := NormalizeContact(raw)
		if contact == "" {
			continue
		}
		eventType, ok, err := p.firstEventByContact(contact, types)
		if err != nil {
			return "", err
		}
		if ok {
			return "contact_already_contacted:" + contact + ":" + eventType, nil
		}
	}

	// Widest net, weakest signal: only consulted when nothing narrower matched.
	company := strings.ToLower(norm(c.Company))
	if company != "" {
		eventType, ok, err := p.firstEventByCompany(company, types)
		if err != nil {
			return "", err
		}
		if ok {
			return "company_already_contacted:" + company + ":" + eventType, nil
		}
	}

	return "", nil
}

func (p DedupPolicy) firstEventByLead(leadID string, types []string) (string, bool, error) {
	args := append([]any{leadID}, typesArgs(types)...)
	var eventType string
	err := p.Store.db.QueryRow(`
		SELECT event_type FROM events
		WHERE lead_id = ? AND event_type IN (`+placeholders(len(types))+`)
		LIMIT 1`, args...).Scan(&eventType)
	return contactedScan(eventType, err)
}

func (p DedupPolicy) firstEventByContact(contact string, types []string) (string, bool, error) {
	args := append([]any{contact}, typesArgs(types)...)
	var eventType string
	err := p.Store.db.QueryRow(`
		SELECT e.event_type FROM events e
		JOIN leads l ON l.lead_id = e.lead_id
		WHERE lower(l.contact) = ? AND e.event_type IN (`+placeholders(len(types))+`)
		LIMIT 1`, args...).Scan(&eventType)
	return contactedScan(eventType, err)
}

func (p DedupPolicy) firstEventByCompany(company string, types []string) (string, bool, error) {
	args := append([]any{company}, typesArgs(types)...)
	var eventType string
	err := p.Store.db.QueryRow(`
		SELECT e.event_type FROM events e
		JOIN leads l ON l.lead_id = e.lead_id
		WHERE lower(l.company) = ? AND e.event_type IN (`+placeholders(len(types))+`)
		LIMIT 1`, args...).Scan(&eventType)
	return contactedScan(eventType, err)
}

func contactedScan(eventType string, err error) (string, bool, error) {
	if err == nil {
		return eventType, true, nil
	}
	if isNoRows(err) {
		return "", false, nil
	}
	return "", false, fmt.Errorf("dedup check: %w", err)
}
