package activity

import (
	"time"
)

// Lead is one stored record for a real-world entity worth remembering:
// a job posting, a company, a conversation, a gig, a source channel.
type Lead struct {
	LeadID    string    `json:"lead_id"`
	Platform  string    `json:"platform"`  // origin system, e.g. "email", "linkedin", "telegram"
	LeadType  string    `json:"lead_type"` // e.g. "job", "project", "company", "conversation"
	Contact   string    `json:"contact"`   // normalized canonical contact string
	URL       string    `json:"url"`
	Company   string    `json:"company"`
	JobTitle  string    `json:"job_title"`
	Location  string    `json:"location"`
	Source    string    `json:"source"` // free-text provenance tag
	CreatedAt time.Time `json:"created_at"`
	Raw       string    `json:"raw,omitempty"` // opaque payload, never inspected by the core
}

// Candidate is the input to Upsert. Required: Platform, LeadType, Contact.
type Candidate struct {
	Platform  string
	LeadType  string
	Contact   string
	URL       string
	Company   string
	JobTitle  string
	Location  string
	Source    string
	CreatedAt time.Time // zero = now
	Raw       string    // empty = no payload
}

// Event is one immutable timestamped action taken against a Lead.
type Event struct {
	EventID    int64     `json:"event_id"`
	LeadID     string    `json:"lead_id"`
	EventType  string    `json:"event_type"` // e.g. "collected", "email_sent", "li_dm_sent"
	Status     string    `json:"status"`     // e.g. "ok", "skip", "failed", "manual"
	OccurredAt time.Time `json:"occurred_at"`
	Details    string    `json:"details,omitempty"` // opaque audit payload
}

// BlocklistEntry is a permanent exclude marker keyed by normalized contact.
type BlocklistEntry struct {
	Contact   string    `json:"contact"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StatusOK     = "ok"
	StatusSkip   = "skip"
	StatusFailed = "failed"
	StatusManual = "manual"
)

// ContactEvents is the default contact-equivalent event set: any of these
// recorded against a lead means a human was already reached on some channel.
var ContactEvents = []string{
	"email_sent",
	"tg_dm_sent",
	"li_connect_sent",
	"li_dm_sent",
	"li_comment_posted",
	"li_apply_submitted",
	"external_apply_submitted",
	"fm_apply_submitted",
	"wa_apply_submitted",
}

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	lead_id TEXT PRIMARY KEY,
	platform TEXT NOT NULL,
	lead_type TEXT NOT NULL,
	contact TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	job_title TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	raw_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_leads_platform ON leads(platform);
CREATE INDEX IF NOT EXISTS idx_leads_contact ON leads(contact);
CREATE INDEX IF NOT EXISTS idx_leads_company ON leads(company);
CREATE INDEX IF NOT EXISTS idx_leads_natural ON leads(platform, lead_type, contact);

CREATE TABLE IF NOT EXISTS events (
	event_id INTEGER PRIMARY KEY AUTOINCREMENT,
	lead_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'ok',
	occurred_at TEXT NOT NULL,
	details_json TEXT,
	FOREIGN KEY (lead_id) REFERENCES leads(lead_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_events_lead ON events(lead_id);
CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
CREATE INDEX IF NOT EXISTS idx_events_time ON events(occurred_at);
-- Re-running a producer must be a no-op, not a duplicate.
CREATE UNIQUE INDEX IF NOT EXISTS uniq_events ON events(lead_id, event_type, occurred_at, COALESCE(details_json,''));

CREATE TABLE IF NOT EXISTS blocklist (
	contact TEXT PRIMARY KEY,
	reason TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_blocklist_time ON blocklist(created_at);

CREATE TABLE IF NOT EXISTS profile_kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	doc_id TEXT PRIMARY KEY,
	doc_type TEXT NOT NULL,
	content TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS answer_bank (
	q_norm TEXT PRIMARY KEY,
	q_raw TEXT NOT NULL,
	answer TEXT NOT NULL,
	status TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_answer_bank_updated_at ON answer_bank(updated_at);
`
