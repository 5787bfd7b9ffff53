package mailer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/leadledger/leadledger/internal/activity"
)

// Batch drives one email outreach run over stored leads.
type Batch struct {
	Store  *activity.Store
	Sender Sender

	// Dedup event set; empty falls back to activity.ContactEvents.
	ContactEvents []string

	Quota        activity.QuotaPolicy
	SkipSentDays int // per-contact cooldown; <=0 disables

	Subject  string
	Template string
	Vars     map[string]string // static template variables (candidate profile)

	Platform string // lead filter, default "email"
	LeadType string // lead filter, default "job"

	DryRun   bool
	MinDelay time.Duration // pause between sends
	MaxDelay time.Duration
	Sleep    func(time.Duration) // nil means time.Sleep
	Now      func() time.Time    // nil means time.Now

	// OnSent fires after a delivery is recorded; used for the sent-log CSV.
	OnSent func(lead activity.Lead, msg Message, at time.Time)
}

// Result summarizes one batch run.
type Result struct {
	RunID   string
	Sent    int
	Skipped int
	Failed  int
}

type eventDetails struct {
	RunID  string `json:"run_id"`
	To     string `json:"to,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (b *Batch) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Batch) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if b.Sleep != nil {
		b.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (b *Batch) details(d eventDetails) string {
	raw, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(raw)
}

// Run executes the batch: blocklist first, then cooldown, then cross-channel
// dedup, bounded by the ramp quota. Every decision is recorded as an event so
// re-running after a partial failure resumes instead of repeating.
func (b *Batch) Run() (Result, error) {
	res := Result{RunID: uuid.NewString()}
	now := b.now()

	platform := b.Platform
	if platform == "" {
		platform = "email"
	}
	leadType := b.LeadType
	if leadType == "" {
		leadType = "job"
	}

	counts, err := b.Store.CountByDay("email_sent")
	if err != nil {
		return res, err
	}
	remaining := b.Quota.RemainingToday(counts, activity.Day(now))
	if remaining <= 0 {
		slog.Info("Daily cap reached; nothing to send", "run_id", res.RunID)
		return res, nil
	}

	lastByContact, err := b.Store.LastEventByContact("email_sent")
	if err != nil {
		return res, err
	}
	dedup := activity.DedupPolicy{Store: b.Store, EventTypes: b.ContactEvents}

	leads, err := b.Store.SelectLeads(activity.LeadFilter{Platform: platform, LeadType: leadType})
	if err != nil {
		return res, err
	}

	seen := map[string]struct{}{}
	for _, lead := range leads {
		if remaining <= 0 {
			break
		}
		to := activity.NormalizeContact(lead.Contact)
		if !ValidContactEmail(to) {
			continue
		}
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}

		blocked, err := b.Store.IsBlocked(to)
		if err != nil {
			return res, err
		}
		if blocked {
			res.Skipped++
			b.recordSkip(lead.LeadID, res.RunID, to, "blocklisted", now)
			continue
		}

		if activity.ContactedWithin(lastByContact, to, b.SkipSentDays, now) {
			res.Skipped++
			b.recordSkip(lead.LeadID, res.RunID, to, "cooldown", now)
			continue
		}

		reason, err := dedup.AlreadyContacted(activity.DedupCandidate{
			LeadID:   lead.LeadID,
			Contacts: []string{to},
			Company:  lead.Company,
		})
		if err != nil {
			return res, err
		}
		if reason != "" {
			res.Skipped++
			b.recordSkip(lead.LeadID, res.RunID, to, reason, now)
			continue
		}

		vars := b.messageVars(lead)
		msg := Message{
			To:      to,
			Subject: RenderTemplate(b.Subject, vars),
			Body:    RenderTemplate(b.Template, vars),
		}

		if b.DryRun {
			slog.Info("Dry run; would send", "to", to, "subject", msg.Subject)
			res.Sent++
			remaining--
			continue
		}

		if err := b.Sender.Send(msg); err != nil {
			slog.Warn("Send failed", "to", to, "error", err)
			res.Failed++
			b.record(lead.LeadID, "email_failed", activity.StatusFailed, res.RunID, to, err.Error(), now)
			continue
		}

		sentAt := b.now()
		if _, err := b.Store.AppendEvent(lead.LeadID, "email_sent", activity.StatusOK,
			sentAt, b.details(eventDetails{RunID: res.RunID, To: to})); err != nil {
			return res, fmt.Errorf("record send: %w", err)
		}
		lastByContact[to] = sentAt
		res.Sent++
		remaining--
		if b.OnSent != nil {
			b.OnSent(lead, msg, sentAt)
		}

		if b.MaxDelay > b.MinDelay {
			b.sleep(b.MinDelay + time.Duration(rand.Int63n(int64(b.MaxDelay-b.MinDelay)+1)))
		} else {
			b.sleep(b.MinDelay)
		}
	}

	slog.Info("Email batch finished",
		"run_id", res.RunID, "sent", res.Sent, "skipped", res.Skipped, "failed", res.Failed, "dry_run", b.DryRun)
	return res, nil
}

func (b *Batch) messageVars(lead activity.Lead) map[string]string {
	vars := map[string]string{
		"to_email": activity.NormalizeContact(lead.Contact),
		"company":  lead.Company,
		"title":    lead.JobTitle,
		"location": lead.Location,
		"url":      lead.URL,
	}
	for k, v := range b.Vars {
		vars[k] = v
	}
	return vars
}

func (b *Batch) recordSkip(leadID, runID, to, reason string, now time.Time) {
	b.record(leadID, "email_skipped", activity.StatusSkip, runID, to, reason, now)
}

func (b *Batch) record(leadID, eventType, status, runID, to, reason string, now time.Time) {
	if b.DryRun {
		slog.Info("Dry run; would record", "event_type", eventType, "to", to, "reason", reason)
		return
	}
	details := b.details(eventDetails{RunID: runID, To: to, Reason: reason})
	if _, err := b.Store.AppendEvent(leadID, eventType, status, now, details); err != nil {
		slog.Warn("Record event failed", "event_type", eventType, "lead_id", leadID, "error", err)
	}
}
