package activity

import (
	"testing"
	"time"
)

func TestExistsChecks(t *testing.T) {
	store := newTestStore(t)

	leadID := mustUpsert(t, store, Candidate{Platform: "email", LeadType: "job", Contact: "dev@corp.example", Company: "Corp"})
	mustAppend(t, store, leadID, "email_sent")

	types := []string{"email_sent", "li_dm_sent"}

	ok, err := store.ExistsAny(leadID, types)
	if err != nil || !ok {
		t.Fatalf("expected event by lead id, ok=%v err=%v", ok, err)
	}
	ok, err = store.ExistsAny(leadID, []string{"reply_received"})
	if err != nil || ok {
		t.Fatalf("expected no reply events, ok=%v err=%v", ok, err)
	}

	ok, err = store.ExistsByContact("DEV@corp.example", types)
	if err != nil || !ok {
		t.Fatalf("expected event by contact, ok=%v err=%v", ok, err)
	}
	ok, err = store.ExistsByCompany("corp", types)
	if err != nil || !ok {
		t.Fatalf("expected event by company, ok=%v err=%v", ok, err)
	}
	ok, err = store.ExistsByCompany("other corp", types)
	if err != nil || ok {
		t.Fatalf("expected no event for other company, ok=%v err=%v", ok, err)
	}

	// Empty type sets never match.
	ok, err = store.ExistsAny(leadID, nil)
	if err != nil || ok {
		t.Fatalf("expected empty type set to match nothing, ok=%v err=%v", ok, err)
	}
}

func TestCountByDayGroupsAcrossDays(t *testing.T) {
	store := newTestStore(t)
	leadID := mustUpsert(t, store, Candidate{Platform: "email", LeadType: "job", Contact: "a@b.com"})

	d1 := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	for _, at := range []time.Time{d1, d1.Add(2 * time.Hour), d1.AddDate(0, 0, 1)} {
		if _, err := store.AppendEvent(leadID, "email_sent", "ok", at, ""); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	counts, err := store.CountByDay("email_sent")
	if err != nil {
		t.Fatalf("count by day: %v", err)
	}
	if counts["2026-08-29"] != 2 || counts["2026-08-30"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestSelectLeadsFilter(t *testing.T) {
	store := newTestStore(t)
	mustUpsert(t, store, Candidate{Platform: "email", LeadType: "job", Contact: "a@b.com"})
	mustUpsert(t, store, Candidate{Platform: "email", LeadType: "company", Contact: "c@d.com"})
	mustUpsert(t, store, Candidate{Platform: "telegram", LeadType: "job", Contact: "@chan"})

	leads, err := store.SelectLeads(LeadFilter{Platform: "email", LeadType: "job"})
	if err != nil {
		t.Fatalf("select leads: %v", err)
	}
	if len(leads) != 1 || leads[0].Contact != "a@b.com" {
		t.Fatalf("unexpected selection: %+v", leads)
	}

	all, err := store.SelectLeads(LeadFilter{})
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected three leads, got %d", len(all))
	}
}
