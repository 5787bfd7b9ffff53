package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leadledger/leadledger/internal/activity"
)

// SentLogHeaders is the column order of the append-only send log.
var SentLogHeaders = []string{
	"timestamp", "to_email", "job_title", "company", "location", "source", "job_url",
}

// TargetHeaders is the column order of exported outreach targets.
var TargetHeaders = []string{
	"lead_id", "platform", "lead_type", "contact", "company", "job_title", "location", "url", "source", "created_at",
}

// WriteCSV writes rows atomically: a .tmp file next to the target,
// then rename. Readers never observe a half-written file.
func WriteCSV(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SentLogRow is one line of the human-auditable send log. The event
// table stays the source of truth; the CSV is for spreadsheets.
type SentLogRow struct {
	Timestamp time.Time
	ToEmail   string
	JobTitle  string
	Company   string
	Location  string
	Source    string
	JobURL    string
}

// AppendSentLog appends one row, writing the header only when the
// file does not exist yet.
func AppendSentLog(path string, row SentLogRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(SentLogHeaders); err != nil {
			return err
		}
	}
	if err := w.Write([]string{
		row.Timestamp.Format("2006-01-02T15:04:05"),
		row.ToEmail, row.JobTitle, row.Company, row.Location, row.Source, row.JobURL,
	}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// ExportTargets writes the current leads for a platform/type as a
// target CSV for review before a send run.
func ExportTargets(store *activity.Store, path string, f activity.LeadFilter) (int, error) {
	leads, err := store.SelectLeads(f)
	if err != nil {
		return 0, err
	}
	rows := make([][]string, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []string{
			l.LeadID, l.Platform, l.LeadType, l.Contact,
			l.Company, l.JobTitle, l.Location, l.URL, l.Source,
			l.CreatedAt.Format("2006-01-02T15:04:05"),
		})
	}
	if err := WriteCSV(path, TargetHeaders, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// DailyReport summarizes one day's activity against the ramp quota.
type DailyReport struct {
	Day       string
	Sent      int
	Cap       int
	Remaining int
	ByType    map[string]int
}

// Daily builds the quota report for a day key ("YYYY-MM-DD").
func Daily(store *activity.Store, quota activity.QuotaPolicy, day string, eventTypes []string) (DailyReport, error) {
	rep := DailyReport{Day: day, ByType: map[string]int{}}

	counts, err := store.CountByDay("email_sent")
	if err != nil {
		return rep, err
	}
	rep.Sent = counts[day]
	rep.Cap = quota.DailyCap(counts, day)
	rep.Remaining = rep.Cap - rep.Sent
	if rep.Remaining < 0 {
		rep.Remaining = 0
	}

	for _, et := range eventTypes {
		byDay, err := store.CountByDay(et)
		if err != nil {
			return rep, fmt.Errorf("count %s: %w", et, err)
		}
		if n := byDay[day]; n > 0 {
			rep.ByType[et] = n
		}
	}
	return rep, nil
}
