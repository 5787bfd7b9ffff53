package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leadledger/leadledger/internal/activity"
)

func runRootCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	rootCmd.SetArgs(nil)
	return strings.TrimSpace(buf.String()), err
}

func setTestHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("LEADLEDGER_HOME", tmpDir)
	t.Setenv("LEADLEDGER_CONFIG", filepath.Join(tmpDir, "config.json"))
	t.Setenv("LEADLEDGER_PATHS_DATA_DIR", filepath.Join(tmpDir, "data"))
	t.Setenv("LEADLEDGER_PATHS_DB_PATH", filepath.Join(tmpDir, "data", "activity.db"))
	return tmpDir
}

func TestVersionCommand(t *testing.T) {
	out, err := runRootCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Fatalf("expected version %q in output, got %q", version, out)
	}
}

func TestBlocklistAddAndList(t *testing.T) {
	setTestHome(t)

	out, err := runRootCommand(t, "blocklist", "add", "Bad@Example.COM", "--reason", "bounce")
	if err != nil {
		t.Fatalf("blocklist add: %v", err)
	}
	if !strings.Contains(out, "Blocked bad@example.com") {
		t.Fatalf("expected normalized contact in output, got %q", out)
	}

	out, err = runRootCommand(t, "blocklist", "list")
	if err != nil {
		t.Fatalf("blocklist list: %v", err)
	}
	if !strings.Contains(out, "bad@example.com") || !strings.Contains(out, "bounce") {
		t.Fatalf("expected entry in list, got %q", out)
	}
}

func TestStatsCommand(t *testing.T) {
	tmpDir := setTestHome(t)

	store, err := activity.Open(filepath.Join(tmpDir, "data", "activity.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, _, err := store.Upsert(activity.Candidate{
		Platform: "email", LeadType: "job", Contact: "hr@acme.example",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = store.Close()

	out, err := runRootCommand(t, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "leads:") || !strings.Contains(out, "1") {
		t.Fatalf("expected lead count in output, got %q", out)
	}
}

func TestExportCommandWritesCSV(t *testing.T) {
	tmpDir := setTestHome(t)

	store, err := activity.Open(filepath.Join(tmpDir, "data", "activity.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, _, err := store.Upsert(activity.Candidate{
		Platform: "email", LeadType: "job", Contact: "hr@acme.example", Company: "Acme",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = store.Close()

	outPath := filepath.Join(tmpDir, "targets.csv")
	out, err := runRootCommand(t, "export", "--out", outPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 1 leads") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestReportCommandJSON(t *testing.T) {
	setTestHome(t)

	out, err := runRootCommand(t, "report", "--date", "2026-03-02", "--json")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, `"Day": "2026-03-02"`) {
		t.Fatalf("expected JSON report, got %q", out)
	}
}
