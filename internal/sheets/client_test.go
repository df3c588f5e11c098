package sheets

import (
	"testing"

	"scoreview/internal/config"
)

func TestSpreadsheetID_FromURL(t *testing.T) {
	t.Parallel()

	url := "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit#gid=0"
	id, err := SpreadsheetID(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if id != "1AbC-dEf_123" {
		t.Fatalf("unexpected id: %s", id)
	}
}

func TestSpreadsheetID_BareID(t *testing.T) {
	t.Parallel()

	id, err := SpreadsheetID("1AbC-dEf_123")
	if err != nil {
		t.Fatalf("parse bare id: %v", err)
	}
	if id != "1AbC-dEf_123" {
		t.Fatalf("unexpected id: %s", id)
	}
}

func TestSpreadsheetID_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := SpreadsheetID(""); err == nil {
		t.Fatalf("empty spreadsheet should fail")
	}
	if _, err := SpreadsheetID("https://example.com/not/a/sheet"); err == nil {
		t.Fatalf("foreign url should fail")
	}
}

func TestCredentialBytes_InlineWinsOverFile(t *testing.T) {
	t.Parallel()

	cfg := &config.SheetsConfig{
		CredentialsJSON: `{"type":"service_account"}`,
		CredentialsFile: "/nonexistent/creds.json",
	}
	data, err := credentialBytes(cfg)
	if err != nil {
		t.Fatalf("credential bytes: %v", err)
	}
	if string(data) != `{"type":"service_account"}` {
		t.Fatalf("unexpected credentials: %s", data)
	}
}

func TestCredentialBytes_Missing(t *testing.T) {
	t.Parallel()

	if _, err := credentialBytes(&config.SheetsConfig{}); err == nil {
		t.Fatalf("missing credentials should fail")
	}
}

func TestQuoteRange(t *testing.T) {
	t.Parallel()

	if got := quoteRange("1반"); got != "'1반'" {
		t.Fatalf("unexpected range: %s", got)
	}
	if got := quoteRange("철수's 반"); got != "'철수''s 반'" {
		t.Fatalf("unexpected range: %s", got)
	}
}

func TestCellString(t *testing.T) {
	t.Parallel()

	if got := cellString("철수"); got != "철수" {
		t.Fatalf("unexpected cell: %s", got)
	}
	if got := cellString(nil); got != "" {
		t.Fatalf("nil cell should be empty, got %q", got)
	}
	if got := cellString(90.0); got != "90" {
		t.Fatalf("unexpected numeric cell: %s", got)
	}
}
