package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

func sampleReport() *model.Report {
	r := &model.Report{
		Root:         "lib",
		CatalogPath:  "lib/l10n/arbs/app_en.arb",
		StartedAt:    time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		FilesScanned: 3,
		NewEntries: []model.NewEntry{
			{Key: "submit_the_form_now", Value: "Submit the form now"},
		},
		Touched: []model.FileMutations{
			{Path: "lib/login_page.dart", Replacements: 2, Annotations: 1},
		},
		Replacements: 2,
		Annotations:  1,
		Records: []*model.StringRecord{
			{Value: "Submit the form now", Category: model.CategoryEligible, Key: "submit_the_form_now"},
			{Value: "weird leftover", Category: model.CategoryUnresolved},
		},
	}
	r.CountRecords()
	return r
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RenderSummary(sampleReport())
	out := buf.String()

	for _, want := range []string{
		"arbshift report",
		"Files scanned:   3",
		"Eligible:       1",
		"submit_the_form_now = \"Submit the form now\"",
		"lib/login_page.dart (2 replacements, 1 annotations)",
		"Unresolved strings",
		`! "weird leftover"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary_DryRunHeader(t *testing.T) {
	report := sampleReport()
	report.DryRun = true
	var buf bytes.Buffer
	NewRenderer(&buf).RenderSummary(report)

	if !strings.Contains(buf.String(), "dry run") {
		t.Error("Dry-run report should say so in the header")
	}
	if !strings.Contains(buf.String(), "would be added") {
		t.Error("Dry-run entries should be phrased prospectively")
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewRenderer(os.Stdout).RenderJSON(sampleReport(), path, false); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed model.Report
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if parsed.FilesScanned != 3 {
		t.Errorf("Round trip lost data: %+v", parsed)
	}
	if parsed.Records != nil {
		t.Error("Records included without being requested")
	}

	withRecords := filepath.Join(t.TempDir(), "full.json")
	if err := NewRenderer(os.Stdout).RenderJSON(sampleReport(), withRecords, true); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(withRecords)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}
	if len(parsed.Records) != 2 {
		t.Errorf("Expected records in the full report, got %d", len(parsed.Records))
	}
}
