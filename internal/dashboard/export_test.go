package dashboard

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"
)

func TestExportCSV(t *testing.T) {
	view := Apply(sampleJobs(), ViewState{SortColumn: ColPages, SortDesc: true, PageSize: 10})

	var buf bytes.Buffer
	if err := ExportCSV(&buf, view); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d records", len(records))
	}

	if records[0][0] != "id" || records[0][5] != "pages" {
		t.Errorf("Unexpected header: %v", records[0])
	}

	// Export preserves the view's sort order.
	if records[1][5] != "20" || records[3][5] != "5" {
		t.Errorf("Export should follow the sorted view, got pages %s,%s,%s",
			records[1][5], records[2][5], records[3][5])
	}
}

func TestExportCSV_TimeFormat(t *testing.T) {
	view := View{Rows: []Job{{
		ID:        1,
		PrintTime: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}}}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, view); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	records, _ := csv.NewReader(&buf).ReadAll()
	if records[1][11] != "2026-03-01T09:30:00Z" {
		t.Errorf("Expected RFC3339 print_time, got %s", records[1][11])
	}
}

func TestExportCSV_EmptyView(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, View{}); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Errorf("Expected header only, got %d records", len(records))
	}
}
