package dashboard

import (
	"testing"
	"time"
)

func sampleJobs() []Job {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []Job{
		{ID: 1, Username: "alice", DocumentName: "budget.xlsx", Pages: 5, TotalPages: 5, PrintTime: base},
		{ID: 2, Username: "bob", DocumentName: "report.pdf", Pages: 20, TotalPages: 20, PrintTime: base.Add(time.Hour)},
		{ID: 3, Username: "carol", DocumentName: "slides.pptx", Pages: 10, TotalPages: 10, PrintTime: base.Add(2 * time.Hour)},
	}
}

func TestApply_SortPagesDescending(t *testing.T) {
	view := Apply(sampleJobs(), ViewState{SortColumn: ColPages, SortDesc: true, PageSize: 10})

	got := []int{view.Rows[0].Pages, view.Rows[1].Pages, view.Rows[2].Pages}
	want := []int{20, 10, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected pages order %v, got %v", want, got)
		}
	}
}

func TestApply_SortTiesBreakByIDAscending(t *testing.T) {
	jobs := []Job{
		{ID: 3, Pages: 10},
		{ID: 1, Pages: 10},
		{ID: 2, Pages: 10},
	}

	view := Apply(jobs, ViewState{SortColumn: ColPages, SortDesc: true, PageSize: 10})

	for i, wantID := range []int{1, 2, 3} {
		if view.Rows[i].ID != wantID {
			t.Errorf("Row %d: expected id %d, got %d", i, wantID, view.Rows[i].ID)
		}
	}
}

func TestApply_FilterSubstring(t *testing.T) {
	view := Apply(sampleJobs(), ViewState{FilterText: "ali", PageSize: 10})

	if view.TotalRows != 1 {
		t.Fatalf("Expected 1 filtered row, got %d", view.TotalRows)
	}
	if view.Rows[0].Username != "alice" {
		t.Errorf("Expected alice, got %s", view.Rows[0].Username)
	}
}

func TestApply_FilterMatchesDocumentName(t *testing.T) {
	view := Apply(sampleJobs(), ViewState{FilterText: "REPORT", PageSize: 10})

	if view.TotalRows != 1 || view.Rows[0].DocumentName != "report.pdf" {
		t.Errorf("Filter should match document name case-insensitively, got %+v", view.Rows)
	}
}

func TestApply_DefaultSortNewestFirst(t *testing.T) {
	view := Apply(sampleJobs(), ViewState{PageSize: 10})

	if view.Rows[0].ID != 3 || view.Rows[2].ID != 1 {
		t.Errorf("Default sort should be print_time descending, got ids %d,%d,%d",
			view.Rows[0].ID, view.Rows[1].ID, view.Rows[2].ID)
	}
}

func TestApply_Pagination(t *testing.T) {
	jobs := make([]Job, 0, 7)
	for i := 1; i <= 7; i++ {
		jobs = append(jobs, Job{ID: i, Pages: i})
	}

	view := Apply(jobs, ViewState{SortColumn: ColID, Page: 2, PageSize: 3})

	if view.PageCount != 3 {
		t.Errorf("Expected 3 pages, got %d", view.PageCount)
	}
	if len(view.Rows) != 3 {
		t.Fatalf("Expected 3 rows on page 2, got %d", len(view.Rows))
	}
	if view.Rows[0].ID != 4 {
		t.Errorf("Expected page 2 to start at id 4, got %d", view.Rows[0].ID)
	}
}

func TestApply_PageOutOfRangeClamped(t *testing.T) {
	view := Apply(sampleJobs(), ViewState{Page: 99, PageSize: 2})

	if view.Page != 2 {
		t.Errorf("Expected clamp to last page 2, got %d", view.Page)
	}
	if len(view.Rows) != 1 {
		t.Errorf("Expected 1 row on last page, got %d", len(view.Rows))
	}
}

func TestApply_EmptyInput(t *testing.T) {
	view := Apply(nil, ViewState{PageSize: 10})

	if view.TotalRows != 0 || len(view.Rows) != 0 {
		t.Errorf("Expected empty view, got %+v", view)
	}
	if view.PageCount != 1 {
		t.Errorf("Expected page count 1 for empty set, got %d", view.PageCount)
	}
}

func TestApply_InputNotMutated(t *testing.T) {
	jobs := sampleJobs()
	Apply(jobs, ViewState{SortColumn: ColPages, SortDesc: true, PageSize: 10})

	if jobs[0].ID != 1 || jobs[2].ID != 3 {
		t.Error("Apply must not reorder the caller's slice")
	}
}
