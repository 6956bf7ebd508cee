package dashboard

import (
	"sort"
	"strings"
	"time"
)

// Job is one row of the fetched page, the unit the view operates on.
type Job struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	ComputerName string    `json:"computer_name"`
	PrinterName  string    `json:"printer_name"`
	DocumentName string    `json:"document_name"`
	Pages        int       `json:"pages"`
	Copies       int       `json:"copies"`
	TotalPages   int       `json:"total_pages"`
	IsColor      bool      `json:"is_color"`
	IsDuplex     bool      `json:"is_duplex"`
	Status       string    `json:"status"`
	PrintTime    time.Time `json:"print_time"`
}

// Sortable columns
const (
	ColID         = "id"
	ColUsername   = "username"
	ColComputer   = "computer_name"
	ColPrinter    = "printer_name"
	ColDocument   = "document_name"
	ColPages      = "pages"
	ColTotalPages = "total_pages"
	ColStatus     = "status"
	ColPrintTime  = "print_time"
)

// ViewState is the explicit dashboard state: filter, sort, and page applied
// locally over one fetched set of records. Events (filter-change,
// sort-change, page-change) mutate the state; Apply renders it.
type ViewState struct {
	FilterText string // substring match on username and document name
	SortColumn string
	SortDesc   bool
	Page       int
	PageSize   int
}

// View is the rendered result of applying a ViewState.
type View struct {
	Rows      []Job
	TotalRows int // rows after filtering, before pagination
	Page      int
	PageCount int
}

// Apply renders jobs through the state: filter, then sort, then paginate.
// The input slice is never mutated.
func Apply(jobs []Job, state ViewState) View {
	filtered := filterJobs(jobs, state.FilterText)
	sortJobs(filtered, state.SortColumn, state.SortDesc)
	return paginate(filtered, state)
}

func filterJobs(jobs []Job, text string) []Job {
	out := make([]Job, 0, len(jobs))
	needle := strings.ToLower(strings.TrimSpace(text))
	for _, job := range jobs {
		if needle == "" ||
			strings.Contains(strings.ToLower(job.Username), needle) ||
			strings.Contains(strings.ToLower(job.DocumentName), needle) {
			out = append(out, job)
		}
	}
	return out
}

// sortJobs orders rows in place by the chosen column. Equal keys always
// fall back to id ascending, whatever the direction.
func sortJobs(jobs []Job, column string, desc bool) {
	if column == "" {
		column = ColPrintTime
		desc = true
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i], jobs[j]
		if desc {
			a, b = b, a
		}
		switch cmp := compareColumn(a, b, column); {
		case cmp != 0:
			return cmp < 0
		default:
			return jobs[i].ID < jobs[j].ID
		}
	})
}

func compareColumn(a, b Job, column string) int {
	switch column {
	case ColID:
		return a.ID - b.ID
	case ColUsername:
		return strings.Compare(a.Username, b.Username)
	case ColComputer:
		return strings.Compare(a.ComputerName, b.ComputerName)
	case ColPrinter:
		return strings.Compare(a.PrinterName, b.PrinterName)
	case ColDocument:
		return strings.Compare(a.DocumentName, b.DocumentName)
	case ColPages:
		return a.Pages - b.Pages
	case ColTotalPages:
		return a.TotalPages - b.TotalPages
	case ColStatus:
		return strings.Compare(a.Status, b.Status)
	default: // ColPrintTime
		switch {
		case a.PrintTime.Before(b.PrintTime):
			return -1
		case a.PrintTime.After(b.PrintTime):
			return 1
		}
		return 0
	}
}

func paginate(jobs []Job, state ViewState) View {
	pageSize := state.PageSize
	if pageSize < 1 {
		pageSize = 25
	}

	pageCount := (len(jobs) + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	page := state.Page
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(jobs) {
		start = len(jobs)
	}
	if end > len(jobs) {
		end = len(jobs)
	}

	return View{
		Rows:      jobs[start:end],
		TotalRows: len(jobs),
		Page:      page,
		PageCount: pageCount,
	}
}
