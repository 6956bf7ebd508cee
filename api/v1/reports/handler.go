package reports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"printtrack/internal/httpx"
	"printtrack/internal/reports"

	"github.com/gin-gonic/gin"
)

func parseScope(c *gin.Context) reports.ScopeFilter {
	siteID, _ := strconv.Atoi(c.Query("siteId"))
	agentID, _ := strconv.Atoi(c.Query("agentId"))
	return reports.ScopeFilter{SiteID: siteID, AgentID: agentID}
}

func parseRange(c *gin.Context) (reports.Range, bool) {
	r, err := reports.ParseRange(c.Query("startDate"), c.Query("endDate"), time.Now())
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return reports.Range{}, false
	}
	return r, true
}

// OverviewHandler handles GET /api/v1/reports/overview
func OverviewHandler(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := parseRange(c)
		if !ok {
			return
		}

		overview, err := svc.Overview(c.Request.Context(), r, parseScope(c))
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to compute overview", err))
			return
		}
		httpx.OK(c, overview)
	}
}

// TrendsHandler handles GET /api/v1/reports/trends
func TrendsHandler(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := parseRange(c)
		if !ok {
			return
		}

		series, err := svc.Trends(c.Request.Context(), r, parseScope(c))
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to compute trends", err))
			return
		}
		httpx.OK(c, gin.H{"days": series})
	}
}

// ByUserHandler handles GET /api/v1/reports/by-user
func ByUserHandler(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := parseRange(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		rows, err := svc.ByUser(c.Request.Context(), r, parseScope(c), limit)
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to compute user report", err))
			return
		}
		httpx.OK(c, gin.H{"items": rows, "total": len(rows)})
	}
}

// ByPrinterHandler handles GET /api/v1/reports/by-printer
func ByPrinterHandler(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := parseRange(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		rows, err := svc.ByPrinter(c.Request.Context(), r, parseScope(c), limit)
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to compute printer report", err))
			return
		}
		httpx.OK(c, gin.H{"items": rows, "total": len(rows)})
	}
}

// ExportHandler handles GET /api/v1/reports/export. Streams CSV instead of
// the JSON envelope; errors before the first byte still use the envelope.
func ExportHandler(svc *reports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := parseRange(c)
		if !ok {
			return
		}

		jobs, err := svc.ExportJobs(c.Request.Context(), r, parseScope(c))
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to export jobs", err))
			return
		}

		filename := fmt.Sprintf("print-jobs-%s.csv", time.Now().Format("20060102-150405"))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Status(http.StatusOK)

		w := csv.NewWriter(c.Writer)
		_ = w.Write([]string{
			"id", "submission_id", "username", "computer_name", "printer_name",
			"document_name", "pages", "copies", "total_pages", "color", "duplex",
			"status", "print_time",
		})
		for i := range jobs {
			job := &jobs[i]
			_ = w.Write([]string{
				strconv.Itoa(job.ID),
				job.SubmissionID,
				job.Username,
				job.ComputerName,
				job.PrinterName,
				job.DocumentName,
				strconv.Itoa(job.Pages),
				strconv.Itoa(job.Copies),
				strconv.Itoa(job.TotalPages),
				strconv.FormatBool(job.IsColor),
				strconv.FormatBool(job.IsDuplex),
				string(job.Status),
				job.PrintTime.Format(time.RFC3339),
			})
		}
		w.Flush()
	}
}
