package printjobs

import (
	"errors"
	"strconv"
	"time"

	"printtrack/api/v1/middleware"
	"printtrack/internal/httpx"
	"printtrack/internal/model"
	"printtrack/internal/printjobs"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmitHandler handles POST /api/v1/print-jobs, the agent ingestion path.
// Duplicates answer 409 with the originally assigned job id so the agent
// can ack the queued item without resubmitting.
func SubmitHandler(svc *printjobs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent := c.MustGet(middleware.AgentKey).(*model.Agent)

		var req SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		job, err := svc.Ingest(c.Request.Context(), agent, req.toSubmission())
		if err != nil {
			failSubmit(c, err)
			return
		}

		httpx.OK(c, gin.H{"job_id": job.ID})
	}
}

// SubmitBatchHandler handles POST /api/v1/print-jobs/batch. Items are
// processed in order and judged independently: one rejected item does not
// block the rest of the batch.
func SubmitBatchHandler(svc *printjobs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent := c.MustGet(middleware.AgentKey).(*model.Agent)

		var reqs []SubmitRequest
		if err := c.ShouldBindJSON(&reqs); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}
		if len(reqs) == 0 {
			httpx.FailErr(c, httpx.ErrParamMissing("empty batch"))
			return
		}
		if len(reqs) > 500 {
			httpx.FailErr(c, httpx.ErrParamIllegal("batch too large, max 500 items"))
			return
		}

		results := make([]BatchItemResult, 0, len(reqs))
		created := 0
		for _, req := range reqs {
			res := BatchItemResult{SubmissionID: req.SubmissionID}

			job, err := svc.Ingest(c.Request.Context(), agent, req.toSubmission())
			switch {
			case err == nil:
				res.Status = "created"
				res.JobID = job.ID
				created++
			default:
				var dup *printjobs.DuplicateError
				var vErr *printjobs.ValidationError
				switch {
				case errors.As(err, &dup):
					res.Status = "duplicate"
					res.JobID = dup.JobID
				case errors.As(err, &vErr):
					res.Status = "rejected"
					res.Message = vErr.Error()
				default:
					res.Status = "error"
					res.Message = "internal error"
				}
			}
			results = append(results, res)
		}

		httpx.OK(c, gin.H{
			"created": created,
			"total":   len(reqs),
			"results": results,
		})
	}
}

// failSubmit maps ingestion errors onto the response envelope.
func failSubmit(c *gin.Context, err error) {
	var dup *printjobs.DuplicateError
	if errors.As(err, &dup) {
		httpx.FailErr(c, httpx.ErrDuplicate("").WithData(gin.H{"job_id": dup.JobID}))
		return
	}
	var vErr *printjobs.ValidationError
	if errors.As(err, &vErr) {
		if vErr.Reason == "is required" {
			httpx.FailErr(c, httpx.ErrParamMissing(vErr.Error()))
			return
		}
		httpx.FailErr(c, httpx.ErrParamInvalid(vErr.Error()))
		return
	}
	httpx.FailErr(c, httpx.ErrDatabaseError("failed to store print job", err))
}

// ListHandler handles GET /api/v1/print-jobs for dashboard users.
func ListHandler(svc *printjobs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid query parameters"))
			return
		}

		filter := printjobs.Filter{
			Username:     req.Username,
			DocumentName: req.Document,
			PrinterName:  req.PrinterName,
			ComputerName: req.ComputerName,
			Status:       req.Status,
			SiteID:       req.SiteID,
			AgentID:      req.AgentID,
			IsColor:      req.IsColor,
			IsDuplex:     req.IsDuplex,
		}

		if req.StartDate != "" {
			start, err := time.Parse("2006-01-02", req.StartDate)
			if err != nil {
				httpx.FailErr(c, httpx.ErrParamInvalid("startDate must be YYYY-MM-DD"))
				return
			}
			filter.StartDate = &start
		}
		if req.EndDate != "" {
			end, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				httpx.FailErr(c, httpx.ErrParamInvalid("endDate must be YYYY-MM-DD"))
				return
			}
			// Inclusive end of day
			end = end.Add(24*time.Hour - time.Nanosecond)
			filter.EndDate = &end
		}

		jobs, total, err := svc.List(c.Request.Context(), filter, req.Page, req.PageSize)
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query print jobs", err))
			return
		}

		items := make([]JobDTO, 0, len(jobs))
		for i := range jobs {
			items = append(items, toJobDTO(&jobs[i]))
		}

		page := req.Page
		if page < 1 {
			page = 1
		}
		pageSize := req.PageSize
		if pageSize < 1 {
			pageSize = 50
		}

		httpx.OK(c, httpx.ListData{
			Items:    items,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// GetHandler handles GET /api/v1/print-jobs/:id
func GetHandler(svc *printjobs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid job id"))
			return
		}

		job, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("print job not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to query print job", err))
			return
		}

		httpx.OK(c, toJobDTO(job))
	}
}

// DeleteHandler handles DELETE /api/v1/print-jobs/:id (admin only).
func DeleteHandler(svc *printjobs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid job id"))
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("print job not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to delete print job", err))
			return
		}

		httpx.OKMsg(c, "deleted", nil)
	}
}
