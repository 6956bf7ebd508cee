package printjobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"printtrack/internal/cache"
	"printtrack/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service owns the print-job ingestion and query path.
type Service struct {
	db     *gorm.DB
	guard  *cache.SubmissionGuard
	logger *logrus.Entry
}

// NewService creates the print-job service.
func NewService(db *gorm.DB, guard *cache.SubmissionGuard) *Service {
	return &Service{
		db:     db,
		guard:  guard,
		logger: logrus.WithField("component", "printjobs"),
	}
}

// Ingest validates and persists one submission on behalf of agent.
// Idempotent under agent retry: a duplicate submission id yields a
// DuplicateError carrying the originally assigned job id and no new row.
func (s *Service) Ingest(ctx context.Context, agent *model.Agent, sub Submission) (*model.PrintJob, error) {
	sub.Normalize()
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	reserved, existingID, err := s.guard.Reserve(ctx, sub.SubmissionID)
	if err != nil {
		s.logger.WithError(err).Warn("dedup reserve failed, falling through to unique index")
	}
	if !reserved && existingID > 0 {
		return nil, &DuplicateError{SubmissionID: sub.SubmissionID, JobID: existingID}
	}

	printerID := s.resolvePrinter(&sub, agent.SiteID)

	job := model.PrintJob{
		SubmissionID: sub.SubmissionID,
		AgentID:      agent.ID,
		SiteID:       agent.SiteID,
		PrinterID:    printerID,
		Username:     sub.Username,
		ComputerName: sub.ComputerName,
		PrinterName:  sub.PrinterName,
		PrinterIP:    sub.PrinterIP,
		DocumentName: sub.DocumentName,
		Pages:        sub.Pages,
		Copies:       sub.Copies,
		TotalPages:   sub.TotalPages(),
		IsColor:      sub.IsColor,
		IsDuplex:     sub.IsDuplex,
		Status:       sub.Status,
		JobSizeBytes: sub.JobSizeBytes,
		PrintTime:    sub.PrintTime,
	}

	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		if isDuplicateErr(err) {
			var existing model.PrintJob
			if lookupErr := s.db.WithContext(ctx).
				Where("submission_id = ?", sub.SubmissionID).
				First(&existing).Error; lookupErr == nil {
				s.guard.Commit(ctx, sub.SubmissionID, existing.ID)
				return nil, &DuplicateError{SubmissionID: sub.SubmissionID, JobID: existing.ID}
			}
		}
		s.guard.Release(ctx, sub.SubmissionID)
		return nil, err
	}

	s.guard.Commit(ctx, sub.SubmissionID, job.ID)
	s.touchAgent(ctx, agent)

	s.logger.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"agent_id": agent.ID,
		"username": job.Username,
		"pages":    job.TotalPages,
	}).Info("print job recorded")

	return &job, nil
}

// resolvePrinter get-or-creates the printer row for (name, site) and folds
// observed capabilities into it. Failures are logged, never fatal: the job
// row keeps the reported printer name either way.
func (s *Service) resolvePrinter(sub *Submission, siteID int) *int {
	printer := model.Printer{
		Name:   sub.PrinterName,
		SiteID: siteID,
	}
	err := s.db.Where("name = ? AND site_id = ?", sub.PrinterName, siteID).
		FirstOrCreate(&printer).Error
	if err != nil {
		s.logger.WithError(err).WithField("printer", sub.PrinterName).Warn("printer lookup failed")
		return nil
	}

	updates := map[string]interface{}{}
	if sub.PrinterIP != "" && printer.IPAddress != sub.PrinterIP {
		updates["ip_address"] = sub.PrinterIP
	}
	if sub.IsColor && !printer.IsColor {
		updates["is_color"] = true
	}
	if sub.IsDuplex && !printer.IsDuplexCapable {
		updates["is_duplex_capable"] = true
	}
	if len(updates) > 0 {
		s.db.Model(&printer).Updates(updates)
	}

	return &printer.ID
}

func (s *Service) touchAgent(ctx context.Context, agent *model.Agent) {
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&model.Agent{}).
		Where("id = ?", agent.ID).
		Updates(map[string]interface{}{
			"last_seen":            now,
			"last_job_submitted":   now,
			"total_jobs_submitted": gorm.Expr("total_jobs_submitted + 1"),
		}).Error
	if err != nil {
		s.logger.WithError(err).WithField("agent_id", agent.ID).Warn("failed to update agent counters")
	}
}

// Filter narrows a listing query. Zero values mean "no filter".
type Filter struct {
	Username     string // substring
	DocumentName string // substring
	PrinterName  string // exact
	ComputerName string // exact
	Status       string
	SiteID       int
	AgentID      int
	IsColor      *bool
	IsDuplex     *bool
	StartDate    *time.Time
	EndDate      *time.Time
}

func (f Filter) apply(query *gorm.DB) *gorm.DB {
	if f.Username != "" {
		query = query.Where("username LIKE ?", "%"+f.Username+"%")
	}
	if f.DocumentName != "" {
		query = query.Where("document_name LIKE ?", "%"+f.DocumentName+"%")
	}
	if f.PrinterName != "" {
		query = query.Where("printer_name = ?", f.PrinterName)
	}
	if f.ComputerName != "" {
		query = query.Where("computer_name = ?", f.ComputerName)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.SiteID > 0 {
		query = query.Where("site_id = ?", f.SiteID)
	}
	if f.AgentID > 0 {
		query = query.Where("agent_id = ?", f.AgentID)
	}
	if f.IsColor != nil {
		query = query.Where("is_color = ?", *f.IsColor)
	}
	if f.IsDuplex != nil {
		query = query.Where("is_duplex = ?", *f.IsDuplex)
	}
	if f.StartDate != nil {
		query = query.Where("print_time >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("print_time <= ?", *f.EndDate)
	}
	return query
}

// List returns one page of jobs, newest print_time first, together with the
// total match count.
func (s *Service) List(ctx context.Context, f Filter, page, pageSize int) ([]model.PrintJob, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 1000 {
		pageSize = 1000
	}

	query := f.apply(s.db.WithContext(ctx).Model(&model.PrintJob{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []model.PrintJob
	err := query.
		Order("print_time DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// GetByID returns one job, or gorm.ErrRecordNotFound.
func (s *Service) GetByID(ctx context.Context, id int) (*model.PrintJob, error) {
	var job model.PrintJob
	if err := s.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete removes one job. Returns gorm.ErrRecordNotFound when absent.
// Admin-only housekeeping; ingested rows are otherwise immutable.
func (s *Service) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&model.PrintJob{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL 1062 / SQLite unique violation, matched the way the driver
	// surfaces them when translation is off.
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
