package reports

import (
	"context"

	"printtrack/internal/model"

	"gorm.io/gorm"
)

// Service computes grouped statistics over persisted print jobs. Purely
// derived: every call reads the latest committed rows, no caching.
type Service struct {
	db *gorm.DB
}

// NewService creates the reporting service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ScopeFilter narrows reports to one site and/or agent.
type ScopeFilter struct {
	SiteID  int
	AgentID int
}

func (s *Service) scoped(ctx context.Context, r Range, scope ScopeFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&model.PrintJob{}).
		Where("print_time >= ? AND print_time <= ?", r.Start, r.End)
	if scope.SiteID > 0 {
		query = query.Where("site_id = ?", scope.SiteID)
	}
	if scope.AgentID > 0 {
		query = query.Where("agent_id = ?", scope.AgentID)
	}
	return query
}

// Overview returns totals for the range.
func (s *Service) Overview(ctx context.Context, r Range, scope ScopeFilter) (*Overview, error) {
	var out Overview
	err := s.scoped(ctx, r, scope).
		Select(`COUNT(id) AS total_jobs,
			COALESCE(SUM(total_pages), 0) AS total_pages,
			COALESCE(SUM(CASE WHEN is_color THEN total_pages ELSE 0 END), 0) AS color_pages,
			COALESCE(SUM(CASE WHEN is_color THEN 0 ELSE total_pages END), 0) AS bw_pages,
			COALESCE(SUM(CASE WHEN is_duplex THEN 1 ELSE 0 END), 0) AS duplex_jobs,
			COUNT(DISTINCT username) AS unique_users,
			COUNT(DISTINCT printer_name) AS unique_printers`).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Trends returns a continuous daily series for the range.
func (s *Service) Trends(ctx context.Context, r Range, scope ScopeFilter) ([]DayBucket, error) {
	var rows []DayBucket
	err := s.scoped(ctx, r, scope).
		Select(`DATE_FORMAT(print_time, '%Y-%m-%d') AS bucket,
			COUNT(id) AS total_jobs,
			COALESCE(SUM(total_pages), 0) AS total_pages,
			COALESCE(SUM(CASE WHEN is_color THEN total_pages ELSE 0 END), 0) AS color_pages,
			COALESCE(SUM(CASE WHEN is_duplex THEN 1 ELSE 0 END), 0) AS duplex_jobs`).
		Group("bucket").
		Order("bucket ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return fillDaily(r, rows), nil
}

// ByUser returns the per-user leaderboard, heaviest first.
func (s *Service) ByUser(ctx context.Context, r Range, scope ScopeFilter, limit int) ([]UserStat, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var rows []UserStat
	err := s.scoped(ctx, r, scope).
		Select(`username,
			COUNT(id) AS total_jobs,
			COALESCE(SUM(total_pages), 0) AS total_pages,
			COALESCE(SUM(CASE WHEN is_color THEN total_pages ELSE 0 END), 0) AS color_pages,
			MAX(print_time) AS last_print`).
		Group("username").
		Order("total_pages DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ByPrinter returns the per-printer leaderboard, heaviest first.
func (s *Service) ByPrinter(ctx context.Context, r Range, scope ScopeFilter, limit int) ([]PrinterStat, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	var rows []PrinterStat
	err := s.scoped(ctx, r, scope).
		Select(`printer_name,
			COUNT(id) AS total_jobs,
			COALESCE(SUM(total_pages), 0) AS total_pages,
			COALESCE(SUM(CASE WHEN is_color THEN total_pages ELSE 0 END), 0) AS color_pages,
			COUNT(DISTINCT username) AS unique_users,
			MAX(print_time) AS last_used`).
		Group("printer_name").
		Order("total_pages DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ExportJobs streams the raw rows for a CSV export, oldest first so the
// file reads chronologically.
func (s *Service) ExportJobs(ctx context.Context, r Range, scope ScopeFilter) ([]model.PrintJob, error) {
	var jobs []model.PrintJob
	err := s.scoped(ctx, r, scope).
		Order("print_time ASC, id ASC").
		Find(&jobs).Error
	return jobs, err
}
