package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

const (
	// DashboardCachePattern matches every cached dashboard payload.
	DashboardCachePattern = "dashboard:*"
	dashboardSnapshotKey  = "dashboard:snapshot"
	recentMarksLimit      = 5
)

type dashboardRepository interface {
	Totals(ctx context.Context) (*models.DashboardTotals, error)
	RecentMarks(ctx context.Context, limit int) ([]models.MarkDetail, error)
	CourseSummaries(ctx context.Context) ([]models.CourseMarkSummary, error)
}

// DashboardService composes the dashboard snapshot from aggregate queries.
type DashboardService struct {
	repo     dashboardRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(repo dashboardRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// Snapshot returns the dashboard aggregates and whether they came from cache.
func (s *DashboardService) Snapshot(ctx context.Context) (*dto.DashboardSnapshot, bool, error) {
	var cached dto.DashboardSnapshot
	if s.cache.Get(ctx, dashboardSnapshotKey, &cached) {
		return &cached, true, nil
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard totals")
	}
	recent, err := s.repo.RecentMarks(ctx, recentMarksLimit)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent marks")
	}
	courses, err := s.repo.CourseSummaries(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course summaries")
	}

	snapshot := buildSnapshot(totals, recent, courses)
	snapshot.GeneratedAt = s.now().UTC()
	s.cache.Set(ctx, dashboardSnapshotKey, snapshot, s.cacheTTL)
	return snapshot, false, nil
}

// Invalidate drops cached dashboard payloads after mark writes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, DashboardCachePattern)
}

func buildSnapshot(totals *models.DashboardTotals, recent []models.MarkDetail, courses []models.CourseMarkSummary) *dto.DashboardSnapshot {
	snapshot := &dto.DashboardSnapshot{
		TotalStudents: totals.TotalStudents,
		TotalMarks:    totals.TotalMarks,
		TotalTeachers: totals.TotalTeachers,
		TotalCourses:  totals.TotalCourses,
		TotalPrograms: totals.TotalPrograms,
		RecentMarks:   make([]dto.RecentMark, 0, len(recent)),
		Courses:       make([]dto.CourseMarkOverview, 0, len(courses)),
	}
	if totals.AverageMark.Valid {
		snapshot.AverageMark = round2(totals.AverageMark.Float64)
	}
	if totals.MaxMark.Valid {
		snapshot.MaxMark = totals.MaxMark.Float64
	}
	if totals.MinMark.Valid {
		snapshot.MinMark = totals.MinMark.Float64
	}
	for _, m := range recent {
		snapshot.RecentMarks = append(snapshot.RecentMarks, dto.RecentMark{
			MarkID:      m.ID,
			StudentID:   m.StudentCode,
			StudentName: m.StudentFirstName + " " + m.StudentLastName,
			CourseCode:  m.CourseCode,
			Mark:        m.Mark.Mark,
			RecordedAt:  m.RecordedAt,
		})
	}
	for _, c := range courses {
		snapshot.Courses = append(snapshot.Courses, dto.CourseMarkOverview{
			CourseID:    c.CourseID,
			CourseCode:  c.CourseCode,
			CourseName:  c.CourseName,
			MarkCount:   c.MarkCount,
			AverageMark: round2(c.AverageMark),
			MinMark:     c.MinMark,
			MaxMark:     c.MaxMark,
		})
	}
	return snapshot
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
