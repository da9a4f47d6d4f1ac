package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

// DashboardRepository runs the aggregate queries behind the dashboard. Every
// method issues exactly one statement regardless of table sizes.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Totals returns entity counts and mark extremes in a single round trip.
func (r *DashboardRepository) Totals(ctx context.Context) (*models.DashboardTotals, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students) AS total_students,
        (SELECT COUNT(*) FROM teachers) AS total_teachers,
        (SELECT COUNT(*) FROM courses) AS total_courses,
        (SELECT COUNT(*) FROM programs) AS total_programs,
        agg.total_marks, agg.average_mark, agg.max_mark, agg.min_mark
        FROM (SELECT COUNT(*) AS total_marks, AVG(mark)::float8 AS average_mark,
              MAX(mark)::float8 AS max_mark, MIN(mark)::float8 AS min_mark FROM marks) agg`
	var totals models.DashboardTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return &totals, nil
}

// RecentMarks returns the most recently recorded marks.
func (r *DashboardRepository) RecentMarks(ctx context.Context, limit int) ([]models.MarkDetail, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY m.recorded_at DESC, m.id DESC LIMIT $1", markDetailColumns, markFrom)
	var items []models.MarkDetail
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("dashboard recent marks: %w", err)
	}
	return items, nil
}

// CourseSummaries aggregates marks per course. Courses without marks are omitted.
func (r *DashboardRepository) CourseSummaries(ctx context.Context) ([]models.CourseMarkSummary, error) {
	const query = `SELECT c.id AS course_id, c.code AS course_code, c.name AS course_name,
        COUNT(m.id) AS mark_count, AVG(m.mark)::float8 AS average_mark,
        MIN(m.mark)::float8 AS min_mark, MAX(m.mark)::float8 AS max_mark
        FROM marks m JOIN courses c ON c.id = m.course_id
        GROUP BY c.id, c.code, c.name
        ORDER BY c.code`
	var items []models.CourseMarkSummary
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("dashboard course summaries: %w", err)
	}
	return items, nil
}
