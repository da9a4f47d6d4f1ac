package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

var courseListSpec = listSpec{
	from:          "FROM courses c",
	searchColumns: []string{"c.code", "c.name", "c.description"},
	filterColumns: map[string]string{
		"created_at": "c.created_at::date",
		"updated_at": "c.updated_at::date",
	},
	sortColumns: map[string]string{
		"id":         "c.id",
		"code":       "c.code",
		"name":       "c.name",
		"created_at": "c.created_at",
	},
	defaultSort: "c.created_at",
}

const courseColumns = "c.id, c.code, c.name, c.description, c.created_at, c.updated_at"

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching the filter.
func (r *CourseRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Course, int, error) {
	q := courseListSpec.build(filter)
	var items []models.Course
	if err := r.db.SelectContext(ctx, &items, q.selectSQL(courseColumns, courseListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q.countSQL(courseListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a course by primary key.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	var item models.Course
	query := fmt.Sprintf("SELECT %s FROM courses c WHERE c.id = $1", courseColumns)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByCode fetches a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	var item models.Course
	query := fmt.Sprintf("SELECT %s FROM courses c WHERE c.code = $1 LIMIT 1", courseColumns)
	if err := r.db.GetContext(ctx, &item, query, code); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsByCode reports whether a course other than excludeID already uses code.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM courses WHERE code = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, code, excludeID); err != nil {
		return false, fmt.Errorf("check course code: %w", err)
	}
	return exists, nil
}

// Create inserts a course and fills its generated columns.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (code, name, description) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query, course.Code, course.Name, course.Description).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update overwrites a course and refreshes updated_at.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET code = $1, name = $2, description = $3, updated_at = NOW() WHERE id = $4 RETURNING updated_at`
	if err := r.db.QueryRowxContext(ctx, query, course.Code, course.Name, course.Description, course.ID).Scan(&course.UpdatedAt); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course together with its marks and program links.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return expectAffected(res)
}
