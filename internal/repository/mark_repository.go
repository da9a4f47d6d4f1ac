package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

const markFrom = `FROM marks m
        JOIN students s ON s.id = m.student_id
        JOIN courses c ON c.id = m.course_id`

var markListSpec = listSpec{
	from:          markFrom,
	searchColumns: []string{"s.student_id", "s.first_name", "s.last_name", "c.code", "c.name"},
	filterColumns: map[string]string{
		"course_id":  "m.course_id",
		"student_id": "m.student_id",
	},
	sortColumns: map[string]string{
		"id":          "m.id",
		"mark":        "m.mark",
		"recorded_at": "m.recorded_at",
	},
	defaultSort: "m.recorded_at",
}

const markColumns = "m.id, m.student_id, m.course_id, m.mark, m.recorded_at, m.file_upload"

const markDetailColumns = markColumns + `, s.student_id AS student_code, s.first_name AS student_first_name,
        s.last_name AS student_last_name, c.code AS course_code, c.name AS course_name`

const insertMarkQuery = `INSERT INTO marks (student_id, course_id, mark, file_upload) VALUES ($1, $2, $3, $4) RETURNING id, recorded_at`

// MarkRepository manages persistence for marks.
type MarkRepository struct {
	db *sqlx.DB
}

// NewMarkRepository constructs a MarkRepository.
func NewMarkRepository(db *sqlx.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// List returns marks joined with student and course identifiers.
func (r *MarkRepository) List(ctx context.Context, filter models.ListFilter) ([]models.MarkDetail, int, error) {
	q := markListSpec.build(filter)
	var items []models.MarkDetail
	if err := r.db.SelectContext(ctx, &items, q.selectSQL(markDetailColumns, markListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("list marks: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q.countSQL(markListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("count marks: %w", err)
	}
	return items, total, nil
}

// ListForExport returns mark details, optionally restricted to one course.
func (r *MarkRepository) ListForExport(ctx context.Context, courseID *int64) ([]models.MarkDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE ($1::bigint IS NULL OR m.course_id = $1) ORDER BY c.code, s.student_id, m.recorded_at", markDetailColumns, markFrom)
	var items []models.MarkDetail
	if err := r.db.SelectContext(ctx, &items, query, courseID); err != nil {
		return nil, fmt.Errorf("list marks for export: %w", err)
	}
	return items, nil
}

// FindByID returns a mark detail.
func (r *MarkRepository) FindByID(ctx context.Context, id int64) (*models.MarkDetail, error) {
	var item models.MarkDetail
	query := fmt.Sprintf("SELECT %s %s WHERE m.id = $1", markDetailColumns, markFrom)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts one mark in its own implicit transaction.
func (r *MarkRepository) Create(ctx context.Context, mark *models.Mark) error {
	if err := r.db.QueryRowxContext(ctx, insertMarkQuery, mark.StudentID, mark.CourseID, mark.Mark, mark.FileUpload).
		Scan(&mark.ID, &mark.RecordedAt); err != nil {
		return fmt.Errorf("create mark: %w", err)
	}
	return nil
}

// CreateBatch inserts all marks in one transaction; nothing persists on failure.
func (r *MarkRepository) CreateBatch(ctx context.Context, marks []models.Mark) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create marks: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range marks {
		if err = tx.QueryRowxContext(ctx, insertMarkQuery, marks[i].StudentID, marks[i].CourseID, marks[i].Mark, marks[i].FileUpload).
			Scan(&marks[i].ID, &marks[i].RecordedAt); err != nil {
			return fmt.Errorf("create mark %d: %w", i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create marks: %w", err)
	}
	return nil
}

// Update changes the mark value and its references.
func (r *MarkRepository) Update(ctx context.Context, mark *models.Mark) error {
	const query = `UPDATE marks SET student_id = $1, course_id = $2, mark = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, mark.StudentID, mark.CourseID, mark.Mark, mark.ID)
	if err != nil {
		return fmt.Errorf("update mark: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a mark.
func (r *MarkRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM marks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mark: %w", err)
	}
	return expectAffected(res)
}
