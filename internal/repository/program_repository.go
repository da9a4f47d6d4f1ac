package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/student-records-api/internal/models"
)

var programListSpec = listSpec{
	from:          "FROM programs p",
	searchColumns: []string{"p.name", "p.description"},
	sortColumns: map[string]string{
		"id":   "p.id",
		"name": "p.name",
	},
	defaultSort: "p.id",
}

const programColumns = "p.id, p.name, p.description, (SELECT COUNT(*) FROM program_courses pc WHERE pc.program_id = p.id) AS total_courses"

// ProgramRepository manages programs and their course sets.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs a ProgramRepository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs with their course counts.
func (r *ProgramRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Program, int, error) {
	q := programListSpec.build(filter)
	var items []models.Program
	if err := r.db.SelectContext(ctx, &items, q.selectSQL(programColumns, programListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q.countSQL(programListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a program with its course count.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	var item models.Program
	query := fmt.Sprintf("SELECT %s FROM programs p WHERE p.id = $1", programColumns)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Courses lists the courses attached to a program ordered by code.
func (r *ProgramRepository) Courses(ctx context.Context, programID int64) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses c
        JOIN program_courses pc ON pc.course_id = c.id
        WHERE pc.program_id = $1 ORDER BY c.code`, courseColumns)
	var items []models.Course
	if err := r.db.SelectContext(ctx, &items, query, programID); err != nil {
		return nil, fmt.Errorf("list program courses: %w", err)
	}
	return items, nil
}

// Create inserts a program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	const query = `INSERT INTO programs (name, description) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, program.Name, program.Description).Scan(&program.ID); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// Update overwrites program fields.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	res, err := r.db.ExecContext(ctx, `UPDATE programs SET name = $1, description = $2 WHERE id = $3`, program.Name, program.Description, program.ID)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a program. Course links cascade and students are detached.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return expectAffected(res)
}

// SetCourses replaces the program's course set atomically.
func (r *ProgramRepository) SetCourses(ctx context.Context, programID int64, courseIDs []int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set program courses: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM program_courses WHERE program_id = $1`, programID); err != nil {
		return fmt.Errorf("clear program courses: %w", err)
	}
	if len(courseIDs) > 0 {
		const insert = `INSERT INTO program_courses (program_id, course_id)
        SELECT $1, UNNEST($2::bigint[]) ON CONFLICT DO NOTHING`
		if _, err = tx.ExecContext(ctx, insert, programID, pq.Array(courseIDs)); err != nil {
			return fmt.Errorf("insert program courses: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit program courses: %w", err)
	}
	return nil
}
