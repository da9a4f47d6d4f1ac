package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

const studentFrom = `FROM students s
        LEFT JOIN programs p ON p.id = s.program_id
        LEFT JOIN streams st ON st.id = s.stream_id`

var studentListSpec = listSpec{
	from:          studentFrom,
	searchColumns: []string{"s.student_id", "s.first_name", "s.last_name", "s.national_id", "s.phone_number"},
	filterColumns: map[string]string{
		"gender":     "s.gender",
		"program_id": "s.program_id",
		"stream_id":  "s.stream_id",
	},
	sortColumns: map[string]string{
		"id":         "s.id",
		"student_id": "s.student_id",
		"first_name": "s.first_name",
		"last_name":  "s.last_name",
	},
	defaultSort: "s.id",
}

const studentColumns = `s.id, s.student_id, s.first_name, s.last_name, s.gender, s.national_id, s.phone_number,
        s.parent_name, s.parent_phone_number, s.program_id, s.stream_id, s.address_id`

const studentDetailColumns = studentColumns + `, p.name AS program_name, st.name AS stream_name`

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students joined with their program and stream names.
func (r *StudentRepository) List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, int, error) {
	q := studentListSpec.build(filter)
	var items []models.StudentDetail
	if err := r.db.SelectContext(ctx, &items, q.selectSQL(studentDetailColumns, studentListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q.countSQL(studentListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return items, total, nil
}

// ListForExport returns every student ordered by student identifier.
func (r *StudentRepository) ListForExport(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students s ORDER BY s.student_id", studentColumns)
	var items []models.Student
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list students for export: %w", err)
	}
	return items, nil
}

// FindByID returns a student detail by primary key.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	var item models.StudentDetail
	query := fmt.Sprintf("SELECT %s %s WHERE s.id = $1", studentDetailColumns, studentFrom)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByStudentID returns a student by its institutional identifier.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	var item models.Student
	query := fmt.Sprintf("SELECT %s FROM students s WHERE s.student_id = $1 LIMIT 1", studentColumns)
	if err := r.db.GetContext(ctx, &item, query, studentID); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsByStudentID reports whether another student already uses studentID.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, studentID, excludeID); err != nil {
		return false, fmt.Errorf("check student id: %w", err)
	}
	return exists, nil
}

// ExistsByNationalID reports whether another student already uses nationalID.
func (r *StudentRepository) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM students WHERE national_id = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, nationalID, excludeID); err != nil {
		return false, fmt.Errorf("check student national id: %w", err)
	}
	return exists, nil
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (student_id, first_name, last_name, gender, national_id, phone_number,
        parent_name, parent_phone_number, program_id, stream_id, address_id)
        VALUES (:student_id, :first_name, :last_name, :gender, :national_id, :phone_number,
        :parent_name, :parent_phone_number, :program_id, :stream_id, :address_id) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&student.ID); err != nil {
			return fmt.Errorf("scan student id: %w", err)
		}
	}
	return rows.Err()
}

// Update overwrites a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET student_id = :student_id, first_name = :first_name, last_name = :last_name,
        gender = :gender, national_id = :national_id, phone_number = :phone_number, parent_name = :parent_name,
        parent_phone_number = :parent_phone_number, program_id = :program_id, stream_id = :stream_id,
        address_id = :address_id WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a student and, through the foreign key, their marks.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return expectAffected(res)
}
