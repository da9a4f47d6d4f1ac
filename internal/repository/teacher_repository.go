package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

const teacherFrom = `FROM teachers t JOIN users u ON u.id = t.user_id`

var teacherListSpec = listSpec{
	from:          teacherFrom,
	searchColumns: []string{"u.first_name", "u.last_name", "u.username", "t.national_id", "t.phone_number"},
	filterColumns: map[string]string{"gender": "t.gender"},
	sortColumns: map[string]string{
		"id":                  "t.id",
		"username":            "u.username",
		"last_name":           "u.last_name",
		"years_of_experience": "t.years_of_experience",
	},
	defaultSort: "t.id",
}

const teacherDetailColumns = `t.id, t.user_id, t.date_of_birth, t.gender, t.national_id, t.phone_number, t.address_id,
        t.qualifications, t.years_of_experience, u.username, u.first_name, u.last_name, u.email`

// TeacherRepository manages teachers and the user accounts they are bound to.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers joined with their account names.
func (r *TeacherRepository) List(ctx context.Context, filter models.ListFilter) ([]models.TeacherDetail, int, error) {
	q := teacherListSpec.build(filter)
	var items []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &items, q.selectSQL(teacherDetailColumns, teacherListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q.countSQL(teacherListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return items, total, nil
}

// FindByID returns a teacher detail.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.TeacherDetail, error) {
	var item models.TeacherDetail
	query := fmt.Sprintf("SELECT %s %s WHERE t.id = $1", teacherDetailColumns, teacherFrom)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *TeacherRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// ExistsByNationalID reports whether another teacher already uses nationalID.
func (r *TeacherRepository) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM teachers WHERE national_id = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, nationalID, excludeID); err != nil {
		return false, fmt.Errorf("check teacher national id: %w", err)
	}
	return exists, nil
}

// Create inserts the user account and the teacher profile in one transaction.
func (r *TeacherRepository) Create(ctx context.Context, user *models.User, teacher *models.Teacher) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (username, first_name, last_name, email, password_hash)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	if err = tx.QueryRowxContext(ctx, userQuery, user.Username, user.FirstName, user.LastName, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt); err != nil {
		return fmt.Errorf("create teacher user: %w", err)
	}

	teacher.UserID = user.ID
	const teacherQuery = `INSERT INTO teachers (user_id, date_of_birth, gender, national_id, phone_number, address_id,
        qualifications, years_of_experience) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err = tx.QueryRowxContext(ctx, teacherQuery, teacher.UserID, teacher.DateOfBirth, teacher.Gender, teacher.NationalID,
		teacher.PhoneNumber, teacher.AddressID, teacher.Qualifications, teacher.YearsOfExperience).Scan(&teacher.ID); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create teacher: %w", err)
	}
	return nil
}

// Update overwrites the teacher profile and the name fields of its account.
func (r *TeacherRepository) Update(ctx context.Context, detail *models.TeacherDetail) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update teacher: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const teacherQuery = `UPDATE teachers SET date_of_birth = $1, gender = $2, national_id = $3, phone_number = $4,
        address_id = $5, qualifications = $6, years_of_experience = $7 WHERE id = $8`
	res, err := tx.ExecContext(ctx, teacherQuery, detail.DateOfBirth, detail.Gender, detail.NationalID, detail.PhoneNumber,
		detail.AddressID, detail.Qualifications, detail.YearsOfExperience, detail.ID)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}
	const userQuery = `UPDATE users SET first_name = $1, last_name = $2, email = $3 WHERE id = $4`
	if _, err = tx.ExecContext(ctx, userQuery, detail.FirstName, detail.LastName, detail.Email, detail.UserID); err != nil {
		return fmt.Errorf("update teacher user: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update teacher: %w", err)
	}
	return nil
}

// Delete removes the teacher's user account, which cascades to the profile.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = (SELECT user_id FROM teachers WHERE id = $1)`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return expectAffected(res)
}
