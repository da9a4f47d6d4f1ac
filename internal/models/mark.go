package models

import "time"

// Bounds of a valid mark.
const (
	MinMark = 0.0
	MaxMark = 100.0
)

// Mark is one recorded grade for a student in a course.
type Mark struct {
	ID         int64     `db:"id" json:"id"`
	StudentID  int64     `db:"student_id" json:"student_id"`
	CourseID   int64     `db:"course_id" json:"course_id"`
	Mark       float64   `db:"mark" json:"mark"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	FileUpload *string   `db:"file_upload" json:"file_upload,omitempty"`
}

// MarkDetail joins a mark with student and course identifiers for display.
type MarkDetail struct {
	Mark
	StudentCode      string `db:"student_code" json:"student_code"`
	StudentFirstName string `db:"student_first_name" json:"student_first_name"`
	StudentLastName  string `db:"student_last_name" json:"student_last_name"`
	CourseCode       string `db:"course_code" json:"course_code"`
	CourseName       string `db:"course_name" json:"course_name"`
}
