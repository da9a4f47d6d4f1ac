package models

import "database/sql"

// DashboardTotals is the raw result of the totals aggregate query. Extremes and
// the average are NULL when no marks exist.
type DashboardTotals struct {
	TotalStudents int             `db:"total_students"`
	TotalTeachers int             `db:"total_teachers"`
	TotalCourses  int             `db:"total_courses"`
	TotalPrograms int             `db:"total_programs"`
	TotalMarks    int             `db:"total_marks"`
	AverageMark   sql.NullFloat64 `db:"average_mark"`
	MaxMark       sql.NullFloat64 `db:"max_mark"`
	MinMark       sql.NullFloat64 `db:"min_mark"`
}

// CourseMarkSummary aggregates marks for one course.
type CourseMarkSummary struct {
	CourseID    int64   `db:"course_id" json:"course_id"`
	CourseCode  string  `db:"course_code" json:"course_code"`
	CourseName  string  `db:"course_name" json:"course_name"`
	MarkCount   int     `db:"mark_count" json:"mark_count"`
	AverageMark float64 `db:"average_mark" json:"average_mark"`
	MinMark     float64 `db:"min_mark" json:"min_mark"`
	MaxMark     float64 `db:"max_mark" json:"max_mark"`
}
