package dto

import "time"

// DashboardSnapshot is the read-only aggregate view rendered on the dashboard.
// Average, maximum and minimum are 0 when no marks exist.
type DashboardSnapshot struct {
	TotalStudents int                  `json:"total_students"`
	TotalMarks    int                  `json:"total_marks"`
	AverageMark   float64              `json:"average_mark"`
	MaxMark       float64              `json:"max_mark"`
	MinMark       float64              `json:"min_mark"`
	TotalTeachers int                  `json:"total_teachers"`
	TotalCourses  int                  `json:"total_courses"`
	TotalPrograms int                  `json:"total_programs"`
	RecentMarks   []RecentMark         `json:"recent_marks"`
	Courses       []CourseMarkOverview `json:"courses"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

// RecentMark is a recently recorded mark with display names resolved.
type RecentMark struct {
	MarkID      int64     `json:"mark_id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	CourseCode  string    `json:"course_code"`
	Mark        float64   `json:"mark"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// CourseMarkOverview summarises the marks of one course.
type CourseMarkOverview struct {
	CourseID    int64   `json:"course_id"`
	CourseCode  string  `json:"course_code"`
	CourseName  string  `json:"course_name"`
	MarkCount   int     `json:"mark_count"`
	AverageMark float64 `json:"average_mark"`
	MinMark     float64 `json:"min_mark"`
	MaxMark     float64 `json:"max_mark"`
}
