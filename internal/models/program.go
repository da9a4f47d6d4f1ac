package models

// Program groups courses into a curriculum.
type Program struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Description  string `db:"description" json:"description"`
	TotalCourses int    `db:"total_courses" json:"total_courses"`
}

// ProgramDetail is a program together with its courses.
type ProgramDetail struct {
	Program
	Courses []Course `json:"courses"`
}
