package models

import "time"

// Stream is an academic cohort or intake window.
type Stream struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	StartDate Date   `db:"start_date" json:"start_date"`
	EndDate   Date   `db:"end_date" json:"end_date"`
	IsActive  bool   `db:"-" json:"is_active"`
}

// ActiveOn reports whether the stream window contains the given day.
func (s Stream) ActiveOn(now time.Time) bool {
	today := Date{time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
	return !today.Before(s.StartDate) && !s.EndDate.Before(today)
}
