package models

import "time"

type Semester struct {
	ID    int       `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Start time.Time `db:"start_date" json:"start"`
	End   time.Time `db:"end_date" json:"end"`
	// RequiredHours is how many attendance hours a student owes this semester.
	RequiredHours int `db:"required_hours" json:"required_hours"`
	// PointThreshold is the fitness-test passing score for the semester.
	PointThreshold int `db:"point_threshold" json:"point_threshold"`
	// IllnessHoursPerWeek is the hour credit rate for approved medical leave.
	IllnessHoursPerWeek int       `db:"illness_hours_per_week" json:"illness_hours_per_week"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether the given instant falls inside the semester.
func (s *Semester) Covers(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}
