package models

import "time"

// Attendance - итоговая запись часов студента за тренировку.
// Unique per (student, training); a zero-hour record is never stored,
// deleting is equivalent to setting hours to zero.
type Attendance struct {
	ID         int     `db:"id" json:"id"`
	StudentID  int     `db:"student_id" json:"student_id"`
	TrainingID int     `db:"training_id" json:"training_id"`
	Hours      float64 `db:"hours" json:"hours"`
	// CauseReportID is set when the hours came from an approved self-sport
	// report instead of physical group attendance.
	CauseReportID *int `db:"cause_report_id" json:"cause_report_id"`
	// CauseReferenceID is set when the hours came from a medical reference.
	CauseReferenceID *int      `db:"cause_reference_id" json:"cause_reference_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceRecord is the slice of an attendance row the hour aggregation
// partitions on.
type AttendanceRecord struct {
	Hours float64 `db:"hours"`
	// CauseDebt is nil for ordinary group attendance, otherwise the
	// debt flag of the causing self-sport report.
	CauseDebt *bool `db:"cause_debt"`
}

// StudentHoursEntry is a batch item of the trainer grading flow.
type StudentHoursEntry struct {
	StudentID int     `json:"student_id" validate:"required"`
	Hours     float64 `json:"hours"`
}

// GradeReportEntry names one student's mark in grading responses and in
// the negative/overflow violation lists.
type GradeReportEntry struct {
	Email string  `json:"email"`
	Hours float64 `json:"hours"`
}

// HistoryEntry is one row of the unified per-semester training history:
// group attendance, self-sport reports and medical references together.
// Self-sport and medical rows carry GroupID = SpecialGroupID.
type HistoryEntry struct {
	GroupID    int       `db:"group_id" json:"group_id"`
	Group      string    `db:"group_name" json:"group"`
	CustomName *string   `db:"custom_name" json:"custom_name"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Hours      float64   `db:"hours" json:"hours"`
	Approved   bool      `db:"approved" json:"approved"`
}
