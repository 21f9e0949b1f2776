package service

import (
	"errors"
	"fmt"
	"time"

	"unisport-backend/internal/models"
)

// Expected business outcomes. The web layer maps each of these to a
// structured client error; none of them is a server fault.
var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrTrainingNotFound = errors.New("training not found")
	ErrSemesterNotFound = errors.New("semester not found")
	ErrGroupNotFound    = errors.New("group not found")

	// ErrAlreadyCheckedIn covers both the pre-check and a duplicate insert
	// racing past the lock.
	ErrAlreadyCheckedIn = errors.New("you have already checked in at this training")
	ErrNotCheckedIn     = errors.New("you are not checked in at this training")
	ErrCheckInDenied    = errors.New("you cannot check in at this training")
	ErrTrainingFinished = errors.New("you cannot cancel check-in for a finished training")

	ErrNotTrainerOfGroup = errors.New("you are not a teacher of this group")
)

// NotEditableError rejects grading outside the editable window and carries
// the configured interval for user feedback.
type NotEditableError struct {
	Interval time.Duration
}

func (e *NotEditableError) Error() string {
	return fmt.Sprintf("training not editable before it or after %d days",
		int(e.Interval.Hours())/24)
}

// ValidationError rejects a malformed ledger batch before any mutation.
type ValidationError struct {
	StudentID int
	Hours     float64
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s, got (%d, %v)", e.Reason, e.StudentID, e.Hours)
}

// GradeViolationsError rejects a grading batch wholesale. Both violation
// lists are surfaced so the caller can correct and resubmit.
type GradeViolationsError struct {
	NegativeMarks []models.GradeReportEntry
	OverflowMarks []models.GradeReportEntry
}

func (e *GradeViolationsError) Error() string {
	return fmt.Sprintf("some students received negative marks or more than maximum (%d negative, %d overflow)",
		len(e.NegativeMarks), len(e.OverflowMarks))
}
