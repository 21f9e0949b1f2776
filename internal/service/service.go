package service

import (
	"context"
	"time"

	"unisport-backend/internal/models"
)

type SemesterService interface {
	// GetCurrent resolves the ongoing semester by date range. When no
	// semester covers today, the most recently started one is returned.
	GetCurrent(ctx context.Context) (*models.Semester, error)
	GetByID(ctx context.Context, id int) (*models.Semester, error)
	GetAll(ctx context.Context) ([]models.Semester, error)
}

type CheckInService interface {
	// CheckIn registers the student for the training after re-running the
	// eligibility rules under the check-in lock.
	CheckIn(ctx context.Context, studentID, trainingID int) error
	// CancelCheckIn removes an existing check-in; rejected once the
	// training has ended.
	CancelCheckIn(ctx context.Context, studentID, trainingID int) error
	// CanCheckIn evaluates the eligibility rules without side effects.
	CanCheckIn(ctx context.Context, studentID, trainingID int) (bool, error)
}

type AttendanceService interface {
	// MarkHours validates and applies a (student, hours) batch for one
	// training: the attendance ledger. The whole batch is rejected before
	// any write on a bad value.
	MarkHours(ctx context.Context, trainingID int, marks []models.StudentHoursEntry) error
	// GradeTraining is the trainer-facing flow on top of MarkHours:
	// permission and editable-window checks, negative/overflow collection,
	// silent skip of non-Normal students. Returns the marks actually put.
	GradeTraining(ctx context.Context, caller *models.Principal, trainingID int, marks []models.StudentHoursEntry) ([]models.GradeReportEntry, error)
	// GetGrades returns the grading sheet for the training.
	GetGrades(ctx context.Context, caller *models.Principal, trainingID int) ([]models.StudentGrade, error)
}

type HoursService interface {
	GetStudentHours(ctx context.Context, student *models.Student) (*models.StudentHours, error)
	// GetNegativeHours is the student's net standing for the ongoing
	// semester after subtracting carried debt.
	GetNegativeHours(ctx context.Context, student *models.Student) (float64, error)
	// BetterThan is the percentile rank of the student among all students
	// by current-semester hours minus debt.
	BetterThan(ctx context.Context, studentID int) (float64, error)
	GetBriefHours(ctx context.Context, student *models.Student) ([]models.BriefSemesterHours, error)
	GetDetailedHours(ctx context.Context, studentID, semesterID int) ([]models.HistoryEntry, error)
	GetHoursSummary(ctx context.Context, studentID int) (*models.HoursSummary, error)
}

type TrainingService interface {
	// GetCalendar lists the trainings visible to the caller in the range,
	// merging the student and trainer perspectives.
	GetCalendar(ctx context.Context, caller *models.Principal, start, end time.Time) ([]models.TrainingListItem, error)
	GetGroupInfo(ctx context.Context, groupID int) (*models.GroupInfo, error)
}
