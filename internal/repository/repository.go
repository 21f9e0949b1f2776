package repository

import (
	"context"
	"time"

	"unisport-backend/internal/models"
)

type SemesterRepository interface {
	// GetByDate returns the semester whose range covers the given day,
	// or nil when none does.
	GetByDate(ctx context.Context, date time.Time) (*models.Semester, error)
	// GetLatestByStart returns the most recently started semester.
	GetLatestByStart(ctx context.Context) (*models.Semester, error)
	GetByID(ctx context.Context, id int) (*models.Semester, error)
	GetAll(ctx context.Context) ([]models.Semester, error)
	// GetPastSemesters returns semesters that ended before the given
	// instant, most recent first.
	GetPastSemesters(ctx context.Context, before time.Time) ([]models.Semester, error)
	IsOnAcademicLeave(ctx context.Context, semesterID, studentID int) (bool, error)
}

type StudentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	// GetByIDs returns the listed students; unknown ids are omitted.
	GetByIDs(ctx context.Context, ids []int) ([]models.Student, error)
	GetTrainerByID(ctx context.Context, id int) (*models.Trainer, error)
}

type GroupRepository interface {
	GetByID(ctx context.Context, id int) (*models.Group, error)
	// GetInfo returns the detailed group card for the given semester,
	// nil when the group does not belong to it.
	GetInfo(ctx context.Context, groupID, semesterID int) (*models.GroupInfo, error)
	GetRoster(ctx context.Context, groupID int) (*models.GroupRoster, error)
	IsTrainerOfGroup(ctx context.Context, groupID, trainerID int) (bool, error)
}

type TrainingRepository interface {
	GetByID(ctx context.Context, id int) (*models.Training, error)
	// GetDetails loads the training with group, roster and check-in count.
	GetDetails(ctx context.Context, id int) (*models.TrainingDetails, error)
	// GetForStudent lists current-semester trainings in the range the
	// student is allowed to see: sportless special groups are hidden, the
	// medical-group or allowed-list filter applies, banned students see
	// nothing of the group.
	GetForStudent(ctx context.Context, student *models.Student, semesterID int, start, end time.Time) ([]models.TrainingDetails, error)
	GetForTrainer(ctx context.Context, trainerID, semesterID int, start, end time.Time) ([]models.TrainingDetails, error)
}

type CheckInRepository interface {
	Exists(ctx context.Context, studentID, trainingID int) (bool, error)
	CountForTraining(ctx context.Context, trainingID int) (int, error)
	// GetStudentDayCheckIns returns the student's check-ins for trainings
	// starting on the same calendar day as the given instant.
	GetStudentDayCheckIns(ctx context.Context, studentID int, day time.Time) ([]models.CheckInWithTraining, error)
	GetStudentCheckInsRange(ctx context.Context, studentID int, start, end time.Time) ([]models.CheckInWithTraining, error)
	// CreateLocked inserts the check-in under the global check-in advisory
	// lock. The recheck callback runs while the lock is held; returning an
	// error aborts the insert. A duplicate insert surfaces as
	// ErrDuplicateCheckIn.
	CreateLocked(ctx context.Context, studentID, trainingID int, recheck func() error) error
	// DeleteLocked removes the check-in under the same lock; reports
	// whether a row existed.
	DeleteLocked(ctx context.Context, studentID, trainingID int) (bool, error)
}

type AttendanceRepository interface {
	// MarkHours applies the whole batch in one transaction: positive hours
	// are upserted, zero hours delete the row if present.
	MarkHours(ctx context.Context, trainingID int, marks []models.StudentHoursEntry) error
	// GetSemesterRecords returns the student's attendance rows of one
	// semester with the debt flag of the causing report, if any.
	GetSemesterRecords(ctx context.Context, studentID, semesterID int) ([]models.AttendanceRecord, error)
	// GetGrades lists students who checked in or already have hours for
	// the training, with their current hours.
	GetGrades(ctx context.Context, trainingID int) ([]models.StudentGrade, error)
	// GetDetailedHistory merges attendance, unattached self-sport reports
	// and unattached medical references of one semester, ordered by time.
	GetDetailedHistory(ctx context.Context, studentID, semesterID int) ([]models.HistoryEntry, error)
	// GetComplexScores returns every student's semester hours minus debt.
	GetComplexScores(ctx context.Context, semesterID int) ([]models.StudentScore, error)
}

type DebtRepository interface {
	// Get returns the carried debt, 0 when no row exists.
	Get(ctx context.Context, studentID, semesterID int) (int, error)
}
