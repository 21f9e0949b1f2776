package attendance_service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"unisport-backend/internal/models"
	"unisport-backend/internal/models/config"
	"unisport-backend/internal/repository"
	"unisport-backend/internal/service"
)

// hoursFloorMax mirrors the numeric(5,2) attendance column: any mark must
// floor below 10^3 or the insert would overflow the column.
const hoursFloorMax = 1000

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	trainingRepo   repository.TrainingRepository
	studentRepo    repository.StudentRepository
	rules          config.SportConfig
	logger         *zap.Logger
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	trainingRepo repository.TrainingRepository,
	studentRepo repository.StudentRepository,
	rules config.SportConfig,
	logger *zap.Logger,
) service.AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		trainingRepo:   trainingRepo,
		studentRepo:    studentRepo,
		rules:          rules,
		logger:         logger,
		now:            time.Now,
	}
}

// MarkHours is the attendance ledger: validate the whole batch first, then
// apply it in one transaction. A bad value rejects everything before any
// row is touched.
func (s *attendanceService) MarkHours(ctx context.Context, trainingID int, marks []models.StudentHoursEntry) error {
	for _, mark := range marks {
		if mark.StudentID <= 0 || mark.Hours < 0 {
			return &service.ValidationError{
				StudentID: mark.StudentID,
				Hours:     mark.Hours,
				Reason:    "all students id and marks must be non-negative",
			}
		}
		if math.Floor(mark.Hours) >= hoursFloorMax {
			return &service.ValidationError{
				StudentID: mark.StudentID,
				Hours:     mark.Hours,
				Reason:    fmt.Sprintf("all students marks must floor to less than %d", hoursFloorMax),
			}
		}
	}

	return s.attendanceRepo.MarkHours(ctx, trainingID, marks)
}

// GradeTraining checks the trainer's permission and the editable window,
// splits the batch into valid marks and violations, and commits nothing if
// any violation was collected.
func (s *attendanceService) GradeTraining(ctx context.Context, caller *models.Principal, trainingID int, marks []models.StudentHoursEntry) ([]models.GradeReportEntry, error) {
	training, err := s.authorize(ctx, caller, trainingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(training.Start) || now.After(training.Start.Add(s.rules.TrainingEditableInterval)) {
		return nil, &service.NotEditableError{Interval: s.rules.TrainingEditableInterval}
	}

	ids := make([]int, 0, len(marks))
	hoursByID := make(map[int]float64, len(marks))
	for _, mark := range marks {
		ids = append(ids, mark.StudentID)
		hoursByID[mark.StudentID] = mark.Hours
	}

	students, err := s.studentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	maxHours := float64(training.AcademicDuration)

	var toMark []models.StudentHoursEntry
	var report []models.GradeReportEntry
	var negative, overflow []models.GradeReportEntry

	for _, student := range students {
		hours := hoursByID[student.ID]
		switch {
		case hours < 0:
			negative = append(negative, models.GradeReportEntry{Email: student.Email, Hours: hours})
		case hours > maxHours:
			overflow = append(overflow, models.GradeReportEntry{Email: student.Email, Hours: hours})
		case student.Status != models.StudentStatusNormal:
			// Alumni and students on academic leave are skipped, not
			// reported as violations.
			continue
		default:
			toMark = append(toMark, models.StudentHoursEntry{StudentID: student.ID, Hours: hours})
			report = append(report, models.GradeReportEntry{Email: student.Email, Hours: hours})
		}
	}

	if len(negative) > 0 || len(overflow) > 0 {
		return nil, &service.GradeViolationsError{
			NegativeMarks: negative,
			OverflowMarks: overflow,
		}
	}

	if err := s.MarkHours(ctx, trainingID, toMark); err != nil {
		return nil, err
	}

	s.logger.Info("training graded",
		zap.Int("training_id", trainingID),
		zap.Int("marked", len(toMark)),
	)
	return report, nil
}

func (s *attendanceService) GetGrades(ctx context.Context, caller *models.Principal, trainingID int) ([]models.StudentGrade, error) {
	if _, err := s.authorize(ctx, caller, trainingID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.GetGrades(ctx, trainingID)
}

// authorize loads the training and verifies the caller may grade it:
// either an assigned trainer of the group, or staff/superuser.
func (s *attendanceService) authorize(ctx context.Context, caller *models.Principal, trainingID int) (*models.TrainingDetails, error) {
	training, err := s.trainingRepo.GetDetails(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if training == nil {
		return nil, service.ErrTrainingNotFound
	}

	if caller.CanGradeAnyGroup() {
		return training, nil
	}
	if caller.Trainer != nil && training.Roster.IsTrainer(caller.Trainer.ID) {
		return training, nil
	}
	return nil, service.ErrNotTrainerOfGroup
}
