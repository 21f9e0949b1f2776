package checkin_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"unisport-backend/internal/models"
	"unisport-backend/internal/models/config"
	"unisport-backend/internal/repository"
	"unisport-backend/internal/service"
)

type checkInService struct {
	checkInRepo  repository.CheckInRepository
	trainingRepo repository.TrainingRepository
	studentRepo  repository.StudentRepository
	rules        config.SportConfig
	logger       *zap.Logger
	now          func() time.Time
}

func NewCheckInService(
	checkInRepo repository.CheckInRepository,
	trainingRepo repository.TrainingRepository,
	studentRepo repository.StudentRepository,
	rules config.SportConfig,
	logger *zap.Logger,
) service.CheckInService {
	return &checkInService{
		checkInRepo:  checkInRepo,
		trainingRepo: trainingRepo,
		studentRepo:  studentRepo,
		rules:        rules,
		logger:       logger,
		now:          time.Now,
	}
}

// CheckIn registers the student for the training. The decision predicate
// runs twice: once up front for a fast answer, and again while holding the
// check-in lock so the capacity count the insert relies on is current.
func (s *checkInService) CheckIn(ctx context.Context, studentID, trainingID int) error {
	student, training, err := s.load(ctx, studentID, trainingID)
	if err != nil {
		return err
	}

	already, err := s.checkInRepo.Exists(ctx, studentID, trainingID)
	if err != nil {
		return err
	}
	if already {
		return service.ErrAlreadyCheckedIn
	}

	err = s.checkInRepo.CreateLocked(ctx, studentID, trainingID, func() error {
		allowed, err := s.evaluate(ctx, student, training.ID)
		if err != nil {
			return err
		}
		if !allowed {
			return service.ErrCheckInDenied
		}
		return nil
	})
	if errors.Is(err, repository.ErrDuplicateCheckIn) {
		// A retried request slipped past the lock; the unique constraint
		// caught it. Same outcome as the pre-check.
		return service.ErrAlreadyCheckedIn
	}
	if err != nil {
		return err
	}

	s.logger.Info("student checked in",
		zap.Int("student_id", studentID),
		zap.Int("training_id", trainingID),
	)
	return nil
}

func (s *checkInService) CancelCheckIn(ctx context.Context, studentID, trainingID int) error {
	_, training, err := s.load(ctx, studentID, trainingID)
	if err != nil {
		return err
	}

	already, err := s.checkInRepo.Exists(ctx, studentID, trainingID)
	if err != nil {
		return err
	}
	if !already {
		return service.ErrNotCheckedIn
	}

	if training.End.Before(s.now()) {
		return service.ErrTrainingFinished
	}

	deleted, err := s.checkInRepo.DeleteLocked(ctx, studentID, trainingID)
	if err != nil {
		return err
	}
	if !deleted {
		return service.ErrNotCheckedIn
	}

	s.logger.Info("student cancelled check-in",
		zap.Int("student_id", studentID),
		zap.Int("training_id", trainingID),
	)
	return nil
}

func (s *checkInService) CanCheckIn(ctx context.Context, studentID, trainingID int) (bool, error) {
	student, _, err := s.load(ctx, studentID, trainingID)
	if err != nil {
		return false, err
	}
	return s.evaluate(ctx, student, trainingID)
}

// evaluate fetches fresh training details and the student's same-day
// check-ins, then runs the pure predicate on them.
func (s *checkInService) evaluate(ctx context.Context, student *models.Student, trainingID int) (bool, error) {
	training, err := s.trainingRepo.GetDetails(ctx, trainingID)
	if err != nil {
		return false, fmt.Errorf("load training details: %w", err)
	}
	if training == nil {
		return false, service.ErrTrainingNotFound
	}

	checkins, err := s.checkInRepo.GetStudentDayCheckIns(ctx, student.ID, training.Start)
	if err != nil {
		return false, fmt.Errorf("load student check-ins: %w", err)
	}

	return CanCheckIn(s.rules, student, training, checkins, s.now()), nil
}

func (s *checkInService) load(ctx context.Context, studentID, trainingID int) (*models.Student, *models.Training, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	if student == nil {
		return nil, nil, service.ErrStudentNotFound
	}

	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		return nil, nil, err
	}
	if training == nil {
		return nil, nil, service.ErrTrainingNotFound
	}

	return student, training, nil
}
