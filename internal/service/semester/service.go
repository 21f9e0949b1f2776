package semester_service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
	"unisport-backend/internal/service"
)

type semesterService struct {
	semesterRepo repository.SemesterRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewSemesterService(semesterRepo repository.SemesterRepository, logger *zap.Logger) service.SemesterService {
	return &semesterService{
		semesterRepo: semesterRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// GetCurrent resolves the semester whose date range covers today. When no
// range matches, the most recently started semester is used instead; that
// situation usually means the semester table was not updated in time, so
// the fallback is logged.
func (s *semesterService) GetCurrent(ctx context.Context) (*models.Semester, error) {
	today := s.now()

	semester, err := s.semesterRepo.GetByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if semester != nil {
		return semester, nil
	}

	semester, err = s.semesterRepo.GetLatestByStart(ctx)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, service.ErrSemesterNotFound
	}

	s.logger.Warn("no semester covers today, falling back to the most recently started one",
		zap.Int("semester_id", semester.ID),
		zap.String("semester_name", semester.Name),
	)
	return semester, nil
}

func (s *semesterService) GetByID(ctx context.Context, id int) (*models.Semester, error) {
	semester, err := s.semesterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, service.ErrSemesterNotFound
	}
	return semester, nil
}

func (s *semesterService) GetAll(ctx context.Context) ([]models.Semester, error) {
	return s.semesterRepo.GetAll(ctx)
}
