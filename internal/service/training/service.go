package training_service

import (
	"context"
	"sort"
	"time"

	"unisport-backend/internal/models"
	"unisport-backend/internal/models/config"
	"unisport-backend/internal/repository"
	"unisport-backend/internal/service"
	checkin_service "unisport-backend/internal/service/checkin"
)

type trainingService struct {
	trainingRepo    repository.TrainingRepository
	checkInRepo     repository.CheckInRepository
	groupRepo       repository.GroupRepository
	semesterService service.SemesterService
	rules           config.SportConfig
	now             func() time.Time
}

func NewTrainingService(
	trainingRepo repository.TrainingRepository,
	checkInRepo repository.CheckInRepository,
	groupRepo repository.GroupRepository,
	semesterService service.SemesterService,
	rules config.SportConfig,
) service.TrainingService {
	return &trainingService{
		trainingRepo:    trainingRepo,
		checkInRepo:     checkInRepo,
		groupRepo:       groupRepo,
		semesterService: semesterService,
		rules:           rules,
		now:             time.Now,
	}
}

// GetCalendar merges the trainings the caller sees as a student with the
// ones they teach. When both views contain a training, the trainer's
// grading right wins.
func (s *trainingService) GetCalendar(ctx context.Context, caller *models.Principal, start, end time.Time) ([]models.TrainingListItem, error) {
	semester, err := s.semesterService.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	combined := make(map[int]models.TrainingListItem)

	if caller.Student != nil {
		items, err := s.forStudent(ctx, caller.Student, semester.ID, start, end)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			combined[item.ID] = item
		}
	}

	if caller.Trainer != nil {
		trainings, err := s.trainingRepo.GetForTrainer(ctx, caller.Trainer.ID, semester.ID, start, end)
		if err != nil {
			return nil, err
		}
		for i := range trainings {
			if item, ok := combined[trainings[i].ID]; ok {
				item.CanGrade = true
				combined[trainings[i].ID] = item
				continue
			}
			item := listItem(&trainings[i])
			item.CanGrade = true
			combined[trainings[i].ID] = item
		}
	}

	items := make([]models.TrainingListItem, 0, len(combined))
	for _, item := range combined {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Start.Before(items[j].Start) })
	return items, nil
}

func (s *trainingService) forStudent(ctx context.Context, student *models.Student, semesterID int, start, end time.Time) ([]models.TrainingListItem, error) {
	trainings, err := s.trainingRepo.GetForStudent(ctx, student, semesterID, start, end)
	if err != nil {
		return nil, err
	}

	checkins, err := s.checkInRepo.GetStudentCheckInsRange(ctx, student.ID, start, end)
	if err != nil {
		return nil, err
	}
	checkedIn := make(map[int]bool, len(checkins))
	for _, c := range checkins {
		checkedIn[c.TrainingID] = true
	}

	now := s.now()
	items := make([]models.TrainingListItem, 0, len(trainings))
	for i := range trainings {
		item := listItem(&trainings[i])
		item.CanCheckIn = checkin_service.CanCheckIn(s.rules, student, &trainings[i], checkins, now)
		item.CheckedIn = checkedIn[trainings[i].ID]
		items = append(items, item)
	}
	return items, nil
}

func listItem(t *models.TrainingDetails) models.TrainingListItem {
	return models.TrainingListItem{
		ID:              t.ID,
		Start:           t.Start,
		End:             t.End,
		GroupID:         t.GroupID,
		GroupName:       t.Group.FrontendName(),
		TrainingClass:   t.TrainingClass,
		GroupAccredited: t.Group.Accredited,
	}
}

func (s *trainingService) GetGroupInfo(ctx context.Context, groupID int) (*models.GroupInfo, error) {
	semester, err := s.semesterService.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	info, err := s.groupRepo.GetInfo(ctx, groupID, semester.ID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, service.ErrGroupNotFound
	}
	return info, nil
}
