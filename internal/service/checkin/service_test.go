package checkin_service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
	"unisport-backend/internal/service"
)

type fakeStudentRepo struct {
	students map[int]*models.Student
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id int) (*models.Student, error) {
	return f.students[id], nil
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) GetByIDs(_ context.Context, ids []int) ([]models.Student, error) {
	var out []models.Student
	for _, id := range ids {
		if s, ok := f.students[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) GetTrainerByID(context.Context, int) (*models.Trainer, error) {
	return nil, nil
}

type fakeTrainingRepo struct {
	trainings map[int]*models.TrainingDetails
}

func (f *fakeTrainingRepo) GetByID(_ context.Context, id int) (*models.Training, error) {
	details, ok := f.trainings[id]
	if !ok {
		return nil, nil
	}
	training := details.Training
	return &training, nil
}

func (f *fakeTrainingRepo) GetDetails(_ context.Context, id int) (*models.TrainingDetails, error) {
	details, ok := f.trainings[id]
	if !ok {
		return nil, nil
	}
	copied := *details
	return &copied, nil
}

func (f *fakeTrainingRepo) GetForStudent(context.Context, *models.Student, int, time.Time, time.Time) ([]models.TrainingDetails, error) {
	return nil, nil
}

func (f *fakeTrainingRepo) GetForTrainer(context.Context, int, int, time.Time, time.Time) ([]models.TrainingDetails, error) {
	return nil, nil
}

// fakeCheckInRepo emulates the advisory-locked insert/delete pair over an
// in-memory set, including the duplicate-insert surface.
type fakeCheckInRepo struct {
	trainingRepo *fakeTrainingRepo
	checkins     map[[2]int]bool
	day          []models.CheckInWithTraining
	// hideFromExists simulates a racing insert the pre-check cannot see.
	hideFromExists bool
}

func newFakeCheckInRepo(trainingRepo *fakeTrainingRepo) *fakeCheckInRepo {
	return &fakeCheckInRepo{
		trainingRepo: trainingRepo,
		checkins:     map[[2]int]bool{},
	}
}

func (f *fakeCheckInRepo) Exists(_ context.Context, studentID, trainingID int) (bool, error) {
	if f.hideFromExists {
		return false, nil
	}
	return f.checkins[[2]int{studentID, trainingID}], nil
}

func (f *fakeCheckInRepo) CountForTraining(_ context.Context, trainingID int) (int, error) {
	n := 0
	for key := range f.checkins {
		if key[1] == trainingID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCheckInRepo) GetStudentDayCheckIns(context.Context, int, time.Time) ([]models.CheckInWithTraining, error) {
	return f.day, nil
}

func (f *fakeCheckInRepo) GetStudentCheckInsRange(context.Context, int, time.Time, time.Time) ([]models.CheckInWithTraining, error) {
	return f.day, nil
}

func (f *fakeCheckInRepo) CreateLocked(_ context.Context, studentID, trainingID int, recheck func() error) error {
	if err := recheck(); err != nil {
		return err
	}
	key := [2]int{studentID, trainingID}
	if f.checkins[key] {
		return repository.ErrDuplicateCheckIn
	}
	f.checkins[key] = true
	if details, ok := f.trainingRepo.trainings[trainingID]; ok {
		details.CheckInCount++
	}
	return nil
}

func (f *fakeCheckInRepo) DeleteLocked(_ context.Context, studentID, trainingID int) (bool, error) {
	key := [2]int{studentID, trainingID}
	if !f.checkins[key] {
		return false, nil
	}
	delete(f.checkins, key)
	if details, ok := f.trainingRepo.trainings[trainingID]; ok {
		details.CheckInCount--
	}
	return true, nil
}

func newTestService(now time.Time) (*checkInService, *fakeCheckInRepo, *fakeTrainingRepo) {
	trainingRepo := &fakeTrainingRepo{trainings: map[int]*models.TrainingDetails{
		100: testTraining(now),
	}}
	checkInRepo := newFakeCheckInRepo(trainingRepo)
	studentRepo := &fakeStudentRepo{students: map[int]*models.Student{
		42: testStudent(),
	}}

	svc := &checkInService{
		checkInRepo:  checkInRepo,
		trainingRepo: trainingRepo,
		studentRepo:  studentRepo,
		rules:        testRules,
		logger:       zap.NewNop(),
		now:          func() time.Time { return now },
	}
	return svc, checkInRepo, trainingRepo
}

func TestCheckIn(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo, _ := newTestService(now)

		require.NoError(t, svc.CheckIn(ctx, 42, 100))
		assert.True(t, repo.checkins[[2]int{42, 100}])
	})

	t.Run("second attempt reports already checked in", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		require.NoError(t, svc.CheckIn(ctx, 42, 100))
		assert.ErrorIs(t, svc.CheckIn(ctx, 42, 100), service.ErrAlreadyCheckedIn)
	})

	t.Run("duplicate insert past the pre-check maps to already checked in", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		// The pre-check misses the row; the locked insert still finds it.
		repo.checkins[[2]int{42, 100}] = true
		repo.hideFromExists = true

		err := svc.CheckIn(ctx, 42, 100)
		assert.ErrorIs(t, err, service.ErrAlreadyCheckedIn)
	})

	t.Run("full group denied inside the lock", func(t *testing.T) {
		svc, _, trainingRepo := newTestService(now)
		trainingRepo.trainings[100].CheckInCount = trainingRepo.trainings[100].Group.Capacity

		assert.ErrorIs(t, svc.CheckIn(ctx, 42, 100), service.ErrCheckInDenied)
	})

	t.Run("unknown student", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		assert.ErrorIs(t, svc.CheckIn(ctx, 77, 100), service.ErrStudentNotFound)
	})

	t.Run("unknown training", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		assert.ErrorIs(t, svc.CheckIn(ctx, 42, 200), service.ErrTrainingNotFound)
	})
}

func TestCancelCheckIn(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo, _ := newTestService(now)
		require.NoError(t, svc.CheckIn(ctx, 42, 100))

		require.NoError(t, svc.CancelCheckIn(ctx, 42, 100))
		assert.False(t, repo.checkins[[2]int{42, 100}])
	})

	t.Run("not checked in", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		assert.ErrorIs(t, svc.CancelCheckIn(ctx, 42, 100), service.ErrNotCheckedIn)
	})

	t.Run("finished training cannot be cancelled", func(t *testing.T) {
		svc, repo, trainingRepo := newTestService(now)
		require.NoError(t, svc.CheckIn(ctx, 42, 100))

		svc.now = func() time.Time { return trainingRepo.trainings[100].End.Add(time.Hour) }

		assert.ErrorIs(t, svc.CancelCheckIn(ctx, 42, 100), service.ErrTrainingFinished)
		assert.True(t, repo.checkins[[2]int{42, 100}])
	})
}

func TestCanCheckInService(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("open training", func(t *testing.T) {
		svc, _, _ := newTestService(now)

		allowed, err := svc.CanCheckIn(ctx, 42, 100)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("daily cap read from existing check-ins", func(t *testing.T) {
		svc, repo, trainingRepo := newTestService(now)
		training := trainingRepo.trainings[100]
		repo.day = []models.CheckInWithTraining{
			sameDayCheckIn(training, intPtr(9), 2),
			sameDayCheckIn(training, intPtr(10), 1),
		}

		allowed, err := svc.CanCheckIn(ctx, 42, 100)
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}
