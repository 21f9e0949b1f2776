package hours_service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unisport-backend/internal/models"
	"unisport-backend/internal/service"
)

func boolPtr(v bool) *bool { return &v }

type fakeSemesterService struct {
	current *models.Semester
}

func (f *fakeSemesterService) GetCurrent(context.Context) (*models.Semester, error) {
	return f.current, nil
}

func (f *fakeSemesterService) GetByID(context.Context, int) (*models.Semester, error) {
	return f.current, nil
}

func (f *fakeSemesterService) GetAll(context.Context) ([]models.Semester, error) {
	return nil, nil
}

type fakeSemesterRepo struct {
	semesters map[int]*models.Semester
	past      []models.Semester
	onLeave   map[[2]int]bool // (semesterID, studentID)
}

func (f *fakeSemesterRepo) GetByDate(_ context.Context, date time.Time) (*models.Semester, error) {
	for _, s := range f.semesters {
		if s.Covers(date) {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSemesterRepo) GetLatestByStart(context.Context) (*models.Semester, error) {
	var latest *models.Semester
	for _, s := range f.semesters {
		if latest == nil || s.Start.After(latest.Start) {
			latest = s
		}
	}
	return latest, nil
}

func (f *fakeSemesterRepo) GetByID(_ context.Context, id int) (*models.Semester, error) {
	return f.semesters[id], nil
}

func (f *fakeSemesterRepo) GetAll(context.Context) ([]models.Semester, error) {
	return nil, nil
}

func (f *fakeSemesterRepo) GetPastSemesters(context.Context, time.Time) ([]models.Semester, error) {
	return f.past, nil
}

func (f *fakeSemesterRepo) IsOnAcademicLeave(_ context.Context, semesterID, studentID int) (bool, error) {
	return f.onLeave[[2]int{semesterID, studentID}], nil
}

type fakeAttendanceRepo struct {
	records map[int][]models.AttendanceRecord // by semester id
	scores  []models.StudentScore
	history []models.HistoryEntry
}

func (f *fakeAttendanceRepo) MarkHours(context.Context, int, []models.StudentHoursEntry) error {
	return nil
}

func (f *fakeAttendanceRepo) GetSemesterRecords(_ context.Context, _, semesterID int) ([]models.AttendanceRecord, error) {
	return f.records[semesterID], nil
}

func (f *fakeAttendanceRepo) GetGrades(context.Context, int) ([]models.StudentGrade, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) GetDetailedHistory(context.Context, int, int) ([]models.HistoryEntry, error) {
	return f.history, nil
}

func (f *fakeAttendanceRepo) GetComplexScores(context.Context, int) ([]models.StudentScore, error) {
	return f.scores, nil
}

type fakeDebtRepo struct {
	debts map[[2]int]int // (studentID, semesterID)
}

func (f *fakeDebtRepo) Get(_ context.Context, studentID, semesterID int) (int, error) {
	return f.debts[[2]int{studentID, semesterID}], nil
}

func semesterFixture() (*models.Semester, []models.Semester) {
	current := &models.Semester{
		ID:            3,
		Name:          "S26",
		Start:         time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
		RequiredHours: 30,
	}
	past := []models.Semester{
		{
			ID:            2,
			Name:          "F25",
			Start:         time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC),
			End:           time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC),
			RequiredHours: 30,
		},
		{
			ID:            1,
			Name:          "S25",
			Start:         time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
			End:           time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC),
			RequiredHours: 30,
		},
		{
			// The student enrolled in fall 2024; this spring term predates
			// their first study quarter.
			ID:            10,
			Name:          "S24",
			Start:         time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
			End:           time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
			RequiredHours: 30,
		},
		{
			ID:            11,
			Name:          "F23",
			Start:         time.Date(2023, time.August, 20, 0, 0, 0, 0, time.UTC),
			End:           time.Date(2023, time.December, 20, 0, 0, 0, 0, time.UTC),
			RequiredHours: 30,
		},
	}
	return current, past
}

func newHoursService() (*hoursService, *fakeAttendanceRepo, *fakeSemesterRepo, *fakeDebtRepo) {
	current, past := semesterFixture()

	semesterRepo := &fakeSemesterRepo{
		semesters: map[int]*models.Semester{current.ID: current},
		past:      past,
		onLeave:   map[[2]int]bool{},
	}
	for i := range past {
		semesterRepo.semesters[past[i].ID] = &past[i]
	}

	attendanceRepo := &fakeAttendanceRepo{
		records: map[int][]models.AttendanceRecord{
			3: {
				{Hours: 2, CauseDebt: nil},
				{Hours: 3, CauseDebt: nil},
				{Hours: 1, CauseDebt: boolPtr(true)},
				{Hours: 2, CauseDebt: boolPtr(false)},
			},
			2: {{Hours: 10, CauseDebt: nil}},
		},
	}
	debtRepo := &fakeDebtRepo{debts: map[[2]int]int{
		{42, 3}: 4,
		{42, 2}: 2,
	}}

	svc := &hoursService{
		attendanceRepo:  attendanceRepo,
		semesterRepo:    semesterRepo,
		debtRepo:        debtRepo,
		semesterService: &fakeSemesterService{current: current},
	}
	return svc, attendanceRepo, semesterRepo, debtRepo
}

func normalStudent() *models.Student {
	return &models.Student{ID: 42, EnrollmentYear: 2024, Status: models.StudentStatusNormal}
}

func TestGetStudentHours(t *testing.T) {
	svc, _, semesterRepo, _ := newHoursService()
	ctx := context.Background()

	hours, err := svc.GetStudentHours(ctx, normalStudent())
	require.NoError(t, err)

	ongoing := hours.OngoingSemester
	assert.Equal(t, 3, ongoing.SemesterID)
	assert.Equal(t, 5.0, ongoing.HoursNotSelf)
	assert.Equal(t, 1.0, ongoing.HoursSelfDebt)
	assert.Equal(t, 2.0, ongoing.HoursSelfNotDebt)
	assert.Equal(t, 8.0, ongoing.Total())
	assert.Equal(t, 4, ongoing.Debt)
	assert.Equal(t, 30, ongoing.HoursRequired)

	// The pre-enrollment semesters never show up; the others do.
	require.Len(t, hours.LastSemestersHours, 2)
	assert.Equal(t, 2, hours.LastSemestersHours[0].SemesterID)
	assert.Equal(t, 10.0, hours.LastSemestersHours[0].Total())
	assert.Equal(t, 2, hours.LastSemestersHours[0].Debt)
	assert.Equal(t, 1, hours.LastSemestersHours[1].SemesterID)

	t.Run("academic leave hides the semester", func(t *testing.T) {
		semesterRepo.onLeave[[2]int{1, 42}] = true

		hours, err := svc.GetStudentHours(ctx, normalStudent())
		require.NoError(t, err)
		require.Len(t, hours.LastSemestersHours, 1)
		assert.Equal(t, 2, hours.LastSemestersHours[0].SemesterID)
	})
}

func TestGetNegativeHours(t *testing.T) {
	svc, _, _, _ := newHoursService()

	// 8 hours earned this semester, 4 hours of carried debt.
	hours, err := svc.GetNegativeHours(context.Background(), normalStudent())
	require.NoError(t, err)
	assert.Equal(t, 4.0, hours)
}

func TestBetterThan(t *testing.T) {
	svc, attendanceRepo, _, _ := newHoursService()
	ctx := context.Background()

	t.Run("no score ranks at zero", func(t *testing.T) {
		attendanceRepo.scores = []models.StudentScore{{StudentID: 1, Score: 5}}

		value, err := svc.BetterThan(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 0.0, value)
	})

	t.Run("negative score ranks at zero", func(t *testing.T) {
		attendanceRepo.scores = []models.StudentScore{
			{StudentID: 42, Score: -3},
			{StudentID: 1, Score: 5},
		}

		value, err := svc.BetterThan(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 0.0, value)
	})

	t.Run("sole positive scorer ranks at hundred", func(t *testing.T) {
		attendanceRepo.scores = []models.StudentScore{
			{StudentID: 42, Score: 5},
			{StudentID: 1, Score: -1},
			{StudentID: 2, Score: 0},
		}

		value, err := svc.BetterThan(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 100.0, value)
	})

	t.Run("percentile rounded to one decimal", func(t *testing.T) {
		attendanceRepo.scores = []models.StudentScore{
			{StudentID: 42, Score: 5},
			{StudentID: 1, Score: 3},
			{StudentID: 2, Score: 7},
			{StudentID: 3, Score: 1},
			{StudentID: 4, Score: -2},
		}

		// 2 of the 3 other positive scorers are worse: 66.7.
		value, err := svc.BetterThan(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 66.7, value)
	})
}

func TestGetBriefHours(t *testing.T) {
	svc, _, _, _ := newHoursService()

	brief, err := svc.GetBriefHours(context.Background(), normalStudent())
	require.NoError(t, err)

	require.Len(t, brief, 3)
	assert.Equal(t, 3, brief[0].SemesterID)
	assert.Equal(t, "S26", brief[0].SemesterName)
	assert.Equal(t, "Jan. 20, 2026", brief[0].SemesterStart)
	assert.Equal(t, "May. 31, 2026", brief[0].SemesterEnd)
	assert.Equal(t, 8, brief[0].Hours)
	assert.Equal(t, 10, brief[1].Hours)
}

func TestGetDetailedHours(t *testing.T) {
	svc, attendanceRepo, _, _ := newHoursService()
	ctx := context.Background()

	t.Run("unknown semester", func(t *testing.T) {
		_, err := svc.GetDetailedHours(ctx, 42, 99)
		assert.ErrorIs(t, err, service.ErrSemesterNotFound)
	})

	t.Run("history passed through", func(t *testing.T) {
		attendanceRepo.history = []models.HistoryEntry{
			{GroupID: 7, Group: "Football", Hours: 2, Approved: true},
			{GroupID: models.SpecialGroupID, Group: "Self sport", Hours: 1, Approved: true},
		}

		history, err := svc.GetDetailedHours(ctx, 42, 3)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, models.SpecialGroupID, history[1].GroupID)
	})
}

func TestGetHoursSummary(t *testing.T) {
	svc, _, _, _ := newHoursService()

	summary, err := svc.GetHoursSummary(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 5.0, summary.HoursFromGroups)
	assert.Equal(t, 2.0, summary.SelfSportHours)
	assert.Equal(t, 4.0, summary.Debt)
	assert.Equal(t, 30.0, summary.RequiredHours)
}
