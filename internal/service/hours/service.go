package hours_service

import (
	"context"
	"math"
	"time"

	"unisport-backend/internal/models"
	"unisport-backend/internal/repository"
	"unisport-backend/internal/service"
)

// enrollmentCutoffMonth ends the "spring" part of an academic year: a
// semester starting in or before this month of the student's enrollment
// year predates their first study quarter and never counts for them.
const enrollmentCutoffMonth = time.July

type hoursService struct {
	attendanceRepo  repository.AttendanceRepository
	semesterRepo    repository.SemesterRepository
	debtRepo        repository.DebtRepository
	semesterService service.SemesterService
}

func NewHoursService(
	attendanceRepo repository.AttendanceRepository,
	semesterRepo repository.SemesterRepository,
	debtRepo repository.DebtRepository,
	semesterService service.SemesterService,
) service.HoursService {
	return &hoursService{
		attendanceRepo:  attendanceRepo,
		semesterRepo:    semesterRepo,
		debtRepo:        debtRepo,
		semesterService: semesterService,
	}
}

func (s *hoursService) GetStudentHours(ctx context.Context, student *models.Student) (*models.StudentHours, error) {
	current, err := s.semesterService.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	ongoing, err := s.rollupSemester(ctx, student.ID, current)
	if err != nil {
		return nil, err
	}

	past, err := s.semesterRepo.GetPastSemesters(ctx, current.Start)
	if err != nil {
		return nil, err
	}

	lastSemesters := []models.SemesterHours{}
	for i := range past {
		counts, err := s.semesterCounts(ctx, student, &past[i])
		if err != nil {
			return nil, err
		}
		if !counts {
			continue
		}
		rollup, err := s.rollupSemester(ctx, student.ID, &past[i])
		if err != nil {
			return nil, err
		}
		lastSemesters = append(lastSemesters, *rollup)
	}

	return &models.StudentHours{
		OngoingSemester:    *ongoing,
		LastSemestersHours: lastSemesters,
	}, nil
}

// semesterCounts decides whether a past semester belongs to the student's
// history: semesters before enrollment and the enrollment year's spring
// term do not, neither do semesters spent on academic leave.
func (s *hoursService) semesterCounts(ctx context.Context, student *models.Student, semester *models.Semester) (bool, error) {
	if semester.End.Year() < student.EnrollmentYear {
		return false, nil
	}
	if semester.Start.Year() == student.EnrollmentYear && semester.Start.Month() <= enrollmentCutoffMonth {
		return false, nil
	}

	onLeave, err := s.semesterRepo.IsOnAcademicLeave(ctx, semester.ID, student.ID)
	if err != nil {
		return false, err
	}
	return !onLeave, nil
}

// rollupSemester partitions the semester's attendance rows by their cause:
// ordinary group attendance, debt-incurring self-sport and plain self-sport.
func (s *hoursService) rollupSemester(ctx context.Context, studentID int, semester *models.Semester) (*models.SemesterHours, error) {
	records, err := s.attendanceRepo.GetSemesterRecords(ctx, studentID, semester.ID)
	if err != nil {
		return nil, err
	}

	rollup := &models.SemesterHours{
		SemesterID:    semester.ID,
		HoursRequired: semester.RequiredHours,
	}
	for _, record := range records {
		switch {
		case record.CauseDebt == nil:
			rollup.HoursNotSelf += record.Hours
		case *record.CauseDebt:
			rollup.HoursSelfDebt += record.Hours
		default:
			rollup.HoursSelfNotDebt += record.Hours
		}
	}

	debt, err := s.debtRepo.Get(ctx, studentID, semester.ID)
	if err != nil {
		return nil, err
	}
	rollup.Debt = debt

	return rollup, nil
}

// GetNegativeHours is the student's ongoing-semester standing: all earned
// hours minus the debt carried from earlier semesters.
func (s *hoursService) GetNegativeHours(ctx context.Context, student *models.Student) (float64, error) {
	hours, err := s.GetStudentHours(ctx, student)
	if err != nil {
		return 0, err
	}
	ongoing := hours.OngoingSemester
	return ongoing.Total() - float64(ongoing.Debt), nil
}

// BetterThan ranks the student against everyone by complex score
// (current-semester hours minus debt). Non-positive scores rank at 0; the
// single positive scorer ranks at 100.
func (s *hoursService) BetterThan(ctx context.Context, studentID int) (float64, error) {
	current, err := s.semesterService.GetCurrent(ctx)
	if err != nil {
		return 0, err
	}

	scores, err := s.attendanceRepo.GetComplexScores(ctx, current.ID)
	if err != nil {
		return 0, err
	}

	var myScore float64
	for _, score := range scores {
		if score.StudentID == studentID {
			myScore = score.Score
			break
		}
	}
	if myScore <= 0 {
		return 0, nil
	}

	positive, worse := 0, 0
	for _, score := range scores {
		if score.Score > 0 {
			positive++
			if score.Score < myScore {
				worse++
			}
		}
	}
	if positive == 1 {
		return 100, nil
	}

	return math.Round(float64(worse)/float64(positive-1)*1000) / 10, nil
}

func (s *hoursService) GetBriefHours(ctx context.Context, student *models.Student) ([]models.BriefSemesterHours, error) {
	hours, err := s.GetStudentHours(ctx, student)
	if err != nil {
		return nil, err
	}

	all := append([]models.SemesterHours{hours.OngoingSemester}, hours.LastSemestersHours...)

	brief := make([]models.BriefSemesterHours, 0, len(all))
	for _, sem := range all {
		semester, err := s.semesterRepo.GetByID(ctx, sem.SemesterID)
		if err != nil {
			return nil, err
		}
		if semester == nil {
			continue
		}
		brief = append(brief, models.BriefSemesterHours{
			SemesterID:    semester.ID,
			SemesterName:  semester.Name,
			SemesterStart: semester.Start.Format("Jan. 02, 2006"),
			SemesterEnd:   semester.End.Format("Jan. 02, 2006"),
			Hours:         int(sem.Total()),
		})
	}
	return brief, nil
}

func (s *hoursService) GetDetailedHours(ctx context.Context, studentID, semesterID int) ([]models.HistoryEntry, error) {
	semester, err := s.semesterRepo.GetByID(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, service.ErrSemesterNotFound
	}
	return s.attendanceRepo.GetDetailedHistory(ctx, studentID, semesterID)
}

func (s *hoursService) GetHoursSummary(ctx context.Context, studentID int) (*models.HoursSummary, error) {
	current, err := s.semesterService.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.GetSemesterRecords(ctx, studentID, current.ID)
	if err != nil {
		return nil, err
	}

	summary := &models.HoursSummary{RequiredHours: float64(current.RequiredHours)}
	for _, record := range records {
		switch {
		case record.CauseDebt == nil:
			summary.HoursFromGroups += record.Hours
		case !*record.CauseDebt:
			summary.SelfSportHours += record.Hours
		}
	}

	debt, err := s.debtRepo.Get(ctx, studentID, current.ID)
	if err != nil {
		return nil, err
	}
	summary.Debt = float64(debt)

	return summary, nil
}
