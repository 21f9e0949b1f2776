package checkin_service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"unisport-backend/internal/models"
	"unisport-backend/internal/models/config"
)

var testRules = config.SportConfig{
	TrainingEditableInterval: 14 * 24 * time.Hour,
	CheckInWindow:            7 * 24 * time.Hour,
	MaxDailyHours:            4,
	MaxDailySportHours:       2,
}

func intPtr(v int) *int { return &v }

func testStudent() *models.Student {
	return &models.Student{
		ID:             42,
		MedicalGroupID: 1,
		Gender:         models.GenderMale,
		Status:         models.StudentStatusNormal,
	}
}

// testTraining starts in two days, lasts two hours, is worth 2 academic
// hours and has plenty of free places.
func testTraining(now time.Time) *models.TrainingDetails {
	start := now.Add(48 * time.Hour)
	return &models.TrainingDetails{
		Training: models.Training{
			ID:               100,
			GroupID:          7,
			Start:            start,
			End:              start.Add(2 * time.Hour),
			AcademicDuration: 2,
		},
		Group: models.Group{
			ID:            7,
			SportID:       intPtr(3),
			Capacity:      20,
			AllowedGender: models.GenderBoth,
		},
		Roster: models.GroupRoster{
			GroupID:              7,
			AllowedMedicalGroups: []int{1, 2},
		},
		CheckInCount: 0,
	}
}

func sameDayCheckIn(training *models.TrainingDetails, sportID *int, duration int) models.CheckInWithTraining {
	return models.CheckInWithTraining{
		CheckIn:          models.CheckIn{StudentID: 42, TrainingID: 999},
		TrainingStart:    training.Start.Add(-5 * time.Hour),
		AcademicDuration: duration,
		SportID:          sportID,
	}
}

func TestCanCheckIn_Admit(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	training := testTraining(now)

	assert.True(t, CanCheckIn(testRules, testStudent(), training, nil, now))
}

func TestCanCheckIn_TimeWindow(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	t.Run("finished training", func(t *testing.T) {
		training := testTraining(now)
		training.Start = now.Add(-3 * time.Hour)
		training.End = now.Add(-1 * time.Hour)

		assert.False(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})

	t.Run("more than a week away", func(t *testing.T) {
		training := testTraining(now)
		training.Start = now.Add(8 * 24 * time.Hour)
		training.End = training.Start.Add(2 * time.Hour)

		assert.False(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})

	t.Run("ongoing training still open", func(t *testing.T) {
		training := testTraining(now)
		training.Start = now.Add(-30 * time.Minute)
		training.End = now.Add(90 * time.Minute)

		assert.True(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})
}

func TestCanCheckIn_Capacity(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	training := testTraining(now)
	training.CheckInCount = 20

	assert.False(t, CanCheckIn(testRules, testStudent(), training, nil, now))
}

func TestCanCheckIn_DailyCaps(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	t.Run("same sport over 2 hours", func(t *testing.T) {
		training := testTraining(now)
		training.AcademicDuration = 1
		checkins := []models.CheckInWithTraining{
			sameDayCheckIn(training, intPtr(3), 2), // same sport, 2h already
		}

		assert.False(t, CanCheckIn(testRules, testStudent(), training, checkins, now))
	})

	t.Run("different sport within 4 hours", func(t *testing.T) {
		training := testTraining(now)
		training.AcademicDuration = 1
		checkins := []models.CheckInWithTraining{
			sameDayCheckIn(training, intPtr(9), 2), // other sport, 2+1 <= 4
		}

		assert.True(t, CanCheckIn(testRules, testStudent(), training, checkins, now))
	})

	t.Run("total over 4 hours", func(t *testing.T) {
		training := testTraining(now)
		checkins := []models.CheckInWithTraining{
			sameDayCheckIn(training, intPtr(9), 2),
			sameDayCheckIn(training, intPtr(10), 1),
		}
		// 3h on the day already, +2h > 4h

		assert.False(t, CanCheckIn(testRules, testStudent(), training, checkins, now))
	})

	t.Run("other days do not count", func(t *testing.T) {
		training := testTraining(now)
		previousDay := sameDayCheckIn(training, intPtr(3), 2)
		previousDay.TrainingStart = training.Start.Add(-24 * time.Hour)

		assert.True(t, CanCheckIn(testRules, testStudent(), training, []models.CheckInWithTraining{previousDay}, now))
	})
}

func TestCanCheckIn_RosterRules(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	t.Run("banned student always denied", func(t *testing.T) {
		training := testTraining(now)
		training.Roster.BannedStudents = []int{42}
		// even though the student is also in the allowed list
		training.Roster.AllowedStudents = []int{42}

		assert.False(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})

	t.Run("allowed student bypasses medical group and gender", func(t *testing.T) {
		training := testTraining(now)
		training.Roster.AllowedMedicalGroups = []int{2}
		training.Group.AllowedGender = models.GenderFemale
		training.Roster.AllowedStudents = []int{42}

		assert.True(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})

	t.Run("medical group mismatch", func(t *testing.T) {
		training := testTraining(now)
		training.Roster.AllowedMedicalGroups = []int{2, 3}

		assert.False(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})

	t.Run("gender mismatch", func(t *testing.T) {
		training := testTraining(now)
		training.Group.AllowedGender = models.GenderFemale

		assert.False(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})

	t.Run("matching gender admits", func(t *testing.T) {
		training := testTraining(now)
		training.Group.AllowedGender = models.GenderMale

		assert.True(t, CanCheckIn(testRules, testStudent(), training, nil, now))
	})
}

// The predicate must not mutate anything it is handed.
func TestCanCheckIn_Pure(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	training := testTraining(now)
	student := testStudent()
	checkins := []models.CheckInWithTraining{sameDayCheckIn(training, intPtr(9), 1)}

	first := CanCheckIn(testRules, student, training, checkins, now)
	second := CanCheckIn(testRules, student, training, checkins, now)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, training.CheckInCount)
	assert.Equal(t, 1, checkins[0].AcademicDuration)
}
