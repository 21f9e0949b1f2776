package checkin_service

import (
	"time"

	"unisport-backend/internal/models"
	"unisport-backend/internal/models/config"
)

// CanCheckIn decides whether the student may check into the training. Pure
// predicate: the caller supplies the student's existing check-ins and the
// current time, nothing is read or written here.
//
// Rules are evaluated in order, denying on the first failure:
//  1. the training is not finished and starts within the check-in window;
//  2. the group still has free places;
//  3. the student's total academic hours for that calendar day stay within
//     the daily cap;
//  4. the same-day hours for the same sport stay within the sport cap;
//  5. banned students are always denied;
//  6. students from the allowed list are admitted regardless of medical
//     group and gender;
//  7. otherwise the student's medical group and gender must match the
//     group's restrictions.
func CanCheckIn(
	rules config.SportConfig,
	student *models.Student,
	training *models.TrainingDetails,
	studentCheckins []models.CheckInWithTraining,
	now time.Time,
) bool {
	// The training must not be finished yet, and check-in opens only
	// within the configured window before the start.
	if !training.Start.Before(now.Add(rules.CheckInWindow)) || !now.Before(training.End) {
		return false
	}

	if training.Group.Capacity-training.CheckInCount <= 0 {
		return false
	}

	// Caps count hours of trainings starting on the same calendar date,
	// not a rolling 24-hour window.
	totalHours := 0
	for _, c := range studentCheckins {
		if sameDay(c.TrainingStart, training.Start) {
			totalHours += c.AcademicDuration
		}
	}
	if totalHours+training.AcademicDuration > rules.MaxDailyHours {
		return false
	}

	sameSportHours := 0
	for _, c := range studentCheckins {
		if sameDay(c.TrainingStart, training.Start) && sameSport(c.SportID, training.SportID()) {
			sameSportHours += c.AcademicDuration
		}
	}
	if sameSportHours+training.AcademicDuration > rules.MaxDailySportHours {
		return false
	}

	if training.Roster.IsBanned(student.ID) {
		return false
	}

	if training.Roster.IsAllowed(student.ID) {
		return true
	}

	return training.Roster.AllowsMedicalGroup(student.MedicalGroupID) &&
		(training.Group.AllowedGender == models.GenderBoth ||
			training.Group.AllowedGender == student.Gender)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameSport(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
