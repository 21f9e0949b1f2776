package models

import "time"

type Training struct {
	ID         int       `db:"id" json:"id"`
	GroupID    int       `db:"group_id" json:"group_id"`
	Start      time.Time `db:"start_time" json:"start"`
	End        time.Time `db:"end_time" json:"end"`
	CustomName *string   `db:"custom_name" json:"custom_name"`
	// TrainingClass is the room the session takes place in.
	TrainingClass *string `db:"training_class" json:"training_class"`
	// AcademicDuration is the number of hours a full attendance is worth.
	AcademicDuration int       `db:"academic_duration" json:"academic_duration"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// TrainingDetails is a training with its group, roster and current load
// resolved, everything the check-in decision needs in one place.
type TrainingDetails struct {
	Training
	Group        Group
	Roster       GroupRoster
	CheckInCount int
}

// SportID of the owning group; nil for special groups.
func (t *TrainingDetails) SportID() *int {
	return t.Group.SportID
}

// CheckIn - запись студента на тренировку
type CheckIn struct {
	ID         int       `db:"id" json:"id"`
	StudentID  int       `db:"student_id" json:"student_id"`
	TrainingID int       `db:"training_id" json:"training_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CheckInWithTraining carries the training fields the daily-cap rules read.
type CheckInWithTraining struct {
	CheckIn
	TrainingStart    time.Time `db:"training_start" json:"training_start"`
	AcademicDuration int       `db:"academic_duration" json:"academic_duration"`
	SportID          *int      `db:"sport_id" json:"sport_id"`
}

// TrainingListItem is one row of the calendar view for a student or trainer.
type TrainingListItem struct {
	ID              int       `json:"id"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	GroupID         int       `json:"group_id"`
	GroupName       string    `json:"group_name"`
	TrainingClass   *string   `json:"training_class"`
	GroupAccredited bool      `json:"group_accredited"`
	CanGrade        bool      `json:"can_grade"`
	CanCheckIn      bool      `json:"can_check_in"`
	CheckedIn       bool      `json:"checked_in"`
}

// StudentGrade is one row of the trainer's grading sheet: a student who
// checked in or already received hours for the training.
type StudentGrade struct {
	StudentID    int           `db:"student_id" json:"id"`
	FirstName    string        `db:"first_name" json:"first_name"`
	LastName     string        `db:"last_name" json:"last_name"`
	Email        string        `db:"email" json:"email"`
	Hours        float64       `db:"hours" json:"hours"`
	MedicalGroup *MedicalGroup `json:"medical_group"`
}

func (g *StudentGrade) FullName() string {
	return g.FirstName + " " + g.LastName
}
