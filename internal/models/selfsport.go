package models

import "time"

// SelfSportReport - заявка на часы за самостоятельный спорт.
// Uploaded through a separate flow; this core only reads it.
type SelfSportReport struct {
	ID           int       `db:"id" json:"id"`
	StudentID    int       `db:"student_id" json:"student_id"`
	SemesterID   int       `db:"semester_id" json:"semester_id"`
	Hours        float64   `db:"hours" json:"hours"`
	Approved     bool      `db:"approved" json:"approved"`
	Debt         bool      `db:"debt" json:"debt"`
	TrainingType *string   `db:"training_type" json:"training_type"`
	Uploaded     time.Time `db:"uploaded" json:"uploaded"`
}

// Reference - медицинская справка, конвертируемая в часы.
type Reference struct {
	ID         int       `db:"id" json:"id"`
	StudentID  int       `db:"student_id" json:"student_id"`
	SemesterID int       `db:"semester_id" json:"semester_id"`
	Hours      float64   `db:"hours" json:"hours"`
	Approved   bool      `db:"approved" json:"approved"`
	Uploaded   time.Time `db:"uploaded" json:"uploaded"`
}

// Debt - перенос недобранных часов из прошлого семестра
type Debt struct {
	ID         int `db:"id" json:"id"`
	StudentID  int `db:"student_id" json:"student_id"`
	SemesterID int `db:"semester_id" json:"semester_id"`
	Debt       int `db:"debt" json:"debt"`
}
