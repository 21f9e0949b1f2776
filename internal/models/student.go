package models

import "time"

// Gender encoding shared by students and group restrictions.
const (
	GenderBoth   = -1
	GenderMale   = 0
	GenderFemale = 1
)

// Student statuses. Only "Normal" students receive hours from trainers.
const (
	StudentStatusNormal        = "Normal"
	StudentStatusAcademicLeave = "Academic leave"
	StudentStatusAlumnus       = "Alumnus"
)

type Student struct {
	ID             int       `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	MedicalGroupID int       `db:"medical_group_id" json:"medical_group_id"`
	Gender         int       `db:"gender" json:"gender"`
	EnrollmentYear int       `db:"enrollment_year" json:"enrollment_year"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields
	MedicalGroupName string `db:"medical_group_name" json:"medical_group_name,omitempty"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

type MedicalGroup struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}
