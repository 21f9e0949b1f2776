package models

import "time"

// SpecialGroupID marks self-sport and medical-leave rows in unified
// training-history views. They are not backed by a real group row.
const SpecialGroupID = -1

type Sport struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Group - спортивная группа одного семестра
type Group struct {
	ID         int    `db:"id" json:"id"`
	SemesterID int    `db:"semester_id" json:"semester_id"`
	SportID    *int   `db:"sport_id" json:"sport_id"`
	Name       string `db:"name" json:"name"`
	Capacity   int    `db:"capacity" json:"capacity"`
	IsClub     bool   `db:"is_club" json:"is_club"`
	Accredited bool   `db:"accredited" json:"accredited"`
	// AllowedGender is GenderBoth, GenderMale or GenderFemale.
	AllowedGender int       `db:"allowed_gender" json:"allowed_gender"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	// Joined fields
	SportName    string `db:"sport_name" json:"sport_name,omitempty"`
	SemesterName string `db:"semester_name" json:"semester_name,omitempty"`
}

// FrontendName returns "Sport - Name", omitting whichever part is empty.
func (g *Group) FrontendName() string {
	if g.SportName != "" && g.Name != "" {
		return g.SportName + " - " + g.Name
	}
	if g.SportName != "" {
		return g.SportName
	}
	return g.Name
}

// GroupRoster carries the membership rules the check-in decision needs.
// Banned wins over everything, Allowed wins over the medical-group and
// gender filters.
type GroupRoster struct {
	GroupID              int
	AllowedMedicalGroups []int
	AllowedStudents      []int
	BannedStudents       []int
	Trainers             []int
}

func (r *GroupRoster) IsBanned(studentID int) bool    { return containsInt(r.BannedStudents, studentID) }
func (r *GroupRoster) IsAllowed(studentID int) bool   { return containsInt(r.AllowedStudents, studentID) }
func (r *GroupRoster) IsTrainer(userID int) bool      { return containsInt(r.Trainers, userID) }
func (r *GroupRoster) AllowsMedicalGroup(id int) bool { return containsInt(r.AllowedMedicalGroups, id) }

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Trainer is a teaching staff member assigned to one or more groups.
// Trainer id equals the backing user id.
type Trainer struct {
	ID        int    `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// GroupInfo is the detailed group card returned to the frontend.
type GroupInfo struct {
	Group
	Trainers             []Trainer      `json:"trainers"`
	AllowedMedicalGroups []string       `json:"allowed_medical_groups"`
	Schedule             []ScheduleSlot `json:"schedule"`
	Description          string         `json:"description"`
}

// ScheduleSlot - слот еженедельного расписания группы
type ScheduleSlot struct {
	ID            int       `db:"id" json:"id"`
	GroupID       int       `db:"group_id" json:"group_id"`
	Weekday       int       `db:"weekday" json:"weekday"`
	Start         time.Time `db:"start_time" json:"start"`
	End           time.Time `db:"end_time" json:"end"`
	TrainingClass *string   `db:"training_class" json:"training_class"`
}
