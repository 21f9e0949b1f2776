package models

// SemesterHours is one semester's hour rollup, partitioned by source.
type SemesterHours struct {
	SemesterID int `json:"semester_id"`
	// HoursNotSelf is ordinary group attendance.
	HoursNotSelf float64 `json:"hours_not_self"`
	// HoursSelfNotDebt is approved self-sport that did not incur debt.
	HoursSelfNotDebt float64 `json:"hours_self_not_debt"`
	// HoursSelfDebt is self-sport credited against a carried debt.
	HoursSelfDebt float64 `json:"hours_self_debt"`
	HoursRequired int     `json:"hours_required"`
	Debt          int     `json:"debt"`
}

// Total is the semester's hour sum over all sources.
func (h *SemesterHours) Total() float64 {
	return h.HoursNotSelf + h.HoursSelfNotDebt + h.HoursSelfDebt
}

// StudentHours is the full hour history of one student.
type StudentHours struct {
	OngoingSemester    SemesterHours   `json:"ongoing_semester"`
	LastSemestersHours []SemesterHours `json:"last_semesters_hours"`
}

// BriefSemesterHours is the compact per-semester line of the profile view.
type BriefSemesterHours struct {
	SemesterID    int     `json:"semester_id"`
	SemesterName  string  `json:"semester_name"`
	SemesterStart string  `json:"semester_start"`
	SemesterEnd   string  `json:"semester_end"`
	Hours         int     `json:"hours"`
}

// HoursSummary is the current-semester standing of a student.
type HoursSummary struct {
	Debt            float64 `json:"debt"`
	SelfSportHours  float64 `json:"self_sport_hours"`
	HoursFromGroups float64 `json:"hours_from_groups"`
	RequiredHours   float64 `json:"required_hours"`
}

// StudentScore is a student's complex score used for the percentile rank:
// current-semester attendance hours minus carried debt.
type StudentScore struct {
	StudentID int     `db:"student_id"`
	Score     float64 `db:"score"`
}
