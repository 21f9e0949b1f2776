package models

// Principal is the authenticated caller, resolved once at the web boundary.
// Exactly the roles the caller actually holds are populated; downstream code
// never probes a generic user object.
type Principal struct {
	UserID int
	// Student is non-nil when the caller has a student profile.
	Student *Student
	// Trainer is non-nil when the caller teaches at least one group.
	Trainer *Trainer
	IsStaff     bool
	IsSuperuser bool
}

// CanGradeAnyGroup reports whether group assignment checks may be skipped.
func (p *Principal) CanGradeAnyGroup() bool {
	return p.IsStaff || p.IsSuperuser
}
