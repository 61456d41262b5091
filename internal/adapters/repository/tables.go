package repository

import "time"

// User is one row of the users table.
type User struct {
	ID   int64
	Name string
}

// ModuleTracking is one module-tracking event. Timestamps are nullable; a
// row missing FirstOpened or Completed is incomplete.
type ModuleTracking struct {
	DeveloperID int64
	TutorialID  int64
	FirstOpened *time.Time
	Completed   *time.Time
	LastViewed  *time.Time
}

// TutorialType maps a tutorial id to its category label.
type TutorialType struct {
	ID   int64
	Type string
}

// ExamRegistration links an exam attempt to the registering user.
type ExamRegistration struct {
	ID         int64
	ExamineeID int64
}

// ExamResult is one graded exam, keyed by registration id.
type ExamResult struct {
	RegistrationID int64
	Score          float64
	Passed         bool
}

// Submission is one submitted work item; Rating is nullable.
type Submission struct {
	SubmitterID int64
	Rating      *float64
}

// Tables is the full raw-data snapshot as loaded from disk.
type Tables struct {
	Users             []User
	ModuleTracking    []ModuleTracking
	TutorialTypes     []TutorialType
	ExamRegistrations []ExamRegistration
	ExamResults       []ExamResult
	Submissions       []Submission
}

// TableCounts summarizes snapshot sizes for startup logging and metrics.
type TableCounts struct {
	Users             int
	TrackingRows      int
	TutorialTypes     int
	ExamRegistrations int
	ExamResults       int
	Submissions       int
}
