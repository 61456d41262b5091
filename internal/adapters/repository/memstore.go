package repository

import (
	"context"

	"github.com/okian/sensei/internal/domain/feature"
)

// MemStore is an in-memory Store backed by hash indexes built once at
// construction. The indexes replace per-request table scans: every lookup
// the aggregator performs is a direct map hit.
type MemStore struct {
	users       map[int64]User
	tracking    map[int64][]feature.TrackingRow
	categories  map[int64]string
	exams       map[int64][]feature.ExamRow
	submissions map[int64][]feature.SubmissionRow
	counts      TableCounts
}

// NewMemStore indexes the loaded tables. The resulting store is immutable.
func NewMemStore(_ context.Context, tables Tables) *MemStore {
	s := &MemStore{
		users:       make(map[int64]User, len(tables.Users)),
		tracking:    make(map[int64][]feature.TrackingRow),
		categories:  make(map[int64]string, len(tables.TutorialTypes)),
		exams:       make(map[int64][]feature.ExamRow),
		submissions: make(map[int64][]feature.SubmissionRow),
		counts: TableCounts{
			Users:             len(tables.Users),
			TrackingRows:      len(tables.ModuleTracking),
			TutorialTypes:     len(tables.TutorialTypes),
			ExamRegistrations: len(tables.ExamRegistrations),
			ExamResults:       len(tables.ExamResults),
			Submissions:       len(tables.Submissions),
		},
	}

	for _, u := range tables.Users {
		s.users[u.ID] = u
	}

	for _, t := range tables.TutorialTypes {
		s.categories[t.ID] = t.Type
	}

	for _, m := range tables.ModuleTracking {
		s.tracking[m.DeveloperID] = append(s.tracking[m.DeveloperID], feature.TrackingRow{
			TutorialID:  m.TutorialID,
			FirstOpened: m.FirstOpened,
			Completed:   m.Completed,
			LastViewed:  m.LastViewed,
		})
	}

	// Resolve the registration->user join once so per-request exam lookups
	// are a single map hit.
	regOwner := make(map[int64]int64, len(tables.ExamRegistrations))
	for _, r := range tables.ExamRegistrations {
		regOwner[r.ID] = r.ExamineeID
	}
	for _, r := range tables.ExamResults {
		owner, ok := regOwner[r.RegistrationID]
		if !ok {
			continue
		}
		s.exams[owner] = append(s.exams[owner], feature.ExamRow{
			Score:  r.Score,
			Passed: r.Passed,
		})
	}

	for _, sub := range tables.Submissions {
		s.submissions[sub.SubmitterID] = append(s.submissions[sub.SubmitterID], feature.SubmissionRow{
			Rating: sub.Rating,
		})
	}

	return s
}

// User returns the users-table row for an id.
func (s *MemStore) User(_ context.Context, id int64) (User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// Tracking returns all module-tracking rows for a user.
func (s *MemStore) Tracking(_ context.Context, userID int64) []feature.TrackingRow {
	return s.tracking[userID]
}

// TutorialCategory resolves a tutorial id to its category label.
func (s *MemStore) TutorialCategory(_ context.Context, tutorialID int64) (string, bool) {
	c, ok := s.categories[tutorialID]
	return c, ok
}

// ExamResults returns the user's exam results joined through registrations.
func (s *MemStore) ExamResults(_ context.Context, userID int64) []feature.ExamRow {
	return s.exams[userID]
}

// Submissions returns all submissions made by a user.
func (s *MemStore) Submissions(_ context.Context, userID int64) []feature.SubmissionRow {
	return s.submissions[userID]
}

// Counts returns per-table row counts.
func (s *MemStore) Counts(_ context.Context) TableCounts {
	return s.counts
}
