// Package repository provides the immutable raw-data snapshot the
// prediction pipeline reads from.
package repository

import (
	"context"

	"github.com/okian/sensei/internal/domain/feature"
)

// Store provides read-only access to the raw-data snapshot. Implementations
// are immutable after construction: no method mutates state and all methods
// are safe for concurrent use without synchronization.
type Store interface {
	// User returns the users-table row for an id.
	User(ctx context.Context, id int64) (User, bool)

	// Tracking returns all module-tracking rows for a user.
	Tracking(ctx context.Context, userID int64) []feature.TrackingRow

	// TutorialCategory resolves a tutorial id to its category label.
	TutorialCategory(ctx context.Context, tutorialID int64) (string, bool)

	// ExamResults returns the user's exam results joined through the
	// registration table.
	ExamResults(ctx context.Context, userID int64) []feature.ExamRow

	// Submissions returns all submissions made by a user.
	Submissions(ctx context.Context, userID int64) []feature.SubmissionRow

	// Counts returns per-table row counts.
	Counts(ctx context.Context) TableCounts
}
