package feature

import (
	"context"
	"math"
	"time"
)

// Duration outlier bounds, in seconds, both exclusive. Shorter durations are
// instrumentation noise; longer ones are abandoned-then-resumed sessions.
const (
	defaultMinDurationSeconds = 5
	defaultMaxDurationSeconds = 259200 // 3 days
)

const dayLayout = "2006-01-02"

// TrackingRow is one module-tracking event for a user. Timestamps are
// nullable; a row missing FirstOpened or Completed is incomplete and takes
// no part in duration-based aggregates.
type TrackingRow struct {
	TutorialID  int64
	FirstOpened *time.Time
	Completed   *time.Time
	LastViewed  *time.Time
}

// ExamRow is one exam result joined onto the user's registration.
type ExamRow struct {
	Score  float64
	Passed bool
}

// SubmissionRow is one submission; Rating is nullable.
type SubmissionRow struct {
	Rating *float64
}

// Source abstracts the raw-data snapshot the aggregator reads from.
type Source interface {
	// Tracking returns all module-tracking rows for a user.
	Tracking(ctx context.Context, userID int64) []TrackingRow

	// TutorialCategory resolves a tutorial id to its category label.
	TutorialCategory(ctx context.Context, tutorialID int64) (string, bool)

	// ExamResults returns exam results joined for a user.
	ExamResults(ctx context.Context, userID int64) []ExamRow

	// Submissions returns all submissions made by a user.
	Submissions(ctx context.Context, userID int64) []SubmissionRow
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithSchema sets the feature schema the aggregator populates.
func WithSchema(schema Schema) Option {
	return func(a *Aggregator) {
		if len(schema) > 0 {
			a.schema = schema
		}
	}
}

// WithDurationBounds sets the exclusive duration outlier bounds in seconds.
func WithDurationBounds(minSeconds, maxSeconds float64) Option {
	return func(a *Aggregator) {
		if minSeconds >= 0 && maxSeconds > minSeconds {
			a.minDuration = minSeconds
			a.maxDuration = maxSeconds
		}
	}
}

// Aggregator converts a user's raw tables into a fixed feature vector.
type Aggregator struct {
	schema      Schema
	minDuration float64
	maxDuration float64
}

// NewAggregator creates an aggregator over the default schema and bounds.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		schema:      DefaultSchema(),
		minDuration: defaultMinDurationSeconds,
		maxDuration: defaultMaxDurationSeconds,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Schema returns the schema the aggregator populates.
func (a *Aggregator) Schema() Schema { return a.schema }

// completedRow is a tracking row that survived the completeness and
// duration-outlier filters, with its category attached.
type completedRow struct {
	duration float64
	day      string
	category string
	reviewed bool
}

// Aggregate computes the feature vector for a user. A user with no tracking
// rows, no completed rows, or only outlier durations yields an all-zero
// vector; the exam and submission aggregates are only populated when at
// least one in-bounds completed row exists.
func (a *Aggregator) Aggregate(ctx context.Context, userID int64, src Source) Vector {
	v := NewVector(a.schema)

	tracking := src.Tracking(ctx, userID)
	if len(tracking) == 0 {
		return v
	}

	rows := a.filterCompleted(ctx, tracking, src)
	if len(rows) == 0 {
		return v
	}

	a.aggregateTracking(v, rows)
	a.aggregateExams(v, src.ExamResults(ctx, userID))
	a.aggregateSubmissions(v, src.Submissions(ctx, userID))
	return v
}

// filterCompleted keeps rows with both timestamps present and an in-bounds
// duration, attaching the tutorial category and review flag.
func (a *Aggregator) filterCompleted(ctx context.Context, tracking []TrackingRow, src Source) []completedRow {
	rows := make([]completedRow, 0, len(tracking))
	for _, t := range tracking {
		if t.FirstOpened == nil || t.Completed == nil {
			continue
		}
		duration := t.Completed.Sub(*t.FirstOpened).Seconds()
		if duration <= a.minDuration || duration >= a.maxDuration {
			continue
		}
		category, _ := src.TutorialCategory(ctx, t.TutorialID)
		rows = append(rows, completedRow{
			duration: duration,
			day:      t.Completed.Format(dayLayout),
			category: category,
			reviewed: t.LastViewed != nil && t.LastViewed.After(*t.Completed),
		})
	}
	return rows
}

func (a *Aggregator) aggregateTracking(v Vector, rows []completedRow) {
	var totalDuration float64
	var reviews int
	perDay := make(map[string]int)
	catDuration := make(map[string]float64)
	catCount := make(map[string]int)

	for _, r := range rows {
		totalDuration += r.duration
		if r.reviewed {
			reviews++
		}
		perDay[r.day]++
		if r.category != "" {
			catDuration[r.category] += r.duration
			catCount[r.category]++
		}
	}

	v.Set(FieldModulesCompleted, float64(len(rows)))
	v.Set(FieldAvgDuration, totalDuration/float64(len(rows)))
	v.Set(FieldReviews, float64(reviews))
	v.Set(FieldActiveDays, float64(len(perDay)))
	v.Set(FieldDailyStddev, dailyStddev(perDay))

	for _, c := range Categories {
		if n := catCount[c]; n > 0 {
			v.Set(DurationField(c), catDuration[c]/float64(n))
			v.Set(CountField(c), float64(n))
		}
	}
}

func (a *Aggregator) aggregateExams(v Vector, exams []ExamRow) {
	if len(exams) == 0 {
		return
	}
	var totalScore float64
	var passed int
	for _, e := range exams {
		totalScore += e.Score
		if e.Passed {
			passed++
		}
	}
	v.Set(FieldAvgExamScore, totalScore/float64(len(exams)))
	v.Set(FieldExamPassRate, float64(passed)/float64(len(exams)))
	v.Set(FieldExamsTaken, float64(len(exams)))
}

func (a *Aggregator) aggregateSubmissions(v Vector, subs []SubmissionRow) {
	var total float64
	var rated int
	for _, s := range subs {
		if s.Rating == nil {
			continue
		}
		total += *s.Rating
		rated++
	}
	if rated == 0 {
		return
	}
	v.Set(FieldAvgSubmitRating, total/float64(rated))
	v.Set(FieldSubmissions, float64(rated))
}

// dailyStddev returns the sample standard deviation of per-day completion
// counts. A single active day has no defined sample deviation and yields 0.
func dailyStddev(perDay map[string]int) float64 {
	n := len(perDay)
	if n <= 1 {
		return 0
	}
	var sum float64
	for _, c := range perDay {
		sum += float64(c)
	}
	mean := sum / float64(n)
	var sq float64
	for _, c := range perDay {
		d := float64(c) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}
