// Package insight renders narrative explanations and ordered reason lists
// for cluster assignments.
package insight

import (
	"fmt"
	"strings"

	"github.com/okian/sensei/internal/domain/feature"
	"github.com/okian/sensei/internal/domain/types"
)

// Thresholds are the product-policy cut points for the reason rules. They
// are configuration, not derived from the clustering math.
type Thresholds struct {
	SufficientVolume   float64 // strength: completed modules above
	GoodScore          float64 // strength: mean exam score above
	ConsistentActivity float64 // strength: active days above
	LowRevision        float64 // strength: review ratio below
	LowVolume          float64 // weakness: completed modules below
	NeedsImprovement   float64 // weakness: mean exam score below
	HighRevision       float64 // weakness: review ratio above
	ExcessiveTime      float64 // weakness: mean module duration (seconds) above
}

// DefaultThresholds returns the observed production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SufficientVolume:   20,
		GoodScore:          80,
		ConsistentActivity: 30,
		LowRevision:        0.10,
		LowVolume:          5,
		NeedsImprovement:   60,
		HighRevision:       0.50,
		ExcessiveTime:      14400,
	}
}

// Tiers are the confidence tier cut points on a 0-100 scale. The top tier
// is reserved for exactly 100.
type Tiers struct {
	HighCut float64
	LowCut  float64
}

// DefaultTiers returns the default tier cut points.
func DefaultTiers() Tiers {
	return Tiers{HighCut: 70, LowCut: 40}
}

// stats are the narrative placeholder values derived from a feature vector.
type stats struct {
	ActiveDays  float64
	AvgHours    float64
	Modules     float64
	ReviewRatio float64
	Score       float64
	AvgSeconds  float64
}

func statsOf(v feature.Vector) stats {
	s := stats{
		ActiveDays: v.Get(feature.FieldActiveDays),
		AvgSeconds: v.Get(feature.FieldAvgDuration),
		Modules:    v.Get(feature.FieldModulesCompleted),
		Score:      v.Get(feature.FieldAvgExamScore),
	}
	s.AvgHours = s.AvgSeconds / 3600
	if s.Modules > 0 {
		s.ReviewRatio = v.Get(feature.FieldReviews) / s.Modules
	}
	return s
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithThresholds sets the reason-rule thresholds.
func WithThresholds(t Thresholds) Option {
	return func(g *Generator) { g.thresholds = t }
}

// WithTiers sets the confidence tier cut points.
func WithTiers(t Tiers) Option {
	return func(g *Generator) {
		if t.HighCut > t.LowCut && t.LowCut >= 0 {
			g.tiers = t
		}
	}
}

// Generator produces the narrative text and the ordered reason list.
type Generator struct {
	thresholds Thresholds
	tiers      Tiers
}

// NewGenerator creates a generator with default configuration.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		thresholds: DefaultThresholds(),
		tiers:      DefaultTiers(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Explain renders the narrative for a cluster assignment and builds the
// ordered reason list. Rules are evaluated in a fixed order so output is
// deterministic for identical inputs; the confidence note is always last.
func (g *Generator) Explain(clusterID int, v feature.Vector, confidence float64) (string, []types.Reason) {
	s := statsOf(v)
	pct := confidence * 100

	reasons := g.evaluateRules(s)
	if len(reasons) == 0 {
		reasons = append(reasons, types.Reason{
			Type:   types.ReasonNeutral,
			Metric: "profile_fit",
			Value:  pct,
			Note:   "Your learning pattern is broadly consistent with this profile.",
		})
	}
	reasons = append(reasons, types.Reason{
		Type:   types.ReasonNeutral,
		Metric: "confidence",
		Value:  pct,
		Note:   g.tierSentence(pct),
	})

	var b strings.Builder
	if body := renderNarrative(clusterID, s); body != "" {
		b.WriteString(body)
		b.WriteByte(' ')
	}
	b.WriteString(g.tierSentence(pct))
	b.WriteString("\n\n")
	for i, r := range reasons {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.Note)
	}
	return b.String(), reasons
}

// rule is one predicate+note pair. Adding a rule appends to this list and
// cannot reorder existing output.
type rule struct {
	typ    types.ReasonType
	metric string
	fires  func(Thresholds, stats) bool
	value  func(stats) float64
	note   func(Thresholds, stats) string
}

var rules = []rule{
	{
		typ:    types.ReasonStrength,
		metric: feature.FieldModulesCompleted,
		fires:  func(t Thresholds, s stats) bool { return s.Modules > t.SufficientVolume },
		value:  func(s stats) float64 { return s.Modules },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("You have completed a high volume of modules (%.0f).", s.Modules)
		},
	},
	{
		typ:    types.ReasonStrength,
		metric: feature.FieldAvgExamScore,
		fires:  func(t Thresholds, s stats) bool { return s.Score > t.GoodScore },
		value:  func(s stats) float64 { return s.Score },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("Your average exam score of %.0f is good.", s.Score)
		},
	},
	{
		typ:    types.ReasonStrength,
		metric: feature.FieldActiveDays,
		fires:  func(t Thresholds, s stats) bool { return s.ActiveDays > t.ConsistentActivity },
		value:  func(s stats) float64 { return s.ActiveDays },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("You show consistent activity across %.0f days.", s.ActiveDays)
		},
	},
	{
		typ:    types.ReasonStrength,
		metric: "review_ratio",
		fires:  func(t Thresholds, s stats) bool { return s.ReviewRatio < t.LowRevision },
		value:  func(s stats) float64 { return s.ReviewRatio },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("You rarely need to revise finished work (ratio %.2f).", s.ReviewRatio)
		},
	},
	{
		typ:    types.ReasonWeakness,
		metric: feature.FieldModulesCompleted,
		fires:  func(t Thresholds, s stats) bool { return s.Modules < t.LowVolume },
		value:  func(s stats) float64 { return s.Modules },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("You have completed only %.0f modules so far.", s.Modules)
		},
	},
	{
		typ:    types.ReasonWeakness,
		metric: feature.FieldAvgExamScore,
		fires:  func(t Thresholds, s stats) bool { return s.Score < t.NeedsImprovement },
		value:  func(s stats) float64 { return s.Score },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("Your average exam score of %.0f needs improvement.", s.Score)
		},
	},
	{
		typ:    types.ReasonWeakness,
		metric: "review_ratio",
		fires:  func(t Thresholds, s stats) bool { return s.ReviewRatio > t.HighRevision },
		value:  func(s stats) float64 { return s.ReviewRatio },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("You revisit finished work often (ratio %.2f).", s.ReviewRatio)
		},
	},
	{
		typ:    types.ReasonWeakness,
		metric: feature.FieldAvgDuration,
		fires:  func(t Thresholds, s stats) bool { return s.AvgSeconds > t.ExcessiveTime },
		value:  func(s stats) float64 { return s.AvgSeconds },
		note: func(_ Thresholds, s stats) string {
			return fmt.Sprintf("You spend a long time per module (%.1f hours on average).", s.AvgHours)
		},
	},
}

func (g *Generator) evaluateRules(s stats) []types.Reason {
	var out []types.Reason
	for _, r := range rules {
		if !r.fires(g.thresholds, s) {
			continue
		}
		out = append(out, types.Reason{
			Type:   r.typ,
			Metric: r.metric,
			Value:  r.value(s),
			Note:   r.note(g.thresholds, s),
		})
	}
	return out
}

// tierSentence buckets the confidence on a 0-100 scale. Cut points are a
// product choice carried in configuration.
func (g *Generator) tierSentence(pct float64) string {
	switch {
	case pct >= 100:
		return "The pattern matches this profile exactly."
	case pct >= g.tiers.HighCut:
		return fmt.Sprintf("This assignment is made with solid confidence (%.0f/100).", pct)
	case pct >= g.tiers.LowCut:
		return fmt.Sprintf("This assignment is moderately confident (%.0f/100).", pct)
	default:
		return fmt.Sprintf("Confidence in this assignment is low (%.0f/100); treat it as indicative only.", pct)
	}
}
