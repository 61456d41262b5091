// Package profile maps cluster ids to human-readable learner profiles.
package profile

import "fmt"

// Profile describes one behavioral cluster.
type Profile struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	ConceptTag  string `json:"concept_tag"`
}

// Catalog is a static cluster id -> profile lookup. The catalog is not
// guaranteed to cover every id the model can produce.
type Catalog map[int]Profile

// Default returns the trained model's four learner profiles.
func Default() Catalog {
	return Catalog{
		0: {
			Label: "Fast Learner",
			Description: "Studies infrequently, but moves through modules very quickly " +
				"once started and keeps exam scores solid. Module volume is relatively " +
				"low and submissions are rarely revised.",
			ConceptTag: "fast_learner",
		},
		1: {
			Label: "Consistent Learner",
			Description: "Studies steadily, completes many modules, and scores high on " +
				"exams. Revision activity sits in the middle of the range.",
			ConceptTag: "consistent_learner",
		},
		2: {
			Label: "Reflective Learner",
			Description: "Very frequently active and completes many modules, but spends " +
				"a long time per module and tends to revisit material in depth.",
			ConceptTag: "reflective_learner",
		},
		3: {
			Label: "Struggling Learner",
			Description: "Fairly active and experiments a lot with submissions (high " +
				"revision), but exam scores stay relatively low and core concepts " +
				"need reinforcing.",
			ConceptTag: "struggling_learner",
		},
	}
}

// Resolve returns the profile for a cluster id. An unmapped id is missing
// metadata, not an error: it resolves to a generated placeholder label.
func (c Catalog) Resolve(clusterID int) Profile {
	if p, ok := c[clusterID]; ok {
		return p
	}
	return Profile{
		Label:      fmt.Sprintf("Cluster %d", clusterID),
		ConceptTag: "unknown",
	}
}
