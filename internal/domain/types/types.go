// Package types contains common types used across the application.
package types

import "github.com/okian/sensei/internal/domain/feature"

// ReasonType classifies a reason item.
type ReasonType string

// Reason type values.
const (
	ReasonStrength ReasonType = "strength"
	ReasonWeakness ReasonType = "weakness"
	ReasonNeutral  ReasonType = "neutral"
)

// Reason is one typed explanation item for a prediction.
type Reason struct {
	Type   ReasonType `json:"type"`
	Metric string     `json:"metric"`
	Value  float64    `json:"value"`
	Note   string     `json:"note"`
}

// Prediction statuses surfaced to callers. NotActive and NotFound are data,
// not faults: the caller branches on them.
const (
	StatusOK       = "ok"
	StatusInactive = "no completed work yet"
	StatusNotFound = "user not found"
)

// InactiveClusterID is the sentinel cluster id for Not-Active / Not-Found
// predictions.
const InactiveClusterID = -1

// NotActiveLabel is the label used for both short-circuit results.
const NotActiveLabel = "Not Active"

// Prediction is the full result of the prediction pipeline for one user.
type Prediction struct {
	Label       string         `json:"label"`
	ClusterID   int            `json:"cluster_id"`
	Confidence  float64        `json:"confidence"`
	Reasons     []Reason       `json:"reasons"`
	Narrative   string         `json:"narrative"`
	Features    feature.Vector `json:"features"`
	UserID      int64          `json:"user_id"`
	DisplayName string         `json:"display_name"`
	Status      string         `json:"status"`
}

// Active reports whether the prediction carries a real cluster assignment.
func (p Prediction) Active() bool { return p.ClusterID != InactiveClusterID }
