// Package artifact loads the trained model and scaler artifacts produced by
// the offline training pipeline.
package artifact

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/okian/sensei/internal/domain/cluster"
	"github.com/okian/sensei/internal/domain/feature"
)

// modelFile is the on-disk shape of the clustering model artifact.
type modelFile struct {
	FeatureNames []string    `json:"feature_names"`
	Centroids    [][]float64 `json:"centroids"`
}

// scalerFile is the on-disk shape of the scaling-parameters artifact.
type scalerFile struct {
	Center []float64 `json:"center"`
	Scale  []float64 `json:"scale"`
}

// LoadModel reads the clustering model and validates it against the feature
// schema: the artifact's feature order must equal the schema exactly, and
// every centroid must have the schema's width.
func LoadModel(path string, schema feature.Schema) (cluster.Model, error) {
	var mf modelFile
	if err := readJSON(path, &mf); err != nil {
		return cluster.Model{}, err
	}

	if !schema.Equal(feature.Schema(mf.FeatureNames)) {
		return cluster.Model{}, fmt.Errorf("%w: %s feature_names disagree with the canonical schema", ErrSchemaMismatch, path)
	}
	if len(mf.Centroids) == 0 {
		return cluster.Model{}, fmt.Errorf("%w: %s has no centroids", ErrInvalidArtifact, path)
	}
	for i, c := range mf.Centroids {
		if len(c) != len(schema) {
			return cluster.Model{}, fmt.Errorf("%w: %s centroid %d has %d fields, schema has %d",
				ErrSchemaMismatch, path, i, len(c), len(schema))
		}
	}

	return cluster.Model{Centroids: mf.Centroids}, nil
}

// LoadScaler reads the scaling parameters and validates their cardinality
// against the feature schema.
func LoadScaler(path string, schema feature.Schema) (cluster.Scaler, error) {
	var sf scalerFile
	if err := readJSON(path, &sf); err != nil {
		return cluster.Scaler{}, err
	}

	if len(sf.Center) != len(schema) || len(sf.Scale) != len(schema) {
		return cluster.Scaler{}, fmt.Errorf("%w: %s has center/scale of %d/%d fields, schema has %d",
			ErrSchemaMismatch, path, len(sf.Center), len(sf.Scale), len(schema))
	}

	return cluster.Scaler{Center: sf.Center, Scale: sf.Scale}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	return nil
}
