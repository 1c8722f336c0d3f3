package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rewired-gh/ppsf/internal/models"
)

// ArtifactFormat identifies regressor artifact files.
const ArtifactFormat = "ppsf-regressor"

// Regressor kinds.
const (
	KindLinear = "linear"
	KindGBDT   = "gbdt"
)

// Artifact is the on-disk representation of a fitted regressor.
type Artifact struct {
	Format       string   `json:"format"`
	Version      int      `json:"version"`
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	FeatureNames []string `json:"feature_names"`

	// linear
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`

	// gbdt
	BaseScore    float64 `json:"base_score,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	Trees        []Tree  `json:"trees,omitempty"`
}

// Tree is a binary regression tree stored as a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split (Feature, Threshold, Left, Right) or a leaf (Leaf, Value).
// Rows with x[Feature] < Threshold go left.
type Node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

// Regressor evaluates a loaded Artifact.
type Regressor struct {
	artifact Artifact
}

// Load reads the artifact at path and checks it against the expected feature
// schema. Any failure is reported as models.ErrModelUnavailable.
func Load(path string, featureNames []string) (*Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read model file: %v", models.ErrModelUnavailable, err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: failed to decode model file %s: %v", models.ErrModelUnavailable, path, err)
	}

	r, err := NewRegressor(a, featureNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrModelUnavailable, path, err)
	}
	return r, nil
}

// NewRegressor validates a and returns a Regressor for it.
// featureNames may be nil to skip the schema name check.
func NewRegressor(a Artifact, featureNames []string) (*Regressor, error) {
	if a.Format != ArtifactFormat {
		return nil, fmt.Errorf("unsupported artifact format %q", a.Format)
	}
	if len(a.FeatureNames) == 0 {
		return nil, fmt.Errorf("artifact declares no features")
	}
	if featureNames != nil {
		if len(a.FeatureNames) != len(featureNames) {
			return nil, fmt.Errorf("schema mismatch: model expects %d features, builder produces %d", len(a.FeatureNames), len(featureNames))
		}
		for i, name := range featureNames {
			if a.FeatureNames[i] != name {
				return nil, fmt.Errorf("schema mismatch at feature %d: model expects %q, builder produces %q", i, a.FeatureNames[i], name)
			}
		}
	}

	n := len(a.FeatureNames)
	switch a.Kind {
	case KindLinear:
		if len(a.Coefficients) != n {
			return nil, fmt.Errorf("linear model has %d coefficients for %d features", len(a.Coefficients), n)
		}
	case KindGBDT:
		if len(a.Trees) == 0 {
			return nil, fmt.Errorf("gbdt model has no trees")
		}
		if a.LearningRate <= 0 {
			return nil, fmt.Errorf("gbdt learning_rate must be positive")
		}
		for i, t := range a.Trees {
			if err := t.validate(n); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
	default:
		return nil, fmt.Errorf("unknown model kind %q", a.Kind)
	}

	return &Regressor{artifact: a}, nil
}

// Name returns the artifact name.
func (r *Regressor) Name() string {
	return r.artifact.Name
}

// Kind returns the regressor kind.
func (r *Regressor) Kind() string {
	return r.artifact.Kind
}

// NumFeatures returns the number of features the regressor expects.
func (r *Regressor) NumFeatures() int {
	return len(r.artifact.FeatureNames)
}

// Predict evaluates the regressor on one feature row.
func (r *Regressor) Predict(_ context.Context, x []float64) (float64, error) {
	if len(x) != r.NumFeatures() {
		return 0, fmt.Errorf("%w: expected %d features, got %d", models.ErrPredictionFailure, r.NumFeatures(), len(x))
	}

	var y float64
	switch r.artifact.Kind {
	case KindLinear:
		y = r.artifact.Intercept
		for i, c := range r.artifact.Coefficients {
			y += c * x[i]
		}
	case KindGBDT:
		y = r.artifact.BaseScore
		for i := range r.artifact.Trees {
			y += r.artifact.LearningRate * r.artifact.Trees[i].eval(x)
		}
	}

	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: model produced non-finite output", models.ErrPredictionFailure)
	}
	return y, nil
}

func (t *Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// validate checks node references and that every path reaches a leaf.
// Children must point forward so evaluation always terminates.
func (t *Tree) validate(numFeatures int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, n.Feature, numFeatures)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return nil
}
