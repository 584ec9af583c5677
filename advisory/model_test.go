package advisory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forestArtifact = `{
  "model_name": "RandomForestRegressor",
  "model": {
    "type": "forest",
    "trees": [
      {"nodes": [
        {"feature": 0, "threshold": 5.0, "left": 1, "right": 2, "value": 0},
        {"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 1000},
        {"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 2000}
      ]},
      {"nodes": [
        {"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 1500}
      ]}
    ]
  },
  "feature_names": ["farm_size_acres", "crop_type_encoded"],
  "label_encoders": {"crop_type": ["Cotton", "Rice", "Wheat"]},
  "use_scaling": false
}`

func TestLoadModelPackageFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(forestArtifact), 0o644))

	pkg, err := LoadModelPackage(path)
	require.NoError(t, err)
	assert.Equal(t, "RandomForestRegressor", pkg.ModelName)
	assert.Equal(t, []string{"farm_size_acres", "crop_type_encoded"}, pkg.FeatureNames)

	enc, ok := pkg.LabelEncoders["crop_type"]
	require.True(t, ok)
	idx, seen := enc.Transform("Wheat")
	assert.True(t, seen)
	assert.Equal(t, 2, idx)
	idx, seen = enc.Transform("Quinoa")
	assert.False(t, seen)
	assert.Zero(t, idx)
}

func TestLoadModelPackageMissingFile(t *testing.T) {
	_, err := LoadModelPackage(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParseModelPackageRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"corrupt json":    `{"model_name": `,
		"no features":     `{"model_name":"m","model":{"type":"linear"},"feature_names":[]}`,
		"no model":        `{"model_name":"m","feature_names":["a"]}`,
		"unknown model":   `{"model_name":"m","model":{"type":"svm"},"feature_names":["a"]}`,
		"empty forest":    `{"model_name":"m","model":{"type":"forest","trees":[]},"feature_names":["a"]}`,
		"scaler mismatch": `{"model_name":"m","model":{"type":"linear"},"feature_names":["a","b"],"use_scaling":true,"scaler":{"mean":[0],"scale":[1]}}`,
	}
	for name, doc := range cases {
		_, err := ParseModelPackage([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestRegressionTreePredict(t *testing.T) {
	tree := RegressionTree{Nodes: []TreeNode{
		{Feature: 0, Threshold: 5.0, Left: 1, Right: 2},
		{Feature: -1, Value: 1000},
		{Feature: -1, Value: 2000},
	}}
	assert.Equal(t, 1000.0, tree.Predict([]float64{3}))
	assert.Equal(t, 1000.0, tree.Predict([]float64{5}))
	assert.Equal(t, 2000.0, tree.Predict([]float64{7}))
}

func TestForestAveragesAndExposesEstimators(t *testing.T) {
	pkg, err := ParseModelPackage([]byte(forestArtifact))
	require.NoError(t, err)

	forest, ok := pkg.Model.(*Forest)
	require.True(t, ok)
	// Tree one returns 2000 for size > 5, tree two always 1500.
	assert.InDelta(t, 1750, forest.Predict([]float64{10, 0}), 1e-9)

	ens, ok := pkg.Model.(Ensemble)
	require.True(t, ok)
	assert.Len(t, ens.Estimators(), 2)
}

func TestLinearModelPredict(t *testing.T) {
	m := LinearModel{Weights: []float64{2, 3}, Intercept: 10}
	assert.Equal(t, 10+2*1+3*2, int(m.Predict([]float64{1, 2})))
}

func TestStandardScalerTransform(t *testing.T) {
	s := StandardScaler{Mean: []float64{10, 0}, Scale: []float64{2, 0}}
	out, err := s.Transform([]float64{14, 5})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, out) // zero scale treated as identity

	_, err = s.Transform([]float64{1})
	assert.Error(t, err)
}

func TestHeuristicModelDeterministicAndClamped(t *testing.T) {
	pkg := FallbackPackage()
	assert.Equal(t, HeuristicModelName, pkg.ModelName)

	s := NewSample("wheat", "Ludhiana", 5.0, Estimate("wheat", 31.6340, 75.8573, 2025))
	vec, _ := BuildFeatures(s, pkg)
	require.Len(t, vec, 4)

	y1 := pkg.Model.Predict(vec)
	y2 := pkg.Model.Predict(vec)
	assert.Equal(t, y1, y2)
	assert.GreaterOrEqual(t, y1, 800.0)
	assert.LessOrEqual(t, y1, 3500.0)
}

func TestHeuristicModelUsesOwnCropBaseYield(t *testing.T) {
	m := &HeuristicModel{}
	// Anchor latitude and 5 acres keep both scale factors at 1.0, so the
	// prediction is exactly the crop's base yield.
	for crop, base := range heuristicBaseYields {
		y := m.Predict([]float64{5.0, 31.0, 75.5, float64(CropHash(crop))})
		assert.Equal(t, base, y, crop)
	}

	// Hash codes outside the table fall back to the middle base.
	assert.Equal(t, 1500.0, m.Predict([]float64{5.0, 31.0, 75.5, -1}))
}

func TestHeuristicModelHandlesShortVector(t *testing.T) {
	m := &HeuristicModel{}
	y := m.Predict(nil)
	assert.GreaterOrEqual(t, y, 800.0)
	assert.LessOrEqual(t, y, 3500.0)
}
