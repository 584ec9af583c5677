package advisory

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Regressor is the minimal model surface the predictor needs.
type Regressor interface {
	// Predict scores one feature vector aligned to the package schema.
	Predict(features []float64) float64
}

// Ensemble is implemented by models built from sub-estimators; the spread
// of their individual predictions drives the confidence interval.
type Ensemble interface {
	Regressor
	Estimators() []Regressor
}

// LabelEncoder reproduces the categorical-to-integer mapping fitted during
// training. Classes keep their fitted order; codes are their indices.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder builds an encoder over the fitted class list.
func NewLabelEncoder(classes []string) LabelEncoder {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return LabelEncoder{classes: classes, index: idx}
}

// Transform returns the integer code for a value. Unseen values map to
// code 0 with ok=false; the builder treats that as a silent default.
func (e LabelEncoder) Transform(value string) (int, bool) {
	if i, ok := e.index[value]; ok {
		return i, true
	}
	return 0, false
}

// Classes returns the fitted class list in code order.
func (e LabelEncoder) Classes() []string { return e.classes }

// StandardScaler applies the per-column standardization fitted at training
// time: (x - mean) / scale.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes a feature vector. Column count must match the
// fitted statistics.
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(features) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d columns, got %d", len(s.Mean), len(features))
	}
	out := make([]float64, len(features))
	for i, v := range features {
		sc := s.Scale[i]
		if sc == 0 {
			sc = 1
		}
		out[i] = (v - s.Mean[i]) / sc
	}
	return out, nil
}

// ModelPackage is the in-process form of the serialized model artifact:
// the fitted model, its feature schema, per-column label encoders and the
// optional scaler. Loaded once at startup and read-only afterwards, so
// concurrent request handlers can share it freely.
type ModelPackage struct {
	ModelName     string
	Model         Regressor
	FeatureNames  []string
	LabelEncoders map[string]LabelEncoder
	Scaler        *StandardScaler
	UseScaling    bool
}

// artifactDoc is the on-disk JSON layout of a model package.
type artifactDoc struct {
	ModelName     string              `json:"model_name"`
	Model         json.RawMessage     `json:"model"`
	FeatureNames  []string            `json:"feature_names"`
	LabelEncoders map[string][]string `json:"label_encoders"`
	Scaler        *StandardScaler     `json:"scaler"`
	UseScaling    bool                `json:"use_scaling"`
}

// LoadModelPackage reads and validates a model artifact from disk.
func LoadModelPackage(path string) (*ModelPackage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return ParseModelPackage(data)
}

// ParseModelPackage decodes a model artifact from its JSON form.
func ParseModelPackage(data []byte) (*ModelPackage, error) {
	var doc artifactDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(doc.FeatureNames) == 0 {
		return nil, fmt.Errorf("model artifact has no feature names")
	}
	model, err := decodeModel(doc.Model)
	if err != nil {
		return nil, err
	}
	if doc.UseScaling && doc.Scaler != nil {
		if len(doc.Scaler.Mean) != len(doc.FeatureNames) || len(doc.Scaler.Scale) != len(doc.FeatureNames) {
			return nil, fmt.Errorf("scaler statistics do not match feature schema (%d features)", len(doc.FeatureNames))
		}
	}

	encoders := make(map[string]LabelEncoder, len(doc.LabelEncoders))
	for col, classes := range doc.LabelEncoders {
		encoders[col] = NewLabelEncoder(classes)
	}

	name := doc.ModelName
	if name == "" {
		name = "unknown"
	}
	return &ModelPackage{
		ModelName:     name,
		Model:         model,
		FeatureNames:  doc.FeatureNames,
		LabelEncoders: encoders,
		Scaler:        doc.Scaler,
		UseScaling:    doc.UseScaling,
	}, nil
}

// ---- model decoding ----

type modelEnvelope struct {
	Type string `json:"type"`
}

func decodeModel(raw json.RawMessage) (Regressor, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("model artifact has no model section")
	}
	var env modelEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode model section: %w", err)
	}
	switch env.Type {
	case "forest":
		var f Forest
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("decode forest model: %w", err)
		}
		if len(f.Trees) == 0 {
			return nil, fmt.Errorf("forest model has no trees")
		}
		return &f, nil
	case "linear":
		var l LinearModel
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("decode linear model: %w", err)
		}
		return &l, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", env.Type)
	}
}

// ---- regression tree / forest ----

// TreeNode is one node of a flat-array regression tree. Internal nodes
// route on feature <= threshold; leaves carry Feature == -1 and a value.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// RegressionTree evaluates a single exported decision tree.
type RegressionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict walks the tree from the root to a leaf.
func (t *RegressionTree) Predict(features []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		next := n.Right
		if n.Feature < len(features) && features[n.Feature] <= n.Threshold {
			next = n.Left
		}
		if next < 0 || next >= len(t.Nodes) || next == i {
			return n.Value
		}
		i = next
	}
}

// Forest averages its trees and exposes them as sub-estimators.
type Forest struct {
	Trees []RegressionTree `json:"trees"`
}

func (f *Forest) Predict(features []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].Predict(features)
	}
	return sum / float64(len(f.Trees))
}

func (f *Forest) Estimators() []Regressor {
	out := make([]Regressor, len(f.Trees))
	for i := range f.Trees {
		out[i] = &f.Trees[i]
	}
	return out
}

// LinearModel is a plain weighted sum with intercept.
type LinearModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (l *LinearModel) Predict(features []float64) float64 {
	y := l.Intercept
	for i, w := range l.Weights {
		if i < len(features) {
			y += w * features[i]
		}
	}
	return y
}

// ---- heuristic fallback ----

// HeuristicModelName is reported by /health when the service runs on the
// fallback instead of a trained artifact.
const HeuristicModelName = "HeuristicModel"

var heuristicBaseYields = map[string]float64{
	"wheat":   1800,
	"rice":    2200,
	"corn":    2000,
	"maize":   2000,
	"cotton":  900,
	"soybean": 1300,
	"barley":  1600,
	"mustard": 1100,
}

var heuristicCropOrder = func() []string {
	crops := make([]string, 0, len(heuristicBaseYields))
	for c := range heuristicBaseYields {
		crops = append(crops, c)
	}
	sort.Strings(crops)
	return crops
}()

// HeuristicModel stands in when no trained artifact can be loaded. It
// resolves the hashed crop code back to its base yield and scales that by
// latitude and farm size, clamped to a plausible kg/acre range. Crops
// outside the table get a middle base. Deterministic on purpose so
// degraded-mode responses are reproducible.
type HeuristicModel struct{}

// Feature layout consumed by the heuristic model (see FallbackPackage).
const (
	heuristicFarmSize = iota
	heuristicLatitude
	heuristicLongitude
	heuristicCropHash
)

func (m *HeuristicModel) Predict(features []float64) float64 {
	size, lat, hash := 5.0, 31.0, 0
	if len(features) > heuristicFarmSize {
		size = features[heuristicFarmSize]
	}
	if len(features) > heuristicLatitude {
		lat = features[heuristicLatitude]
	}
	if len(features) > heuristicCropHash {
		hash = int(features[heuristicCropHash])
	}

	base := 1500.0
	for _, c := range heuristicCropOrder {
		if CropHash(c) == hash {
			base = heuristicBaseYields[c]
			break
		}
	}

	latFactor := 1.0 + (lat-31.0)*0.02
	sizeFactor := math.Min(1.2, 1.0+(size-5.0)*0.01)

	y := base * latFactor * sizeFactor
	return math.Max(800, math.Min(3500, y))
}

// FallbackPackage returns the degraded-mode model package substituted when
// the trained artifact is missing or unreadable. Its schema deliberately
// avoids label encoders; the crop enters through the hash feature.
func FallbackPackage() *ModelPackage {
	return &ModelPackage{
		ModelName:    HeuristicModelName,
		Model:        &HeuristicModel{},
		FeatureNames: []string{"farm_size_acres", "latitude", "longitude", "crop_hash"},
	}
}
