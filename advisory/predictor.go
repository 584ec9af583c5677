package advisory

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// zScore95 approximates the two-sided 95% normal quantile.
const zScore95 = 1.96

// PredictionResult is the full outcome of one yield prediction.
type PredictionResult struct {
	PredictedYield       float64            `json:"predicted_yield"`
	LowerBound           float64            `json:"lower_bound"`
	UpperBound           float64            `json:"upper_bound"`
	ConfidenceInterval   string             `json:"confidence_interval"`
	YieldCategory        string             `json:"yield_category"`
	ModelUsed            string             `json:"model_used"`
	EngineeredFeatures   map[string]float64 `json:"engineered_features"`
	Recommendations      []string           `json:"recommendations"`
	MissingFeaturesCount int                `json:"missing_features_count"`
}

// Predictor runs the engineer -> build -> scale -> infer pipeline against a
// loaded model package. Stateless per request; the package is read-only.
type Predictor struct {
	pkg *ModelPackage
}

// NewPredictor wraps a loaded model package.
func NewPredictor(pkg *ModelPackage) *Predictor { return &Predictor{pkg: pkg} }

// Package exposes the underlying model package.
func (p *Predictor) Package() *ModelPackage { return p.pkg }

// Predict scores one sample. Every internal failure, including a panic
// from a malformed model, comes back as an error value, never a crash.
func (p *Predictor) Predict(sample Sample, cropType string) (result *PredictionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("prediction failed: %v", r)
		}
	}()

	if p.pkg == nil || p.pkg.Model == nil {
		return nil, fmt.Errorf("model not loaded")
	}

	engineered := EngineerFeatures(sample)
	features, missing := BuildFeatures(engineered, p.pkg)

	if p.pkg.UseScaling && p.pkg.Scaler != nil {
		features, err = p.pkg.Scaler.Transform(features)
		if err != nil {
			return nil, fmt.Errorf("prediction failed: %w", err)
		}
	}

	prediction := p.pkg.Model.Predict(features)
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return nil, fmt.Errorf("prediction failed: model returned non-finite value")
	}

	std := interval(p.pkg.Model, features, prediction)
	lower := math.Max(0, prediction-zScore95*std)
	upper := prediction + zScore95*std

	return &PredictionResult{
		PredictedYield:     round1(prediction),
		LowerBound:         round1(lower),
		UpperBound:         round1(upper),
		ConfidenceInterval: "95%",
		YieldCategory:      CategorizeYield(prediction, cropType),
		ModelUsed:          p.pkg.ModelName,
		EngineeredFeatures: map[string]float64{
			"vegetation_health_score": round3(engineered.Numeric["vegetation_health_score"]),
			"soil_fertility_index":    round3(engineered.Numeric["soil_fertility_index"]),
			"yield_potential_score":   round3(engineered.Numeric["yield_potential_score"]),
			"heat_stress":             round3(engineered.Numeric["heat_stress"]),
			"drought_risk":            round3(engineered.Numeric["drought_risk"]),
		},
		Recommendations:      AgronomicAdvice(engineered, cropType),
		MissingFeaturesCount: missing,
	}, nil
}

// interval returns the prediction standard deviation: spread across
// sub-estimators for ensembles, a flat 10% relative uncertainty otherwise.
func interval(model Regressor, features []float64, prediction float64) float64 {
	if ens, ok := model.(Ensemble); ok {
		estimators := ens.Estimators()
		if len(estimators) > 1 {
			preds := make([]float64, len(estimators))
			for i, e := range estimators {
				preds[i] = e.Predict(features)
			}
			std, err := stats.StandardDeviation(preds)
			if err == nil {
				return std
			}
		}
	}
	return math.Abs(prediction) * 0.1
}

// yieldThresholds holds per-crop {high, medium} kg/acre cutoffs.
var yieldThresholds = map[string][2]float64{
	"wheat":  {4500, 3500},
	"rice":   {6000, 5000},
	"cotton": {500, 350},
}

// CategorizeYield buckets a point estimate into High/Medium/Low using
// crop-specific thresholds. Crops without thresholds report Unknown.
func CategorizeYield(yield float64, cropType string) string {
	t, ok := yieldThresholds[normalizeCrop(cropType)]
	if !ok {
		return "Unknown"
	}
	switch {
	case yield >= t[0]:
		return "High"
	case yield >= t[1]:
		return "Medium"
	default:
		return "Low"
	}
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
