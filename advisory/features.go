package advisory

import (
	"hash/fnv"
	"strings"
)

const encodedSuffix = "_encoded"

// Sample carries the merged per-request inputs keyed by the training
// schema's column names. Numeric holds everything the model can consume
// directly; Categorical holds raw values that still need label encoding.
type Sample struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// NewSample assembles the model input for one farm query: farm attributes,
// the estimated parameters, season/month one-hot indicators and the
// defaulted site constants the training data carried.
func NewSample(crop, district string, acres float64, p EstimatedParameters) Sample {
	num := map[string]float64{
		"farm_size_acres": acres,
		"latitude":        p.Latitude,
		"longitude":       p.Longitude,
		"year":            float64(p.Year),
		"sowing_month":    float64(p.SowingMonth),
		"temperature":     p.Temperature,
		"humidity":        p.Humidity,
		"rainfall":        p.Rainfall,
		"wind_speed":      p.WindSpeed,
		"pH":              p.PH,
		"organic_carbon":  p.OrganicCarbon,
		"N_available":     p.NAvailable,
		"P_available":     p.PAvailable,
		"K_available":     p.KAvailable,
		"ndvi_mean":       p.NDVIMean,
		"ndwi_mean":       p.NDWIMean,
		"blue":            p.Blue,
		"green":           p.Green,
		"red":             p.Red,
		"nir":             p.NIR,

		// Site constants the training pipeline defaulted for API traffic.
		"elevation":             30.0,
		"irrigation_efficiency": 0.8,
		"fertilizer_efficiency": 1.0,

		// Hash encoding consumed only by the heuristic fallback schema.
		"crop_hash": float64(CropHash(crop)),
	}

	num["season_Rabi"] = oneHot(p.Season == SeasonRabi)
	num["season_Kharif"] = oneHot(p.Season == SeasonKharif)
	num["season_Summer"] = 0
	for m := 1; m <= 12; m++ {
		num["month_"+monthSuffix[m]] = oneHot(p.SowingMonth == m)
	}

	return Sample{
		Numeric: num,
		Categorical: map[string]string{
			"crop_type":        crop,
			"district":         district,
			"season":           p.Season,
			"soil_pH_category": phCategory(p.PH),
		},
	}
}

var monthSuffix = [...]string{"", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

func oneHot(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func phCategory(ph float64) string {
	switch {
	case ph < 6.5:
		return "acidic"
	case ph > 7.5:
		return "alkaline"
	default:
		return "neutral"
	}
}

// CropHash folds a crop name into [0,100). Only the heuristic fallback
// model consumes it; trained artifacts encode crops via label encoders.
func CropHash(crop string) int {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(crop))))
	return int(h.Sum32() % 100)
}

// BuildFeatures produces the vector the model expects, in the exact order
// of the package's feature schema. Names ending in "_encoded" go through
// the label encoder for their base column; unseen categories silently
// encode to 0. Every other name is a numeric lookup. Absent inputs default
// to 0 and are counted so callers can surface the gap as a diagnostic.
func BuildFeatures(s Sample, pkg *ModelPackage) ([]float64, int) {
	features := make([]float64, 0, len(pkg.FeatureNames))
	missing := 0

	for _, name := range pkg.FeatureNames {
		if strings.HasSuffix(name, encodedSuffix) {
			col := strings.TrimSuffix(name, encodedSuffix)
			enc, haveEnc := pkg.LabelEncoders[col]
			val, haveVal := s.Categorical[col]
			if haveEnc && haveVal {
				idx, _ := enc.Transform(val)
				features = append(features, float64(idx))
			} else {
				features = append(features, 0)
				missing++
			}
			continue
		}
		if v, ok := s.Numeric[name]; ok {
			features = append(features, v)
		} else {
			features = append(features, 0)
			missing++
		}
	}
	return features, missing
}
