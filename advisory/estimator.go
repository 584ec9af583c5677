package advisory

import (
	"math"
	"strings"
)

// Punjab cropping seasons.
const (
	SeasonRabi   = "rabi"
	SeasonKharif = "kharif"
)

// Sowing months assigned per season.
const (
	SowingMonthRabi   = 11
	SowingMonthKharif = 6
)

var rabiCrops = map[string]bool{
	"wheat":   true,
	"barley":  true,
	"mustard": true,
	"potato":  true,
	"peas":    true,
}

var kharifCrops = map[string]bool{
	"rice":      true,
	"corn":      true,
	"maize":     true,
	"cotton":    true,
	"soybean":   true,
	"sugarcane": true,
}

// EstimatedParameters is the full set of agronomic inputs derived for a
// farm location. Values are synthetic: weather and soil follow fixed linear
// offsets anchored to typical Punjab conditions, satellite reflectances are
// healthy-crop constants. No real sensor data is read at request time.
type EstimatedParameters struct {
	Year          int     `json:"year"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Season        string  `json:"season"`
	SowingMonth   int     `json:"sowing_month"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Rainfall      float64 `json:"rainfall"`
	WindSpeed     float64 `json:"wind_speed"`
	PH            float64 `json:"pH"`
	OrganicCarbon float64 `json:"organic_carbon"`
	NAvailable    float64 `json:"N_available"`
	PAvailable    float64 `json:"P_available"`
	KAvailable    float64 `json:"K_available"`
	NDVIMean      float64 `json:"ndvi_mean"`
	NDWIMean      float64 `json:"ndwi_mean"`
	Blue          float64 `json:"blue"`
	Green         float64 `json:"green"`
	Red           float64 `json:"red"`
	NIR           float64 `json:"nir"`
}

// ClassifySeason maps a crop name to its cropping season. Crops absent
// from both membership tables default to rabi.
func ClassifySeason(crop string) (season string, sowingMonth int) {
	c := strings.ToLower(strings.TrimSpace(crop))
	switch {
	case rabiCrops[c]:
		return SeasonRabi, SowingMonthRabi
	case kharifCrops[c]:
		return SeasonKharif, SowingMonthKharif
	default:
		return SeasonRabi, SowingMonthRabi
	}
}

// Estimate derives weather, soil and satellite parameters for a farm from
// its crop and coordinates. Total over the validated input domain: every
// combination of crop and in-range coordinates yields a result.
func Estimate(crop string, latitude, longitude float64, year int) EstimatedParameters {
	season, sowingMonth := ClassifySeason(crop)
	return estimate(season, sowingMonth, latitude, longitude, year)
}

// EstimateSeason derives parameters for an explicit season, bypassing the
// crop membership tables. Weather baselines follow the given season, so a
// caller's season override stays consistent with the reported weather.
func EstimateSeason(season string, latitude, longitude float64, year int) EstimatedParameters {
	sowingMonth := SowingMonthRabi
	if season == SeasonKharif {
		sowingMonth = SowingMonthKharif
	}
	return estimate(season, sowingMonth, latitude, longitude, year)
}

func estimate(season string, sowingMonth int, latitude, longitude float64, year int) EstimatedParameters {
	latFactor := (latitude - 31.0) * 0.4
	lonFactor := (longitude - 75.5) * 0.3

	var temperature, humidity, rainfall float64
	if season == SeasonRabi {
		temperature = 22.0 + latFactor
		humidity = 70.0 - math.Abs(latFactor)*2
		rainfall = 550.0 + latFactor*25
	} else {
		temperature = 28.0 + latFactor
		humidity = 75.0 - math.Abs(latFactor)
		rainfall = 800.0 + latFactor*40
	}
	windSpeed := 8.0 + math.Abs(lonFactor)

	return EstimatedParameters{
		Year:          year,
		Latitude:      latitude,
		Longitude:     longitude,
		Season:        season,
		SowingMonth:   sowingMonth,
		Temperature:   round1(temperature),
		Humidity:      round1(humidity),
		Rainfall:      math.Round(rainfall),
		WindSpeed:     round1(windSpeed),
		PH:            round1(7.1 + (latitude-31.0)*0.1),
		OrganicCarbon: round2(0.6 + lonFactor*0.05),
		NAvailable:    round1(270.0 + latFactor*10),
		PAvailable:    round1(22.0 + lonFactor*2),
		KAvailable:    round1(310.0 + latFactor*15),
		NDVIMean:      0.75,
		NDWIMean:      0.35,
		Blue:          0.08,
		Green:         0.12,
		Red:           0.15,
		NIR:           0.40,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
