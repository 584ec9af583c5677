package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySeason(t *testing.T) {
	cases := []struct {
		crop   string
		season string
		month  int
	}{
		{"wheat", SeasonRabi, 11},
		{"barley", SeasonRabi, 11},
		{"mustard", SeasonRabi, 11},
		{"potato", SeasonRabi, 11},
		{"peas", SeasonRabi, 11},
		{"rice", SeasonKharif, 6},
		{"corn", SeasonKharif, 6},
		{"maize", SeasonKharif, 6},
		{"cotton", SeasonKharif, 6},
		{"soybean", SeasonKharif, 6},
		{"sugarcane", SeasonKharif, 6},
		{"WHEAT", SeasonRabi, 11},
		{"  Rice ", SeasonKharif, 6},
		{"dragonfruit", SeasonRabi, 11}, // unknown defaults to rabi
		{"", SeasonRabi, 11},
	}
	for _, c := range cases {
		season, month := ClassifySeason(c.crop)
		assert.Equal(t, c.season, season, "crop %q", c.crop)
		assert.Equal(t, c.month, month, "crop %q", c.crop)
	}
}

func TestEstimateWheatLudhiana(t *testing.T) {
	p := Estimate("wheat", 31.6340, 75.8573, 2025)

	require.Equal(t, SeasonRabi, p.Season)
	require.Equal(t, 11, p.SowingMonth)
	assert.Equal(t, 2025, p.Year)

	// latFactor = 0.634*0.4 = 0.2536
	assert.InDelta(t, 22.3, p.Temperature, 0.001)
	assert.InDelta(t, 69.5, p.Humidity, 0.001)
	assert.InDelta(t, 556, p.Rainfall, 0.001)
	assert.InDelta(t, 8.1, p.WindSpeed, 0.001)
	assert.InDelta(t, 7.2, p.PH, 0.001)
	assert.InDelta(t, 0.61, p.OrganicCarbon, 0.001)
	assert.InDelta(t, 272.5, p.NAvailable, 0.001)
	assert.InDelta(t, 22.2, p.PAvailable, 0.001)
	assert.InDelta(t, 313.8, p.KAvailable, 0.001)
}

func TestEstimateKharifUsesDistinctBaselines(t *testing.T) {
	rabi := Estimate("wheat", 31.0, 75.5, 2025)
	kharif := Estimate("rice", 31.0, 75.5, 2025)

	// At the anchor coordinates the factors vanish and the bases show.
	assert.InDelta(t, 22.0, rabi.Temperature, 0.001)
	assert.InDelta(t, 28.0, kharif.Temperature, 0.001)
	assert.InDelta(t, 550, rabi.Rainfall, 0.001)
	assert.InDelta(t, 800, kharif.Rainfall, 0.001)
	assert.InDelta(t, 70.0, rabi.Humidity, 0.001)
	assert.InDelta(t, 75.0, kharif.Humidity, 0.001)
}

func TestEstimateSeasonOverridesCropSeason(t *testing.T) {
	// An explicit season produces the same parameters as a crop of that
	// season would at the same location.
	forced := EstimateSeason(SeasonKharif, 31.6340, 75.8573, 2025)
	rice := Estimate("rice", 31.6340, 75.8573, 2025)
	assert.Equal(t, rice, forced)

	assert.Equal(t, SeasonKharif, forced.Season)
	assert.Equal(t, SowingMonthKharif, forced.SowingMonth)

	// Anything that is not kharif gets rabi baselines.
	other := EstimateSeason(SeasonRabi, 31.0, 75.5, 2025)
	assert.InDelta(t, 22.0, other.Temperature, 0.001)
	assert.Equal(t, SowingMonthRabi, other.SowingMonth)
}

func TestEstimateSatelliteConstants(t *testing.T) {
	p := Estimate("cotton", 30.2, 74.9, 2024)
	assert.Equal(t, 0.75, p.NDVIMean)
	assert.Equal(t, 0.35, p.NDWIMean)
	assert.Equal(t, 0.08, p.Blue)
	assert.Equal(t, 0.12, p.Green)
	assert.Equal(t, 0.15, p.Red)
	assert.Equal(t, 0.40, p.NIR)
}

func TestEstimateTotalOverInputDomain(t *testing.T) {
	crops := []string{"wheat", "rice", "cotton", "unknown-crop"}
	for lat := 29.0; lat <= 33.0; lat += 0.5 {
		for lon := 73.0; lon <= 77.0; lon += 0.5 {
			for _, crop := range crops {
				p := Estimate(crop, lat, lon, 2025)
				assert.Contains(t, []string{SeasonRabi, SeasonKharif}, p.Season)
				assert.Contains(t, []int{SowingMonthRabi, SowingMonthKharif}, p.SowingMonth)
				assert.Equal(t, lat, p.Latitude)
				assert.Equal(t, lon, p.Longitude)
			}
		}
	}
}

func TestEstimateDeterministic(t *testing.T) {
	a := Estimate("rice", 30.12, 76.44, 2025)
	b := Estimate("rice", 30.12, 76.44, 2025)
	assert.Equal(t, a, b)
}
