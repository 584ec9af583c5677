package advisory

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// cropProfile captures the static suitability data for one Punjab crop.
type cropProfile struct {
	BaseYield     float64
	Seasons       []string
	MinTemp       float64
	MaxTemp       float64
	WaterReq      string
	SoilPH        [2]float64
	Profitability string
	MarketDemand  string
}

// cropDatabase is the Punjab crop suitability reference. Base yields are
// in kg/acre.
var cropDatabase = map[string]cropProfile{
	"wheat": {
		BaseYield: 1800, Seasons: []string{SeasonRabi},
		MinTemp: 15, MaxTemp: 25, WaterReq: "medium", SoilPH: [2]float64{6.5, 7.5},
		Profitability: "High", MarketDemand: "Very High",
	},
	"rice": {
		BaseYield: 2200, Seasons: []string{SeasonKharif},
		MinTemp: 22, MaxTemp: 35, WaterReq: "high", SoilPH: [2]float64{6.0, 7.0},
		Profitability: "High", MarketDemand: "Very High",
	},
	"cotton": {
		BaseYield: 900, Seasons: []string{SeasonKharif},
		MinTemp: 20, MaxTemp: 35, WaterReq: "medium", SoilPH: [2]float64{5.8, 8.0},
		Profitability: "Very High", MarketDemand: "High",
	},
	"maize": {
		BaseYield: 2000, Seasons: []string{SeasonKharif, SeasonRabi},
		MinTemp: 18, MaxTemp: 32, WaterReq: "medium", SoilPH: [2]float64{6.0, 7.5},
		Profitability: "Medium", MarketDemand: "High",
	},
	"sugarcane": {
		BaseYield: 2800, Seasons: []string{"annual"},
		MinTemp: 20, MaxTemp: 35, WaterReq: "very_high", SoilPH: [2]float64{6.5, 7.5},
		Profitability: "Very High", MarketDemand: "High",
	},
	"mustard": {
		BaseYield: 1100, Seasons: []string{SeasonRabi},
		MinTemp: 10, MaxTemp: 25, WaterReq: "low", SoilPH: [2]float64{6.0, 7.5},
		Profitability: "Medium", MarketDemand: "Medium",
	},
	"barley": {
		BaseYield: 1600, Seasons: []string{SeasonRabi},
		MinTemp: 12, MaxTemp: 22, WaterReq: "low", SoilPH: [2]float64{6.0, 7.8},
		Profitability: "Medium", MarketDemand: "Medium",
	},
	"potato": {
		BaseYield: 2500, Seasons: []string{SeasonRabi},
		MinTemp: 15, MaxTemp: 25, WaterReq: "medium", SoilPH: [2]float64{5.5, 6.5},
		Profitability: "High", MarketDemand: "Very High",
	},
}

// CropRecommendation is one alternative-crop suggestion.
type CropRecommendation struct {
	CropName         string   `json:"crop_name"`
	SuitabilityScore float64  `json:"suitability_score"`
	ExpectedYield    float64  `json:"expected_yield"`
	Profitability    string   `json:"profitability"`
	Reasons          []string `json:"reasons"`
	Tips             []string `json:"tips"`
}

// RecommendCrops scores season-compatible alternatives to the current crop
// and returns the top five by (suitability, expected yield) descending.
// The current crop is never suggested back.
func RecommendCrops(latitude, longitude float64, currentCrop string, acres float64, season string) []CropRecommendation {
	current := normalizeCrop(currentCrop)
	currentSeason := strings.ToLower(season)

	latFactor := 1.0 + (latitude-31.0)*0.02
	sizeFactor := math.Min(1.2, 1.0+(acres-5.0)*0.01)

	var recs []CropRecommendation
	for _, name := range sortedCropNames() {
		if name == current {
			continue
		}
		profile := cropDatabase[name]
		if !seasonCompatible(profile.Seasons, currentSeason) {
			continue
		}

		score := 0.7
		if latitude >= 30.5 && latitude <= 31.5 && longitude >= 75.0 && longitude <= 76.5 {
			score += 0.2 // central Punjab
		}
		if acres >= 10 {
			score += 0.1
		}
		score = math.Min(1.0, score)

		expectedYield := profile.BaseYield * latFactor * sizeFactor

		recs = append(recs, CropRecommendation{
			CropName:         titleCase(name),
			SuitabilityScore: round2(score),
			ExpectedYield:    round1(expectedYield),
			Profitability:    profile.Profitability,
			Reasons:          cropReasons(name, profile, latitude, acres),
			Tips:             firstN(CropTips(name, latitude, acres), 3),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].SuitabilityScore != recs[j].SuitabilityScore {
			return recs[i].SuitabilityScore > recs[j].SuitabilityScore
		}
		if recs[i].ExpectedYield != recs[j].ExpectedYield {
			return recs[i].ExpectedYield > recs[j].ExpectedYield
		}
		return recs[i].CropName < recs[j].CropName
	})

	return firstNRecs(recs, 5)
}

func cropReasons(name string, profile cropProfile, latitude, acres float64) []string {
	var reasons []string
	if profile.Profitability == "High" || profile.Profitability == "Very High" {
		reasons = append(reasons, fmt.Sprintf("High profitability - %s returns expected", profile.Profitability))
	}
	if profile.MarketDemand == "High" || profile.MarketDemand == "Very High" {
		reasons = append(reasons, fmt.Sprintf("Strong market demand - %s buyer interest", profile.MarketDemand))
	}
	if profile.WaterReq == "low" {
		reasons = append(reasons, "Water efficient - suitable for sustainable farming")
	}
	if latitude > 31.0 && (name == "wheat" || name == "rice") {
		reasons = append(reasons, "Excellent climate match for this region")
	}
	if acres >= 20 && (name == "cotton" || name == "sugarcane") {
		reasons = append(reasons, "Large farm size ideal for commercial cultivation")
	}
	return firstN(reasons, 3)
}

func seasonCompatible(seasons []string, current string) bool {
	for _, s := range seasons {
		if s == current || s == "annual" {
			return true
		}
	}
	return false
}

func sortedCropNames() []string {
	names := make([]string, 0, len(cropDatabase))
	for n := range cropDatabase {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// cropTips holds per-crop cultivation guidance for Punjab conditions.
var cropTips = map[string][]string{
	"wheat": {
		"Plant wheat in November for optimal yield in Punjab climate",
		"Use certified seeds with 100-120 kg/acre seeding rate",
		"Apply balanced NPK fertilizer: 120:60:30 kg/acre",
		"Ensure 4-5 irrigations during growing season",
		"Monitor for rust diseases and apply fungicides if needed",
		"Harvest when moisture content is 20-25% for best quality",
	},
	"rice": {
		"Transplant 25-30 day old seedlings in June-July",
		"Maintain 2-3 cm water level throughout growing season",
		"Use recommended varieties like PR-126, PR-121 for Punjab",
		"Apply silicon fertilizer to strengthen stems",
		"Practice direct seeded rice (DSR) to save water",
		"Monitor for brown plant hopper and stem borer",
	},
	"cotton": {
		"Plant Bt cotton varieties approved for Punjab",
		"Sow in May for optimal fiber quality",
		"Maintain plant population of 80,000-100,000 plants/acre",
		"Deep plowing and good drainage essential",
		"Regular monitoring for pink bollworm required",
		"Harvest when 60% bolls are open for best fiber quality",
	},
	"maize": {
		"Use hybrid varieties for higher yield potential",
		"Plant with 60cm row spacing and 20cm plant distance",
		"Side-dress nitrogen at knee-high stage",
		"Ensure adequate moisture during tasseling and grain filling",
		"Monitor for fall armyworm and stem borer",
		"Harvest at 18-20% moisture for good storage",
	},
	"sugarcane": {
		"Plant healthy setts from 8-10 month old canes",
		"Ensure proper drainage to prevent water logging",
		"Apply organic manure before planting",
		"Regular earthing up and gap filling essential",
		"Monitor for red rot and smut diseases",
		"Harvest at optimal maturity (12 months) for maximum sugar",
	},
	"mustard": {
		"Sow in October for timely harvest before heat",
		"Use line sowing with 30cm row spacing",
		"Light irrigation during flowering stage",
		"Apply sulfur fertilizer for better oil content",
		"Monitor for aphids and white rust disease",
		"Harvest when pods turn brown but not fully dry",
	},
	"barley": {
		"Choose malting or feed varieties based on market",
		"Sow in November for avoiding heat stress",
		"Requires less water compared to wheat",
		"Apply moderate nitrogen to avoid lodging",
		"Good rotation crop after paddy",
		"Harvest when grain moisture is around 20%",
	},
	"potato": {
		"Use certified seed potatoes for disease-free crop",
		"Plant in raised beds for better drainage",
		"Hill up regularly to prevent greening of tubers",
		"Monitor soil moisture - avoid over and under watering",
		"Watch for late blight especially in humid conditions",
		"Harvest when skin is firm and doesn't rub off easily",
	},
}

// CropTips returns cultivation tips for a crop plus location and farm-size
// guidance. Crops outside the tips table get generic advice.
func CropTips(crop string, latitude, acres float64) []string {
	name := normalizeCrop(crop)
	tips, ok := cropTips[name]
	if !ok {
		tips = []string{
			fmt.Sprintf("Research best practices for %s cultivation", crop),
			fmt.Sprintf("Consult local agricultural extension officer for %s guidance", crop),
			fmt.Sprintf("Consider market prices before growing %s", crop),
		}
	}
	out := make([]string, len(tips))
	copy(out, tips)

	if latitude > 31.5 {
		out = append(out, "Your northern location is ideal for cool-season crops")
	} else if latitude < 30.5 {
		out = append(out, "Your southern location suits warm-season crops better")
	}
	if acres >= 50 {
		out = append(out, "Consider mechanization for large farm operations")
	} else if acres <= 5 {
		out = append(out, "Focus on intensive cultivation methods for small farms")
	}
	return out
}

// GeneralTips returns up to six season- and location-aware farming tips.
func GeneralTips(season string, latitude, acres float64) []string {
	tips := []string{
		"Conduct soil testing every 2-3 years for optimal fertilizer management",
		"Practice crop rotation to maintain soil health and break pest cycles",
		"Use drip irrigation or sprinkler systems to conserve water",
		"Maintain farm records for input costs and yield tracking",
		"Join farmer producer organizations (FPOs) for better market access",
	}

	switch strings.ToLower(season) {
	case SeasonKharif:
		tips = append(tips,
			"Ensure proper drainage during monsoon season",
			"Monitor weather forecasts for pest and disease outbreaks",
			"Stock up on plant protection chemicals before monsoon",
		)
	case SeasonRabi:
		tips = append(tips,
			"Plan irrigation schedule as winter has less rainfall",
			"Take advantage of cooler weather for farm operations",
			"Prepare for harvesting equipment rental in advance",
		)
	}

	if latitude > 31.0 {
		tips = append(tips, "Take advantage of your region's reputation for quality wheat")
	}
	if acres >= 25 {
		tips = append(tips, "Consider contract farming for assured market and prices")
	} else {
		tips = append(tips, "Focus on value addition and direct marketing")
	}

	return firstN(tips, 6)
}

// SeasonalAdvice returns a calendar-aware advisory string for the season.
func SeasonalAdvice(season string, latitude float64, month int) string {
	var advice string

	switch strings.ToLower(season) {
	case SeasonRabi:
		switch {
		case month == 10 || month == 11:
			advice = "RABI SEASON: Perfect time for wheat sowing. Prepare fields and arrange quality seeds. " +
				"Ensure timely planting to avoid heat stress during grain filling stage."
		case month == 12 || month == 1 || month == 2:
			advice = "WINTER CARE: Monitor crop growth and provide irrigation as needed. " +
				"Watch for pest infestations in cool weather. Apply nitrogen top-dressing if required."
		case month == 3 || month == 4:
			advice = "HARVEST TIME: Prepare for rabi harvest. Check grain moisture and arrange harvest machinery. " +
				"Plan for immediate marketing or proper storage to avoid post-harvest losses."
		default:
			advice = "FIELD PREPARATION: Use this time for land preparation, soil testing, and planning next rabi season. " +
				"Consider green manuring with summer crops."
		}
	case SeasonKharif:
		switch {
		case month == 5 || month == 6:
			advice = "KHARIF PREPARATION: Prepare nurseries for rice and get ready for kharif sowing. " +
				"Ensure water availability and check irrigation systems. Pre-monsoon field preparation is crucial."
		case month >= 7 && month <= 9:
			advice = "MONSOON SEASON: Monitor crops for pest and disease outbreaks. Ensure proper drainage. " +
				"This is crucial growth period - maintain optimal plant nutrition and protection."
		case month == 10 || month == 11:
			advice = "KHARIF HARVEST: Prepare for kharif harvest. Monitor grain maturity and weather forecasts. " +
				"Plan storage facilities and explore marketing options for better prices."
		default:
			advice = "SUMMER SEASON: Consider summer crops like fodder maize or green manure crops. " +
				"This is ideal time for deep plowing and soil health improvement activities."
		}
	}

	if latitude > 31.5 {
		advice += " Your northern Punjab location has advantages for wheat cultivation and cooler climate crops."
	} else if latitude < 30.5 {
		advice += " Your location is well-suited for cotton and other warm-season crops."
	}

	return advice
}

// AgronomicAdvice inspects the engineered features for stress, fertility
// and nutrient-balance issues and returns condition-driven recommendations.
func AgronomicAdvice(engineered Sample, cropType string) []string {
	num := engineered.Numeric
	var recs []string

	if num["heat_stress"] > 0.2 {
		recs = append(recs, "High heat stress detected - consider heat-resistant varieties and adequate irrigation")
	}
	if num["drought_risk"] > 0.2 {
		recs = append(recs, "Drought risk present - ensure adequate irrigation and water management")
	}
	if num["soil_fertility_index"] < 0.5 {
		recs = append(recs, "Low soil fertility - consider applying balanced fertilizers (NPK)")
	}
	if num["vegetation_health_score"] < 0.4 {
		recs = append(recs, "Poor vegetation health - check plant nutrition and pest management")
	}

	if npRatio := num["N_P_ratio"]; npRatio > 15 {
		recs = append(recs, "High N:P ratio - consider phosphorus supplementation")
	} else if npRatio < 5 {
		recs = append(recs, "Low N:P ratio - consider nitrogen supplementation")
	}

	if ph := numOr(num, "pH", 7.0); ph < 6.5 {
		recs = append(recs, "Acidic soil - consider lime application to improve pH")
	} else if ph > 8.5 {
		recs = append(recs, "Highly alkaline soil - consider gypsum application")
	}

	crop := normalizeCrop(cropType)
	temp := numOr(num, "temperature", 25)
	switch {
	case crop == "wheat" && temp > 25:
		recs = append(recs, "Temperature stress for wheat - consider early sowing next season")
	case crop == "rice" && num["rainfall"] < 2:
		recs = append(recs, "Insufficient water for rice - ensure adequate irrigation")
	case crop == "cotton" && temp < 20:
		recs = append(recs, "Temperature too low for cotton - ensure proper timing")
	}

	if len(recs) == 0 {
		if num["yield_potential_score"] > 0.7 {
			recs = append(recs, "Excellent growing conditions - maintain current practices")
		} else {
			recs = append(recs, "Good conditions overall - minor optimizations can improve yield")
		}
	}
	return recs
}

func normalizeCrop(c string) string { return strings.ToLower(strings.TrimSpace(c)) }

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func firstNRecs(s []CropRecommendation, n int) []CropRecommendation {
	if len(s) > n {
		return s[:n]
	}
	return s
}
