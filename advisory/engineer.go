package advisory

import "math"

// EngineerFeatures derives the composite agronomic indicators the model was
// trained with (vegetation health, soil fertility, stress factors, nutrient
// ratios) and returns a copy of the sample with them added. Inputs absent
// from the sample fall back to the training pipeline's defaults.
func EngineerFeatures(s Sample) Sample {
	num := make(map[string]float64, len(s.Numeric)+11)
	for k, v := range s.Numeric {
		num[k] = v
	}
	cat := make(map[string]string, len(s.Categorical))
	for k, v := range s.Categorical {
		cat[k] = v
	}

	ndvi := numOr(num, "ndvi_mean", 0.6)
	ndwi := numOr(num, "ndwi_mean", 0.3)
	vegetationHealth := ndvi*0.7 + ndwi*0.3

	oc := numOr(num, "organic_carbon", 0.5)
	nAvail := numOr(num, "N_available", 180)
	pAvail := numOr(num, "P_available", 15)
	soilFertility := oc/1.0*0.4 + nAvail/300*0.3 + pAvail/30*0.3

	temp := numOr(num, "temperature", 25)
	heatStress := math.Max(0, (temp-35)/10)
	coldStress := math.Max(0, (10-temp)/10)

	rainfall := numOr(num, "rainfall", 0)
	humidity := numOr(num, "humidity", 70)
	droughtRisk := 0.0
	if rainfall < 1 && humidity < 40 {
		droughtRisk = 1 - humidity/100
	}

	kAvail := numOr(num, "K_available", 250)

	yieldPotential := vegetationHealth*0.35 +
		soilFertility*0.40 +
		(1-heatStress-droughtRisk)*0.25

	isKharif := oneHot(cat["season"] == SeasonKharif)

	num["vegetation_health_score"] = vegetationHealth
	num["soil_fertility_index"] = soilFertility
	num["heat_stress"] = heatStress
	num["cold_stress"] = coldStress
	num["drought_risk"] = droughtRisk
	num["yield_potential_score"] = yieldPotential
	num["N_P_ratio"] = nAvail / (pAvail + 1)
	num["N_K_ratio"] = nAvail / (kAvail + 1)
	num["P_K_ratio"] = pAvail / (kAvail + 1)
	num["is_kharif"] = isKharif
	num["is_rabi"] = 1 - isKharif

	return Sample{Numeric: num, Categorical: cat}
}

func numOr(m map[string]float64, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}
