package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects every knob the original backend variants differed on
// (port, API key, default district/year) plus service wiring.
type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	ModelPath       string
	APIKey          string
	JWTSecret       string
	DefaultDistrict string
	DefaultYear     int
}

func mustConfig() Config {
	// Optional .env for local development; real deployments use env vars.
	_ = godotenv.Load()

	return Config{
		Port:            getenv("PORT", "8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "cropsight"),
		ModelPath:       getenv("MODEL_PATH", "models/punjab_crop_yield_predictor_final.json"),
		APIKey:          getenv("API_KEY", "change_me_api_key"),
		JWTSecret:       getenv("JWT_SECRET", "change_me"),
		DefaultDistrict: getenv("DEFAULT_DISTRICT", "Ludhiana"),
		DefaultYear:     getenvInt("DEFAULT_YEAR", 2025),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
