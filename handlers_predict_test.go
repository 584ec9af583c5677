package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cropsight/advisory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "test_api_key"

// testApp builds an App on the heuristic fallback model with no database;
// advisory persistence is best-effort and skips when unconfigured.
func testApp() *App {
	return &App{
		cfg: Config{
			APIKey:          testAPIKey,
			JWTSecret:       "test_secret",
			DefaultDistrict: "Ludhiana",
			DefaultYear:     2025,
		},
		log:       zap.NewNop().Sugar(),
		predictor: advisory.NewPredictor(advisory.FallbackPackage()),
		model: modelInfo{
			ModelType: advisory.HeuristicModelName,
			Version:   apiVersion + "-fallback",
			LoadedAt:  time.Now().Format(time.RFC3339),
		},
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthReportsFallbackModel(t *testing.T) {
	rr := doJSON(t, testApp().routes(), http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["model_loaded"])
	assert.Equal(t, advisory.HeuristicModelName, body["model_type"])
	assert.Equal(t, "healthy", body["status"])
}

func TestPredictRequiresBearerToken(t *testing.T) {
	app := testApp()
	req := predictReq{Crop: "wheat", Acres: 5, Latitude: 31.6, Longitude: 75.8}

	rr := doJSON(t, app.routes(), http.MethodPost, "/api/v1/predict", req, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, app.routes(), http.MethodPost, "/api/v1/predict", req, "wrong_key")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPredictValidation(t *testing.T) {
	app := testApp()
	cases := []predictReq{
		{Crop: "", Acres: 5, Latitude: 31, Longitude: 75},
		{Crop: "wheat", Acres: 0, Latitude: 31, Longitude: 75},
		{Crop: "wheat", Acres: -2, Latitude: 31, Longitude: 75},
		{Crop: "wheat", Acres: 5, Latitude: 28.9, Longitude: 75},
		{Crop: "wheat", Acres: 5, Latitude: 33.1, Longitude: 75},
		{Crop: "wheat", Acres: 5, Latitude: 31, Longitude: 72.9},
		{Crop: "wheat", Acres: 5, Latitude: 31, Longitude: 77.1},
		{Crop: "wheat", Acres: 5, Latitude: 31, Longitude: 75, Season: "monsoon"},
	}
	for i, c := range cases {
		rr := doJSON(t, app.routes(), http.MethodPost, "/api/v1/predict", c, testAPIKey)
		require.Equal(t, http.StatusBadRequest, rr.Code, "case %d", i)

		var e errorResp
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e), "case %d", i)
		assert.False(t, e.Success)
		assert.Equal(t, "INVALID_INPUT", e.ErrorCode)
	}
}

func TestPredictWheatScenario(t *testing.T) {
	app := testApp()
	req := predictReq{Crop: "wheat", Acres: 5.0, Latitude: 31.6340, Longitude: 75.8573}

	rr := doJSON(t, app.routes(), http.MethodPost, "/api/v1/predict", req, testAPIKey)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp predictResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.OperationID)
	assert.Equal(t, advisory.SeasonRabi, resp.EstimatedParameters.Season)
	assert.Equal(t, 11, resp.EstimatedParameters.SowingMonth)
	assert.Greater(t, resp.PredictedYield, 0.0)
	assert.GreaterOrEqual(t, resp.YieldRange.Minimum, 0.0)
	assert.LessOrEqual(t, resp.YieldRange.Minimum, resp.PredictedYield)
	assert.GreaterOrEqual(t, resp.YieldRange.Maximum, resp.PredictedYield)
	assert.Equal(t, "Ludhiana", resp.UserInput["district"])
	assert.NotEmpty(t, resp.CropRecommendations)
	assert.NotEmpty(t, resp.FarmingTips)
	assert.NotEmpty(t, resp.SeasonalAdvice)
	for _, rec := range resp.CropRecommendations {
		assert.NotEqual(t, "Wheat", rec.CropName)
	}
}

func TestPredictUnknownCropStillAdvises(t *testing.T) {
	app := testApp()
	req := predictReq{Crop: "dragonfruit", Acres: 3.0, Latitude: 30.5, Longitude: 74.5}

	rr := doJSON(t, app.routes(), http.MethodPost, "/api/v1/predict", req, testAPIKey)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp predictResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, advisory.SeasonRabi, resp.EstimatedParameters.Season)
	assert.Equal(t, "Unknown", resp.YieldCategory)
	assert.NotEmpty(t, resp.CropRecommendations)
}

func TestPredictSeasonOverride(t *testing.T) {
	app := testApp()
	req := predictReq{Crop: "wheat", Acres: 5, Latitude: 31, Longitude: 75.5, Season: "kharif"}

	rr := doJSON(t, app.routes(), http.MethodPost, "/api/v1/predict", req, testAPIKey)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp predictResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, advisory.SeasonKharif, resp.EstimatedParameters.Season)
	assert.Equal(t, advisory.SowingMonthKharif, resp.EstimatedParameters.SowingMonth)

	// The weather follows the overridden season, not wheat's rabi baselines.
	assert.Equal(t, 28.0, resp.EstimatedParameters.Temperature)
	assert.Equal(t, 75.0, resp.EstimatedParameters.Humidity)
	assert.Equal(t, 800.0, resp.EstimatedParameters.Rainfall)
}

func TestCropsAndDistrictsEndpoints(t *testing.T) {
	app := testApp()

	rr := doJSON(t, app.routes(), http.MethodGet, "/api/v1/crops", nil, testAPIKey)
	require.Equal(t, http.StatusOK, rr.Code)
	var crops map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &crops))
	assert.Contains(t, crops["rabi_crops"], "wheat")
	assert.Contains(t, crops["kharif_crops"], "rice")

	rr = doJSON(t, app.routes(), http.MethodGet, "/api/v1/districts", nil, testAPIKey)
	require.Equal(t, http.StatusOK, rr.Code)
	var districts map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &districts))
	assert.Len(t, districts["districts"], 22)
}

func TestInfoEndpoint(t *testing.T) {
	rr := doJSON(t, testApp().routes(), http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "CropSight API", body["service"])
	assert.Equal(t, true, body["model_loaded"])
}
