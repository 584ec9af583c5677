package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cropsight/advisory"
	"cropsight/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// handleInfo returns service metadata.
func (a *App) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":      "CropSight API",
		"version":      apiVersion,
		"status":       "active",
		"model_loaded": a.predictor != nil,
		"model_info":   a.model,
		"endpoints": map[string]string{
			"predict":     "POST /api/v1/predict",
			"crops":       "GET /api/v1/crops",
			"districts":   "GET /api/v1/districts",
			"predictions": "GET /api/v1/predictions",
			"health":      "GET /health",
			"docs":        "GET /swagger",
		},
		"authentication": "Bearer token required (API key or JWT)",
	})
}

// handleHealth reports liveness and which model is serving. The fallback
// model still counts as loaded; its distinct model_type flags degraded mode.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": a.predictor != nil,
		"model_type":   a.model.ModelType,
		"timestamp":    time.Now().Format(time.RFC3339),
		"api_version":  apiVersion,
	})
}

// handlePredict runs the full advisory pipeline: validate, estimate
// parameters, build the feature vector, predict, recommend, persist.
func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json", "INVALID_JSON")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
		return
	}

	year := a.cfg.DefaultYear
	if req.Year != nil {
		year = *req.Year
	}
	district := req.District
	if district == "" {
		district = a.cfg.DefaultDistrict
	}

	// A caller's season override wins over the crop membership tables and
	// the weather baselines are derived for the requested season.
	var params advisory.EstimatedParameters
	if req.Season != "" {
		params = advisory.EstimateSeason(strings.ToLower(req.Season), req.Latitude, req.Longitude, year)
	} else {
		params = advisory.Estimate(req.Crop, req.Latitude, req.Longitude, year)
	}

	sample := advisory.NewSample(req.Crop, district, req.Acres, params)

	opID := uuid.NewString()
	rec := models.AdvisoryRecord{
		OperationID: opID,
		OwnerID:     mustUserID(r),
		CreatedAt:   time.Now().UTC(),
		Crop:        req.Crop,
		District:    district,
		Acres:       req.Acres,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Season:      params.Season,
		Year:        year,
	}

	result, err := a.predictor.Predict(sample, req.Crop)
	if err != nil {
		a.log.Errorw("prediction failed", "operation", opID, "crop", req.Crop, "error", err)
		rec.Status = models.AdvisoryStatusError
		rec.ErrorMessage = err.Error()
		a.storeAdvisory(r.Context(), rec)
		writeError(w, http.StatusInternalServerError, "Prediction failed: "+err.Error(), "PREDICTION_FAILED")
		return
	}

	cropRecs := advisory.RecommendCrops(req.Latitude, req.Longitude, req.Crop, req.Acres, params.Season)
	tips := advisory.GeneralTips(params.Season, req.Latitude, req.Acres)
	seasonal := advisory.SeasonalAdvice(params.Season, req.Latitude, int(time.Now().Month()))

	rec.Status = models.AdvisoryStatusReady
	rec.PredictedYield = &result.PredictedYield
	rec.LowerBound = &result.LowerBound
	rec.UpperBound = &result.UpperBound
	rec.YieldCategory = result.YieldCategory
	rec.ModelUsed = result.ModelUsed
	a.storeAdvisory(r.Context(), rec)

	a.log.Infow("prediction served",
		"operation", opID, "crop", req.Crop, "district", district,
		"yield", result.PredictedYield, "category", result.YieldCategory,
		"missing_features", result.MissingFeaturesCount)

	writeJSON(w, http.StatusOK, predictResp{
		Success:        true,
		OperationID:    opID,
		PredictedYield: result.PredictedYield,
		YieldRange: yieldRange{
			Minimum: result.LowerBound,
			Maximum: result.UpperBound,
		},
		ConfidenceInterval:   result.ConfidenceInterval,
		YieldCategory:        result.YieldCategory,
		MissingFeaturesCount: result.MissingFeaturesCount,
		UserInput: map[string]any{
			"crop":            req.Crop,
			"district":        district,
			"farm_size_acres": req.Acres,
			"latitude":        req.Latitude,
			"longitude":       req.Longitude,
		},
		EstimatedParameters: params,
		EngineeredFeatures:  result.EngineeredFeatures,
		ModelInfo:           a.model,
		Recommendations:     result.Recommendations,
		CropRecommendations: cropRecs,
		FarmingTips:         tips,
		SeasonalAdvice:      seasonal,
		APIVersion:          apiVersion,
		Timestamp:           time.Now().Format(time.RFC3339),
	})
}

// storeAdvisory persists a prediction run. Persistence problems are logged
// and swallowed: history is best-effort and never fails a served response.
func (a *App) storeAdvisory(ctx context.Context, rec models.AdvisoryRecord) {
	if a.predictions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := a.predictions.InsertOne(ctx, &rec); err != nil {
		a.log.Warnw("advisory record insert failed", "operation", rec.OperationID, "error", err)
	}
}

// handleListPredictions returns the caller's advisory history, newest first.
func (a *App) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	if uid.IsZero() {
		http.Error(w, "user token required", http.StatusUnauthorized)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.predictions.Find(ctx, bson.M{"ownerId": uid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.AdvisoryRecord{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetPrediction returns a single advisory record by id (owned by the user).
func (a *App) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	if uid.IsZero() {
		http.Error(w, "user token required", http.StatusUnauthorized)
		return
	}
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var rec models.AdvisoryRecord
	if err := a.predictions.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&rec); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleCrops lists the crops the advisory tables know about.
func (a *App) handleCrops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"crops": []string{
			"wheat", "rice", "corn", "maize", "cotton", "soybean",
			"barley", "mustard", "potato", "sugarcane", "tomato", "onion",
		},
		"rabi_crops":   []string{"wheat", "barley", "mustard", "potato", "peas"},
		"kharif_crops": []string{"rice", "corn", "maize", "cotton", "soybean", "sugarcane"},
	})
}

// handleDistricts lists Punjab districts.
func (a *App) handleDistricts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"districts": []string{
			"Amritsar", "Ludhiana", "Jalandhar", "Patiala", "Bathinda",
			"Mohali", "Gurdaspur", "Kapurthala", "Hoshiarpur", "Faridkot",
			"Firozpur", "Muktsar", "Sangrur", "Barnala", "Mansa",
			"Nawanshahr", "Ropar", "Fatehgarh Sahib", "Moga", "Pathankot",
			"Fazilka", "Tarn Taran",
		},
	})
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the single same-shape error object every endpoint uses.
func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResp{
		Success:   false,
		Error:     msg,
		ErrorCode: code,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
