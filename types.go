package main

import (
	"fmt"
	"strings"

	"cropsight/advisory"
)

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// predictReq carries the four essential farm inputs plus optional
// overrides for advanced callers.
type predictReq struct {
	Crop      string  `json:"crop"`
	Acres     float64 `json:"acres"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Year     *int   `json:"year,omitempty"`
	Season   string `json:"season,omitempty"`
	District string `json:"district,omitempty"`
}

// validate enforces the inbound contract before anything reaches the core.
func (r predictReq) validate() error {
	if strings.TrimSpace(r.Crop) == "" {
		return fmt.Errorf("crop is required")
	}
	if r.Acres <= 0 {
		return fmt.Errorf("acres must be positive")
	}
	if r.Latitude < 29.0 || r.Latitude > 33.0 {
		return fmt.Errorf("latitude must be within [29, 33] (Punjab)")
	}
	if r.Longitude < 73.0 || r.Longitude > 77.0 {
		return fmt.Errorf("longitude must be within [73, 77] (Punjab)")
	}
	if r.Season != "" {
		s := strings.ToLower(r.Season)
		if s != advisory.SeasonRabi && s != advisory.SeasonKharif {
			return fmt.Errorf("season must be rabi or kharif")
		}
	}
	return nil
}

type yieldRange struct {
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

type predictResp struct {
	Success              bool                          `json:"success"`
	OperationID          string                        `json:"operation_id"`
	PredictedYield       float64                       `json:"predicted_yield"`
	YieldRange           yieldRange                    `json:"yield_range"`
	ConfidenceInterval   string                        `json:"confidence_interval"`
	YieldCategory        string                        `json:"yield_category"`
	MissingFeaturesCount int                           `json:"missing_features_count"`
	UserInput            map[string]any                `json:"user_input"`
	EstimatedParameters  advisory.EstimatedParameters  `json:"estimated_parameters"`
	EngineeredFeatures   map[string]float64            `json:"engineered_features"`
	ModelInfo            modelInfo                     `json:"model_info"`
	Recommendations      []string                      `json:"recommendations"`
	CropRecommendations  []advisory.CropRecommendation `json:"crop_recommendations"`
	FarmingTips          []string                      `json:"farming_tips"`
	SeasonalAdvice       string                        `json:"seasonal_advice"`
	APIVersion           string                        `json:"api_version"`
	Timestamp            string                        `json:"timestamp"`
}

// errorResp is the single failure shape every endpoint returns.
type errorResp struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Timestamp string `json:"timestamp"`
}
