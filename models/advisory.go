package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdvisoryStatus tracks the outcome of a stored advisory run.
type AdvisoryStatus string

const (
	AdvisoryStatusReady AdvisoryStatus = "ready"
	AdvisoryStatusError AdvisoryStatus = "error"
)

// AdvisoryRecord is one persisted prediction run in the "predictions"
// collection. OwnerID is set only for JWT-authenticated callers; API-key
// traffic is stored anonymously.
type AdvisoryRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"     json:"id"`
	OperationID string             `bson:"operation_id"      json:"operation_id"`
	OwnerID     primitive.ObjectID `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	Status      AdvisoryStatus     `bson:"status"            json:"status"`
	CreatedAt   time.Time          `bson:"createdAt"         json:"createdAt"`

	// Request echo
	Crop      string  `bson:"crop"               json:"crop"`
	District  string  `bson:"district"           json:"district"`
	Acres     float64 `bson:"acres"              json:"acres"`
	Latitude  float64 `bson:"latitude"           json:"latitude"`
	Longitude float64 `bson:"longitude"          json:"longitude"`
	Season    string  `bson:"season"             json:"season"`
	Year      int     `bson:"year"               json:"year"`

	// Outcome
	PredictedYield *float64 `bson:"predictedYield,omitempty" json:"predictedYield,omitempty"`
	LowerBound     *float64 `bson:"lowerBound,omitempty"     json:"lowerBound,omitempty"`
	UpperBound     *float64 `bson:"upperBound,omitempty"     json:"upperBound,omitempty"`
	YieldCategory  string   `bson:"yieldCategory,omitempty"  json:"yieldCategory,omitempty"`
	ModelUsed      string   `bson:"modelUsed,omitempty"      json:"modelUsed,omitempty"`
	ErrorMessage   string   `bson:"errorMessage,omitempty"   json:"errorMessage,omitempty"`
}
