package main

import (
	"context"
	"time"

	"cropsight/advisory"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// modelInfo describes the loaded model for /health and responses.
type modelInfo struct {
	ModelType string `json:"model_type"`
	Version   string `json:"version"`
	LoadedAt  string `json:"loaded_at"`
}

type App struct {
	cfg         Config
	log         *zap.SugaredLogger
	mongo       *mongo.Client
	db          *mongo.Database
	users       *mongo.Collection
	predictions *mongo.Collection
	predictor   *advisory.Predictor
	model       modelInfo
}

func newApp(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)

	app := &App{
		cfg:         cfg,
		log:         log,
		mongo:       client,
		db:          db,
		users:       db.Collection("users"),
		predictions: db.Collection("predictions"),
	}
	app.loadModel()

	// Indexes
	if _, err := app.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := app.predictions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}

	return app, nil
}

// loadModel loads the trained artifact, or substitutes the heuristic
// fallback so the service starts in degraded mode instead of refusing.
func (a *App) loadModel() {
	pkg, err := advisory.LoadModelPackage(a.cfg.ModelPath)
	if err != nil {
		a.log.Warnw("model artifact unavailable, using heuristic fallback",
			"path", a.cfg.ModelPath, "error", err)
		a.predictor = advisory.NewPredictor(advisory.FallbackPackage())
		a.model = modelInfo{
			ModelType: advisory.HeuristicModelName,
			Version:   apiVersion + "-fallback",
			LoadedAt:  time.Now().Format(time.RFC3339),
		}
		return
	}
	a.predictor = advisory.NewPredictor(pkg)
	a.model = modelInfo{
		ModelType: pkg.ModelName,
		Version:   apiVersion,
		LoadedAt:  time.Now().Format(time.RFC3339),
	}
	a.log.Infow("model loaded", "model", pkg.ModelName, "features", len(pkg.FeatureNames))
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }
