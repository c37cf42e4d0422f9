package storage

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"md5hit-bot/models"
)

// Mirror copies prediction records into MongoDB for offline analysis.
// It is best-effort only: the flat-file ledger stays the source of truth
// and a mirror failure never fails the command that triggered it.
type Mirror struct {
	client   *mongo.Client
	database string
}

// ConnectMirror establishes the MongoDB connection. Returns nil (and logs)
// when no URI is configured or the connection fails, so callers can treat
// the mirror as absent.
func ConnectMirror(uri, db string) *Mirror {
	if uri == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(15 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Printf("⚠️ Mongo mirror disabled, connection failed: %v", err)
		return nil
	}
	if err = client.Ping(ctx, nil); err != nil {
		log.Printf("⚠️ Mongo mirror disabled, ping failed: %v", err)
		return nil
	}

	log.Println("✅ Connected to MongoDB mirror")
	return &Mirror{client: client, database: db}
}

// Disconnect closes the MongoDB connection gracefully.
func (m *Mirror) Disconnect() error {
	if m == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

type predictionDoc struct {
	UserID    int64     `bson:"user_id"`
	Input     string    `bson:"input"`
	Predicted string    `bson:"predicted"`
	At        time.Time `bson:"at"`
}

// RecordPrediction appends one prediction record. Errors are logged and dropped.
func (m *Mirror) RecordPrediction(userID int64, rec models.PredictionRecord) {
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	col := m.client.Database(m.database).Collection("predictions")
	_, err := col.InsertOne(ctx, predictionDoc{
		UserID:    userID,
		Input:     rec.Input,
		Predicted: rec.Predicted,
		At:        rec.At,
	})
	if err != nil {
		log.Printf("⚠️ Failed to mirror prediction for user %d: %v", userID, err)
	}
}

// HealthCheck verifies the MongoDB connection is alive.
func (m *Mirror) HealthCheck(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.client.Ping(ctx, nil)
}
