package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/config"
	"github.com/mamadbah2/farmbook/internal/domain/models"
)

const snapshotCollection = "dashboard_snapshots"

// SnapshotRepository archives daily dashboard snapshots, one document per
// farm day.
type SnapshotRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewSnapshotRepository connects to MongoDB and ensures the date index.
func NewSnapshotRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*SnapshotRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(cfg.DBName).Collection(snapshotCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to index snapshots: %w", err)
	}

	return &SnapshotRepository{client: client, coll: coll, logger: logger}, nil
}

// SaveSnapshot stores the snapshot, replacing an earlier one for the same day.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snap models.DashboardSnapshot) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"date": snap.Date}, snap, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.Date, err)
	}
	r.logger.Debug("snapshot archived", zap.String("date", snap.Date))
	return nil
}

// LatestSnapshot returns the most recent snapshot or models.ErrNotFound.
func (r *SnapshotRepository) LatestSnapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	var snap models.DashboardSnapshot
	err := r.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DashboardSnapshot{}, models.ErrNotFound
	}
	if err != nil {
		return models.DashboardSnapshot{}, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return snap, nil
}

// Close closes the MongoDB connection.
func (r *SnapshotRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
