package repositories

import (
	"context"
	"time"

	"github.com/anonto42/circles/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ModerationLogRepository stores privileged circle actions.
type ModerationLogRepository interface {
	RecordEvent(ctx context.Context, event *models.ModerationEvent) error
	GetEventsByCircleID(ctx context.Context, circleID uint, skip, limit int64) ([]models.ModerationEvent, error)
}

// MongoModerationLogRepository implements ModerationLogRepository for MongoDB
type MongoModerationLogRepository struct {
	collection *mongo.Collection
}

// NewMongoModerationLogRepository creates a new MongoModerationLogRepository
func NewMongoModerationLogRepository(db *mongo.Database) *MongoModerationLogRepository {
	return &MongoModerationLogRepository{collection: db.Collection("moderation_events")}
}

// EnsureIndexes creates the (circle_id, created_at) index used by listings.
func (r *MongoModerationLogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "circle_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *MongoModerationLogRepository) RecordEvent(ctx context.Context, event *models.ModerationEvent) error {
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *MongoModerationLogRepository) GetEventsByCircleID(ctx context.Context, circleID uint, skip, limit int64) ([]models.ModerationEvent, error) {
	events := make([]models.ModerationEvent, 0)
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"circle_id": circleID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
