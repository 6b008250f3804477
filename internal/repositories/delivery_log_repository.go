package repositories

import (
	"context"
	"time"

	"github.com/shutterfolk/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryLogRepository defines the interface for email delivery log
// operations. The log is append-only; entries are never updated or removed.
type DeliveryLogRepository interface {
	RecordDelivery(ctx context.Context, entry *models.EmailDeliveryLog) error
	GetByCommentID(ctx context.Context, commentID string) ([]models.EmailDeliveryLog, error)
}

// MongoDeliveryLogRepository implements DeliveryLogRepository for MongoDB
type MongoDeliveryLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDeliveryLogRepository creates a new MongoDeliveryLogRepository
func NewMongoDeliveryLogRepository(db *mongo.Database) *MongoDeliveryLogRepository {
	return &MongoDeliveryLogRepository{collection: db.Collection("email_delivery_logs")}
}

// RecordDelivery appends one delivery outcome to MongoDB
func (r *MongoDeliveryLogRepository) RecordDelivery(ctx context.Context, entry *models.EmailDeliveryLog) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// GetByCommentID retrieves all delivery outcomes recorded for one comment
func (r *MongoDeliveryLogRepository) GetByCommentID(ctx context.Context, commentID string) ([]models.EmailDeliveryLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"comment_id": commentID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.EmailDeliveryLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
