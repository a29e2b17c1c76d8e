package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/Dias221467/Solace_Notifications/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryRepository keeps a short history of fired notifications.
type DeliveryRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewDeliveryRepository(db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{
		collection: db.Collection("notification_deliveries"),
		now:        time.Now,
	}
}

// Dispatch records n as delivered now, so the repository can sit alongside
// the other delivery targets.
func (r *DeliveryRepository) Dispatch(ctx context.Context, n models.ScheduledNotification) error {
	record := models.NewDeliveryRecord(n, r.now())
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		logger.Log.WithError(err).Error("Failed to insert delivery record")
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

// Recent returns unexpired deliveries, newest first.
func (r *DeliveryRepository) Recent(ctx context.Context, limit int64) ([]models.DeliveryRecord, error) {
	filter := bson.M{"expires_at": bson.M{"$gt": r.now()}}
	opts := options.Find().SetSort(bson.D{{Key: "delivered_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deliveries: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.DeliveryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode deliveries: %w", err)
	}
	return records, nil
}

// DeleteExpired removes deliveries past their retention.
func (r *DeliveryRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": r.now()}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired deliveries: %w", err)
	}
	logger.Log.Infof("Deleted %d expired delivery records", result.DeletedCount)
	return result.DeletedCount, nil
}
