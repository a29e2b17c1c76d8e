package repository

import (
	"context"
	"fmt"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MoodHistorySource provides recent mood logs to the adaptive timing estimator.
type MoodHistorySource interface {
	RecentMoods(ctx context.Context, limit int64) ([]models.MoodHistoryEntry, error)
}

// MoodRepository reads mood logs written by the mood tracker. It never writes.
type MoodRepository struct {
	collection *mongo.Collection
}

func NewMoodRepository(db *mongo.Database) *MoodRepository {
	return &MoodRepository{
		collection: db.Collection("mood_entries"),
	}
}

// RecentMoods returns up to limit entries, newest first.
func (r *MoodRepository) RecentMoods(ctx context.Context, limit int64) ([]models.MoodHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mood entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.MoodHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode mood entries: %w", err)
	}
	return entries, nil
}

// StaticMoodSource serves a fixed history. It backs the memory and redis
// store modes, where no mood collection is reachable.
type StaticMoodSource struct {
	Entries []models.MoodHistoryEntry
	Err     error
}

func (s *StaticMoodSource) RecentMoods(_ context.Context, limit int64) ([]models.MoodHistoryEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if limit > 0 && int64(len(s.Entries)) > limit {
		return s.Entries[:limit], nil
	}
	return s.Entries, nil
}
