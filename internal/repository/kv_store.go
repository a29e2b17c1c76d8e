package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dias221467/Solace_Notifications/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Storage keys used by the notification engine.
const (
	PreferencesKey  = "notification_preferences"
	InteractionsKey = "notification_interactions"
)

// KeyValueStore is a string key-value persistence backend.
type KeyValueStore interface {
	// GetItem returns found=false (and no error) when key does not exist.
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

// MongoKVStore keeps each key as a document in the kv_store collection.
type MongoKVStore struct {
	collection *mongo.Collection
}

func NewMongoKVStore(db *mongo.Database) *MongoKVStore {
	return &MongoKVStore{
		collection: db.Collection("kv_store"),
	}
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *MongoKVStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Failed to read key from MongoDB")
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *MongoKVStore) SetItem(ctx context.Context, key, value string) error {
	opts := options.Update().SetUpsert(true)
	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}}
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, update, opts); err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Failed to write key to MongoDB")
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// RedisKVStore keeps each key as a plain Redis string without expiry.
type RedisKVStore struct {
	client *redis.Client
}

func NewRedisKVStore(client *redis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

func (s *RedisKVStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisKVStore) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// MemoryKVStore is a process-local store. ReadErr and WriteErr, when set,
// are returned from every call; tests use them to simulate I/O failure.
type MemoryKVStore struct {
	mu       sync.Mutex
	items    map[string]string
	ReadErr  error
	WriteErr error
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{items: make(map[string]string)}
}

func (s *MemoryKVStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return "", false, s.ReadErr
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryKVStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.items[key] = value
	return nil
}
