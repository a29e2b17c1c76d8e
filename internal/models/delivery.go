package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryRetention is how long a delivered notification stays in history.
const DeliveryRetention = 7 * 24 * time.Hour

// DeliveryRecord is a notification that has fired.
type DeliveryRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NotificationID string             `bson:"notification_id" json:"notification_id"`
	Category       Category           `bson:"category" json:"category"`
	Title          string             `bson:"title" json:"title"`
	Body           string             `bson:"body" json:"body"`
	DeliveredAt    time.Time          `bson:"delivered_at" json:"delivered_at"`
	ExpiresAt      time.Time          `bson:"expires_at" json:"expires_at"`
}

// NewDeliveryRecord stamps n as delivered at at.
func NewDeliveryRecord(n ScheduledNotification, at time.Time) DeliveryRecord {
	return DeliveryRecord{
		NotificationID: n.Identifier,
		Category:       n.Category,
		Title:          n.Title,
		Body:           n.Body,
		DeliveredAt:    at,
		ExpiresAt:      at.Add(DeliveryRetention),
	}
}
