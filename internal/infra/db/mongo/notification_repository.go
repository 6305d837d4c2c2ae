package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtside/internal/domain/notification"
	domainuser "courtside/internal/domain/user"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection("notifications")}
}

func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	doc := notificationDocument{
		ID:        string(n.ID),
		UserID:    string(n.UserID),
		Kind:      n.Kind,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UnixMilli(),
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID domainuser.UserID, unreadOnly bool) ([]*notification.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*notification.Notification
	for cur.Next(ctx) {
		var doc notificationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id notification.NotificationID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notification.ErrNotFound
	}
	return nil
}

type notificationDocument struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"user_id"`
	Kind      string         `bson:"kind"`
	Title     string         `bson:"title,omitempty"`
	Message   string         `bson:"message,omitempty"`
	Data      map[string]any `bson:"data,omitempty"`
	Read      bool           `bson:"read"`
	CreatedAt int64          `bson:"created_at"`
}

func (d notificationDocument) toAggregate() *notification.Notification {
	return &notification.Notification{
		ID:        notification.NotificationID(d.ID),
		UserID:    domainuser.UserID(d.UserID),
		Kind:      d.Kind,
		Title:     d.Title,
		Message:   d.Message,
		Data:      d.Data,
		Read:      d.Read,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
