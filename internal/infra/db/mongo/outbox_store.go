package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "courtside/internal/app/outbox"
	infraoutbox "courtside/internal/infra/outbox"
)

// OutboxStore persists pending events in the same database as the aggregate
// writes, so the event insert shares the booking transaction.
type OutboxStore struct {
	col *mongo.Collection
}

func NewOutboxStore(db *mongo.Database) *OutboxStore {
	return &OutboxStore{col: db.Collection("outbox")}
}

const (
	statusPending = "pending"
	statusSending = "sending"
	statusSent    = "sent"
)

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := outboxDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		Aggregate:  record.Aggregate,
		OccurredAt: record.OccurredAt.UnixMilli(),
		Headers:    record.Headers,
		Status:     statusPending,
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

func (s *OutboxStore) Flush(ctx context.Context) error { return nil }

// Claim atomically flips one due pending document to sending; at most one
// worker wins each document.
func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	now := time.Now()
	filter := bson.M{
		"status": statusPending,
		"$or": bson.A{
			bson.M{"retry_at": bson.M{"$exists": false}},
			bson.M{"retry_at": bson.M{"$lte": now.UnixMilli()}},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":     statusSending,
		"claimed_by": workerID,
		"claimed_at": now.UnixMilli(),
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurred_at", Value: 1}}).
		SetReturnDocument(options.After)
	var doc outboxDocument
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &infraoutbox.EventDocument{
		ID:         doc.ID,
		Name:       doc.Name,
		Payload:    doc.Payload,
		Aggregate:  doc.Aggregate,
		OccurredAt: timestampToTime(doc.OccurredAt),
		Headers:    doc.Headers,
		Attempts:   doc.Attempts,
	}, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":  statusSent,
		"sent_at": time.Now().UnixMilli(),
	}})
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":     statusPending,
			"retry_at":   retryAt.UnixMilli(),
			"last_error": reason,
		},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

type outboxDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Payload    []byte            `bson:"payload"`
	Aggregate  string            `bson:"aggregate"`
	OccurredAt int64             `bson:"occurred_at"`
	Headers    map[string]string `bson:"headers,omitempty"`
	Status     string            `bson:"status"`
	Attempts   int               `bson:"attempts"`
	RetryAt    int64             `bson:"retry_at,omitempty"`
	LastError  string            `bson:"last_error,omitempty"`
	ClaimedBy  string            `bson:"claimed_by,omitempty"`
	ClaimedAt  int64             `bson:"claimed_at,omitempty"`
	SentAt     int64             `bson:"sent_at,omitempty"`
}
