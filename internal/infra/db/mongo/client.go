package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dialTimeout = 10 * time.Second

type Client struct {
	DB *mongo.Database
}

// Connect dials the cluster and verifies it answers before any repository is
// built, so a bad MONGO_URI fails startup instead of the first request.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, err
	}
	c := &Client{DB: m.Database(database)}
	if err := c.Ping(dialCtx); err != nil {
		_ = m.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}
