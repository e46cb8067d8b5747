package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"movieapi/movie"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DatabaseName   = "moviesdb"
	CollectionName = "movies"

	defaultConnectTimeout = 5 * time.Second
)

type Options struct {
	URI            string
	ConnectTimeout time.Duration
}

// NewClient connects to MongoDB and verifies the deployment answers a ping.
func NewClient(ctx context.Context, opts Options) (*mongo.Client, error) {
	uri := strings.TrimSpace(opts.URI)
	if uri == "" {
		return nil, errors.New("mongodb: uri is required")
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return client, nil
}

// Connector owns the process-wide client pool and hands out one session
// backed handle per request. The client is connected on first use and
// reconnected on the next Acquire if that fails.
type Connector struct {
	opts Options

	mu     sync.Mutex
	client *mongo.Client
}

func NewConnector(opts Options) *Connector {
	return &Connector{opts: opts}
}

// NewConnectorWithClient wraps an already connected client.
func NewConnectorWithClient(client *mongo.Client) *Connector {
	return &Connector{client: client}
}

func (c *Connector) Acquire(ctx context.Context) (movie.Handle, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	session, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("mongodb: start session: %w", err)
	}

	coll := client.Database(DatabaseName).Collection(CollectionName)
	return &MovieRepository{coll: coll, session: session}, nil
}

// Close disconnects the client pool. Handles still in use start failing.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	if err != nil {
		return fmt.Errorf("mongodb: disconnect: %w", err)
	}
	return nil
}

func (c *Connector) connect(ctx context.Context) (*mongo.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	client, err := NewClient(ctx, c.opts)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}
