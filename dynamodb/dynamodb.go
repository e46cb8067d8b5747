package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"movieapi/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type Options struct {
	Table        string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
}

func NewClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		return nil, errors.New("dynamodb: region is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(region),
	}

	if opts.AccessKey != "" || opts.SecretKey != "" || opts.SessionToken != "" {
		if opts.AccessKey == "" || opts.SecretKey == "" {
			return nil, errors.New("dynamodb: access key and secret key must be set together")
		}
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return client, nil
}

// Connector hands out handles to the movies table. The table is described
// on the first Acquire so an unreachable endpoint or missing table fails the
// request instead of its first query.
type Connector struct {
	client *dynamodb.Client
	table  string

	mu    sync.Mutex
	ready bool
}

func NewConnector(ctx context.Context, opts Options) (*Connector, error) {
	if err := validateTable(opts.Table); err != nil {
		return nil, err
	}
	client, err := NewClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Connector{client: client, table: opts.Table}, nil
}

func (c *Connector) Acquire(ctx context.Context) (movie.Handle, error) {
	if err := c.describe(ctx); err != nil {
		return nil, err
	}
	return NewMovieRepository(c.client, c.table), nil
}

// Close is a no-op; the SDK client holds no connections that need closing.
func (c *Connector) Close(context.Context) error {
	return nil
}

func (c *Connector) describe(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}
	_, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.table),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: describe table %s: %w", c.table, err)
	}
	c.ready = true
	return nil
}

func validateTable(table string) error {
	if strings.TrimSpace(table) == "" {
		return errors.New("dynamodb: table name is required")
	}
	return nil
}
