// Package store selects the movie store backend from configuration.
package store

import (
	"context"
	"fmt"

	"movieapi/dynamodb"
	"movieapi/mongodb"
	"movieapi/movie"
	"movieapi/pkg/config"
)

// Connector is a movie.Connector that owns resources released on shutdown.
type Connector interface {
	movie.Connector
	Close(ctx context.Context) error
}

// Open builds the connector for cfg.Store.Driver. The MongoDB connector
// connects lazily, so Open does not touch the network for it.
func Open(ctx context.Context, cfg *config.Config) (Connector, error) {
	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		return mongodb.NewConnector(mongodb.Options{
			URI:            cfg.Mongo.URI,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
		}), nil
	case config.DriverDynamoDB:
		c, err := dynamodb.NewConnector(ctx, dynamodb.Options{
			Table:        cfg.DynamoDB.MoviesTable,
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("store: unknown driver %q", cfg.Store.Driver)
}
