// Package milvus implements the semantic store over Milvus.
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahermangesh/floatchat/internal/config"
)

var tracer = otel.Tracer("infrastructure/milvus")

// Client wraps the Milvus connection with collection-name prefixing.
type Client struct {
	milvus client.Client
	config *config.MilvusConfig
}

// NewClient connects to Milvus.
func NewClient(ctx context.Context, cfg *config.MilvusConfig) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var (
		milvusClient client.Client
		err          error
	)
	if cfg.User != "" && cfg.Password != "" {
		milvusClient, err = client.NewClient(ctx, client.Config{
			Address:  addr,
			Username: cfg.User,
			Password: cfg.Password,
		})
	} else {
		milvusClient, err = client.NewClient(ctx, client.Config{
			Address: addr,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	return &Client{milvus: milvusClient, config: cfg}, nil
}

// Milvus exposes the underlying client.
func (c *Client) Milvus() client.Client {
	return c.milvus
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.milvus.Close()
}

// HealthCheck verifies the connection is alive.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.HealthCheck")
	defer span.End()

	_, err := c.milvus.HasCollection(ctx, "health_check")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// CollectionName returns the prefixed collection name.
func (c *Client) CollectionName(name string) string {
	if c.config.CollectionPrefix != "" {
		return c.config.CollectionPrefix + "_" + name
	}
	return name
}

// HasCollection checks whether the named collection exists.
func (c *Client) HasCollection(ctx context.Context, name string) (bool, error) {
	ctx, span := tracer.Start(ctx, "milvus.HasCollection",
		trace.WithAttributes(attribute.String("collection", name)))
	defer span.End()

	return c.milvus.HasCollection(ctx, c.CollectionName(name))
}

// LoadCollection loads the named collection into memory.
func (c *Client) LoadCollection(ctx context.Context, name string) error {
	ctx, span := tracer.Start(ctx, "milvus.LoadCollection",
		trace.WithAttributes(attribute.String("collection", name)))
	defer span.End()

	return c.milvus.LoadCollection(ctx, c.CollectionName(name), false)
}
