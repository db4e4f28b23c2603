// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

// Package store implements the MongoDB-backed query and analytics core:
// device registry CRUD, telemetry log ingestion, filtered listing with
// pagination, geospatial nearby search, relevance-ranked text search, and
// the aggregation reports.
//
// All exported methods take a context.Context and return classified errors
// (see errors.go): ErrNotFound, ErrDuplicateDeviceID, *ValidationError, or
// *UnavailableError when the database cannot be reached.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/domolog/domolog/internal/config"
	"github.com/domolog/domolog/internal/logging"
)

// Collection names. The log collection keeps the historical name
// "device_logs" so existing deployments keep their data.
const (
	devicesCollection = "devices"
	logsCollection    = "device_logs"
)

// Store wraps a MongoDB database with the typed operations the API layer
// consumes. Safe for concurrent use; *mongo.Client maintains its own
// connection pool.
type Store struct {
	client  *mongo.Client
	devices *mongo.Collection
	logs    *mongo.Collection
}

// Connect establishes a MongoDB connection, verifies it with a ping, and
// returns a ready Store. The context bounds the initial dial and ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI()).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &UnavailableError{Op: "connect", Err: err}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &UnavailableError{Op: "ping", Err: err}
	}

	logging.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Connected to MongoDB")

	return NewStore(client, cfg.Database), nil
}

// NewStore builds a Store on an already-connected client. Split out from
// Connect so tests can inject a client of their own.
func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:  client,
		devices: db.Collection(devicesCollection),
		logs:    db.Collection(logsCollection),
	}
}

// Ping verifies database connectivity. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &UnavailableError{Op: "ping", Err: err}
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting mongo client: %w", err)
	}
	return nil
}
