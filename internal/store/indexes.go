// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domolog/domolog/internal/logging"
)

// EnsureIndexes creates the indexes the query engine depends on. Creation
// is idempotent; existing identical indexes are left alone.
//
// logTTL bounds log retention via a TTL index on timestamp. A zero or
// negative logTTL disables expiry.
func (s *Store) EnsureIndexes(ctx context.Context, logTTL time.Duration) error {
	deviceIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "device_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_device_id"),
		},
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("geo_location"),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("type_status"),
		},
	}
	if _, err := s.devices.Indexes().CreateMany(ctx, deviceIndexes); err != nil {
		return classify("create device indexes", err)
	}

	logIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "device_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("device_recency"),
		},
		{
			Keys:    bson.D{{Key: "content.message", Value: "text"}, {Key: "content.details", Value: "text"}},
			Options: options.Index().SetName("content_text"),
		},
	}
	if logTTL > 0 {
		logIndexes = append(logIndexes, mongo.IndexModel{
			Keys: bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().
				SetName("log_ttl").
				SetExpireAfterSeconds(int32(logTTL / time.Second)),
		})
	}
	if _, err := s.logs.Indexes().CreateMany(ctx, logIndexes); err != nil {
		return classify("create log indexes", err)
	}

	logging.Info().
		Dur("log_ttl", logTTL).
		Msg("Store indexes ensured")
	return nil
}
