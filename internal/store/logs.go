// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domolog/domolog/internal/logging"
	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/models"
)

// CreateLog inserts a telemetry log entry. The referenced device is not
// required to exist; ingestion never blocks on registry state.
func (s *Store) CreateLog(ctx context.Context, entry models.LogEntry) (primitive.ObjectID, error) {
	start := time.Now()
	res, err := s.logs.InsertOne(ctx, entry)
	metrics.RecordStoreQuery("insert", logsCollection, time.Since(start), err)
	if err != nil {
		return primitive.NilObjectID, classify("create log", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	logging.Debug().
		Str("device_id", entry.DeviceID).
		Str("log_type", entry.LogType).
		Msg("Log entry ingested")
	return id, nil
}

// DeleteLog removes one log entry by its store-assigned hex identifier.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return NewValidationError("id", "invalid log id: %q", id)
	}

	start := time.Now()
	res, err := s.logs.DeleteOne(ctx, bson.M{"_id": oid})
	metrics.RecordStoreQuery("delete", logsCollection, time.Since(start), err)
	if err != nil {
		return classify("delete log", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// LogPage is one page of log entries with the exact total match count.
type LogPage struct {
	Entries []models.LogEntry
	Total   int64
	Page    int
	PerPage int
}

// ListLogs returns one page of log entries matching the filter, newest
// first. Unlike text search, the total here is an exact count of all
// matches, not just the current page.
func (s *Store) ListLogs(ctx context.Context, filter bson.M, page, perPage int) (*LogPage, error) {
	if filter == nil {
		filter = bson.M{}
	}

	start := time.Now()
	total, err := s.logs.CountDocuments(ctx, filter)
	metrics.RecordStoreQuery("count", logsCollection, time.Since(start), err)
	if err != nil {
		return nil, classify("count logs", err)
	}

	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64(page-1) * int64(perPage)).
		SetLimit(int64(perPage))

	start = time.Now()
	cursor, err := s.logs.Find(ctx, filter, opts)
	metrics.RecordStoreQuery("find", logsCollection, time.Since(start), err)
	if err != nil {
		return nil, classify("list logs", err)
	}
	defer cursor.Close(ctx)

	entries := []models.LogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, classify("list logs decode", err)
	}
	normalizeLogEntries(entries)

	return &LogPage{Entries: entries, Total: total, Page: page, PerPage: perPage}, nil
}
