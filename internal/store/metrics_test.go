// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/models"
)

// unreachableStore builds a Store on a client pointed at a port nothing
// listens on, with server selection cut short so operations fail fast.
// Every driver call through it errors, which is exactly what the error
// counters need.
func unreachableStore(t *testing.T) *Store {
	t.Helper()

	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetConnectTimeout(10 * time.Millisecond).
		SetServerSelectionTimeout(10 * time.Millisecond)

	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return NewStore(client, "domolog_test")
}

func TestStoreOperationsRecordQueryMetrics(t *testing.T) {
	s := unreachableStore(t)
	ctx := context.Background()

	tests := []struct {
		op         string
		collection string
		call       func() error
	}{
		{"find_one", devicesCollection, func() error {
			_, err := s.GetDevice(ctx, "DEV0001")
			return err
		}},
		{"insert", logsCollection, func() error {
			_, err := s.CreateLog(ctx, models.NewLogEntry("DEV0001", "info", "boot", nil, time.Time{}))
			return err
		}},
		{"count", logsCollection, func() error {
			_, err := s.ListLogs(ctx, nil, 1, 50)
			return err
		}},
		{"geo_near", devicesCollection, func() error {
			_, err := s.NearbyDevices(ctx, NearbyParams{Longitude: 1, Latitude: 2})
			return err
		}},
		{"text_search", logsCollection, func() error {
			_, err := s.SearchLogs(ctx, SearchParams{Keyword: "overheat", Page: 1, PerPage: 50})
			return err
		}},
		{"count_by_log_type", logsCollection, func() error {
			_, err := s.LogStats(ctx, StatsFilter{})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			errCounter := metrics.StoreQueryErrors.WithLabelValues(tt.op, tt.collection)
			before := testutil.ToFloat64(errCounter)

			require.Error(t, tt.call())

			assert.Equal(t, before+1, testutil.ToFloat64(errCounter),
				"error counter for %s/%s", tt.op, tt.collection)
		})
	}
}
