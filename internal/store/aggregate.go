// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/models"
)

// Result caps for the top-N aggregation reports.
const (
	topDevicesLimit   = 10
	hourlyBucketLimit = 24
)

// DeviceStats returns the registry report: total device count plus counts
// grouped by type and by status, each ordered by descending count.
func (s *Store) DeviceStats(ctx context.Context) (*models.DeviceStats, error) {
	start := time.Now()
	total, err := s.devices.CountDocuments(ctx, bson.M{})
	metrics.RecordStoreQuery("count", devicesCollection, time.Since(start), err)
	if err != nil {
		return nil, classify("device stats count", err)
	}

	byType, err := s.countByField(ctx, s.devices, "type", bson.M{})
	if err != nil {
		return nil, err
	}
	byStatus, err := s.countByField(ctx, s.devices, "status", bson.M{})
	if err != nil {
		return nil, err
	}

	return &models.DeviceStats{Total: total, ByType: byType, ByStatus: byStatus}, nil
}

// LogStats runs the four log aggregation reports over the optionally
// filtered log set.
func (s *Store) LogStats(ctx context.Context, f StatsFilter) (*models.LogStats, error) {
	match := f.match()

	byType, err := s.countByField(ctx, s.logs, "log_type", match)
	if err != nil {
		return nil, err
	}
	byDevice, err := s.logCountsByDevice(ctx, match)
	if err != nil {
		return nil, err
	}
	hourly, err := s.logHourlyBuckets(ctx, match)
	if err != nil {
		return nil, err
	}
	frequency, err := s.logDeviceFrequency(ctx, match)
	if err != nil {
		return nil, err
	}

	return &models.LogStats{
		ByType:          byType,
		ByDevice:        byDevice,
		Hourly:          hourly,
		DeviceFrequency: frequency,
	}, nil
}

// countByFieldPipeline groups documents by one field and counts each
// group, descending.
func countByFieldPipeline(field string, match bson.M) []bson.M {
	return []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}
}

func (s *Store) countByField(ctx context.Context, coll *mongo.Collection, field string, match bson.M) ([]models.CategoryCount, error) {
	out := []models.CategoryCount{}
	if err := s.aggregate(ctx, coll, "count_by_"+field, countByFieldPipeline(field, match), &out); err != nil {
		return nil, classify("count by "+field, err)
	}
	return out, nil
}

// byDevicePipeline counts logs per device, keeping the ten noisiest.
func byDevicePipeline(match bson.M) []bson.M {
	return []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$device_id", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": topDevicesLimit},
	}
}

func (s *Store) logCountsByDevice(ctx context.Context, match bson.M) ([]models.DeviceCount, error) {
	out := []models.DeviceCount{}
	if err := s.aggregate(ctx, s.logs, "counts_by_device", byDevicePipeline(match), &out); err != nil {
		return nil, classify("log counts by device", err)
	}
	return out, nil
}

// hourlyPipeline groups logs into calendar-hour buckets. The group key uses
// bson.D so year/month/day/hour keep their order inside _id, which is what
// makes the {_id: 1} sort chronological. Empty buckets are absent from the
// result, not zero-filled.
func hourlyPipeline(match bson.M) []bson.M {
	return []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id": bson.D{
				{Key: "year", Value: bson.M{"$year": "$timestamp"}},
				{Key: "month", Value: bson.M{"$month": "$timestamp"}},
				{Key: "day", Value: bson.M{"$dayOfMonth": "$timestamp"}},
				{Key: "hour", Value: bson.M{"$hour": "$timestamp"}},
			},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
		{"$limit": hourlyBucketLimit},
	}
}

func (s *Store) logHourlyBuckets(ctx context.Context, match bson.M) ([]models.HourlyBucket, error) {
	out := []models.HourlyBucket{}
	if err := s.aggregate(ctx, s.logs, "hourly_buckets", hourlyPipeline(match), &out); err != nil {
		return nil, classify("log hourly buckets", err)
	}
	return out, nil
}

// frequencyPipeline groups per device; deriveFrequency computes the rate
// client-side, where the zero-span rule is unit-testable.
func frequencyPipeline(match bson.M) []bson.M {
	return []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":       "$device_id",
			"first_log": bson.M{"$min": "$timestamp"},
			"last_log":  bson.M{"$max": "$timestamp"},
			"count":     bson.M{"$sum": 1},
		}},
	}
}

func (s *Store) logDeviceFrequency(ctx context.Context, match bson.M) ([]models.DeviceFrequency, error) {
	rows := []models.DeviceFrequency{}
	if err := s.aggregate(ctx, s.logs, "device_frequency", frequencyPipeline(match), &rows); err != nil {
		return nil, classify("log device frequency", err)
	}
	return deriveFrequency(rows), nil
}

// deriveFrequency fills DurationHours and Frequency for each grouped row,
// then returns the top rows by descending frequency.
//
// Frequency is count divided by the hours between first and last log. A
// zero or negative span yields frequency 0: a single log carries no rate
// information, and reporting an infinite or huge rate for it would dominate
// the ranking meaninglessly.
func deriveFrequency(rows []models.DeviceFrequency) []models.DeviceFrequency {
	for i := range rows {
		hours := rows[i].LastLog.Sub(rows[i].FirstLog).Hours()
		rows[i].DurationHours = hours
		if hours > 0 {
			rows[i].Frequency = float64(rows[i].Count) / hours
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Frequency > rows[j].Frequency
	})

	if len(rows) > topDevicesLimit {
		rows = rows[:topDevicesLimit]
	}
	return rows
}

// aggregate runs a pipeline, decodes all results into out, and records the
// operation's duration and outcome under the given op label.
func (s *Store) aggregate(ctx context.Context, coll *mongo.Collection, op string, pipeline []bson.M, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQuery(op, coll.Name(), time.Since(start), err)
	}()

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
