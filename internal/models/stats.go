// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package models

import "time"

// CategoryCount is one group of a single-field count aggregation
// (devices by type, devices by status, logs by log_type).
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// DeviceCount is one group of the logs-per-device aggregation.
type DeviceCount struct {
	DeviceID string `bson:"_id" json:"device_id"`
	Count    int64  `bson:"count" json:"count"`
}

// HourKey identifies one calendar-hour bucket extracted from log
// timestamps. Buckets with no matching logs are absent from results, not
// emitted as zero counts.
type HourKey struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
	Day   int `bson:"day" json:"day"`
	Hour  int `bson:"hour" json:"hour"`
}

// HourlyBucket is one group of the hourly time-bucketing aggregation.
type HourlyBucket struct {
	Bucket HourKey `bson:"_id" json:"bucket"`
	Count  int64   `bson:"count" json:"count"`
}

// DeviceFrequency is the per-device log production rate. FirstLog, LastLog
// and Count come from the store's group stage; DurationHours and Frequency
// are derived client-side (Frequency is 0 when the span is zero, which
// covers single-log devices).
type DeviceFrequency struct {
	DeviceID      string    `bson:"_id" json:"device_id"`
	FirstLog      time.Time `bson:"first_log" json:"first_log"`
	LastLog       time.Time `bson:"last_log" json:"last_log"`
	Count         int64     `bson:"count" json:"count"`
	DurationHours float64   `bson:"-" json:"duration_hours"`
	Frequency     float64   `bson:"-" json:"frequency"`
}

// DeviceStats is the device registry report.
type DeviceStats struct {
	Total    int64           `json:"total"`
	ByType   []CategoryCount `json:"by_type"`
	ByStatus []CategoryCount `json:"by_status"`
}

// LogStats bundles the four log aggregation reports.
type LogStats struct {
	ByType          []CategoryCount   `json:"by_type"`
	ByDevice        []DeviceCount     `json:"by_device"`
	Hourly          []HourlyBucket    `json:"hourly"`
	DeviceFrequency []DeviceFrequency `json:"device_frequency"`
}
