// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommended log type values. Like device statuses these are open string
// categories, not an enforced enum.
const (
	LogTypeInfo         = "info"
	LogTypeWarning      = "warning"
	LogTypeError        = "error"
	LogTypeStatusChange = "status_change"
)

// LogContent is the payload of one telemetry event: a message plus an
// opaque details sub-document. Both are covered by the text index.
type LogContent struct {
	Message string                 `bson:"message" json:"message"`
	Details map[string]interface{} `bson:"details" json:"details"`
}

// LogEntry is one append-only telemetry event.
//
// DeviceID is a soft reference: ingestion succeeds even when the referenced
// device no longer exists, and orphaned entries are tolerated. Timestamp is
// the sole ordering key for recency queries and the sole bucketing key for
// time-series aggregation; it also drives TTL-based retention.
type LogEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DeviceID  string             `bson:"device_id" json:"device_id"`
	LogType   string             `bson:"log_type" json:"log_type"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Content   LogContent         `bson:"content" json:"content"`
}

// NewLogEntry builds a log document ready for insertion. Timestamp defaults
// to ingestion time when zero, Details to an empty document when unset.
func NewLogEntry(deviceID, logType, message string, details map[string]interface{}, timestamp time.Time) LogEntry {
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	return LogEntry{
		DeviceID:  deviceID,
		LogType:   logType,
		Timestamp: timestamp,
		Content: LogContent{
			Message: message,
			Details: details,
		},
	}
}
