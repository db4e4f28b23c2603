// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domolog/domolog/internal/models"
)

// NormalizeIDs recursively replaces every ObjectID in a decoded document
// tree with its 24-character hex string, so JSON responses never expose the
// driver's extended-JSON ObjectID encoding. Maps, slices, and bson.D
// element values are traversed; all other values pass through untouched.
//
// The function is idempotent: a hex string produced by one pass is a plain
// string and survives further passes unchanged. Inputs are not mutated; the
// returned value shares only leaf values with the input.
func NormalizeIDs(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case bson.M:
		out := make(bson.M, len(val))
		for k, elem := range val {
			out[k] = NormalizeIDs(elem)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			out[k] = NormalizeIDs(elem)
		}
		return out
	case bson.D:
		out := make(bson.D, len(val))
		for i, elem := range val {
			out[i] = bson.E{Key: elem.Key, Value: NormalizeIDs(elem.Value)}
		}
		return out
	case primitive.A:
		out := make(primitive.A, len(val))
		for i, elem := range val {
			out[i] = NormalizeIDs(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = NormalizeIDs(elem)
		}
		return out
	default:
		return v
	}
}

// Typed model fields marshal their own ObjectIDs as hex, but the opaque
// config and details documents decode with driver types (primitive.M,
// primitive.A, primitive.ObjectID) in their interface{} values. Every read
// path runs those payloads through NormalizeIDs before they reach the
// transport layer.

func normalizeDevice(d *models.Device) {
	if d.Config != nil {
		d.Config = NormalizeIDs(d.Config).(map[string]interface{})
	}
}

func normalizeDevices(devices []models.Device) {
	for i := range devices {
		normalizeDevice(&devices[i])
	}
}

func normalizeLogEntry(e *models.LogEntry) {
	if e.Content.Details != nil {
		e.Content.Details = NormalizeIDs(e.Content.Details).(map[string]interface{})
	}
}

func normalizeLogEntries(entries []models.LogEntry) {
	for i := range entries {
		normalizeLogEntry(&entries[i])
	}
}
