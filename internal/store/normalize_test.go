// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domolog/domolog/internal/models"
)

func TestNormalizeIDsTopLevel(t *testing.T) {
	oid := primitive.NewObjectID()
	got := NormalizeIDs(bson.M{"_id": oid, "device_id": "DEV0001"})

	doc := got.(bson.M)
	assert.Equal(t, oid.Hex(), doc["_id"])
	assert.Equal(t, "DEV0001", doc["device_id"])
}

func TestNormalizeIDsNested(t *testing.T) {
	inner := primitive.NewObjectID()
	got := NormalizeIDs(bson.M{
		"content": map[string]interface{}{
			"details": bson.M{"ref": inner},
		},
		"related": primitive.A{inner, "plain"},
		"ordered": bson.D{{Key: "id", Value: inner}},
		"items":   []interface{}{bson.M{"_id": inner}},
	})

	doc := got.(bson.M)
	details := doc["content"].(map[string]interface{})["details"].(bson.M)
	assert.Equal(t, inner.Hex(), details["ref"])

	related := doc["related"].(primitive.A)
	assert.Equal(t, inner.Hex(), related[0])
	assert.Equal(t, "plain", related[1])

	ordered := doc["ordered"].(bson.D)
	assert.Equal(t, inner.Hex(), ordered[0].Value)

	item := doc["items"].([]interface{})[0].(bson.M)
	assert.Equal(t, inner.Hex(), item["_id"])
}

func TestNormalizeIDsIdempotent(t *testing.T) {
	oid := primitive.NewObjectID()
	once := NormalizeIDs(bson.M{"_id": oid})
	twice := NormalizeIDs(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeIDsDoesNotMutateInput(t *testing.T) {
	oid := primitive.NewObjectID()
	input := bson.M{"_id": oid}

	_ = NormalizeIDs(input)

	require.IsType(t, primitive.ObjectID{}, input["_id"])
}

func TestNormalizeIDsPassthrough(t *testing.T) {
	assert.Equal(t, 42, NormalizeIDs(42))
	assert.Equal(t, "hello", NormalizeIDs("hello"))
	assert.Nil(t, NormalizeIDs(nil))
}

func TestNormalizeDeviceConfig(t *testing.T) {
	oid := primitive.NewObjectID()
	device := models.NewDevice("DEV0001", "Lamp", "smart_light", 1, 2, "", map[string]interface{}{
		"scene_ref": oid,
		"scenes":    primitive.A{primitive.M{"id": oid}},
	})

	normalizeDevice(&device)

	assert.Equal(t, oid.Hex(), device.Config["scene_ref"])
	scene := device.Config["scenes"].(primitive.A)[0].(primitive.M)
	assert.Equal(t, oid.Hex(), scene["id"])
}

func TestNormalizeLogEntries(t *testing.T) {
	oid := primitive.NewObjectID()
	entries := []models.LogEntry{
		models.NewLogEntry("DEV0001", "info", "linked", map[string]interface{}{"ref": oid}, time.Time{}),
		models.NewLogEntry("DEV0002", "info", "plain", nil, time.Time{}),
	}

	normalizeLogEntries(entries)

	assert.Equal(t, oid.Hex(), entries[0].Content.Details["ref"])
	assert.NotNil(t, entries[1].Content.Details)
}
