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

// CreateDevice inserts a device registration. Returns ErrDuplicateDeviceID
// when the device_id is already taken (enforced by the unique index, so the
// check is race-free).
func (s *Store) CreateDevice(ctx context.Context, device models.Device) (primitive.ObjectID, error) {
	start := time.Now()
	res, err := s.devices.InsertOne(ctx, device)
	metrics.RecordStoreQuery("insert", devicesCollection, time.Since(start), err)
	if err != nil {
		return primitive.NilObjectID, classify("create device", err)
	}

	id := res.InsertedID.(primitive.ObjectID)
	logging.Info().
		Str("device_id", device.DeviceID).
		Str("type", device.Type).
		Msg("Device registered")
	return id, nil
}

// GetDevice fetches one device by its caller-assigned device_id.
func (s *Store) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	var device models.Device
	start := time.Now()
	err := s.devices.FindOne(ctx, bson.M{"device_id": deviceID}).Decode(&device)
	metrics.RecordStoreQuery("find_one", devicesCollection, time.Since(start), err)
	if err != nil {
		return nil, classify("get device", err)
	}
	normalizeDevice(&device)
	return &device, nil
}

// DeviceUpdate carries a partial update. Nil pointers leave the field
// untouched; device_id and created_at are immutable.
type DeviceUpdate struct {
	Name     *string
	Type     *string
	Status   *string
	Location *models.GeoPoint
	Config   map[string]interface{}
}

// set builds the $set document. updated_at is always bumped.
func (u DeviceUpdate) set() bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Config != nil {
		set["config"] = u.Config
	}
	return set
}

// UpdateDevice applies a partial update to one device. Returns ErrNotFound
// when no device matches.
func (s *Store) UpdateDevice(ctx context.Context, deviceID string, update DeviceUpdate) error {
	start := time.Now()
	res, err := s.devices.UpdateOne(ctx, bson.M{"device_id": deviceID}, bson.M{"$set": update.set()})
	metrics.RecordStoreQuery("update", devicesCollection, time.Since(start), err)
	if err != nil {
		return classify("update device", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDevice removes a device registration. Log entries referencing the
// device are left in place; device references in logs are soft.
func (s *Store) DeleteDevice(ctx context.Context, deviceID string) error {
	start := time.Now()
	res, err := s.devices.DeleteOne(ctx, bson.M{"device_id": deviceID})
	metrics.RecordStoreQuery("delete", devicesCollection, time.Since(start), err)
	if err != nil {
		return classify("delete device", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	logging.Info().Str("device_id", deviceID).Msg("Device deleted")
	return nil
}

// ListDevices returns all devices matching the filter, ordered by
// device_id for stable output.
func (s *Store) ListDevices(ctx context.Context, filter DeviceFilter) ([]models.Device, error) {
	opts := options.Find().SetSort(bson.M{"device_id": 1})
	start := time.Now()
	cursor, err := s.devices.Find(ctx, filter.query(), opts)
	metrics.RecordStoreQuery("find", devicesCollection, time.Since(start), err)
	if err != nil {
		return nil, classify("list devices", err)
	}
	defer cursor.Close(ctx)

	devices := []models.Device{}
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, classify("list devices decode", err)
	}
	normalizeDevices(devices)
	return devices, nil
}
