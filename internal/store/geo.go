// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/models"
	"github.com/domolog/domolog/internal/validation"
)

// Defaults applied by NearbyParams.Normalize when the caller omits the
// corresponding parameter.
const (
	DefaultMaxDistanceMeters = 1000.0
	DefaultNearbyLimit       = 10
	MaxNearbyLimit           = 500
)

// NearbyParams describes a radius search around a coordinate. Results are
// ordered by ascending distance from the center, an ordering guaranteed by
// the 2dsphere $near operator.
type NearbyParams struct {
	Longitude   float64 `validate:"gte=-180,lte=180"`
	Latitude    float64 `validate:"gte=-90,lte=90"`
	MaxDistance float64 `validate:"gte=0"`
	Limit       int     `validate:"gte=0,lte=500"`
	Status      string
}

// Normalize fills defaults for omitted radius and limit.
func (p *NearbyParams) Normalize() {
	if p.MaxDistance == 0 {
		p.MaxDistance = DefaultMaxDistanceMeters
	}
	if p.Limit == 0 {
		p.Limit = DefaultNearbyLimit
	}
}

// Validate checks coordinate and range bounds, returning a *ValidationError
// naming the first offending field.
func (p NearbyParams) Validate() error {
	if verr := validation.ValidateStruct(&p); verr != nil {
		fe := verr.Errors()[0]
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return nil
}

// query builds the $near geospatial predicate, plus the optional status
// narrowing. Distances are in meters on the WGS 84 sphere.
func (p NearbyParams) query() bson.M {
	filter := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry":    models.NewGeoPoint(p.Longitude, p.Latitude),
				"$maxDistance": p.MaxDistance,
			},
		},
	}
	if p.Status != "" {
		filter["status"] = p.Status
	}
	return filter
}

// NearbyDevices returns devices within MaxDistance meters of the given
// point, nearest first, capped at Limit.
func (s *Store) NearbyDevices(ctx context.Context, p NearbyParams) ([]models.Device, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	opts := options.Find().SetLimit(int64(p.Limit))
	start := time.Now()
	cursor, err := s.devices.Find(ctx, p.query(), opts)
	metrics.RecordStoreQuery("geo_near", devicesCollection, time.Since(start), err)
	if err != nil {
		return nil, classify("nearby devices", err)
	}
	defer cursor.Close(ctx)

	devices := []models.Device{}
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, classify("nearby devices decode", err)
	}
	normalizeDevices(devices)
	return devices, nil
}
