// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

// Package models defines the document and API response types shared by the
// store and transport layers.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommended device status values. Statuses are open string categories:
// the store does not enforce membership, these are documentation-level
// conventions carried by the seed data and the frontend.
const (
	StatusOnline      = "online"
	StatusOffline     = "offline"
	StatusMaintenance = "maintenance"
)

// GeoPoint is a GeoJSON Point as stored in the 2dsphere-indexed location
// field. Coordinates are [longitude, latitude] per the GeoJSON spec.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON Point from a longitude/latitude pair.
func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

// Longitude returns the point's longitude, or 0 for a malformed point.
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Latitude returns the point's latitude, or 0 for a malformed point.
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Device is a registration record for one smart-home device.
//
// DeviceID is the caller-assigned unique identifier (enforced by a unique
// index); ID is the store-assigned ObjectID. Type and Status are open
// string categories. Config is an opaque document whose shape depends on
// Type; the core passes it through unvalidated.
type Device struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	DeviceID  string                 `bson:"device_id" json:"device_id"`
	Name      string                 `bson:"name" json:"name"`
	Type      string                 `bson:"type" json:"type"`
	Location  GeoPoint               `bson:"location" json:"location"`
	Status    string                 `bson:"status" json:"status"`
	Config    map[string]interface{} `bson:"config" json:"config"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}

// NewDevice builds a device document ready for insertion. Status defaults
// to online and Config to an empty document when unset.
func NewDevice(deviceID, name, deviceType string, longitude, latitude float64, status string, config map[string]interface{}) Device {
	if status == "" {
		status = StatusOnline
	}
	if config == nil {
		config = map[string]interface{}{}
	}
	now := time.Now().UTC()
	return Device{
		DeviceID:  deviceID,
		Name:      name,
		Type:      deviceType,
		Location:  NewGeoPoint(longitude, latitude),
		Status:    status,
		Config:    config,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
