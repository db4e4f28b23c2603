// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/domolog/domolog/internal/validation"
)

// locationPayload is the request-body shape for device coordinates.
// Pointers distinguish "omitted" from the valid zero coordinate.
type locationPayload struct {
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
}

// createDeviceRequest registers a new device. Status and config are
// optional; status defaults to online.
type createDeviceRequest struct {
	DeviceID string                 `json:"device_id" validate:"required,max=64"`
	Name     string                 `json:"name" validate:"required,max=256"`
	Type     string                 `json:"type" validate:"required,max=64"`
	Location *locationPayload       `json:"location" validate:"required"`
	Status   string                 `json:"status" validate:"omitempty,max=32"`
	Config   map[string]interface{} `json:"config"`
}

// updateDeviceRequest carries a partial device update. Every field is
// optional; device_id itself is immutable and comes from the URL.
type updateDeviceRequest struct {
	Name     *string                `json:"name" validate:"omitempty,max=256"`
	Type     *string                `json:"type" validate:"omitempty,max=64"`
	Status   *string                `json:"status" validate:"omitempty,max=32"`
	Location *locationPayload       `json:"location"`
	Config   map[string]interface{} `json:"config"`
}

// logContentPayload is the content sub-document of a log ingestion request.
type logContentPayload struct {
	Message string                 `json:"message" validate:"required"`
	Details map[string]interface{} `json:"details"`
}

// createLogRequest ingests one telemetry event. Timestamp is optional and
// accepts the same formats as the list filters; it defaults to ingestion
// time.
type createLogRequest struct {
	DeviceID  string             `json:"device_id" validate:"required,max=64"`
	LogType   string             `json:"log_type" validate:"required,max=32"`
	Content   *logContentPayload `json:"content" validate:"required"`
	Timestamp string             `json:"timestamp"`
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. Returns false after writing the error response, so handlers
// can bail with a bare return.
func decodeAndValidate(rw *responder, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.Fail(http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", nil)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ValidationError(verr)
		return false
	}
	return true
}
