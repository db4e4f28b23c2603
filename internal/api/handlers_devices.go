// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/models"
	"github.com/domolog/domolog/internal/store"
)

// ListDevices returns all devices matching the optional type, status, and
// search filters.
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	q := r.URL.Query()

	devices, err := h.store.ListDevices(r.Context(), store.DeviceFilter{
		Type:   q.Get("type"),
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(map[string]interface{}{
		"devices": devices,
		"count":   len(devices),
	})
}

// CreateDevice registers a new device. Duplicate device_id yields 409.
func (h *Handler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	var req createDeviceRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	device := models.NewDevice(
		req.DeviceID,
		req.Name,
		req.Type,
		*req.Location.Longitude,
		*req.Location.Latitude,
		req.Status,
		req.Config,
	)

	id, err := h.store.CreateDevice(r.Context(), device)
	if err != nil {
		rw.StoreError(err)
		return
	}

	device.ID = id
	rw.Created(device)
}

// GetDevice fetches one device by device_id.
func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	device, err := h.store.GetDevice(r.Context(), chi.URLParam(r, "device_id"))
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(device)
}

// UpdateDevice applies a partial update to one device.
func (h *Handler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	deviceID := chi.URLParam(r, "device_id")

	var req updateDeviceRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	update := store.DeviceUpdate{
		Name:   req.Name,
		Type:   req.Type,
		Status: req.Status,
		Config: req.Config,
	}
	if req.Location != nil {
		point := models.NewGeoPoint(*req.Location.Longitude, *req.Location.Latitude)
		update.Location = &point
	}

	if err := h.store.UpdateDevice(r.Context(), deviceID, update); err != nil {
		rw.StoreError(err)
		return
	}

	device, err := h.store.GetDevice(r.Context(), deviceID)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(device)
}

// DeleteDevice removes a device registration. Its logs are retained.
func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	deviceID := chi.URLParam(r, "device_id")

	if err := h.store.DeleteDevice(r.Context(), deviceID); err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(map[string]interface{}{"deleted": deviceID})
}

// NearbyDevices returns devices within a radius of a point, nearest first.
// lon and lat are required; radius defaults to 1000 meters and limit to 10.
func (h *Handler) NearbyDevices(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	q := r.URL.Query()

	params, ok := parseNearbyQuery(rw, q.Get("longitude"), q.Get("latitude"), q.Get("max_distance"), q.Get("limit"))
	if !ok {
		return
	}
	params.Status = q.Get("status")

	metrics.GeoQueriesTotal.Inc()
	devices, err := h.store.NearbyDevices(r.Context(), params)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(map[string]interface{}{
		"devices": devices,
		"count":   len(devices),
		"center":  map[string]float64{"longitude": params.Longitude, "latitude": params.Latitude},
	})
}

// parseNearbyQuery converts raw coordinate parameters to NearbyParams.
// Bounds checking happens in the store; this only rejects non-numeric
// input and missing coordinates.
func parseNearbyQuery(rw *responder, lon, lat, maxDist, limit string) (store.NearbyParams, bool) {
	var params store.NearbyParams

	if lon == "" || lat == "" {
		rw.Fail(http.StatusBadRequest, ErrCodeValidation, "longitude and latitude are required", nil)
		return params, false
	}

	var err error
	if params.Longitude, err = strconv.ParseFloat(lon, 64); err != nil {
		rw.Fail(http.StatusBadRequest, ErrCodeValidation, "longitude must be a number",
			map[string]interface{}{"field": "longitude"})
		return params, false
	}
	if params.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
		rw.Fail(http.StatusBadRequest, ErrCodeValidation, "latitude must be a number",
			map[string]interface{}{"field": "latitude"})
		return params, false
	}
	if maxDist != "" {
		if params.MaxDistance, err = strconv.ParseFloat(maxDist, 64); err != nil {
			rw.Fail(http.StatusBadRequest, ErrCodeValidation, "max_distance must be a number",
				map[string]interface{}{"field": "max_distance"})
			return params, false
		}
	}
	if limit != "" {
		if params.Limit, err = strconv.Atoi(limit); err != nil {
			rw.Fail(http.StatusBadRequest, ErrCodeValidation, "limit must be an integer",
				map[string]interface{}{"field": "limit"})
			return params, false
		}
	}
	return params, true
}

// DeviceStats returns the registry aggregation report.
func (h *Handler) DeviceStats(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	stats, err := h.store.DeviceStats(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(stats)
}
