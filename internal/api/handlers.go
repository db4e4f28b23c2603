// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package api

import (
	"context"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domolog/domolog/internal/config"
	"github.com/domolog/domolog/internal/models"
	"github.com/domolog/domolog/internal/store"
)

// Storage is the store surface the handlers consume. *store.Store
// satisfies it; tests substitute a fake.
type Storage interface {
	Ping(ctx context.Context) error

	CreateDevice(ctx context.Context, device models.Device) (primitive.ObjectID, error)
	GetDevice(ctx context.Context, deviceID string) (*models.Device, error)
	UpdateDevice(ctx context.Context, deviceID string, update store.DeviceUpdate) error
	DeleteDevice(ctx context.Context, deviceID string) error
	ListDevices(ctx context.Context, filter store.DeviceFilter) ([]models.Device, error)
	NearbyDevices(ctx context.Context, params store.NearbyParams) ([]models.Device, error)
	DeviceStats(ctx context.Context) (*models.DeviceStats, error)

	CreateLog(ctx context.Context, entry models.LogEntry) (primitive.ObjectID, error)
	DeleteLog(ctx context.Context, id string) error
	ListLogs(ctx context.Context, filter bson.M, page, perPage int) (*store.LogPage, error)
	SearchLogs(ctx context.Context, params store.SearchParams) (*store.SearchResult, error)
	LogStats(ctx context.Context, filter store.StatsFilter) (*models.LogStats, error)
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	store   Storage
	cfg     *config.Config
	version string
}

// NewHandler builds a Handler.
func NewHandler(storage Storage, cfg *config.Config, version string) *Handler {
	return &Handler{store: storage, cfg: cfg, version: version}
}

// HealthCheck reports service and storage health. Storage failure yields
// 503 with status "degraded" so load balancers can drain the instance.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	health := map[string]interface{}{
		"service": "domolog",
		"version": h.version,
		"status":  "healthy",
	}

	if err := h.store.Ping(r.Context()); err != nil {
		health["status"] = "degraded"
		health["storage"] = "unreachable"
		rw.Fail(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Storage backend unavailable",
			map[string]interface{}{"health": health})
		return
	}

	health["storage"] = "connected"
	rw.Success(health)
}

// pageParams reads page/per_page query parameters, applying the configured
// default and cap. Non-numeric or non-positive values fall back to the
// defaults rather than erroring, matching lenient list semantics.
func (h *Handler) pageParams(r *http.Request) (page, perPage int) {
	page = 1
	perPage = h.cfg.API.DefaultPageSize

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > h.cfg.API.MaxPageSize {
		perPage = h.cfg.API.MaxPageSize
	}
	return page, perPage
}

// totalPages computes the page count for exact totals.
func totalPages(total int64, perPage int) int64 {
	if perPage <= 0 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}
