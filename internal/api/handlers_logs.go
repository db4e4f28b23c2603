// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/models"
	"github.com/domolog/domolog/internal/store"
)

// ListLogs returns one page of log entries, newest first, narrowed by the
// recognized filter parameters (device_id, type, status, log_type,
// start_time, end_time).
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	q := r.URL.Query()

	filter := store.BuildLogFilter(map[string]string{
		store.ParamDeviceID:  q.Get("device_id"),
		store.ParamType:      q.Get("type"),
		store.ParamStatus:    q.Get("status"),
		store.ParamLogType:   q.Get("log_type"),
		store.ParamStartTime: q.Get("start_time"),
		store.ParamEndTime:   q.Get("end_time"),
	})

	page, perPage := h.pageParams(r)
	result, err := h.store.ListLogs(r.Context(), filter, page, perPage)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Page(map[string]interface{}{"logs": result.Entries}, &models.Pagination{
		Page:    result.Page,
		PerPage: result.PerPage,
		Total:   result.Total,
		Pages:   totalPages(result.Total, result.PerPage),
	})
}

// CreateLog ingests one telemetry event. The referenced device need not
// exist.
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	var req createLogRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	// An unparseable timestamp behaves like an omitted one: the entry gets
	// ingestion time.
	timestamp, _ := store.ParseTimestamp(req.Timestamp)

	entry := models.NewLogEntry(req.DeviceID, req.LogType, req.Content.Message, req.Content.Details, timestamp)

	id, err := h.store.CreateLog(r.Context(), entry)
	if err != nil {
		rw.StoreError(err)
		return
	}

	metrics.LogsIngestedTotal.Inc()
	entry.ID = id
	rw.Created(entry)
}

// DeleteLog removes one log entry by its hex identifier.
func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteLog(r.Context(), id); err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(map[string]interface{}{"deleted": id})
}

// SearchLogs runs a relevance-ranked text search over log content. The
// reported total is approximate (see models.Pagination).
func (h *Handler) SearchLogs(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	q := r.URL.Query()

	page, perPage := h.pageParams(r)
	params := store.SearchParams{Keyword: q.Get("q"), Page: page, PerPage: perPage}
	params.Normalize(h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize)

	metrics.TextSearchesTotal.Inc()
	result, err := h.store.SearchLogs(r.Context(), params)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Page(map[string]interface{}{"logs": result.Entries}, &models.Pagination{
		Page:        result.Page,
		PerPage:     result.PerPage,
		Total:       result.Total,
		Approximate: true,
	})
}

// LogStats returns the four log aggregation reports, optionally narrowed
// by device_id, start_time, and end_time.
func (h *Handler) LogStats(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	q := r.URL.Query()

	// Unparseable bounds are dropped, leaving that side of the window open.
	filter := store.StatsFilter{DeviceID: q.Get("device_id")}
	if ts, ok := store.ParseTimestamp(q.Get("start_time")); ok {
		filter.StartTime = ts
	}
	if ts, ok := store.ParseTimestamp(q.Get("end_time")); ok {
		filter.EndTime = ts
	}

	start := time.Now()
	stats, err := h.store.LogStats(r.Context(), filter)
	if err != nil {
		rw.StoreError(err)
		return
	}
	metrics.RecordAggregation("log_stats", time.Since(start))

	rw.Success(stats)
}
