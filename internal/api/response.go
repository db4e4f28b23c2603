// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

// Package api implements the HTTP transport: request decoding and
// validation, the standardized response envelope, store error mapping, and
// the chi route table.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/domolog/domolog/internal/logging"
	"github.com/domolog/domolog/internal/models"
)

// Machine-readable error codes carried in the response envelope.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// responder writes envelope responses for one request and tracks elapsed
// time for the query_time_ms metadata field.
type responder struct {
	w     http.ResponseWriter
	r     *http.Request
	start time.Time
}

func respond(w http.ResponseWriter, r *http.Request) *responder {
	return &responder{w: w, r: r, start: time.Now()}
}

// Success writes a 200 envelope with data.
func (rw *responder) Success(data interface{}) {
	rw.write(http.StatusOK, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: rw.metadata(nil),
	})
}

// Created writes a 201 envelope with data.
func (rw *responder) Created(data interface{}) {
	rw.write(http.StatusCreated, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: rw.metadata(nil),
	})
}

// Page writes a 200 envelope with data plus pagination metadata.
func (rw *responder) Page(data interface{}, pagination *models.Pagination) {
	rw.write(http.StatusOK, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: rw.metadata(pagination),
	})
}

// Fail writes an error envelope with the given status and error payload.
func (rw *responder) Fail(status int, code, message string, details map[string]interface{}) {
	rw.write(status, models.APIResponse{
		Status:   "error",
		Metadata: rw.metadata(nil),
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func (rw *responder) metadata(pagination *models.Pagination) models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: time.Since(rw.start).Milliseconds(),
		Pagination:  pagination,
	}
}

func (rw *responder) write(status int, resp models.APIResponse) {
	rw.w.Header().Set("Content-Type", "application/json")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(resp); err != nil {
		logger := logging.Ctx(rw.r.Context())
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}
