// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package api

import (
	"errors"
	"net/http"

	"github.com/domolog/domolog/internal/logging"
	"github.com/domolog/domolog/internal/store"
	"github.com/domolog/domolog/internal/validation"
)

// StoreError maps a store error onto the response envelope. Unclassified
// errors become an opaque 500; the underlying error goes to the log, never
// to the client.
func (rw *responder) StoreError(err error) {
	var verr *store.ValidationError
	var uerr *store.UnavailableError

	switch {
	case errors.As(err, &verr):
		rw.Fail(http.StatusBadRequest, ErrCodeValidation, verr.Message,
			map[string]interface{}{"field": verr.Field})
	case errors.Is(err, store.ErrNotFound):
		rw.Fail(http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	case errors.Is(err, store.ErrDuplicateDeviceID):
		rw.Fail(http.StatusConflict, ErrCodeConflict, "A device with this device_id already exists", nil)
	case errors.As(err, &uerr):
		logger := logging.Ctx(rw.r.Context())
		logger.Error().Err(err).Msg("Store unavailable")
		rw.Fail(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Storage backend unavailable", nil)
	default:
		logger := logging.Ctx(rw.r.Context())
		logger.Error().Err(err).Msg("Unhandled store error")
		rw.Fail(http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", nil)
	}
}

// ValidationError maps request validation failures onto a 400 envelope.
func (rw *responder) ValidationError(verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.Fail(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}
