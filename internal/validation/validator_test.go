// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nearbyParams struct {
	Longitude   float64 `validate:"min=-180,max=180"`
	Latitude    float64 `validate:"min=-90,max=90"`
	MaxDistance float64 `validate:"min=0"`
	Limit       int     `validate:"min=1,max=1000"`
}

func TestValidateStructPasses(t *testing.T) {
	req := nearbyParams{Longitude: 113.2644, Latitude: 23.1291, MaxDistance: 1000, Limit: 10}
	assert.Nil(t, ValidateStruct(&req))
}

func TestValidateStructSingleFailure(t *testing.T) {
	req := nearbyParams{Longitude: 181, Latitude: 0, MaxDistance: 1000, Limit: 10}
	err := ValidateStruct(&req)
	require.NotNil(t, err)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Longitude")
	assert.Equal(t, "Longitude", apiErr.Details["field"])
}

func TestValidateStructMultipleFailures(t *testing.T) {
	req := nearbyParams{Longitude: -200, Latitude: 95, MaxDistance: -1, Limit: 0}
	err := ValidateStruct(&req)
	require.NotNil(t, err)
	assert.Len(t, err.Errors(), 4)

	apiErr := err.ToAPIError()
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 4)
}

func TestTranslatedMessages(t *testing.T) {
	type searchParams struct {
		Keyword string `validate:"required"`
		Page    int    `validate:"min=1"`
	}

	err := ValidateStruct(&searchParams{Keyword: "", Page: 0})
	require.NotNil(t, err)

	msgs := err.Error()
	assert.Contains(t, msgs, "Keyword is required")
	assert.Contains(t, msgs, "Page must be at least 1")
}
