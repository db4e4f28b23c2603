// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/devices", "200"))

	RecordAPIRequest("GET", "/api/devices", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/devices", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordStoreQueryError(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("find", "devices"))

	RecordStoreQuery("find", "devices", 5*time.Millisecond, errors.New("boom"))
	RecordStoreQuery("find", "devices", 5*time.Millisecond, nil)

	after := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("find", "devices"))
	assert.Equal(t, before+1, after, "only the failed query should count")
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	assert.Equal(t, base+1, testutil.ToFloat64(APIActiveRequests))

	TrackActiveRequest(false)
	assert.Equal(t, base, testutil.ToFloat64(APIActiveRequests))
}
