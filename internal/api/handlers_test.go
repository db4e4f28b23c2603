// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domolog/domolog/internal/config"
	"github.com/domolog/domolog/internal/models"
	"github.com/domolog/domolog/internal/store"
)

// fakeStorage implements Storage with programmable function fields. Nil
// fields panic, which surfaces handler calls a test did not expect.
type fakeStorage struct {
	ping          func(ctx context.Context) error
	createDevice  func(ctx context.Context, d models.Device) (primitive.ObjectID, error)
	getDevice     func(ctx context.Context, id string) (*models.Device, error)
	updateDevice  func(ctx context.Context, id string, u store.DeviceUpdate) error
	deleteDevice  func(ctx context.Context, id string) error
	listDevices   func(ctx context.Context, f store.DeviceFilter) ([]models.Device, error)
	nearbyDevices func(ctx context.Context, p store.NearbyParams) ([]models.Device, error)
	deviceStats   func(ctx context.Context) (*models.DeviceStats, error)
	createLog     func(ctx context.Context, e models.LogEntry) (primitive.ObjectID, error)
	deleteLog     func(ctx context.Context, id string) error
	listLogs      func(ctx context.Context, f bson.M, page, perPage int) (*store.LogPage, error)
	searchLogs    func(ctx context.Context, p store.SearchParams) (*store.SearchResult, error)
	logStats      func(ctx context.Context, f store.StatsFilter) (*models.LogStats, error)
}

func (s *fakeStorage) Ping(ctx context.Context) error { return s.ping(ctx) }
func (s *fakeStorage) CreateDevice(ctx context.Context, d models.Device) (primitive.ObjectID, error) {
	return s.createDevice(ctx, d)
}
func (s *fakeStorage) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	return s.getDevice(ctx, id)
}
func (s *fakeStorage) UpdateDevice(ctx context.Context, id string, u store.DeviceUpdate) error {
	return s.updateDevice(ctx, id, u)
}
func (s *fakeStorage) DeleteDevice(ctx context.Context, id string) error {
	return s.deleteDevice(ctx, id)
}
func (s *fakeStorage) ListDevices(ctx context.Context, f store.DeviceFilter) ([]models.Device, error) {
	return s.listDevices(ctx, f)
}
func (s *fakeStorage) NearbyDevices(ctx context.Context, p store.NearbyParams) ([]models.Device, error) {
	return s.nearbyDevices(ctx, p)
}
func (s *fakeStorage) DeviceStats(ctx context.Context) (*models.DeviceStats, error) {
	return s.deviceStats(ctx)
}
func (s *fakeStorage) CreateLog(ctx context.Context, e models.LogEntry) (primitive.ObjectID, error) {
	return s.createLog(ctx, e)
}
func (s *fakeStorage) DeleteLog(ctx context.Context, id string) error { return s.deleteLog(ctx, id) }
func (s *fakeStorage) ListLogs(ctx context.Context, f bson.M, page, perPage int) (*store.LogPage, error) {
	return s.listLogs(ctx, f, page, perPage)
}
func (s *fakeStorage) SearchLogs(ctx context.Context, p store.SearchParams) (*store.SearchResult, error) {
	return s.searchLogs(ctx, p)
}
func (s *fakeStorage) LogStats(ctx context.Context, f store.StatsFilter) (*models.LogStats, error) {
	return s.logStats(ctx, f)
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func serve(t *testing.T, storage Storage, method, target, body string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	router := NewRouter(NewHandler(storage, testConfig(), "test"), testConfig())

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHealthCheckHealthy(t *testing.T) {
	storage := &fakeStorage{ping: func(ctx context.Context) error { return nil }}

	rec, resp := serve(t, storage, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "connected", data["storage"])
}

func TestHealthCheckDegraded(t *testing.T) {
	storage := &fakeStorage{ping: func(ctx context.Context) error {
		return &store.UnavailableError{Op: "ping", Err: errors.New("no reachable servers")}
	}}

	rec, resp := serve(t, storage, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeServiceUnavailable, resp.Error.Code)
}

func TestCreateDevice(t *testing.T) {
	var inserted models.Device
	storage := &fakeStorage{
		createDevice: func(ctx context.Context, d models.Device) (primitive.ObjectID, error) {
			inserted = d
			return primitive.NewObjectID(), nil
		},
	}

	body := `{
		"device_id": "DEV0001",
		"name": "Living Room Lamp",
		"type": "smart_light",
		"location": {"longitude": 113.2644, "latitude": 23.1291},
		"config": {"brightness": 80}
	}`
	rec, resp := serve(t, storage, http.MethodPost, "/api/devices", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "DEV0001", inserted.DeviceID)
	assert.Equal(t, models.StatusOnline, inserted.Status, "status should default to online")
	assert.Equal(t, []float64{113.2644, 23.1291}, inserted.Location.Coordinates)
}

func TestCreateDeviceDuplicate(t *testing.T) {
	storage := &fakeStorage{
		createDevice: func(ctx context.Context, d models.Device) (primitive.ObjectID, error) {
			return primitive.NilObjectID, store.ErrDuplicateDeviceID
		},
	}

	body := `{
		"device_id": "DEV0001",
		"name": "Duplicate",
		"type": "smart_light",
		"location": {"longitude": 0, "latitude": 0}
	}`
	rec, resp := serve(t, storage, http.MethodPost, "/api/devices", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrCodeConflict, resp.Error.Code)
}

func TestCreateDeviceMissingFields(t *testing.T) {
	rec, resp := serve(t, &fakeStorage{}, http.MethodPost, "/api/devices", `{"name": "No ID"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
}

func TestCreateDeviceCoordinatesOutOfRange(t *testing.T) {
	body := `{
		"device_id": "DEV0002",
		"name": "Bad Coords",
		"type": "camera",
		"location": {"longitude": 181, "latitude": 0}
	}`
	rec, resp := serve(t, &fakeStorage{}, http.MethodPost, "/api/devices", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Longitude")
}

func TestGetDeviceNotFound(t *testing.T) {
	storage := &fakeStorage{
		getDevice: func(ctx context.Context, id string) (*models.Device, error) {
			return nil, store.ErrNotFound
		},
	}

	rec, resp := serve(t, storage, http.MethodGet, "/api/devices/UNKNOWN", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestUpdateDevicePartial(t *testing.T) {
	var gotUpdate store.DeviceUpdate
	device := models.NewDevice("DEV0001", "Lamp", "smart_light", 1, 2, "", nil)
	storage := &fakeStorage{
		updateDevice: func(ctx context.Context, id string, u store.DeviceUpdate) error {
			gotUpdate = u
			return nil
		},
		getDevice: func(ctx context.Context, id string) (*models.Device, error) {
			return &device, nil
		},
	}

	rec, _ := serve(t, storage, http.MethodPut, "/api/devices/DEV0001", `{"status": "offline"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUpdate.Status)
	assert.Equal(t, "offline", *gotUpdate.Status)
	assert.Nil(t, gotUpdate.Name)
	assert.Nil(t, gotUpdate.Location)
}

func TestDeleteDevice(t *testing.T) {
	storage := &fakeStorage{
		deleteDevice: func(ctx context.Context, id string) error { return nil },
	}

	rec, resp := serve(t, storage, http.MethodDelete, "/api/devices/DEV0001", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DEV0001", resp.Data.(map[string]interface{})["deleted"])
}

func TestListDevicesPassesFilter(t *testing.T) {
	var gotFilter store.DeviceFilter
	storage := &fakeStorage{
		listDevices: func(ctx context.Context, f store.DeviceFilter) ([]models.Device, error) {
			gotFilter = f
			return []models.Device{}, nil
		},
	}

	rec, _ := serve(t, storage, http.MethodGet, "/api/devices?type=camera&status=online&search=hall", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.DeviceFilter{Type: "camera", Status: "online", Search: "hall"}, gotFilter)
}

func TestNearbyDevicesMissingCoordinates(t *testing.T) {
	rec, resp := serve(t, &fakeStorage{}, http.MethodGet, "/api/devices/nearby?latitude=23.1", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
}

func TestNearbyDevicesNonNumeric(t *testing.T) {
	rec, resp := serve(t, &fakeStorage{}, http.MethodGet, "/api/devices/nearby?longitude=east&latitude=23.1", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "longitude", resp.Error.Details["field"])
}

func TestNearbyDevicesPassesParams(t *testing.T) {
	var gotParams store.NearbyParams
	storage := &fakeStorage{
		nearbyDevices: func(ctx context.Context, p store.NearbyParams) ([]models.Device, error) {
			gotParams = p
			return []models.Device{}, nil
		},
	}

	target := "/api/devices/nearby?longitude=113.26&latitude=23.13&max_distance=250&limit=5&status=online"
	rec, resp := serve(t, storage, http.MethodGet, target, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.NearbyParams{
		Longitude:   113.26,
		Latitude:    23.13,
		MaxDistance: 250,
		Limit:       5,
		Status:      "online",
	}, gotParams)

	center := resp.Data.(map[string]interface{})["center"].(map[string]interface{})
	assert.Equal(t, 113.26, center["longitude"])
}

func TestCreateLogDefaults(t *testing.T) {
	var inserted models.LogEntry
	storage := &fakeStorage{
		createLog: func(ctx context.Context, e models.LogEntry) (primitive.ObjectID, error) {
			inserted = e
			return primitive.NewObjectID(), nil
		},
	}

	body := `{"device_id": "DEV0001", "log_type": "info", "content": {"message": "powered on"}}`
	rec, _ := serve(t, storage, http.MethodPost, "/api/logs", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "powered on", inserted.Content.Message)
	assert.False(t, inserted.Timestamp.IsZero(), "timestamp should default to now")
}

func TestCreateLogMissingContent(t *testing.T) {
	rec, resp := serve(t, &fakeStorage{}, http.MethodPost, "/api/logs", `{"device_id": "DEV0001", "log_type": "info"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
}

func TestCreateLogUnparseableTimestampDefaults(t *testing.T) {
	var inserted models.LogEntry
	storage := &fakeStorage{
		createLog: func(ctx context.Context, e models.LogEntry) (primitive.ObjectID, error) {
			inserted = e
			return primitive.NewObjectID(), nil
		},
	}

	body := `{"device_id": "DEV0001", "log_type": "info", "content": {"message": "x"}, "timestamp": "not-a-date"}`
	rec, _ := serve(t, storage, http.MethodPost, "/api/logs", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, inserted.Timestamp.IsZero(), "bad timestamp should fall back to ingestion time")
}

func TestListLogsUnparseableStartTimeIgnored(t *testing.T) {
	storage := &fakeStorage{
		listLogs: func(ctx context.Context, f bson.M, page, perPage int) (*store.LogPage, error) {
			assert.Equal(t, bson.M{}, f, "unparseable bound should narrow nothing")
			return &store.LogPage{Page: page, PerPage: perPage}, nil
		},
	}

	rec, _ := serve(t, storage, http.MethodGet, "/api/logs?start_time=banana", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogStatsUnparseableBoundsIgnored(t *testing.T) {
	storage := &fakeStorage{
		logStats: func(ctx context.Context, f store.StatsFilter) (*models.LogStats, error) {
			assert.True(t, f.StartTime.IsZero())
			assert.True(t, f.EndTime.IsZero())
			return &models.LogStats{}, nil
		},
	}

	rec, _ := serve(t, storage, http.MethodGet, "/api/logs/stats?start_time=banana&end_time=soon", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListLogsPagination(t *testing.T) {
	storage := &fakeStorage{
		listLogs: func(ctx context.Context, f bson.M, page, perPage int) (*store.LogPage, error) {
			assert.Equal(t, bson.M{"device_id": "DEV0001"}, f)
			return &store.LogPage{Entries: []models.LogEntry{}, Total: 120, Page: page, PerPage: perPage}, nil
		},
	}

	rec, resp := serve(t, storage, http.MethodGet, "/api/logs?device_id=DEV0001&page=2&per_page=50", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	p := resp.Metadata.Pagination
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, int64(120), p.Total)
	assert.Equal(t, int64(3), p.Pages)
	assert.False(t, p.Approximate)
}

func TestListLogsPerPageCapped(t *testing.T) {
	storage := &fakeStorage{
		listLogs: func(ctx context.Context, f bson.M, page, perPage int) (*store.LogPage, error) {
			assert.Equal(t, testConfig().API.MaxPageSize, perPage)
			return &store.LogPage{Page: page, PerPage: perPage}, nil
		},
	}

	rec, _ := serve(t, storage, http.MethodGet, "/api/logs?per_page=999999", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchLogsApproximateTotal(t *testing.T) {
	storage := &fakeStorage{
		searchLogs: func(ctx context.Context, p store.SearchParams) (*store.SearchResult, error) {
			assert.Equal(t, "overheat", p.Keyword)
			return &store.SearchResult{
				Entries: []store.ScoredLog{},
				Total:   0,
				Page:    p.Page,
				PerPage: p.PerPage,
			}, nil
		},
	}

	rec, resp := serve(t, storage, http.MethodGet, "/api/logs/search?q=overheat", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Metadata.Pagination)
	assert.True(t, resp.Metadata.Pagination.Approximate)
}

func TestSearchLogsMissingKeyword(t *testing.T) {
	storage := &fakeStorage{
		searchLogs: func(ctx context.Context, p store.SearchParams) (*store.SearchResult, error) {
			return nil, store.NewValidationError("q", "search keyword is required")
		},
	}

	rec, resp := serve(t, storage, http.MethodGet, "/api/logs/search", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "q", resp.Error.Details["field"])
}

func TestDeleteLogInvalidID(t *testing.T) {
	storage := &fakeStorage{
		deleteLog: func(ctx context.Context, id string) error {
			return store.NewValidationError("id", "invalid log id: %q", id)
		},
	}

	rec, resp := serve(t, storage, http.MethodDelete, "/api/logs/zzz", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
}

func TestLogStatsPassesFilter(t *testing.T) {
	var gotFilter store.StatsFilter
	storage := &fakeStorage{
		logStats: func(ctx context.Context, f store.StatsFilter) (*models.LogStats, error) {
			gotFilter = f
			return &models.LogStats{}, nil
		},
	}

	target := "/api/logs/stats?device_id=DEV0001&start_time=2024-06-01&end_time=2024-06-30"
	rec, _ := serve(t, storage, http.MethodGet, target, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DEV0001", gotFilter.DeviceID)
	assert.Equal(t, 6, int(gotFilter.StartTime.Month()))
	assert.Equal(t, 30, gotFilter.EndTime.Day())
}

func TestDeviceStats(t *testing.T) {
	storage := &fakeStorage{
		deviceStats: func(ctx context.Context) (*models.DeviceStats, error) {
			return &models.DeviceStats{
				Total:  3,
				ByType: []models.CategoryCount{{Category: "camera", Count: 2}, {Category: "smart_light", Count: 1}},
			}, nil
		},
	}

	rec, resp := serve(t, storage, http.MethodGet, "/api/devices/stats", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
}
