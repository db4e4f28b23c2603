// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Filter parameter names recognized by BuildLogFilter. Unrecognized keys in
// the input map are ignored, never echoed into the query.
const (
	ParamDeviceID  = "device_id"
	ParamType      = "type"
	ParamStatus    = "status"
	ParamLogType   = "log_type"
	ParamStartTime = "start_time"
	ParamEndTime   = "end_time"
)

// equalityParams map directly to document fields as exact-match predicates.
var equalityParams = []string{ParamDeviceID, ParamType, ParamStatus, ParamLogType}

// BuildLogFilter translates raw query parameters into a conjunctive bson
// filter. Equality parameters are included only when present and non-empty.
// start_time and end_time bound the timestamp field inclusively; either may
// appear alone. An unparseable time bound is dropped, behaving exactly like
// an absent one; the range condition appears only when at least one bound
// parses.
func BuildLogFilter(params map[string]string) bson.M {
	filter := bson.M{}

	for _, key := range equalityParams {
		if v := params[key]; v != "" {
			filter[key] = v
		}
	}

	timeRange := bson.M{}
	if ts, ok := ParseTimestamp(params[ParamStartTime]); ok {
		timeRange["$gte"] = ts
	}
	if ts, ok := ParseTimestamp(params[ParamEndTime]); ok {
		timeRange["$lte"] = ts
	}
	if len(timeRange) > 0 {
		filter["timestamp"] = timeRange
	}

	return filter
}

// DeviceFilter holds the optional device listing predicates.
type DeviceFilter struct {
	Type   string
	Status string
	Search string
}

// query builds the bson filter. Search matches device_id or name as a
// case-insensitive literal substring; the term is quoted so regex
// metacharacters in user input cannot alter the match.
func (f DeviceFilter) query() bson.M {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		pattern := regexp.QuoteMeta(f.Search)
		filter["$or"] = []bson.M{
			{"device_id": bson.M{"$regex": pattern, "$options": "i"}},
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return filter
}

// StatsFilter narrows log aggregations to a time window and/or one device.
// Zero values mean unbounded.
type StatsFilter struct {
	DeviceID  string
	StartTime time.Time
	EndTime   time.Time
}

// match builds the $match predicate, or an empty filter when unconstrained.
func (f StatsFilter) match() bson.M {
	filter := bson.M{}
	if f.DeviceID != "" {
		filter["device_id"] = f.DeviceID
	}
	timeRange := bson.M{}
	if !f.StartTime.IsZero() {
		timeRange["$gte"] = f.StartTime
	}
	if !f.EndTime.IsZero() {
		timeRange["$lte"] = f.EndTime
	}
	if len(timeRange) > 0 {
		filter["timestamp"] = timeRange
	}
	return filter
}
