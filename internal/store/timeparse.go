// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import "time"

// timestampLayouts are tried in order. ISO 8601 variants come first, the
// fractional-seconds layout immediately after the plain one so exact
// matches never fall through to it. ".999999" accepts any fraction up to
// microseconds without requiring trailing zeros.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses a client-supplied timestamp string against the
// accepted layouts. Inputs carry no zone designator and are interpreted as
// UTC. A date-only input yields midnight UTC of that date.
//
// Unparseable input yields ok=false, never an error: callers treat the
// value as absent, so a bad time bound narrows nothing instead of failing
// the request.
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
