// Domolog - Smart-Home Device Telemetry and Registry Analytics
// Copyright 2026 Domolog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/domolog/domolog

package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domolog/domolog/internal/metrics"
	"github.com/domolog/domolog/internal/models"
)

// ScoredLog is a log entry with its text-search relevance score.
type ScoredLog struct {
	models.LogEntry `bson:",inline"`
	Score           float64 `bson:"score" json:"score"`
}

// SearchParams describes a relevance-ranked keyword search over log
// content.
type SearchParams struct {
	Keyword string
	Page    int
	PerPage int
}

// Normalize fills pagination defaults and clamps PerPage to maxPerPage.
func (p *SearchParams) Normalize(defaultPerPage, maxPerPage int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

// skip returns the number of documents to skip for the requested page.
func (p SearchParams) skip() int64 {
	return int64(p.Page-1) * int64(p.PerPage)
}

// SearchResult is one page of scored matches.
//
// Total is approximate: it counts only the current page, so it understates
// the true match count whenever further pages exist. Computing an exact
// count would require a second scored query per request; callers see the
// Approximate pagination flag instead.
type SearchResult struct {
	Entries []ScoredLog
	Total   int64
	Page    int
	PerPage int
}

// SearchLogs runs a $text query against the log content index and returns
// one page of matches ordered by descending relevance score.
func (s *Store) SearchLogs(ctx context.Context, p SearchParams) (*SearchResult, error) {
	if strings.TrimSpace(p.Keyword) == "" {
		return nil, NewValidationError("q", "search keyword is required")
	}

	filter := bson.M{"$text": bson.M{"$search": p.Keyword}}
	scoreMeta := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": scoreMeta}).
		SetSort(bson.D{{Key: "score", Value: scoreMeta}}).
		SetSkip(p.skip()).
		SetLimit(int64(p.PerPage))

	start := time.Now()
	cursor, err := s.logs.Find(ctx, filter, opts)
	metrics.RecordStoreQuery("text_search", logsCollection, time.Since(start), err)
	if err != nil {
		return nil, classify("search logs", err)
	}
	defer cursor.Close(ctx)

	entries := []ScoredLog{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, classify("search logs decode", err)
	}
	for i := range entries {
		normalizeLogEntry(&entries[i].LogEntry)
	}

	return &SearchResult{
		Entries: entries,
		Total:   int64(len(entries)),
		Page:    p.Page,
		PerPage: p.PerPage,
	}, nil
}
