// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the business logic the HTTP API calls into.
// This file, `recommend.go`, defines the RecommendationService, which answers
// genre-based recommendation queries against the immutable film catalog.
//
// Matching is substring containment against the raw genre field, not token
// equality against the split genre list: a requested "Com" matches a film whose
// genres are "Comedy, Drama". Existing clients depend on this behavior.
package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/catalog"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/cor"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// RecommendationService ranks catalog films for a set of requested genres. It
// only reads the catalog, so one instance serves concurrent requests.
type RecommendationService struct {
	catalog      *catalog.Catalog
	tracer       trace.Tracer
	requests     metric.Int64Counter
	resultCounts metric.Int64Histogram
}

// NewRecommendationService creates the service over a built catalog.
func NewRecommendationService(c *catalog.Catalog) *RecommendationService {
	meter := otel.Meter(cor.MeterName)
	requests, err := meter.Int64Counter("recommend.counter.requests")
	if err != nil {
		slog.Warn("failed to create request counter", "error", err)
		requests = noop.Int64Counter{}
	}
	resultCounts, err := meter.Int64Histogram("recommend.histogram.results")
	if err != nil {
		slog.Warn("failed to create result histogram", "error", err)
		resultCounts = noop.Int64Histogram{}
	}
	return &RecommendationService{
		catalog:      c,
		tracer:       otel.Tracer("recommendation-service"),
		requests:     requests,
		resultCounts: resultCounts,
	}
}

// Recommend returns the films whose genre field contains at least one of the
// requested genres, best rated first.
//
// Inputs:
//   - ctx: The request context, used for tracing.
//   - requestedGenres: Genre strings to match; an empty list matches nothing.
//
// Outputs:
//   - []*model.FilmRecord: Matching films sorted by average rating, descending.
//     Ties keep catalog order. Never nil.
func (s *RecommendationService) Recommend(ctx context.Context, requestedGenres []string) []*model.FilmRecord {
	ctx, span := s.tracer.Start(ctx, "recommend")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("genres", requestedGenres))

	matches := make([]model.Film, 0)
	if len(requestedGenres) > 0 {
		s.catalog.Each(func(f model.Film) bool {
			if MatchesAny(f.Genres, requestedGenres) {
				matches = append(matches, f)
			}
			return true
		})
	}

	slices.SortStableFunc(matches, func(a, b model.Film) int {
		switch {
		case a.AvgRating > b.AvgRating:
			return -1
		case a.AvgRating < b.AvgRating:
			return 1
		default:
			return 0
		}
	})

	keys := s.catalog.RecordKeys()
	out := make([]*model.FilmRecord, len(matches))
	for i, f := range matches {
		out[i] = model.NewFilmRecord(f, keys)
	}

	s.requests.Add(ctx, 1)
	s.resultCounts.Record(ctx, int64(len(out)))
	span.SetAttributes(attribute.Int("results", len(out)))
	return out
}

// Genres returns the sorted set of individual genres in the catalog.
func (s *RecommendationService) Genres() []string {
	return s.catalog.Genres()
}

// CatalogSize returns the number of films the service ranks.
func (s *RecommendationService) CatalogSize() int {
	return s.catalog.Len()
}

// MatchesAny reports whether any requested string is a substring of the genre
// field. An empty genre field never matches.
func MatchesAny(genreField string, requested []string) bool {
	if genreField == "" {
		return false
	}
	for _, g := range requested {
		if strings.Contains(genreField, g) {
			return true
		}
	}
	return false
}
