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

// Package services_test contains the test suite for the services package.
// This file tests the RecommendationService against small in-memory catalogs.
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/assert"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/services"
	test "github.com/jaycherian/gcp-go-film-recommend/internal/testutil"
)

func ids(records []*model.FilmRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// TestRecommend covers the two-film catalog: film 1 "Comedy, Drama" rated 4
// and 5, film 2 "Action" with no reviews.
func TestRecommend(t *testing.T) {
	ctx := context.Background()
	svc := services.NewRecommendationService(test.BuildCatalog(t, test.FilmsCSV, test.ReviewsCSV))

	comedy := svc.Recommend(ctx, []string{"Comedy"})
	require.Len(t, comedy, 1)
	assert.Equal(t, "1", comedy[0].ID)
	assert.Equal(t, "A", comedy[0].Title)
	assert.Equal(t, 4.5, comedy[0].AvgRating)

	horror := svc.Recommend(ctx, []string{"Horror"})
	assert.NotNil(t, horror)
	assert.Equal(t, 0, len(horror))

	// Substring containment: "Act" matches "Action".
	act := svc.Recommend(ctx, []string{"Act"})
	require.Len(t, act, 1)
	assert.Equal(t, "2", act[0].ID)
	assert.Equal(t, 0.0, act[0].AvgRating)
}

func TestRecommendEmptyRequest(t *testing.T) {
	svc := services.NewRecommendationService(test.BuildCatalog(t, test.FilmsCSV, test.ReviewsCSV))

	out := svc.Recommend(context.Background(), []string{})
	assert.NotNil(t, out)
	assert.Equal(t, 0, len(out))

	assert.Equal(t, 0, len(svc.Recommend(context.Background(), nil)))
}

// TestRecommendRanking checks the descending order, that ties keep catalog
// order and that a film with an empty genre field never matches.
func TestRecommendRanking(t *testing.T) {
	svc := services.NewRecommendationService(test.BuildCatalog(t, test.CatalogFilmsCSV, test.CatalogReviewsCSV))
	ctx := context.Background()

	// Films 1 and 6 share 3.5.
	assert.DeepEqual(t, []string{"1", "6"}, ids(svc.Recommend(ctx, []string{"Action"})))
	assert.DeepEqual(t, []string{"2", "4", "1"}, ids(svc.Recommend(ctx, []string{"Comedy", "Crime"})))
	assert.DeepEqual(t, []string{"2", "4", "1", "6", "3"}, ids(svc.Recommend(ctx, []string{""})))

	all := svc.Recommend(ctx, []string{"a", "e", "o", "i"})
	for i := 1; i < len(all); i++ {
		assert.That(t, all[i-1].AvgRating >= all[i].AvgRating)
	}
	for _, r := range all {
		assert.That(t, r.ID != "5")
	}
}

func TestRecommendIsCaseSensitive(t *testing.T) {
	svc := services.NewRecommendationService(test.BuildCatalog(t, test.FilmsCSV, test.ReviewsCSV))
	assert.Equal(t, 0, len(svc.Recommend(context.Background(), []string{"comedy"})))
}

func TestRecommendDeterministic(t *testing.T) {
	svc := services.NewRecommendationService(test.BuildCatalog(t, test.CatalogFilmsCSV, test.CatalogReviewsCSV))
	ctx := context.Background()

	first := svc.Recommend(ctx, []string{"Action", "Comedy", "Horror"})
	second := svc.Recommend(ctx, []string{"Action", "Comedy", "Horror"})
	assert.DeepEqual(t, first, second)
}

func TestRecommendRecordKeys(t *testing.T) {
	svc := services.NewRecommendationService(test.BuildCatalog(t, test.FilmsCSV, test.ReviewsCSV))

	out := svc.Recommend(context.Background(), []string{"Drama"})
	require.Len(t, out, 1)
	assert.Equal(t, "film_id", out[0].Keys.ID)
	assert.Equal(t, "https://img.example.com/1.jpg", out[0].PosterURL)
	assert.Equal(t, "https://films.example.com/1", out[0].PageURL)
}

func TestGenresAndSize(t *testing.T) {
	svc := services.NewRecommendationService(test.BuildCatalog(t, test.FilmsCSV, test.ReviewsCSV))

	assert.DeepEqual(t, []string{"Action", "Comedy", "Drama"}, svc.Genres())
	assert.Equal(t, 2, svc.CatalogSize())
}

func TestMatchesAny(t *testing.T) {
	assert.That(t, services.MatchesAny("Comedy, Drama", []string{"Horror", "Drama"}))
	assert.That(t, services.MatchesAny("Comedy, Drama", []string{"dy, Dr"}))
	assert.That(t, !services.MatchesAny("", []string{""}))
	assert.That(t, !services.MatchesAny("Comedy", nil))
}
