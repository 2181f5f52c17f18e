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

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/catalog"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
	test "github.com/jaycherian/gcp-go-film-recommend/internal/testutil"
)

func TestAggregateRatings(t *testing.T) {
	ratings, err := catalog.AggregateRatings(test.TableFromCSV(t, test.CatalogReviewsCSV), model.DefaultColumnMapping())
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"1": 3.5,
		"2": 5,
		"3": 2,
		"4": 4.5,
		"6": 3.5,
		"9": 5,
	}, ratings)
}

func TestAggregateRatingsNormalizesKeys(t *testing.T) {
	reviews := test.TableFromCSV(t, "film_id,rating\n007,2\n7,4\n 7.0 ,3\n")

	ratings, err := catalog.AggregateRatings(reviews, model.DefaultColumnMapping())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"7": 3}, ratings)
}

func TestAggregateRatingsErrors(t *testing.T) {
	cols := model.DefaultColumnMapping()

	_, err := catalog.AggregateRatings(test.TableFromCSV(t, "film_id,score\n1,4\n"), cols)
	assert.ErrorContains(t, err, "rating")

	_, err = catalog.AggregateRatings(test.TableFromCSV(t, "film_id,rating\n1,great\n"), cols)
	assert.ErrorContains(t, err, `invalid rating value "great"`)
}

// TestAggregateRatingsSkipsMissingMarkers checks that NA style markers are read
// as missing ratings and never reach the mean.
func TestAggregateRatingsSkipsMissingMarkers(t *testing.T) {
	reviews := test.TableFromCSV(t, "review_id,film_id,rating\n"+
		"1,1,4\n2,1,NaN\n3,1,NA\n4,1,N/A\n5,1,null\n6,1,#N/A\n7,1,-NaN\n8,1,nan\n9,1,NULL\n"+
		"10,2,3\n11,3,NA\n")

	ratings, err := catalog.AggregateRatings(reviews, model.DefaultColumnMapping())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"1": 4, "2": 3}, ratings)

	c, err := catalog.Build(test.TableFromCSV(t, test.FilmsCSV), ratings, model.DefaultColumnMapping())
	require.NoError(t, err)
	assert.Equal(t, 4.0, c.Films()[0].AvgRating)
}

func TestAggregateRatingsRejectsInfinity(t *testing.T) {
	cols := model.DefaultColumnMapping()

	for _, cell := range []string{"Inf", "+Inf", "-Inf", "infinity", "1e400"} {
		_, err := catalog.AggregateRatings(test.TableFromCSV(t, "film_id,rating\n1,"+cell+"\n"), cols)
		assert.ErrorContains(t, err, "invalid rating value", cell)
	}
}

func TestIsMissingRating(t *testing.T) {
	for _, cell := range []string{"", "NA", "NaN", "null", "#N/A"} {
		assert.True(t, catalog.IsMissingRating(cell), cell)
	}
	for _, cell := range []string{"0", "4.5", "na", "none"} {
		assert.False(t, catalog.IsMissingRating(cell), cell)
	}
}

func TestBuild(t *testing.T) {
	c := test.BuildCatalog(t, test.CatalogFilmsCSV, test.CatalogReviewsCSV)

	films := c.Films()
	require.Len(t, films, 6)
	ids := make([]string, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	// Catalog order follows the films table, the orphan review for film 9 is dropped.
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids)

	assert.Equal(t, model.Film{
		ID:        "1",
		Title:     "Heat",
		Genres:    "Action, Crime, Drama",
		AvgRating: 3.5,
		PosterURL: "https://img.example.com/1.jpg",
		PageURL:   "https://films.example.com/1",
	}, films[0])
	assert.Equal(t, 0.0, films[4].AvgRating)
	assert.Equal(t, "", films[4].Genres)

	assert.Equal(t, []string{"Action", "Comedy", "Crime", "Drama", "Horror", "Mystery", "Sci-Fi", "Thriller"}, c.Genres())
	assert.Equal(t, 6, c.Len())
}

func TestBuildOptionalColumns(t *testing.T) {
	films := test.TableFromCSV(t, "film_id,Title,Genres\n1,A,Comedy\n")

	c, err := catalog.Build(films, map[string]float64{}, model.DefaultColumnMapping())
	require.NoError(t, err)
	f := c.Films()[0]
	assert.Equal(t, "", f.PosterURL)
	assert.Equal(t, "", f.PageURL)
	assert.Equal(t, 0.0, f.AvgRating)
}

func TestBuildMissingColumn(t *testing.T) {
	films := test.TableFromCSV(t, "film_id,Title\n1,A\n")

	_, err := catalog.Build(films, nil, model.DefaultColumnMapping())
	assert.ErrorContains(t, err, "Genres")
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c := test.BuildCatalog(t, test.FilmsCSV, test.ReviewsCSV)

	films := c.Films()
	films[0].Title = "changed"
	genres := c.Genres()
	genres[0] = "changed"

	assert.Equal(t, "A", c.Films()[0].Title)
	assert.NotEqual(t, "changed", c.Genres()[0])
}

func TestGenreSet(t *testing.T) {
	films := []model.Film{
		{Genres: "Drama|Comedy"},
		{Genres: ""},
		{Genres: "Comedy"},
	}
	assert.Equal(t, []string{"Comedy", "Drama"}, catalog.GenreSet(films, "|"))
	assert.Empty(t, catalog.GenreSet(nil, ", "))
}

func TestEachStops(t *testing.T) {
	c := test.BuildCatalog(t, test.CatalogFilmsCSV, test.CatalogReviewsCSV)

	seen := 0
	c.Each(func(model.Film) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen)
}
