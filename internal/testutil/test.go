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

// Package test provides fixtures shared by the package tests: small films and
// reviews datasets, helpers that write them to a temporary directory, and a
// configuration pointing at those files.
package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/catalog"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// FilmsCSV is a films table in the default schema. Film 2 has no reviews.
const FilmsCSV = `film_id,Title,Genres,Image_URL,Film_URL
1,A,"Comedy, Drama",https://img.example.com/1.jpg,https://films.example.com/1
2,B,Action,https://img.example.com/2.jpg,https://films.example.com/2
`

// ReviewsCSV rates film 1 twice.
const ReviewsCSV = `review_id,film_id,rating
10,1,4
11,1,5
`

// CatalogFilmsCSV is a larger films table used for ranking tests. Film 5 has an
// empty genre field.
const CatalogFilmsCSV = `film_id,Title,Genres,Image_URL,Film_URL
1,Heat,"Action, Crime, Drama",https://img.example.com/1.jpg,https://films.example.com/1
2,Airplane!,Comedy,https://img.example.com/2.jpg,https://films.example.com/2
3,Alien,"Horror, Sci-Fi",https://img.example.com/3.jpg,https://films.example.com/3
4,Clue,"Comedy, Crime, Mystery",https://img.example.com/4.jpg,https://films.example.com/4
5,Untitled,,https://img.example.com/5.jpg,https://films.example.com/5
6,Speed,"Action, Thriller",https://img.example.com/6.jpg,https://films.example.com/6
`

// CatalogReviewsCSV gives films 1 and 6 the same mean so ties can be checked.
// Film 2 has one empty rating cell that must be ignored.
const CatalogReviewsCSV = `review_id,film_id,rating
1,1,4
2,1,3
3,2,5
4,2,
5,3,2
6,4,4.5
7,6,3.5
8,9,5
`

// HandleErr fails the test immediately when err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	HandleErr(os.WriteFile(path, []byte(content), 0o644), t)
	return path
}

// WriteDataset writes a films and a reviews file to a fresh temporary directory.
//
// Returns:
//   - films: Path of the films file.
//   - reviews: Path of the reviews file.
func WriteDataset(t *testing.T, filmsCSV string, reviewsCSV string) (films string, reviews string) {
	t.Helper()
	dir := t.TempDir()
	return WriteFile(t, dir, "films.csv", filmsCSV), WriteFile(t, dir, "reviews.csv", reviewsCSV)
}

// GetConfig returns a default configuration whose data sources point at the
// given files.
func GetConfig(films string, reviews string) *cloud.Config {
	config := cloud.NewConfig()
	config.DataSources.Films = films
	config.DataSources.Reviews = reviews
	return config
}

// TableFromCSV decodes an in-memory CSV document.
func TableFromCSV(t *testing.T, content string) *model.Table {
	t.Helper()
	table, err := cloud.ReadDelimited(strings.NewReader(content), ',')
	HandleErr(err, t)
	return table
}

// BuildCatalog builds a catalog from in-memory films and reviews documents with
// the default column mapping.
func BuildCatalog(t *testing.T, filmsCSV string, reviewsCSV string) *catalog.Catalog {
	t.Helper()
	cols := model.DefaultColumnMapping()
	ratings, err := catalog.AggregateRatings(TableFromCSV(t, reviewsCSV), cols)
	HandleErr(err, t)
	c, err := catalog.Build(TableFromCSV(t, filmsCSV), ratings, cols)
	HandleErr(err, t)
	return c
}
