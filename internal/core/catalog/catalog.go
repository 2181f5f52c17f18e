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

// Package catalog builds the in-memory film catalog the recommendation query
// runs against. It aggregates the review ratings per film, left-joins them onto
// the films table and derives the set of genres. A Catalog is immutable once
// built and is safe to share between goroutines without locking.
package catalog

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// Catalog is the immutable collection of films after the rating join.
type Catalog struct {
	films  []model.Film
	genres []string
	keys   *model.RecordKeys
}

// missingRatings are the cell values read as a missing rating, in addition to
// the empty cell.
var missingRatings = map[string]struct{}{
	"NA":   {},
	"N/A":  {},
	"#N/A": {},
	"NaN":  {},
	"-NaN": {},
	"nan":  {},
	"-nan": {},
	"null": {},
	"NULL": {},
}

// IsMissingRating reports whether a trimmed rating cell holds no value.
func IsMissingRating(cell string) bool {
	if cell == "" {
		return true
	}
	_, ok := missingRatings[cell]
	return ok
}

type ratingSum struct {
	sum   float64
	count int
}

// AggregateRatings computes the mean rating of every film referenced by the
// reviews table. Every review counts once. Empty rating cells and NA markers
// ("NA", "NaN", "null", ...) are treated as missing and skipped; a film whose reviews are all missing is absent from the
// result, as is a film with no reviews at all.
//
// Inputs:
//   - reviews: The reviews table.
//   - cols: The column mapping; RatingKey and Rating must exist in reviews.
//
// Outputs:
//   - map[string]float64: Mean rating keyed by normalized film identifier.
//   - error: A missing column or a rating that is not a finite number.
func AggregateRatings(reviews *model.Table, cols model.ColumnMapping) (map[string]float64, error) {
	if err := reviews.Require(cols.RatingKey, cols.Rating); err != nil {
		return nil, err
	}

	sums := make(map[string]*ratingSum)
	for i := range reviews.Rows {
		raw := strings.TrimSpace(reviews.Value(i, cols.Rating))
		if IsMissingRating(raw) {
			continue
		}
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(rating, 0) || math.IsNaN(rating) {
			return nil, fmt.Errorf("row %d: invalid %s value %q", i+1, cols.Rating, raw)
		}
		key := model.NormalizeKey(reviews.Value(i, cols.RatingKey))
		s, ok := sums[key]
		if !ok {
			s = &ratingSum{}
			sums[key] = s
		}
		s.sum += rating
		s.count++
	}

	out := make(map[string]float64, len(sums))
	for k, s := range sums {
		out[k] = s.sum / float64(s.count)
	}
	return out, nil
}

// Build left-joins the aggregated ratings onto the films table. Every film row
// is kept in source order; films without a rating get exactly 0.0.
//
// Inputs:
//   - films: The films table. FilmID, Title and Genre must exist; Poster and
//     PageURL are optional and read as empty when absent.
//   - ratings: Output of AggregateRatings.
//   - cols: The column mapping.
//
// Outputs:
//   - *Catalog: The immutable catalog.
//   - error: A missing required column.
func Build(films *model.Table, ratings map[string]float64, cols model.ColumnMapping) (*Catalog, error) {
	if err := films.Require(cols.FilmID, cols.Title, cols.Genre); err != nil {
		return nil, err
	}

	out := make([]model.Film, films.Len())
	for i := range films.Rows {
		id := model.NormalizeKey(films.Value(i, cols.FilmID))
		out[i] = model.Film{
			ID:        id,
			Title:     films.Value(i, cols.Title),
			Genres:    films.Value(i, cols.Genre),
			AvgRating: ratings[id], // zero value when the film has no reviews
			PosterURL: films.Value(i, cols.Poster),
			PageURL:   films.Value(i, cols.PageURL),
		}
	}

	return &Catalog{
		films:  out,
		genres: GenreSet(out, cols.Separator()),
		keys:   cols.RecordKeys(),
	}, nil
}

// GenreSet returns the sorted, deduplicated genre tokens of the given films.
// Films with an empty genre field are skipped.
func GenreSet(films []model.Film, separator string) []string {
	seen := make(map[string]struct{})
	for _, f := range films {
		if f.Genres == "" {
			continue
		}
		for _, g := range strings.Split(f.Genres, separator) {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// Films returns a copy of the catalog entries in catalog order.
func (c *Catalog) Films() []model.Film {
	return slices.Clone(c.films)
}

// Genres returns a copy of the genre set.
func (c *Catalog) Genres() []string {
	return slices.Clone(c.genres)
}

// Len returns the number of films.
func (c *Catalog) Len() int {
	return len(c.films)
}

// RecordKeys returns the output keys records projected from this catalog use.
func (c *Catalog) RecordKeys() *model.RecordKeys {
	return c.keys
}

// Each calls fn for every film in catalog order without copying the catalog.
// Iteration stops when fn returns false.
func (c *Catalog) Each(fn func(model.Film) bool) {
	for _, f := range c.films {
		if !fn(f) {
			return
		}
	}
}
