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

// Package model defines the core data structures for the application.
// This file, `film.go`, holds the film catalog entities, the column mapping that
// binds them to a concrete tabular schema, and the projection served to clients.
package model

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// AvgRatingKey is the output key of the computed average rating. It is not a
// source column so it does not depend on the column mapping.
const AvgRatingKey = "avg_rating"

// DefaultGenreSeparator is the canonical separator between genres in a film's
// genre field.
const DefaultGenreSeparator = ", "

// ColumnMapping binds the logical film and review attributes to the column names
// used by the source datasets.
type ColumnMapping struct {
	FilmID         string `toml:"film_id_column"`    // Identifier column of the films table.
	Title          string `toml:"title_column"`      // Title column of the films table.
	Genre          string `toml:"genre_column"`      // Delimited genre column of the films table.
	Poster         string `toml:"poster_column"`     // Optional poster image URL column.
	PageURL        string `toml:"page_url_column"`   // Optional film page URL column.
	RatingKey      string `toml:"rating_key_column"` // Film identifier column of the reviews table.
	Rating         string `toml:"rating_column"`     // Numeric rating column of the reviews table.
	GenreSeparator string `toml:"genre_separator"`   // Separator used to split the genre field.
}

// DefaultColumnMapping returns the mapping for the films_with_genres.csv /
// reviews.csv schema.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		FilmID:         "film_id",
		Title:          "Title",
		Genre:          "Genres",
		Poster:         "Image_URL",
		PageURL:        "Film_URL",
		RatingKey:      "film_id",
		Rating:         "rating",
		GenreSeparator: DefaultGenreSeparator,
	}
}

// Separator returns the configured genre separator, falling back to the default.
func (c ColumnMapping) Separator() string {
	if c.GenreSeparator == "" {
		return DefaultGenreSeparator
	}
	return c.GenreSeparator
}

// RecordKeys returns the output keys of a FilmRecord for this mapping.
func (c ColumnMapping) RecordKeys() *RecordKeys {
	return &RecordKeys{
		ID:        c.FilmID,
		Title:     c.Title,
		Genres:    c.Genre,
		AvgRating: AvgRatingKey,
		Poster:    c.Poster,
		PageURL:   c.PageURL,
	}
}

// Film is a single entry of the catalog after the rating join.
type Film struct {
	ID        string  // Normalized film identifier.
	Title     string  // Display title.
	Genres    string  // Raw genre field, e.g. "Comedy, Drama".
	AvgRating float64 // Mean review rating, 0.0 when the film has no reviews.
	PosterURL string  // Poster image URL, may be empty.
	PageURL   string  // Film page URL, may be empty.
}

// RecordKeys names the JSON keys of a serialized FilmRecord, in output order.
type RecordKeys struct {
	ID        string
	Title     string
	Genres    string
	AvgRating string
	Poster    string
	PageURL   string
}

// FilmRecord is the fixed projection of a Film returned by the recommend
// operation. Keys controls the JSON key names; a nil Keys uses the default
// mapping.
type FilmRecord struct {
	ID        string
	Title     string
	Genres    string
	AvgRating float64
	PosterURL string
	PageURL   string
	Keys      *RecordKeys
}

// NewFilmRecord projects a Film into a FilmRecord.
func NewFilmRecord(f Film, keys *RecordKeys) *FilmRecord {
	return &FilmRecord{
		ID:        f.ID,
		Title:     f.Title,
		Genres:    f.Genres,
		AvgRating: f.AvgRating,
		PosterURL: f.PosterURL,
		PageURL:   f.PageURL,
		Keys:      keys,
	}
}

// MarshalJSON writes the record as an object with its keys in a fixed order:
// identifier, title, genres, average rating, poster, page URL. Integer
// identifiers are written as JSON numbers.
func (r *FilmRecord) MarshalJSON() ([]byte, error) {
	keys := r.Keys
	if keys == nil {
		keys = DefaultColumnMapping().RecordKeys()
	}

	var id interface{} = r.ID
	if IsIntegerKey(r.ID) {
		id = json.RawMessage(r.ID)
	}

	fields := []struct {
		key   string
		value interface{}
	}{
		{keys.ID, id},
		{keys.Title, r.Title},
		{keys.Genres, r.Genres},
		{keys.AvgRating, r.AvgRating},
		{keys.Poster, r.PosterURL},
		{keys.PageURL, r.PageURL},
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NormalizeKey canonicalizes a film identifier so that the films and reviews
// tables join on value rather than on spelling: surrounding spaces are removed
// and integral numbers ("007", "7.0") are rewritten as plain integers ("7").
func NormalizeKey(in string) string {
	s := strings.TrimSpace(in)
	if s == "" {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// IsIntegerKey reports whether a normalized key is a plain integer literal.
func IsIntegerKey(s string) bool {
	if s == "" {
		return false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	return err == nil && strconv.FormatInt(i, 10) == s
}
