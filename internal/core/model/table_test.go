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

package model_test

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

func TestTableAddRow(t *testing.T) {
	table := model.NewTable([]string{"a", "b", "c"})

	assert.NoError(t, table.AddRow([]string{"1", "2", "3"}))
	// Short rows are padded.
	assert.NoError(t, table.AddRow([]string{"4"}))
	assert.Error(t, table.AddRow([]string{"5", "6", "7", "8"}))

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "3", table.Value(0, "c"))
	assert.Equal(t, "", table.Value(1, "c"))
	assert.Equal(t, "", table.Value(0, "missing"))
}

func TestTableRequire(t *testing.T) {
	table := model.NewTable([]string{"film_id", "Title"})

	assert.NoError(t, table.Require("film_id", "Title"))
	err := table.Require("film_id", "Genres", "rating")
	assert.Error(t, err)
	assert.That(t, table.HasColumn("Title"))
	assert.Equal(t, "missing required columns [Genres, rating], found [film_id, Title]", err.Error())
}

func TestTableDuplicateColumns(t *testing.T) {
	table := model.NewTable([]string{"x", "x"})
	assert.NoError(t, table.AddRow([]string{"first", "second"}))

	i, ok := table.ColumnIndex("x")
	assert.That(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "first", table.Value(0, "x"))
}
