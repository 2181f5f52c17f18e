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
// This file, `table.go`, contains the in-memory tabular representation that
// data sources are decoded into before the catalog is assembled. A Table is
// untyped: every cell is a string and it is up to the consumers
// (the rating aggregator and the catalog builder) to interpret the columns they
// care about.
package model

import (
	"fmt"
	"strings"
)

// Table is an ordered set of named columns and the rows read from a data source.
// Row order is preserved from the source.
type Table struct {
	Columns []string   // Column names in source order.
	Rows    [][]string // Rows of cells, each row has exactly len(Columns) cells.
	index   map[string]int
}

// NewTable creates a Table with the given header. Duplicate column names resolve
// to the first occurrence.
func NewTable(columns []string) *Table {
	t := &Table{
		Columns: columns,
		Rows:    make([][]string, 0),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
	return t
}

// AddRow appends a row to the table. Short rows are padded with empty cells,
// rows wider than the header are rejected.
func (t *Table) AddRow(cells []string) error {
	if len(cells) > len(t.Columns) {
		return fmt.Errorf("expected %d fields, saw %d", len(t.Columns), len(cells))
	}
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require checks that every named column exists in the table.
//
// Inputs:
//   - names: The column names the caller needs.
//
// Outputs:
//   - error: Lists every missing column, or nil when all are present.
func (t *Table) Require(names ...string) error {
	missing := make([]string, 0)
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns [%s], found [%s]",
			strings.Join(missing, ", "), strings.Join(t.Columns, ", "))
	}
	return nil
}

// Value returns the cell at the given row for the named column. Unknown
// columns yield an empty string.
func (t *Table) Value(row int, column string) string {
	i, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.Rows[row][i]
}
