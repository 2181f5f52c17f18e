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

// Package commands contains the individual steps of the catalog build workflow.
// This file, `load_table.go`, defines the command that reads one data source into
// a model.Table and checks that the columns the later steps depend on exist.
package commands

import (
	"log/slog"

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/cor"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// LoadTable reads a TableSource and stores the resulting table under its
// output parameter.
type LoadTable struct {
	cor.BaseCommand
	source   cloud.TableSource // Where the table is read from.
	required []string          // Columns that must be present in the header.
}

// NewLoadTable creates a LoadTable command.
//
// Inputs:
//   - name: The command name used in spans, metrics and error keys.
//   - source: The table source to read.
//   - outputParamName: The context key the table is stored under.
//   - required: Column names that must appear in the table header.
func NewLoadTable(name string, source cloud.TableSource, outputParamName string, required ...string) *LoadTable {
	out := &LoadTable{BaseCommand: *cor.NewBaseCommand(name), source: source, required: required}
	out.OutputParamName = outputParamName
	return out
}

// IsExecutable only needs a Go context; a load has no upstream input.
func (c *LoadTable) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil
}

// Execute loads the source and validates its header.
func (c *LoadTable) Execute(context cor.Context) {
	table, err := c.source.Load(context.GetContext())
	if err != nil {
		c.Fail(context, asDataLoadError(c.source.Location(), err))
		return
	}
	if err := table.Require(c.required...); err != nil {
		c.Fail(context, cloud.NewDataLoadError(c.source.Location(), err))
		return
	}

	c.Succeed(context)
	slog.InfoContext(context.GetContext(), "loaded data source",
		"source", c.source.Location(), "rows", table.Len(), "columns", len(table.Columns))
	context.Add(c.GetOutputParam(), table)
}

// TableFrom returns the table stored under key, or nil.
func TableFrom(context cor.Context, key string) *model.Table {
	t, _ := context.Get(key).(*model.Table)
	return t
}
