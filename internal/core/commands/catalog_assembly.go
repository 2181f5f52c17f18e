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

package commands

import (
	"errors"
	"log/slog"

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/catalog"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/cor"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// CatalogAssembly joins the rating map onto the films table and places the
// resulting *catalog.Catalog under CtxOut.
type CatalogAssembly struct {
	cor.BaseCommand
	columns      model.ColumnMapping
	source       string // Location of the films source, for error messages.
	filmsParam   string
	ratingsParam string
}

// NewCatalogAssembly creates the command.
func NewCatalogAssembly(name string, columns model.ColumnMapping, source string, filmsParam string, ratingsParam string) *CatalogAssembly {
	return &CatalogAssembly{
		BaseCommand:  *cor.NewBaseCommand(name),
		columns:      columns,
		source:       source,
		filmsParam:   filmsParam,
		ratingsParam: ratingsParam,
	}
}

// IsExecutable requires both the films table and the rating map.
func (c *CatalogAssembly) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(c.filmsParam) != nil && context.Get(c.ratingsParam) != nil
}

func (c *CatalogAssembly) Execute(context cor.Context) {
	films := TableFrom(context, c.filmsParam)
	ratings, ok := context.Get(c.ratingsParam).(map[string]float64)
	if films == nil || !ok {
		c.Fail(context, errors.New("films table or ratings missing from context"))
		return
	}

	cat, err := catalog.Build(films, ratings, c.columns)
	if err != nil {
		c.Fail(context, cloud.NewDataLoadError(c.source, err))
		return
	}

	c.Succeed(context)
	slog.InfoContext(context.GetContext(), "catalog assembled",
		"films", cat.Len(), "rated_films", len(ratings), "genres", len(cat.Genres()))
	context.Add(c.GetOutputParam(), cat)
}
