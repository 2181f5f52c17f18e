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

// Package workflow assembles commands into the pipelines the application runs.
// This file defines the CatalogBuildWorkflow, which runs once at startup:
//
//  1. load-films: read the films source and check its required columns.
//  2. load-reviews: read the reviews source and check its required columns.
//  3. aggregate-ratings: mean rating per film identifier.
//  4. assemble-catalog: left join ratings onto films and derive the genre set.
//
// Any failure aborts the chain and is reported as a DataLoadError.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/catalog"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/commands"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/cor"
)

// Context keys used between the steps of the chain.
const (
	FilmsParamName   = "__films__"
	ReviewsParamName = "__reviews__"
	RatingsParamName = "__ratings__"
)

// CatalogBuildWorkflow loads both data sources and builds the catalog.
type CatalogBuildWorkflow struct {
	cor.BaseCommand
	config  *cloud.Config
	films   cloud.TableSource
	reviews cloud.TableSource
	chain   cor.Chain
}

// NewCatalogBuildWorkflow creates the workflow for explicit sources.
func NewCatalogBuildWorkflow(config *cloud.Config, films cloud.TableSource, reviews cloud.TableSource) *CatalogBuildWorkflow {
	w := &CatalogBuildWorkflow{
		BaseCommand: *cor.NewBaseCommand("catalog-build-workflow"),
		config:      config,
		films:       films,
		reviews:     reviews,
	}
	w.initializeChain()
	return w
}

// NewCatalogBuildWorkflowFromConfig resolves the configured source locations
// and creates the workflow.
func NewCatalogBuildWorkflowFromConfig(config *cloud.Config, clients *cloud.ServiceClients) (*CatalogBuildWorkflow, error) {
	films, err := cloud.NewTableSource(config.DataSources.Films, config.DataSources.Delimiter, clients)
	if err != nil {
		return nil, cloud.NewDataLoadError(config.DataSources.Films, err)
	}
	reviews, err := cloud.NewTableSource(config.DataSources.Reviews, config.DataSources.Delimiter, clients)
	if err != nil {
		return nil, cloud.NewDataLoadError(config.DataSources.Reviews, err)
	}
	return NewCatalogBuildWorkflow(config, films, reviews), nil
}

func (w *CatalogBuildWorkflow) initializeChain() {
	cols := w.config.Columns
	out := cor.NewBaseChain(w.GetName())

	out.AddCommand(commands.NewLoadTable("load-films", w.films, FilmsParamName, cols.FilmID, cols.Title, cols.Genre))
	out.AddCommand(commands.NewLoadTable("load-reviews", w.reviews, ReviewsParamName, cols.RatingKey, cols.Rating))
	out.AddCommand(commands.NewAggregateRatings("aggregate-ratings", cols, w.reviews.Location(), ReviewsParamName, RatingsParamName))
	out.AddCommand(commands.NewCatalogAssembly("assemble-catalog", cols, w.films.Location(), FilmsParamName, RatingsParamName))

	w.chain = out
}

// IsExecutable only needs a Go context.
func (w *CatalogBuildWorkflow) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil
}

// Execute runs the chain against an existing context.
func (w *CatalogBuildWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Build runs the workflow and returns the catalog.
//
// Inputs:
//   - ctx: The context for the load, used for cancellation and tracing.
//
// Outputs:
//   - *catalog.Catalog: The immutable catalog.
//   - error: The joined errors recorded by the failing commands.
func (w *CatalogBuildWorkflow) Build(ctx context.Context) (*catalog.Catalog, error) {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)

	w.Execute(chainCtx)

	if chainCtx.HasErrors() {
		errs := chainCtx.GetErrors()
		names := make([]string, 0, len(errs))
		for name := range errs {
			names = append(names, name)
		}
		slices.Sort(names)
		joined := make([]error, 0, len(names))
		for _, name := range names {
			joined = append(joined, fmt.Errorf("%s: %w", name, errs[name]))
		}
		w.GetErrorCounter().Add(ctx, 1)
		return nil, errors.Join(joined...)
	}

	cat, ok := chainCtx.Get(cor.CtxIn).(*catalog.Catalog)
	if !ok {
		return nil, errors.New("catalog build finished without a catalog")
	}
	w.GetSuccessCounter().Add(ctx, 1)
	return cat, nil
}
