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

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/catalog"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/cor"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// AggregateRatings reduces the reviews table to a mean rating per film.
type AggregateRatings struct {
	cor.BaseCommand
	columns model.ColumnMapping
	source  string // Location of the reviews source, for error messages.
}

// NewAggregateRatings creates the command. The reviews table is read from
// reviewsParam and the rating map is stored under outputParamName.
func NewAggregateRatings(name string, columns model.ColumnMapping, source string, reviewsParam string, outputParamName string) *AggregateRatings {
	out := &AggregateRatings{BaseCommand: *cor.NewBaseCommand(name), columns: columns, source: source}
	out.InputParamName = reviewsParam
	out.OutputParamName = outputParamName
	return out
}

func (c *AggregateRatings) Execute(context cor.Context) {
	reviews := TableFrom(context, c.GetInputParam())
	if reviews == nil {
		c.Fail(context, errors.New("reviews table missing from context"))
		return
	}

	ratings, err := catalog.AggregateRatings(reviews, c.columns)
	if err != nil {
		c.Fail(context, cloud.NewDataLoadError(c.source, err))
		return
	}
	c.Succeed(context)
	context.Add(c.GetOutputParam(), ratings)
}

func asDataLoadError(source string, err error) error {
	var dle *cloud.DataLoadError
	if errors.As(err, &dle) {
		return err
	}
	return cloud.NewDataLoadError(source, err)
}
