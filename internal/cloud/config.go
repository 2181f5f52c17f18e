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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, together with the clients and data sources the
// service reads its catalog from.
//
// This file centralizes all configuration-related structs.
//
// Structs:
//   - DataSources: Where the films and reviews tables are read from.
//   - Telemetry: Logging and OpenTelemetry settings.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that returns a Config populated with defaults.
package cloud

import (
	"errors"
	"fmt"
	"time"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// DataSources represents the location of the two input tables. A location is a
// local path, a gs://bucket/object URI or a bq://project.dataset.table URI.
type DataSources struct {
	Films     string `toml:"films"`     // Location of the films table.
	Reviews   string `toml:"reviews"`   // Location of the reviews table.
	Delimiter string `toml:"delimiter"` // Field delimiter for delimited text sources, defaults to ",".
}

// Telemetry represents the observability settings of the application.
type Telemetry struct {
	Enabled  bool   `toml:"enabled"`   // Export traces and metrics to Google Cloud.
	LogFile  string `toml:"log_file"`  // Optional file that receives a copy of the logs.
	LogLevel string `toml:"log_level"` // One of debug, info, warn, error.
}

// Config represents the overall configuration for the application, loaded from TOML files.
// It acts as the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name                   string `toml:"name"`                     // The name of the application.
		GoogleProjectId        string `toml:"google_project_id"`        // The Google Cloud project ID.
		Port                   int    `toml:"port"`                     // The HTTP listen port.
		ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"` // Grace period for in-flight requests on shutdown.
	} `toml:"application"`
	Telemetry   Telemetry           `toml:"telemetry"`    // Logging and tracing configuration.
	DataSources DataSources         `toml:"data_sources"` // Input table locations.
	Columns     model.ColumnMapping `toml:"columns"`      // Column names of the input tables.
}

// NewConfig is a constructor function that creates a new Config instance with
// defaults for every optional setting. Values loaded from the TOML files
// overwrite these defaults.
//
// Outputs:
//   - *Config: A pointer to a new Config struct.
func NewConfig() *Config {
	c := &Config{
		Telemetry: Telemetry{LogLevel: "info"},
		DataSources: DataSources{
			Films:     "data/films_with_genres.csv",
			Reviews:   "data/reviews.csv",
			Delimiter: ",",
		},
		Columns: model.DefaultColumnMapping(),
	}
	c.Application.Name = "film-recommender"
	c.Application.Port = 8080
	c.Application.ShutdownTimeoutSeconds = 5
	return c
}

// ShutdownTimeout returns the graceful shutdown window.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.Application.ShutdownTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Application.ShutdownTimeoutSeconds) * time.Second
}

// Validate checks the settings the catalog cannot be built without.
func (c *Config) Validate() error {
	var errs []error
	if c.DataSources.Films == "" {
		errs = append(errs, errors.New("data_sources.films is required"))
	}
	if c.DataSources.Reviews == "" {
		errs = append(errs, errors.New("data_sources.reviews is required"))
	}
	if len([]rune(c.DataSources.Delimiter)) > 1 {
		errs = append(errs, fmt.Errorf("data_sources.delimiter must be a single character, got %q", c.DataSources.Delimiter))
	}
	for _, col := range []struct{ key, value string }{
		{"columns.film_id_column", c.Columns.FilmID},
		{"columns.title_column", c.Columns.Title},
		{"columns.genre_column", c.Columns.Genre},
		{"columns.rating_key_column", c.Columns.RatingKey},
		{"columns.rating_column", c.Columns.Rating},
	} {
		if col.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", col.key))
		}
	}
	if c.Application.Port < 0 || c.Application.Port > 65535 {
		errs = append(errs, fmt.Errorf("application.port out of range: %d", c.Application.Port))
	}
	if c.Telemetry.Enabled && c.Application.GoogleProjectId == "" {
		errs = append(errs, errors.New("application.google_project_id is required when telemetry is enabled"))
	}
	return errors.Join(errs...)
}
