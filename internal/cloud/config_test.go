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

package cloud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
	test "github.com/jaycherian/gcp-go-film-recommend/internal/testutil"
)

// TestLoadConfig checks that the runtime file overrides the base file and that
// settings absent from both keep their defaults.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	test.WriteFile(t, dir, ".env.toml", `
[application]
name = "films"
port = 9090

[data_sources]
films = "base_films.csv"
reviews = "base_reviews.csv"

[columns]
film_id_column = "id"
title_column = "title"
genre_column = "genre"
rating_key_column = "movie_id"
`)
	test.WriteFile(t, dir, ".env.test.toml", `
[data_sources]
films = "gs://bucket/films.csv"
`)
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "test")

	config := cloud.NewConfig()
	loaded, err := cloud.LoadConfig(config)
	require.NoError(t, err)
	assert.Equal(t, []string{dir + "/.env.toml", dir + "/.env.test.toml"}, loaded)

	assert.Equal(t, "films", config.Application.Name)
	assert.Equal(t, 9090, config.Application.Port)
	assert.Equal(t, "gs://bucket/films.csv", config.DataSources.Films)
	assert.Equal(t, "base_reviews.csv", config.DataSources.Reviews)
	assert.Equal(t, ",", config.DataSources.Delimiter)
	assert.Equal(t, "id", config.Columns.FilmID)
	assert.Equal(t, "movie_id", config.Columns.RatingKey)
	assert.Equal(t, "rating", config.Columns.Rating)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigMissingFiles(t *testing.T) {
	t.Setenv(cloud.EnvConfigFilePrefix, t.TempDir())
	t.Setenv(cloud.EnvConfigRuntime, "nowhere")

	config := cloud.NewConfig()
	loaded, err := cloud.LoadConfig(config)
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.Equal(t, cloud.NewConfig(), config)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	test.WriteFile(t, dir, ".env.toml", "[application\nname = ")
	t.Setenv(cloud.EnvConfigFilePrefix, dir)

	loaded, err := cloud.LoadConfig(cloud.NewConfig())
	require.Error(t, err)
	assert.Empty(t, loaded)
	assert.Contains(t, err.Error(), ".env.toml")
}

func TestConfigFiles(t *testing.T) {
	t.Setenv(cloud.EnvConfigFilePrefix, "configs")
	t.Setenv(cloud.EnvConfigRuntime, "")

	base, env := cloud.ConfigFiles()
	assert.Equal(t, "configs/.env.toml", base)
	assert.Equal(t, "configs/.env.test.toml", env)
}

func TestConfigValidate(t *testing.T) {
	config := cloud.NewConfig()
	require.NoError(t, config.Validate())

	config.DataSources.Films = ""
	config.DataSources.Delimiter = ";;"
	config.Columns.Genre = ""
	config.Telemetry.Enabled = true

	err := config.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"data_sources.films is required",
		"data_sources.delimiter must be a single character",
		"columns.genre_column is required",
		"application.google_project_id is required",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestShutdownTimeout(t *testing.T) {
	config := cloud.NewConfig()
	assert.Equal(t, "5s", config.ShutdownTimeout().String())

	config.Application.ShutdownTimeoutSeconds = 0
	assert.Equal(t, "5s", config.ShutdownTimeout().String())

	config.Application.ShutdownTimeoutSeconds = 30
	assert.Equal(t, "30s", config.ShutdownTimeout().String())
}
