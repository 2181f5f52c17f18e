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

// Package main contains the setup and initialization logic for the application's
// state: the configuration, the cloud clients needed by remote data sources, and
// the catalog built from them. State is constructed once in run and handed to
// the router explicitly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/catalog"
	"github.com/jaycherian/gcp-go-film-recommend/internal/core/workflow"
)

// StateManager holds the dependencies built at startup.
type StateManager struct {
	config  *cloud.Config
	cloud   *cloud.ServiceClients
	catalog *catalog.Catalog
}

// Close releases the cloud clients.
func (s *StateManager) Close() {
	if s.cloud != nil {
		s.cloud.Close()
	}
}

// GetConfig loads the configuration from the TOML files selected by
// FILMREC_CONFIG_PREFIX and FILMREC_RUNTIME. The runtime defaults to "local"
// for the server. It also returns the files that were read so they can be
// logged once logging is set up.
func GetConfig() (*cloud.Config, []string, error) {
	if _, ok := os.LookupEnv(cloud.EnvConfigFilePrefix); !ok {
		if err := os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return nil, nil, err
		}
	}
	if _, ok := os.LookupEnv(cloud.EnvConfigRuntime); !ok {
		if err := os.Setenv(cloud.EnvConfigRuntime, "local"); err != nil {
			return nil, nil, err
		}
	}

	config := cloud.NewConfig()
	loaded, err := cloud.LoadConfig(config)
	if err != nil {
		return nil, loaded, err
	}
	if err := config.Validate(); err != nil {
		return nil, loaded, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, loaded, nil
}

// InitState creates the cloud clients and builds the catalog.
//
// Inputs:
//   - ctx: The root context.
//   - config: The validated configuration.
//
// Outputs:
//   - *StateManager: The initialized state.
//   - error: Client creation or catalog build failure; both are fatal.
func InitState(ctx context.Context, config *cloud.Config) (*StateManager, error) {
	clients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud clients: %w", err)
	}
	state := &StateManager{config: config, cloud: clients}

	builder, err := workflow.NewCatalogBuildWorkflowFromConfig(config, clients)
	if err != nil {
		state.Close()
		return nil, err
	}
	state.catalog, err = builder.Build(ctx)
	if err != nil {
		state.Close()
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	slog.Info("Initialized State", "films", state.catalog.Len(), "genres", len(state.catalog.Genres()))
	return state, nil
}
