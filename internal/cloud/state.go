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

// Package cloud provides components for interacting with Google Cloud services.
// This file is responsible for initializing and holding the client objects
// needed to read remote data sources. Clients are only created for the schemes
// the configured sources actually use, so a deployment that reads local files
// needs no Google Cloud credentials at all.
//
// Structs:
//   - ServiceClients: A container struct holding the initialized Google Cloud clients.
//
// Functions:
//   - Close: A convenience method to shut down all client connections.
//   - NewCloudServiceClients: A factory function that creates the clients
//     required by the configured data sources.
package cloud

import (
	"context"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
)

// ServiceClients is a struct that acts as a central container for the clients
// that interact with external Google Cloud services.
type ServiceClients struct {
	StorageClient  *storage.Client  // Client for Google Cloud Storage, set when a gs:// source is configured.
	BiqQueryClient *bigquery.Client // Client for BigQuery, set when a bq:// source is configured.
}

// Close shuts down every client that was created.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.BiqQueryClient != nil {
		_ = c.BiqQueryClient.Close()
	}
}

// NewCloudServiceClients initializes the Google Cloud clients the configured
// data sources require.
//
// Inputs:
//   - ctx: The root context.Context for the application.
//   - config: A pointer to the loaded application configuration.
//
// Outputs:
//   - *ServiceClients: The initialized clients; fields stay nil when unused.
//   - error: An error if any of the clients fail to initialize.
func NewCloudServiceClients(ctx context.Context, config *Config) (cloud *ServiceClients, err error) {
	cloud = &ServiceClients{}
	locations := []string{config.DataSources.Films, config.DataSources.Reviews}

	if anyHasPrefix(locations, SchemeGCS) {
		cloud.StorageClient, err = storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
	}

	if anyHasPrefix(locations, SchemeBigQuery) {
		project := config.Application.GoogleProjectId
		if project == "" {
			// Fall back to the project of the first BigQuery location.
			for _, l := range locations {
				if p, _, _, perr := ParseBigQueryLocation(l); perr == nil {
					project = p
					break
				}
			}
		}
		cloud.BiqQueryClient, err = bigquery.NewClient(ctx, project)
		if err != nil {
			cloud.Close()
			return nil, err
		}
	}

	return cloud, nil
}

func anyHasPrefix(values []string, prefix string) bool {
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}
