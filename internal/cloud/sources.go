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
// This file defines the data sources the catalog tables are read from. A source
// is addressed by a location string:
//
//   - a local path, optionally with a file:// scheme;
//   - gs://bucket/object for a Cloud Storage object holding delimited text;
//   - bq://project.dataset.table for a BigQuery table.
//
// Structs:
//   - FileSource, GCSSource, BigQuerySource: TableSource implementations.
//
// Functions:
//   - NewTableSource: Resolves a location into the matching TableSource.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// Location schemes understood by NewTableSource.
const (
	SchemeFile     = "file://"
	SchemeGCS      = "gs://"
	SchemeBigQuery = "bq://"
)

// TableSource produces a Table from an external location.
type TableSource interface {
	// Load reads the whole source into memory.
	Load(ctx context.Context) (*model.Table, error)
	// Location returns the configured location, used in error messages and logs.
	Location() string
}

// NewTableSource resolves a location into a TableSource. Remote sources take
// their client from clients, which must have been created for that scheme.
func NewTableSource(location string, delimiter string, clients *ServiceClients) (TableSource, error) {
	switch {
	case strings.HasPrefix(location, SchemeGCS):
		object, err := ParseGCSLocation(location)
		if err != nil {
			return nil, err
		}
		if clients == nil || clients.StorageClient == nil {
			return nil, fmt.Errorf("no storage client configured for %s", location)
		}
		return &GCSSource{client: clients.StorageClient, location: location, object: object, delimiter: Delimiter(delimiter)}, nil
	case strings.HasPrefix(location, SchemeBigQuery):
		project, dataset, table, err := ParseBigQueryLocation(location)
		if err != nil {
			return nil, err
		}
		if clients == nil || clients.BiqQueryClient == nil {
			return nil, fmt.Errorf("no bigquery client configured for %s", location)
		}
		return &BigQuerySource{client: clients.BiqQueryClient, location: location, project: project, dataset: dataset, table: table}, nil
	default:
		return &FileSource{path: strings.TrimPrefix(location, SchemeFile), location: location, delimiter: Delimiter(delimiter)}, nil
	}
}

// ParseBigQueryLocation splits bq://project.dataset.table into its parts.
func ParseBigQueryLocation(location string) (project string, dataset string, table string, err error) {
	parts := strings.Split(strings.TrimPrefix(location, SchemeBigQuery), ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid BigQuery location %s, expected bq://project.dataset.table", location)
	}
	return parts[0], parts[1], parts[2], nil
}

// FileSource reads a delimited text file from the local file system.
type FileSource struct {
	path      string
	location  string
	delimiter rune
}

func (s *FileSource) Location() string {
	return s.location
}

// Load opens the file and decodes it with ReadDelimited.
func (s *FileSource) Load(_ context.Context) (*model.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, NewDataLoadError(s.location, err)
	}
	defer f.Close()

	t, err := ReadDelimited(f, s.delimiter)
	if err != nil {
		return nil, NewDataLoadError(s.location, err)
	}
	return t, nil
}

// GCSSource streams a delimited text object from a Cloud Storage bucket.
type GCSSource struct {
	client    *storage.Client
	location  string
	object    GCSObject
	delimiter rune
}

func (s *GCSSource) Location() string {
	return s.location
}

// Load opens a reader on the object and decodes it with ReadDelimited.
func (s *GCSSource) Load(ctx context.Context) (*model.Table, error) {
	reader, err := s.client.Bucket(s.object.Bucket).Object(s.object.Name).NewReader(ctx)
	if err != nil {
		return nil, NewDataLoadError(s.location, fmt.Errorf("failed to create GCS reader for %s: %w", s.object, err))
	}
	defer reader.Close()
	s.object.MIMEType = reader.Attrs.ContentType
	slog.DebugContext(ctx, "reading GCS object", "object", s.object.String(), "content_type", s.object.MIMEType, "size", reader.Attrs.Size)

	t, err := ReadDelimited(reader, s.delimiter)
	if err != nil {
		return nil, NewDataLoadError(s.location, err)
	}
	return t, nil
}

// BigQuerySource reads every row of a BigQuery table. The header is taken from
// the table schema and each cell is rendered as text so the rest of the
// pipeline treats it like any delimited source.
type BigQuerySource struct {
	client   *bigquery.Client
	location string
	project  string
	dataset  string
	table    string
}

func (s *BigQuerySource) Location() string {
	return s.location
}

// Load reads the table schema and then iterates its rows.
func (s *BigQuerySource) Load(ctx context.Context) (*model.Table, error) {
	ref := s.client.DatasetInProject(s.project, s.dataset).Table(s.table)
	md, err := ref.Metadata(ctx)
	if err != nil {
		return nil, NewDataLoadError(s.location, fmt.Errorf("failed to read table metadata: %w", err))
	}

	columns := make([]string, len(md.Schema))
	for i, f := range md.Schema {
		columns[i] = f.Name
	}
	out := model.NewTable(columns)

	itr := ref.Read(ctx)
	for {
		var row []bigquery.Value
		err := itr.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, NewDataLoadError(s.location, fmt.Errorf("failed to iterate rows: %w", err))
		}
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		if err := out.AddRow(cells); err != nil {
			return nil, NewDataLoadError(s.location, err)
		}
	}
	return out, nil
}

// FormatValue renders a BigQuery cell as text. NULL becomes the empty string,
// which the aggregator treats as a missing rating.
func FormatValue(v bigquery.Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}
