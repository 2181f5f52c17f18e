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

// Package cloud contains data structures and utilities for interacting with Google Cloud services.
// This file defines the model of a Google Cloud Storage (GCS) object used by the
// gs:// data source.
package cloud

import (
	"fmt"
	"strings"
)

// GCSObject identifies a Google Cloud Storage object.
type GCSObject struct {
	Bucket   string // The name of the GCS bucket.
	Name     string // The name of the object.
	MIMEType string // The content type reported by GCS, set once the object is opened.
}

// String returns the gs:// URI of the object.
func (o GCSObject) String() string {
	return SchemeGCS + o.Bucket + "/" + o.Name
}

// ParseGCSLocation splits gs://bucket/object into a GCSObject.
func ParseGCSLocation(location string) (GCSObject, error) {
	path := strings.TrimPrefix(location, SchemeGCS)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return GCSObject{}, fmt.Errorf("invalid GCS location: unable to determine bucket and object from %s", location)
	}
	return GCSObject{Bucket: parts[0], Name: parts[1]}, nil
}
