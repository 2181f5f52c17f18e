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

package cloud

import "fmt"

// DataLoadError reports a data source that could not be read or decoded into a
// usable table. The catalog cannot be built without its sources, so callers
// treat it as fatal.
type DataLoadError struct {
	Source string // The location of the failing source.
	Err    error  // The underlying cause.
}

// NewDataLoadError wraps err as a DataLoadError for the given source.
func NewDataLoadError(source string, err error) *DataLoadError {
	return &DataLoadError{Source: source, Err: err}
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load data source %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
