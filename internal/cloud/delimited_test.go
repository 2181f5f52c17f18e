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
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-film-recommend/internal/cloud"
)

func TestReadDelimited(t *testing.T) {
	in := "film_id,Title,Genres\n1,A,\"Comedy, Drama\"\n\n2,B,Action\n"

	table, err := cloud.ReadDelimited(strings.NewReader(in), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"film_id", "Title", "Genres"}, table.Columns)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "Comedy, Drama", table.Value(0, "Genres"))
	assert.Equal(t, "B", table.Value(1, "Title"))
}

func TestReadDelimitedStripsBOM(t *testing.T) {
	in := "\ufefffilm_id,rating\n1,4\n"

	table, err := cloud.ReadDelimited(strings.NewReader(in), ',')
	require.NoError(t, err)
	assert.True(t, table.HasColumn("film_id"))
	assert.Equal(t, "4", table.Value(0, "rating"))
}

func TestReadDelimitedGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("film_id,rating\n1,4\n1,5\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	table, err := cloud.ReadDelimited(&buf, ',')
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "5", table.Value(1, "rating"))
}

func TestReadDelimitedRejectsBinary(t *testing.T) {
	png := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 64)...)

	_, err := cloud.ReadDelimited(bytes.NewReader(png), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestReadDelimitedMalformed(t *testing.T) {
	_, err := cloud.ReadDelimited(strings.NewReader(""), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")

	_, err = cloud.ReadDelimited(strings.NewReader("a,b\n1,2,3\n"), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadDelimitedShortRowsArePadded(t *testing.T) {
	table, err := cloud.ReadDelimited(strings.NewReader("film_id,Title,Image_URL\n1,A\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "A", ""}, table.Rows[0])
}

func TestReadDelimitedCustomDelimiter(t *testing.T) {
	table, err := cloud.ReadDelimited(strings.NewReader("film_id;rating\n1;3.5\n"), cloud.Delimiter(";"))
	require.NoError(t, err)
	assert.Equal(t, "3.5", table.Value(0, "rating"))
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, ',', cloud.Delimiter(""))
	assert.Equal(t, '\t', cloud.Delimiter("\t"))
	assert.Equal(t, '|', cloud.Delimiter("|"))
}
