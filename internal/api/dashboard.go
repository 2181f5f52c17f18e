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

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsResponse summarizes the loaded catalog.
type StatsResponse struct {
	Films  int `json:"films"`
	Genres int `json:"genres"`
}

// Dashboard registers GET /stats with catalog statistics.
func Dashboard(r *gin.RouterGroup, svc Recommender) {
	stats := r.Group("/stats")
	{
		stats.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, StatsResponse{
				Films:  svc.CatalogSize(),
				Genres: len(svc.Genres()),
			})
		})
	}
}
