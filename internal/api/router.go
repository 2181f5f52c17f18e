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

// Package api contains the HTTP routes of the recommendation service.
//
// Functions:
//   - NewRouter: Builds the gin engine with middleware and all routes.
//   - RecommendRouter: Registers the recommend and genre routes on a group.
//   - Dashboard: Registers the catalog statistics route on a group.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/jaycherian/gcp-go-film-recommend/internal/core/model"
)

// Recommender is the query surface the handlers need.
type Recommender interface {
	Recommend(ctx context.Context, requestedGenres []string) []*model.FilmRecord
	Genres() []string
	CatalogSize() int
}

// RecommendationRequest is the body of POST /recommend.
type RecommendationRequest struct {
	Genres []string `json:"genres" binding:"required"`
}

// RecommendationResponse is the success body of POST /recommend.
type RecommendationResponse struct {
	Success bool                `json:"success"`
	Data    []*model.FilmRecord `json:"data"`
}

// GenresResponse is the success body of GET /genres.
type GenresResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CORSConfig accepts requests from any origin.
func CORSConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AddAllowHeaders("Accept", "Authorization", RequestIDHeader)
	config.AddExposeHeaders(RequestIDHeader)
	return config
}

// NewRouter creates the gin engine. The API is served both at the root, which
// is the public contract, and under /api/v1.
func NewRouter(serviceName string, svc Recommender) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(cors.New(CORSConfig()))
	r.Use(RequestID())
	r.Use(RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "films": svc.CatalogSize()})
	})

	RecommendRouter(&r.RouterGroup, svc)
	Dashboard(&r.RouterGroup, svc)

	apiV1 := r.Group("/api/v1")
	{
		RecommendRouter(apiV1, svc)
		Dashboard(apiV1, svc)
	}
	return r
}

// RecommendRouter registers:
//   - POST /recommend: films matching any requested genre, best rated first.
//   - GET /genres: the sorted genre set of the catalog.
func RecommendRouter(r *gin.RouterGroup, svc Recommender) {
	// Rejected bodies are logged at most a few times per second.
	warnLimiter := rate.NewLimiter(rate.Every(time.Second), 5)

	r.POST("/recommend", func(c *gin.Context) {
		var request RecommendationRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			if warnLimiter.Allow() {
				slog.WarnContext(c.Request.Context(), "rejected recommendation request",
					"error", err, RequestIDKey, c.GetString(RequestIDKey))
			}
			c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid request body: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, RecommendationResponse{
			Success: true,
			Data:    svc.Recommend(c.Request.Context(), request.Genres),
		})
	})

	r.GET("/genres", func(c *gin.Context) {
		c.JSON(http.StatusOK, GenresResponse{Success: true, Data: svc.Genres()})
	})
}
