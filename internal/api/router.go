package api

import (
	"econfetch/internal/api/handler"
	"econfetch/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "econfetch/docs"
)

// RegisterRoutes wires the fetch-job API and swagger UI onto the router.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/fetches", h.CreateFetch)
	r.GET("/api/v1/fetches", h.ListFetches)
	r.GET("/api/v1/fetches/*/rows", h.GetFetchRows)
	r.GET("/api/v1/fetches/*/errors", h.GetFetchErrors)
	r.GET("/api/v1/fetches/*", h.GetFetch)
	r.DELETE("/api/v1/fetches/*", h.DeleteFetch)

	r.GET("/api/v1/datasets", h.ListDatasets)
	r.GET("/api/v1/datasets/*", h.GetDataset)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
