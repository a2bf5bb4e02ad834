package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-memorial-analytics/docs"
	"go-memorial-analytics/internal/api/handler"
	"go-memorial-analytics/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/healthz", h.Health)
	r.GET("/api/v1/views/overview", h.Overview)
	r.GET("/api/v1/views/dynamics", h.Dynamics)
	r.GET("/api/v1/views/texts", h.Texts)
	r.GET("/api/v1/views/geography", h.Geography)
	r.GET("/api/v1/views/demography", h.Demography)
	r.GET("/api/v1/views/search", h.Search)
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
