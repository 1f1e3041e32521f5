package http

import (
	"github.com/gin-gonic/gin"
)

// LoadRoutes handles load-analysis route registration.
type LoadRoutes struct {
	handler *Handler
}

// NewLoadRoutes creates a new LoadRoutes instance.
func NewLoadRoutes(handler *Handler) *LoadRoutes {
	return &LoadRoutes{handler: handler}
}

// RegisterPublicRoutes registers load routes (when auth is disabled).
func (r *LoadRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	r.register(rg)
}

// RegisterProtectedRoutes registers load routes behind authentication.
func (r *LoadRoutes) RegisterProtectedRoutes(protected *gin.RouterGroup, cfg *RouterConfig) {
	r.register(protected)
}

// register wires every load-analysis endpoint onto the group.
func (r *LoadRoutes) register(rg *gin.RouterGroup) {
	rg.POST("/loads", r.handler.CreateLoad)
	rg.GET("/loads/:id", r.handler.GetLoad)
	rg.GET("/loads/:id/pallets/:pallet", r.handler.GetPallet)
	rg.POST("/loads/:id/step", r.handler.Step)
	rg.PUT("/loads/:id/pallet", r.handler.SelectPallet)
	rg.GET("/loads/:id/metrics", r.handler.GetMetrics)
	rg.GET("/loads/:id/report", r.handler.ExportReport)
	rg.GET("/loads/:id/history", r.handler.GetHistory)

	rg.POST("/analyze", r.handler.Analyze)

	rg.GET("/settings/safety-limit", r.handler.GetSafetyLimit)
	rg.PUT("/settings/safety-limit", r.handler.UpdateSafetyLimit)
}

// GetHandler returns the underlying load handler.
func (r *LoadRoutes) GetHandler() *Handler {
	return r.handler
}
