// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"medmatch/internal/http/handlers"
	"medmatch/internal/http/middleware"
	"medmatch/internal/infra"
)

type RouterDeps struct {
	Matching  handlers.MatchFinder
	Orders    handlers.OrderService
	Ledger    handlers.RequestLedger
	Suppliers handlers.SupplierDirectory
	Verifier  infra.TokenVerifier
	Log       logrus.FieldLogger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(deps.Log), middleware.Recovery(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	matchHandler := handlers.NewMatchHandler(deps.Matching)
	api.POST("/match/find-supplier", middleware.RequireRole(middleware.RoleHospital), matchHandler.FindSupplier)

	orderHandler := handlers.NewOrderHandler(deps.Orders)
	api.GET("/orders/:id", middleware.RequireRole(middleware.RoleHospital, middleware.RoleSupplier), orderHandler.Get)
	api.POST("/orders/:id/respond", middleware.RequireRole(middleware.RoleSupplier), orderHandler.Respond)

	suppliers := api.Group("/suppliers", middleware.RequireRole(middleware.RoleSupplier))
	suppliers.GET("/orders", orderHandler.SupplierOrders)
	suppliers.GET("/backlog", orderHandler.Backlog)

	hospitalHandler := handlers.NewHospitalHandler(deps.Ledger, deps.Suppliers)
	hospitals := api.Group("/hospitals", middleware.RequireRole(middleware.RoleHospital))
	hospitals.GET("/requests", hospitalHandler.Requests)
	hospitals.PUT("/requests/:requestId", hospitalHandler.EditRequest)
	hospitals.DELETE("/requests/:requestId", hospitalHandler.DeleteRequest)
	hospitals.GET("/view-suppliers", hospitalHandler.ViewSuppliers)

	return r
}
