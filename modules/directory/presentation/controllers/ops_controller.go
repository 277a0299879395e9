package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcdevops/geds-sync/modules/directory/services"
	"github.com/gcdevops/geds-sync/pkg/httpapi"
)

type OpsController struct {
	snapshot *services.Prepared
	builtAt  time.Time
	registry *prometheus.Registry
}

// NewOpsController exposes /health and, when registry is set, /metrics.
func NewOpsController(snapshot *services.Prepared, builtAt time.Time, registry *prometheus.Registry) *OpsController {
	return &OpsController{snapshot: snapshot, builtAt: builtAt, registry: registry}
}

func (c *OpsController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.GetHealth).Methods(http.MethodGet)
	if c.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	BuiltAt       string `json:"built_at"`
	Employees     int    `json:"employees"`
	Organizations int    `json:"organizations"`
}

func (c *OpsController) GetHealth(w http.ResponseWriter, r *http.Request) {
	tables := c.snapshot.Tables
	_ = httpapi.WriteJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		BuiltAt:       c.builtAt.UTC().Format(time.RFC3339),
		Employees:     len(tables.Employees),
		Organizations: len(tables.Organizations),
	})
}
