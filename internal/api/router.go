package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annavdbeek/plantportal/internal/app"
	"github.com/annavdbeek/plantportal/internal/handlers"
	"github.com/annavdbeek/plantportal/internal/middleware"
	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/services"
	"github.com/annavdbeek/plantportal/internal/warehouse"
)

// NewRouter builds the Gin engine, wires middleware and registers the
// portal routes on top of the shared warehouse store.
func NewRouter(cfg *app.Config, store warehouse.Store) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if store == nil {
		return nil, fmt.Errorf("warehouse store must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health())
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	userTable := models.TableRef{
		Project: cfg.Warehouse.ProjectID,
		Dataset: cfg.Warehouse.Dataset,
		Table:   cfg.Warehouse.UserTable,
	}
	grantTable := models.TableRef{
		Project: cfg.Warehouse.ProjectID,
		Dataset: cfg.Warehouse.Dataset,
		Table:   cfg.Warehouse.PermissionTable,
	}

	authSvc, err := services.NewAuthService(store, userTable)
	if err != nil {
		return nil, err
	}
	permSvc, err := services.NewPermissionService(store, grantTable)
	if err != nil {
		return nil, err
	}
	metaSvc, err := services.NewMetadataService(store, cfg.Warehouse.MetadataConcurrency)
	if err != nil {
		return nil, err
	}
	dataSvc, err := services.NewDataService(store)
	if err != nil {
		return nil, err
	}

	api := r.Group("/api")
	registerAuthRoutes(api, handlers.NewAuthHandler(authSvc))
	registerPermissionRoutes(api, handlers.NewPermissionHandler(permSvc))
	registerExperimentRoutes(api, handlers.NewExperimentHandler(metaSvc, dataSvc))

	return r, nil
}
