package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrosales/partsledger-backend/api/controllers"
	"github.com/mrosales/partsledger-backend/api/middleware"
	"github.com/mrosales/partsledger-backend/internal/ledger"
	"github.com/mrosales/partsledger-backend/internal/machines"
	"github.com/mrosales/partsledger-backend/internal/organizations"
	"github.com/mrosales/partsledger-backend/internal/parts"
	"github.com/mrosales/partsledger-backend/internal/warehouses"
	"github.com/mrosales/partsledger-backend/pkg/config"
	"github.com/mrosales/partsledger-backend/pkg/db"
	"github.com/mrosales/partsledger-backend/pkg/logger"
	"github.com/mrosales/partsledger-backend/pkg/redis"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	Organizations organizations.Service
	Warehouses    warehouses.Service
	Parts         parts.Service
	Machines      machines.Service
	Ledger        ledger.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.MutationRateLimit(cfg.RateLimit, redisClient, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/organizations", func(r chi.Router) {
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.OrganizationCreate(svcs.Organizations, logg))
			r.Post("/validate", controllers.OrganizationValidate(svcs.Organizations, logg))
			r.Get("/hierarchy", controllers.OrganizationHierarchy(svcs.Organizations, logg))
			r.Get("/potential-parents", controllers.OrganizationPotentialParents(svcs.Organizations, logg))
		})

		r.Route("/warehouses", func(r chi.Router) {
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.WarehouseCreate(svcs.Warehouses, logg))
			r.Get("/", controllers.WarehouseList(svcs.Warehouses, logg))
			r.Get("/{warehouseId}", controllers.WarehouseDetail(svcs.Warehouses, logg))
		})

		r.Route("/parts", func(r chi.Router) {
			r.With(middleware.RequireSuperAdmin(logg)).Post("/", controllers.PartCreate(svcs.Parts, logg))
			r.Get("/", controllers.PartList(svcs.Parts, logg))
			r.Get("/{partId}", controllers.PartDetail(svcs.Parts, logg))
			r.With(middleware.RequireSuperAdmin(logg)).Patch("/{partId}", controllers.PartUpdate(svcs.Parts, logg))
		})

		r.Route("/machines", func(r chi.Router) {
			r.With(middleware.RequireAdmin(logg)).Post("/", controllers.MachineCreate(svcs.Machines, logg))
			r.Get("/", controllers.MachineList(svcs.Machines, logg))
			r.Get("/{machineId}", controllers.MachineDetail(svcs.Machines, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.TransactionAppend(svcs.Ledger, logg))
			r.Get("/", controllers.TransactionList(svcs.Ledger, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/warehouse/{warehouseId}", controllers.InventoryWarehouse(svcs.Ledger, logg))
			r.Get("/organization/{organizationId}/aggregated", controllers.InventoryOrganizationAggregated(svcs.Ledger, logg))
			r.With(middleware.RequireSuperAdmin(logg)).
				Post("/warehouse/{warehouseId}/parts/{partId}/rebuild", controllers.InventoryRebuildBalance(svcs.Ledger, logg))
		})
	})

	return r
}
