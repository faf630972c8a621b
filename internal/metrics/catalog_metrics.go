package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "The total number of products created",
	})

	// ProductsDeleted is a Prometheus counter for tracking the total number of products deleted.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "The total number of products deleted",
	})

	// ProductsUpdated counts manual edits of product fields.
	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_updated_total",
		Help: "The total number of products edited",
	})

	// Reorders counts successful swaps and moves.
	Reorders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_reorders_total",
		Help: "The total number of reorder operations",
	}, []string{"operation"})

	// SyncRuns counts sheet reconciliations by result.
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_runs_total",
		Help: "The total number of sheet synchronizations",
	}, []string{"result"})

	// SyncRows counts reconciled remote rows by outcome.
	SyncRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_rows_total",
		Help: "The total number of remote rows processed during synchronization",
	}, []string{"outcome"})

	// PushRows counts rows written to the sheet by action.
	PushRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_push_rows_total",
		Help: "The total number of rows pushed to the sheet",
	}, []string{"action"})

	// SiteExports counts regenerations of the site data.
	SiteExports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "site_exports_total",
		Help: "The total number of site data exports",
	})

	// CatalogSize reports the number of products after the last mutation.
	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "The number of products in the catalog",
	})
)
