package model

import (
	"time"

	"github.com/google/uuid"
)

// EventAction describes what happened to the catalog.
type EventAction string

const (
	// EventProductCreated is emitted when a product is added.
	EventProductCreated EventAction = "product_created"
	// EventProductUpdated is emitted when product fields are edited.
	EventProductUpdated EventAction = "product_updated"
	// EventProductDeleted is emitted when a product is removed.
	EventProductDeleted EventAction = "product_deleted"
	// EventCatalogReordered is emitted after a swap or move.
	EventCatalogReordered EventAction = "catalog_reordered"
	// EventCatalogSynced is emitted after remote rows were reconciled.
	EventCatalogSynced EventAction = "catalog_synced"
	// EventSiteExported is emitted after the site data was regenerated.
	EventSiteExported EventAction = "site_exported"
)

// CatalogEvent notifies listeners (e.g. a deploy hook) that the catalog changed.
type CatalogEvent struct {
	ID         uuid.UUID   `json:"id"`
	Action     EventAction `json:"action"`
	ProductID  string      `json:"product_id,omitempty"`
	Section    string      `json:"section,omitempty"`
	Title      string      `json:"title,omitempty"`
	Count      int         `json:"count,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// InitMeta initializes the event ID and timestamp.
func (e *CatalogEvent) InitMeta() {
	e.ID = uuid.New()
	e.OccurredAt = time.Now().UTC()
}
