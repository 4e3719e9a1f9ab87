package models

import (
	"time"
)

type EventAction string

const (
	EventProductCreated EventAction = "product.created"
	EventProductUpdated EventAction = "product.updated"
	EventProductDeleted EventAction = "product.deleted"
	EventProductToggled EventAction = "product.toggled"
)

// CatalogEvent is published after a successful mutation so downstream
// consumers (feeds, search indexers) can refresh their copy.
type CatalogEvent struct {
	Action    EventAction `json:"action"`
	ProductID string      `json:"product_id"`
	IsActive  *bool       `json:"is_active,omitempty"`
	At        time.Time   `json:"at"`
}
