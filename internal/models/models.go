package models

import (
	"time"
)

// Model is implemented by every row txa persists.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // called before insert
}

// Repository is the data access contract shared by the sqlite stores.
//
// Get, Update and Delete ignore soft-deleted rows.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error) // criteria keys are store-specific
}
