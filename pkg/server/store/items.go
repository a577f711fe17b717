package store

import "errors"

// ErrItemNotFound is returned when an item ID doesn't resolve
var ErrItemNotFound = errors.New("item not found")

// Item is a serialized item record
type Item struct {
	ID    int
	Name  string
	Price int
}

// ItemsStore abstracts item CRUD. Mutations commit immediately; no
// operation spans multiple calls.
type ItemsStore interface {
	// GetItems lists every item.
	GetItems() ([]Item, error)

	// GetItem fetches an item by ID. Returns ErrItemNotFound if absent.
	GetItem(id int) (*Item, error)

	// CreateItem inserts an item and returns the persisted record.
	CreateItem(name string, price int) (*Item, error)

	// UpdateItem applies a partial update; only non-nil fields are written.
	// Returns ErrItemNotFound if the ID doesn't resolve.
	UpdateItem(id int, name *string, price *int) (*Item, error)

	// DeleteItem removes an item. Returns true if a matching record
	// existed and was removed.
	DeleteItem(id int) (bool, error)
}
