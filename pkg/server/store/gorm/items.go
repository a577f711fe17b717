package gorm

import (
	"errors"

	"gorm.io/gorm"

	"mizu-in-go/pkg/model"
	"mizu-in-go/pkg/server/store"
)

// Ensure ItemsStore implements store.ItemsStore
var _ store.ItemsStore = (*ItemsStore)(nil)

// ItemsStore implements store.ItemsStore using GORM
type ItemsStore struct {
	db *gorm.DB
}

// NewItemsStore creates a new ItemsStore
func NewItemsStore(db *gorm.DB) *ItemsStore {
	return &ItemsStore{db: db}
}

// GetItems lists every item.
func (s *ItemsStore) GetItems() ([]store.Item, error) {
	var items []model.Item
	if tx := s.db.Order("id").Find(&items); tx.Error != nil {
		return nil, tx.Error
	}

	listItems := make([]store.Item, 0, len(items))
	for i := range items {
		listItems = append(listItems, *serializeItem(&items[i]))
	}
	return listItems, nil
}

// GetItem fetches an item by ID.
func (s *ItemsStore) GetItem(id int) (*store.Item, error) {
	item, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	return serializeItem(item), nil
}

// CreateItem inserts an item and returns the persisted record.
func (s *ItemsStore) CreateItem(name string, price int) (*store.Item, error) {
	newItem := model.Item{Name: name, Price: price}
	if tx := s.db.Create(&newItem); tx.Error != nil {
		return nil, tx.Error
	}
	return serializeItem(&newItem), nil
}

// UpdateItem applies a partial update; only non-nil fields are written.
func (s *ItemsStore) UpdateItem(id int, name *string, price *int) (*store.Item, error) {
	if _, err := s.getItem(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if price != nil {
		updates["price"] = *price
	}

	if len(updates) > 0 {
		tx := s.db.Model(&model.Item{}).Where("id = ?", id).Updates(updates)
		if tx.Error != nil {
			return nil, tx.Error
		}
	}

	return s.GetItem(id)
}

// DeleteItem removes an item. Returns true if a record existed.
func (s *ItemsStore) DeleteItem(id int) (bool, error) {
	item, err := s.getItem(id)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return false, nil
		}
		return false, err
	}

	if tx := s.db.Delete(item); tx.Error != nil {
		return false, tx.Error
	}
	return true, nil
}

func (s *ItemsStore) getItem(id int) (*model.Item, error) {
	var item model.Item
	tx := s.db.Where("id = ?", id).First(&item)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrItemNotFound
		}
		return nil, tx.Error
	}
	return &item, nil
}

func serializeItem(item *model.Item) *store.Item {
	return &store.Item{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
	}
}
