package model

// Item is a purchasable drink. Price is in credits and never negative.
type Item struct {
	ID    int    `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name;not null"`
	Price int    `gorm:"column:price;not null"`
}

func (Item) TableName() string {
	return "items"
}
