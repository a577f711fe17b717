package model

// Machine represents a physical drink machine. Its name doubles as the
// hostname fragment used to reach the machine's drop API.
type Machine struct {
	ID          int    `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;unique;not null"`
	DisplayName string `gorm:"column:display_name;not null"`
}

func (Machine) TableName() string {
	return "machines"
}
