package model

// Slot is a dispensing position in a machine. A (machine, number) pair is
// unique, and each slot holds exactly one item. Inactive slots are still
// listed in inventory but should not dispense.
type Slot struct {
	Machine int  `gorm:"column:machine;primaryKey"`
	Number  int  `gorm:"column:number;primaryKey"`
	Item    int  `gorm:"column:item;not null"`
	Active  bool `gorm:"column:active;not null;default:true"`
}

func (Slot) TableName() string {
	return "slots"
}
