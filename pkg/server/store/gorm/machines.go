package gorm

import (
	"errors"

	"gorm.io/gorm"

	"mizu-in-go/pkg/model"
	"mizu-in-go/pkg/server/store"
)

// Ensure MachinesStore implements store.MachinesStore
var _ store.MachinesStore = (*MachinesStore)(nil)

// MachinesStore implements store.MachinesStore using GORM
type MachinesStore struct {
	db *gorm.DB
}

// NewMachinesStore creates a new MachinesStore
func NewMachinesStore(db *gorm.DB) *MachinesStore {
	return &MachinesStore{db: db}
}

// GetMachine looks a machine up by its unique name.
func (s *MachinesStore) GetMachine(name string) (*store.Machine, error) {
	var machine model.Machine
	tx := s.db.Where("name = ?", name).First(&machine)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrMachineNotFound
		}
		return nil, tx.Error
	}

	return serializeMachine(&machine), nil
}

// GetMachines lists every machine.
func (s *MachinesStore) GetMachines() ([]store.Machine, error) {
	var machines []model.Machine
	if tx := s.db.Order("id").Find(&machines); tx.Error != nil {
		return nil, tx.Error
	}

	listMachines := make([]store.Machine, 0, len(machines))
	for i := range machines {
		listMachines = append(listMachines, *serializeMachine(&machines[i]))
	}
	return listMachines, nil
}

// GetSlotsInMachine lists the slots of the named machine, ordered by number.
func (s *MachinesStore) GetSlotsInMachine(machineName string) ([]store.Slot, error) {
	machine, err := s.GetMachine(machineName)
	if err != nil {
		return nil, err
	}

	var slots []model.Slot
	tx := s.db.Where("machine = ?", machine.ID).Order("number").Find(&slots)
	if tx.Error != nil {
		return nil, tx.Error
	}

	listSlots := make([]store.Slot, 0, len(slots))
	for i := range slots {
		listSlots = append(listSlots, *serializeSlot(&slots[i]))
	}
	return listSlots, nil
}

// GetSlot fetches a single slot by machine ID and slot number.
func (s *MachinesStore) GetSlot(machineID int, number int) (*store.Slot, error) {
	var slot model.Slot
	tx := s.db.Where("machine = ? AND number = ?", machineID, number).First(&slot)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrSlotNotFound
		}
		return nil, tx.Error
	}

	return serializeSlot(&slot), nil
}

func serializeMachine(machine *model.Machine) *store.Machine {
	return &store.Machine{
		ID:          machine.ID,
		Name:        machine.Name,
		DisplayName: machine.DisplayName,
	}
}

func serializeSlot(slot *model.Slot) *store.Slot {
	return &store.Slot{
		Machine: slot.Machine,
		Number:  slot.Number,
		Item:    slot.Item,
		Active:  slot.Active,
	}
}
