package store

import "errors"

// ErrMachineNotFound is returned when a machine name doesn't resolve
var ErrMachineNotFound = errors.New("machine not found")

// ErrSlotNotFound is returned when a machine has no slot with the given number
var ErrSlotNotFound = errors.New("slot not found")

// Machine is a serialized drink machine record
type Machine struct {
	ID          int
	Name        string
	DisplayName string
}

// Slot is a serialized slot record. Item is the ID of the item it holds.
type Slot struct {
	Machine int
	Number  int
	Item    int
	Active  bool
}

// MachinesStore abstracts read access to machines and their slots.
// Machines and slots are provisioned out-of-band; there is no write path.
type MachinesStore interface {
	// GetMachine looks a machine up by its unique name.
	// Returns ErrMachineNotFound if the name is unknown.
	GetMachine(name string) (*Machine, error)

	// GetMachines lists every machine.
	GetMachines() ([]Machine, error)

	// GetSlotsInMachine lists the slots of the named machine, ordered by
	// slot number. Returns ErrMachineNotFound if the name is unknown.
	GetSlotsInMachine(machineName string) ([]Slot, error)

	// GetSlot fetches a single slot by machine ID and slot number.
	// Returns ErrSlotNotFound if the machine has no such slot.
	GetSlot(machineID int, number int) (*Slot, error)
}
