package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mizu-in-go/pkg/server/store"
)

// MockMachinesStore implements store.MachinesStore for testing using testify/mock
type MockMachinesStore struct {
	mock.Mock
}

func NewMockMachinesStore() *MockMachinesStore {
	return &MockMachinesStore{}
}

func (m *MockMachinesStore) GetMachine(name string) (*store.Machine, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Machine), args.Error(1)
}

func (m *MockMachinesStore) GetMachines() ([]store.Machine, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Machine), args.Error(1)
}

func (m *MockMachinesStore) GetSlotsInMachine(machineName string) ([]store.Slot, error) {
	args := m.Called(machineName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Slot), args.Error(1)
}

func (m *MockMachinesStore) GetSlot(machineID int, number int) (*store.Slot, error) {
	args := m.Called(machineID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Slot), args.Error(1)
}

// MockItemsStore implements store.ItemsStore for testing using testify/mock
type MockItemsStore struct {
	mock.Mock
}

func NewMockItemsStore() *MockItemsStore {
	return &MockItemsStore{}
}

func (m *MockItemsStore) GetItems() ([]store.Item, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Item), args.Error(1)
}

func (m *MockItemsStore) GetItem(id int) (*store.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Item), args.Error(1)
}

func (m *MockItemsStore) CreateItem(name string, price int) (*store.Item, error) {
	args := m.Called(name, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Item), args.Error(1)
}

func (m *MockItemsStore) UpdateItem(id int, name *string, price *int) (*store.Item, error) {
	args := m.Called(id, name, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Item), args.Error(1)
}

func (m *MockItemsStore) DeleteItem(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// MockLedger implements ledger.Ledger for testing using testify/mock
type MockLedger struct {
	mock.Mock
}

func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) GetBalance(ctx context.Context, username string) (int, error) {
	args := m.Called(username)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) SetBalance(ctx context.Context, username string, balance int) error {
	args := m.Called(username, balance)
	return args.Error(0)
}

// MockDropClient implements machine.DropClient for testing using testify/mock
type MockDropClient struct {
	mock.Mock
}

func NewMockDropClient() *MockDropClient {
	return &MockDropClient{}
}

func (m *MockDropClient) Drop(ctx context.Context, machineName string, slot int) (int, error) {
	args := m.Called(machineName, slot)
	return args.Int(0), args.Error(1)
}
