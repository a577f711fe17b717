package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mizu-in-go/pkg/server/store"
)

func TestGetMachine(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := setupTestDB(t)
		machines := NewMachinesStore(db)

		rows := sqlmock.NewRows([]string{"id", "name", "display_name"}).
			AddRow(1, "bigdrink", "Big Drink")
		mock.ExpectQuery(`SELECT .* FROM "machines"`).
			WithArgs("bigdrink").
			WillReturnRows(rows)

		machine, err := machines.GetMachine("bigdrink")
		require.NoError(t, err)
		assert.Equal(t, &store.Machine{ID: 1, Name: "bigdrink", DisplayName: "Big Drink"}, machine)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupTestDB(t)
		machines := NewMachinesStore(db)

		mock.ExpectQuery(`SELECT .* FROM "machines"`).
			WithArgs("nosuch").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}))

		_, err := machines.GetMachine("nosuch")
		assert.ErrorIs(t, err, store.ErrMachineNotFound)
	})
}

func TestGetMachines(t *testing.T) {
	db, mock := setupTestDB(t)
	machines := NewMachinesStore(db)

	rows := sqlmock.NewRows([]string{"id", "name", "display_name"}).
		AddRow(1, "bigdrink", "Big Drink").
		AddRow(2, "littledrink", "Little Drink")
	mock.ExpectQuery(`SELECT .* FROM "machines"`).WillReturnRows(rows)

	all, err := machines.GetMachines()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bigdrink", all[0].Name)
	assert.Equal(t, "littledrink", all[1].Name)
}

func TestGetSlotsInMachine(t *testing.T) {
	t.Run("lists slots ordered by number", func(t *testing.T) {
		db, mock := setupTestDB(t)
		machines := NewMachinesStore(db)

		machineRows := sqlmock.NewRows([]string{"id", "name", "display_name"}).
			AddRow(1, "bigdrink", "Big Drink")
		mock.ExpectQuery(`SELECT .* FROM "machines"`).
			WithArgs("bigdrink").
			WillReturnRows(machineRows)

		slotRows := sqlmock.NewRows([]string{"machine", "number", "item", "active"}).
			AddRow(1, 1, 7, true).
			AddRow(1, 2, 9, false)
		mock.ExpectQuery(`SELECT .* FROM "slots"`).
			WithArgs(1).
			WillReturnRows(slotRows)

		slots, err := machines.GetSlotsInMachine("bigdrink")
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, store.Slot{Machine: 1, Number: 1, Item: 7, Active: true}, slots[0])
		assert.False(t, slots[1].Active)
	})

	t.Run("unknown machine", func(t *testing.T) {
		db, mock := setupTestDB(t)
		machines := NewMachinesStore(db)

		mock.ExpectQuery(`SELECT .* FROM "machines"`).
			WithArgs("nosuch").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}))

		_, err := machines.GetSlotsInMachine("nosuch")
		assert.ErrorIs(t, err, store.ErrMachineNotFound)
	})
}

func TestGetSlot(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := setupTestDB(t)
		machines := NewMachinesStore(db)

		rows := sqlmock.NewRows([]string{"machine", "number", "item", "active"}).
			AddRow(1, 3, 7, true)
		mock.ExpectQuery(`SELECT .* FROM "slots"`).
			WithArgs(1, 3).
			WillReturnRows(rows)

		slot, err := machines.GetSlot(1, 3)
		require.NoError(t, err)
		assert.Equal(t, &store.Slot{Machine: 1, Number: 3, Item: 7, Active: true}, slot)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupTestDB(t)
		machines := NewMachinesStore(db)

		mock.ExpectQuery(`SELECT .* FROM "slots"`).
			WithArgs(1, 42).
			WillReturnRows(sqlmock.NewRows([]string{"machine", "number", "item", "active"}))

		_, err := machines.GetSlot(1, 42)
		assert.ErrorIs(t, err, store.ErrSlotNotFound)
	})
}
