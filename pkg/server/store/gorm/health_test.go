package gorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	db, mock := setupTestDB(t)
	health := NewHealthStore(db)

	assert.NoError(t, health.Ping())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	mock.ExpectClose()
	require.NoError(t, sqlDB.Close())

	assert.Error(t, health.Ping())
}
