package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tillpoint/internal/database"
)

func TestRollupLockKey(t *testing.T) {
	assert.Equal(t, database.RollupLockKey(1), database.RollupLockKey(1))
	assert.NotEqual(t, database.RollupLockKey(1), database.RollupLockKey(2))
	assert.NotEqual(t, database.RollupLockKey(12), database.RollupLockKey(1))
}
