package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "predictions", "contact_messages"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestLower_FoldsNonASCII(t *testing.T) {
	db, err := Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)

	var got string
	require.NoError(t, db.Raw("SELECT LOWER(?)", "ÉVORA Zürich").Scan(&got).Error)
	assert.Equal(t, "évora zürich", got)
}
