package migrations

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestInitialSQL_AppliesTwice(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(InitialSQL)
	require.NoError(t, err)
	_, err = db.Exec(InitialSQL)
	require.NoError(t, err, "schema must be idempotent")

	for _, table := range []string{"movies", "venues", "schedules", "premieres"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}
