package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(mysqlFS, "mysql/*.sql")
	require.NoError(t, err)
	require.Contains(t, files, "mysql/000001_init.up.sql")
	require.Contains(t, files, "mysql/000001_init.down.sql")
	require.Equal(t, 0, len(files)%2, "every up migration needs a down migration")
}
