package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConn() *Connection {
	return &Connection{
		Host:     "127.0.0.1",
		Port:     33061,
		Database: "appdb",
		User:     "app",
		Password: "s3cret",
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"app:s3cret@tcp(127.0.0.1:33061)/appdb?parseTime=true",
		sampleConn().DSN())
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "database.yaml")
	conn := sampleConn()
	require.NoError(t, WriteYAML(path, conn))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	got, err := ReadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, conn, got)
}

func TestWriteEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "database.env")
	conn := sampleConn()
	require.NoError(t, WriteEnv(path, conn))

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", vars["DB_HOST"])
	assert.Equal(t, "33061", vars["DB_PORT"])
	assert.Equal(t, "appdb", vars["DB_NAME"])
	assert.Equal(t, "app", vars["DB_USER"])
	assert.Equal(t, "s3cret", vars["DB_PASSWORD"])
	assert.Equal(t, conn.DSN(), vars["DB_DSN"])
}

func TestWriteScriptCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "schema.sql")
	require.NoError(t, WriteScript(path, "USE `appdb`;\n"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "USE `appdb`;\n", string(b))
}
