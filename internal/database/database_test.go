package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/learningjourney/journey/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString_EscapesPasswordAndSetsSchema(t *testing.T) {
	cfg := config.Database{Host: "localhost", Port: 5432, User: "journey", Pass: "it's", Name: "journey", Schema: "journey"}

	result := connString(cfg)

	assert.Contains(t, result, `password='it\'s'`)
	assert.Contains(t, result, "search_path=journey")
	assert.Contains(t, result, "port=5432")
}

func TestMigrationURL_QueryEscapesCredentials(t *testing.T) {
	cfg := config.Database{Host: "db", Port: 6543, User: "journey", Pass: "p@ss/word", Name: "journey", Schema: "s"}

	result := migrationURL(cfg)

	assert.Equal(t, "postgres://journey:p%40ss%2Fword@db:6543/journey?sslmode=disable&search_path=s", result)
}

func TestFindMigrationsPath_WalksUp(t *testing.T) {
	// given
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "migrations"), 0o755))
	nested := filepath.Join(root, "pkg", "day_log")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	// when
	path, err := findMigrationsPath()

	// then
	require.NoError(t, err)
	expected, _ := filepath.EvalSymlinks(filepath.Join(root, "migrations"))
	actual, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, expected, actual)
}
