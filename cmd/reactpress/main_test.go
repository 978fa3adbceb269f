package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSchemaAndSeedCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactpress.db")
	t.Setenv("LOG_LEVEL", "error")

	_, err := runCLI(t, "schema", "--driver", "sqlite", "--sqlite-path", path)
	require.NoError(t, err)

	out, err := runCLI(t, "seed", "--driver", "sqlite", "--sqlite-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 1 user, 3 categories, 4 tags, 1 post and 1 page (removed 0 rows)")

	_, err = runCLI(t, "seed", "--driver", "sqlite", "--sqlite-path", path)
	assert.Error(t, err, "seeding twice without --reset collides on unique keys")

	out, err = runCLI(t, "seed", "--reset", "--driver", "sqlite", "--sqlite-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "removed 10 rows")
}

func TestSeedWithSchemaFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCLI(t, "seed", "--schema", "--driver", "sqlite", "--sqlite-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Admin login: admin@reactpress.dev")
}

func TestUnknownDriver(t *testing.T) {
	_, err := runCLI(t, "schema", "--driver", "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
