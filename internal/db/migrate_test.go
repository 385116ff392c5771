package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"po-generator/migrations"
)

func TestLoadMigrations_SortedWithChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"002_more.sql":  {Data: []byte("SELECT 2;")},
		"001_init.sql":  {Data: []byte("SELECT 1;")},
		"README.md":     {Data: []byte("ignored")},
		"sub/003_x.sql": {Data: []byte("ignored")},
	}

	ms, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "001", ms[0].Version)
	assert.Equal(t, "002_more.sql", ms[1].Filename)
	assert.Len(t, ms[0].Checksum, 64)
	assert.NotEqual(t, ms[0].Checksum, ms[1].Checksum)
}

func TestLoadMigrations_Rejects(t *testing.T) {
	_, err := LoadMigrations(fstest.MapFS{
		"001_a.sql": {Data: []byte("")},
		"001_b.sql": {Data: []byte("")},
	})
	assert.ErrorContains(t, err, "duplicate")

	_, err = LoadMigrations(fstest.MapFS{"init.sql": {Data: []byte("")}})
	assert.ErrorContains(t, err, "invalid migration filename")
}

func TestLoadMigrations_Embedded(t *testing.T) {
	ms, err := LoadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Contains(t, ms[0].SQL, "po_number_sequences")
}
