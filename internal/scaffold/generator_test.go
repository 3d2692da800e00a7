package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shop-warehouse")

	gen := NewGenerator(dir, &Config{
		ProjectName:  "shop-warehouse",
		Author:       "data-team",
		Database:     "shop",
		RawSchema:    "public",
		MartsSchema:  "marts",
		Environments: []string{"dev", "prod"},
	})

	require.NoError(t, gen.Generate())

	for _, path := range []string{
		"config.yaml",
		"reference.yaml",
		".env.example",
		filepath.Join("sql", "raw_schema.sql"),
		"README.md",
	} {
		_, err := os.Stat(filepath.Join(dir, path))
		assert.NoError(t, err, path)
	}

	config, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "database: shop")
	assert.Contains(t, string(config), "name: dev")
	assert.Contains(t, string(config), "marts_schema: marts")

	ddl, err := os.ReadFile(filepath.Join(dir, "sql", "raw_schema.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(ddl), "raw_order_items")
}
