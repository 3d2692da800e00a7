package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martforge/pkg/models"
)

func TestResolveReferenceFileWithoutGit(t *testing.T) {
	service := NewService()

	path, err := service.ResolveReferenceFile(models.Reference{
		File: "/etc/martforge/reference.yaml",
	})
	require.NoError(t, err)
	assert.Equal(t, "/etc/martforge/reference.yaml", path)
}

func TestResolveReferenceFileEmptyConfig(t *testing.T) {
	service := NewService()

	path, err := service.ResolveReferenceFile(models.Reference{})
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestCacheDirectory(t *testing.T) {
	dir := CacheDirectory()
	assert.Contains(t, dir, ".martforge")
}

func TestGetCurrentBranchMissingRepo(t *testing.T) {
	_, err := GetCurrentBranch(t.TempDir())
	assert.Error(t, err)
}
