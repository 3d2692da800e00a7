package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martforge/pkg/errors"
)

func TestDefaultSet(t *testing.T) {
	set := Default()

	require.NotZero(t, set.Len())

	entry, ok := set.Lookup("Chicago")
	require.True(t, ok)
	assert.Equal(t, "Illinois", entry.State)
	assert.Equal(t, "IL", entry.StateCode)

	_, ok = set.Lookup("Nowhereville")
	assert.False(t, ok)

	// Lookups are case-sensitive by contract
	_, ok = set.Lookup("chicago")
	assert.False(t, ok)
}

func TestNewSetRejectsConflictingDuplicates(t *testing.T) {
	tests := []struct {
		name      string
		entries   []Entry
		wantError bool
		wantCode  errors.ErrorCode
	}{
		{
			name: "unique entries",
			entries: []Entry{
				{City: "Springfield", State: "Illinois", StateCode: "IL"},
				{City: "Portland", State: "Oregon", StateCode: "OR"},
			},
		},
		{
			name: "identical duplicates are de-duplicated",
			entries: []Entry{
				{City: "Springfield", State: "Illinois", StateCode: "IL"},
				{City: "Springfield", State: "Illinois", StateCode: "IL"},
			},
		},
		{
			name: "conflicting duplicates are rejected",
			entries: []Entry{
				{City: "Springfield", State: "Illinois", StateCode: "IL"},
				{City: "Springfield", State: "Missouri", StateCode: "MO"},
			},
			wantError: true,
			wantCode:  errors.ErrCodeReferenceDuplicate,
		},
		{
			name:      "empty city name",
			entries:   []Entry{{State: "Illinois", StateCode: "IL"}},
			wantError: true,
			wantCode:  errors.ErrCodeReferenceFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewSet(tt.entries)
			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, set)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("merges file entries over defaults", func(t *testing.T) {
		path := filepath.Join(dir, "reference.yaml")
		content := `
corrections:
  - city: Gotham
    state: New Jersey
    state_code: NJ
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		set, err := LoadFile(path)
		require.NoError(t, err)

		entry, ok := set.Lookup("Gotham")
		require.True(t, ok)
		assert.Equal(t, "NJ", entry.StateCode)

		// Defaults survive the merge
		_, ok = set.Lookup("Chicago")
		assert.True(t, ok)
	})

	t.Run("rejects file entry conflicting with defaults", func(t *testing.T) {
		path := filepath.Join(dir, "conflict.yaml")
		content := `
corrections:
  - city: Chicago
    state: Texas
    state_code: TX
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeReferenceDuplicate, errors.GetErrorCode(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeReferenceNotFound, errors.GetErrorCode(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("corrections: {not a list"), 0644))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeReferenceFormat, errors.GetErrorCode(err))
	})
}

func TestCitiesSorted(t *testing.T) {
	set, err := NewSet([]Entry{
		{City: "Zanesville", State: "Ohio", StateCode: "OH"},
		{City: "Akron", State: "Ohio", StateCode: "OH"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Akron", "Zanesville"}, set.Cities())
}
