package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenSet(t *testing.T) {
	set := NewSeenSet("1")
	assert.True(t, set.Contains("1"))
	assert.False(t, set.Contains("2"))

	set.Add("2")
	assert.True(t, set.Contains("2"))
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"1", "2"}, set.Sorted())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	fs := NewFileStore(path)

	set := NewSeenSet("10712040", "10708747", "999999")
	assert.NoError(t, fs.Save(set))

	loaded, err := fs.Load()
	assert.NoError(t, err)
	assert.Equal(t, set, loaded)
}

func TestFileStoreMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope", "seen.json"))

	set, err := fs.Load()
	assert.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestFileStoreLegacyObjectShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"seen_ids": ["1", "2"]}`), 0o644))

	set, err := NewFileStore(path).Load()
	assert.NoError(t, err)
	assert.Equal(t, NewSeenSet("1", "2"), set)
}

func TestFileStoreNumericIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	assert.NoError(t, os.WriteFile(path, []byte(`[1234567, 89]`), 0o644))

	set, err := NewFileStore(path).Load()
	assert.NoError(t, err)
	assert.Equal(t, NewSeenSet("1234567", "89"), set)
}

func TestFileStoreMalformedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	fs := NewFileStore(path)

	for _, content := range []string{`not json{`, `"just a string"`, `{"other": 1}`, ``} {
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := fs.Load()
		assert.NoError(t, err, "content %q", content)
		assert.Equal(t, 0, set.Len(), "content %q", content)
	}
}

func TestFileStoreSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state", "seen.json")
	fs := NewFileStore(path)

	assert.NoError(t, fs.Save(NewSeenSet("7654321")))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreSaveSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	fs := NewFileStore(path)

	assert.NoError(t, fs.Save(NewSeenSet("30", "10", "20")))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	var ids []string
	assert.NoError(t, json.Unmarshal(data, &ids))
	assert.Equal(t, []string{"10", "20", "30"}, ids)
}
