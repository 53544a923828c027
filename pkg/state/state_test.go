package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)
	ctx := context.Background()

	s := &State{
		ConfigHash: "abc",
		Passes: []PassState{
			{
				Name:       "grouped-tool-migration",
				AppliedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
				LineDelta:  -42,
				TotalCount: 180,
				Files: []FileState{
					{
						Path:        "/tmp/test-taskpane.ts",
						ContentHash: "deadbeef",
						RuleCounts:  map[string]int{"rangeConfigs/sort_range -> range/sort": 3},
					},
				},
			},
		},
	}

	require.NoError(t, Write(ctx, path, s))

	loaded, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, s.ConfigHash, loaded.ConfigHash)
	require.Len(t, loaded.Passes, 1)
	assert.Equal(t, s.Passes[0].Name, loaded.Passes[0].Name)
	assert.Equal(t, -42, loaded.Passes[0].LineDelta)
	assert.Equal(t, 180, loaded.Passes[0].TotalCount)
	assert.False(t, loaded.LastUpdated.IsZero(), "Write should stamp LastUpdated")
}

func TestLoad_MissingFileIsEmptyState(t *testing.T) {
	s, err := Load(context.Background(), filepath.Join(t.TempDir(), LockFileName))
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Empty(t, s.Passes)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing lock file")
}

func TestPutPass_ReplacesByName(t *testing.T) {
	s := &State{}
	s.PutPass(PassState{Name: "a", TotalCount: 1})
	s.PutPass(PassState{Name: "b", TotalCount: 2})
	s.PutPass(PassState{Name: "a", TotalCount: 9})

	require.Len(t, s.Passes, 2)
	assert.Equal(t, 9, s.FindPass("a").TotalCount)
	assert.Equal(t, 2, s.FindPass("b").TotalCount)
	assert.Nil(t, s.FindPass("c"))
}

func TestIsConsistent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.ts")
	content := []byte("const x = 1;\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	s := &State{
		Passes: []PassState{
			{
				Name:  "p",
				Files: []FileState{{Path: path, ContentHash: HashContent(content)}},
			},
		},
	}

	ok, err := s.IsConsistent(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	// Edit the file behind the lock's back
	require.NoError(t, os.WriteFile(path, []byte("const x = 2;\n"), 0644))
	ok, err = s.IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	// Remove it entirely
	require.NoError(t, os.Remove(path))
	ok, err = s.IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
