package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLinksSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	content := "https://a.example\n\n  https://b.example  \n\t\nhttps://c.example"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	links, err := ReadLinks(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, links)
}

func TestReadLinksMissingFile(t *testing.T) {
	_, err := ReadLinks(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestLinksFromIDs(t *testing.T) {
	links := LinksFromIDs([]string{"abc", "def"})
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=abc",
		"https://www.youtube.com/watch?v=def",
	}, links)
}

func TestWriteBatchesSplitsAndNames(t *testing.T) {
	dir := t.TempDir()
	links := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		links = append(links, LinksFromIDs([]string{string(rune('a' + i%26))})...)
	}

	paths, err := WriteBatches(dir, links, 50)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "playlist_1-50.txt"), paths[0])
	assert.Equal(t, filepath.Join(dir, "playlist_51-100.txt"), paths[1])
	assert.Equal(t, filepath.Join(dir, "playlist_101-120.txt"), paths[2])

	data, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, got, 20)
	assert.Equal(t, links[100], got[0])
}

func TestWriteBatchesDefaultSize(t *testing.T) {
	dir := t.TempDir()
	links := make([]string, 60)
	for i := range links {
		links[i] = "https://example.com/item"
	}
	paths, err := WriteBatches(dir, links, 0)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestWriteBatchesNoLinks(t *testing.T) {
	paths, err := WriteBatches(t.TempDir(), nil, 50)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
