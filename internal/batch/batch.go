// Package batch handles the plain-text link lists: loading .txt files
// into source references and splitting expanded collections into
// numbered batch files.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kiosoodl/internal/store"
)

// DefaultSize is the number of links per generated batch file.
const DefaultSize = 50

const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

// ReadLinks loads the non-empty trimmed lines of a link-list file.
func ReadLinks(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read link list %s: %w", path, err)
	}
	var links []string
	for _, line := range strings.Split(string(data), "\n") {
		if link := strings.TrimSpace(line); link != "" {
			links = append(links, link)
		}
	}
	return links, nil
}

// LinksFromIDs turns flat-playlist item IDs into watchable URLs.
func LinksFromIDs(ids []string) []string {
	links := make([]string, 0, len(ids))
	for _, id := range ids {
		links = append(links, fmt.Sprintf(watchURLTemplate, id))
	}
	return links
}

// WriteBatches splits links into files of at most size entries named
// playlist_<start>-<end>.txt under destDir, and returns the paths
// written, in order.
func WriteBatches(destDir string, links []string, size int) ([]string, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if err := store.Mkdir(destDir); err != nil {
		return nil, err
	}

	var paths []string
	for i := 0; i < len(links); i += size {
		part := links[i:min(i+size, len(links))]
		start := i + 1
		end := i + len(part)
		path := filepath.Join(destDir, fmt.Sprintf("playlist_%d-%d.txt", start, end))
		if err := store.WriteBytes(path, []byte(strings.Join(part, "\n")+"\n")); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
