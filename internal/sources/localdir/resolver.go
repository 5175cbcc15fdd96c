package localdir

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IDPrefix marks paper ids minted by this source.
const IDPrefix = "local:"

// PaperID derives the stable id for a file from its slash-separated
// path relative to the root.
func PaperID(rel string) string {
	return IDPrefix + filepath.ToSlash(rel)
}

// relFromID recovers the relative path from a local paper id. Ids
// without the prefix are treated as paths given directly.
func relFromID(id string) string {
	return filepath.FromSlash(strings.TrimPrefix(id, IDPrefix))
}

// resolve joins a path onto the root and verifies the result stays
// inside it, rejecting traversal via .. or absolute escapes.
func resolve(root, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	joined := path
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(root, joined)
	}
	joined = filepath.Clean(joined)

	rel, err := filepath.Rel(root, joined)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the root directory", path)
	}

	return joined, nil
}
