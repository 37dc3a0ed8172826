package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths under a root directory.
// PNG and TGA files take priority over JPEG for the same stem (alpha channel).
type Index struct {
	root    string
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans root and its subdirectories for texture files.
func BuildIndex(root string) *Index {
	idx := &Index{root: root, entries: make(map[string]string)}

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !Supported(path) {
			return nil
		}
		stem := stemOf(path)
		existing, exists := idx.entries[stem]
		if !exists || (isJPEG(existing) && !isJPEG(path)) {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a texture reference, or ("", false).
// A reference naming an existing file relative to the root wins over the stem lookup.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	if texName == "" {
		return "", false
	}

	direct := texName
	if !filepath.IsAbs(direct) {
		direct = filepath.Join(idx.root, direct)
	}
	for _, p := range idx.entries {
		if p == direct {
			return p, true
		}
	}

	path, ok := idx.entries[stemOf(texName)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func isJPEG(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jpg" || ext == ".jpeg"
}
