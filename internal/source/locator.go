package source

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Default extensions cover both sides of the binding: Lua blueprints and the
// C++ classes they wrap.
var defaultExtensions = []string{".lua", ".h", ".hpp", ".cpp", ".cc"}

// FileLocator finds candidate definition files for a class name by walking
// one or more source roots. A class may legitimately have zero matches
// (engine-internal types never touch the project tree).
type FileLocator struct {
	roots      []string
	extensions map[string]bool
}

func New(roots []string, extensions []string) *FileLocator {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extSet[strings.ToLower(ext)] = true
	}
	return &FileLocator{roots: roots, extensions: extSet}
}

// Locate returns every file under the roots whose base name (extension
// stripped) equals className. Results are sorted for stable output. An
// unreadable subtree is skipped rather than failing the lookup.
func (l *FileLocator) Locate(className string) ([]string, error) {
	if className == "" {
		return nil, nil
	}

	var paths []string
	for _, root := range l.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !l.extensions[ext] {
				return nil
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if base == className {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)
	return paths, nil
}
