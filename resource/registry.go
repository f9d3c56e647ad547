package resource

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// File is one file resource: its key and absolute path.
type File struct {
	Key  Key
	Path string
}

// Filter decides which paths the registry includes.
type Filter interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// ScanResult summarizes the difference between two registry scans.
type ScanResult struct {
	Added   int
	Removed int
	Total   int
}

// Registry maintains the project's file resources in key order.
// It uses a map for lookups and a sorted slice for ordered iteration.
type Registry struct {
	mu         sync.RWMutex
	rootDir    string
	filter     Filter
	logger     *slog.Logger
	files      map[Key]File
	sortedKeys []Key
	folded     map[string]Key // lowercased key -> key, for case-insensitive lookup
}

// NewRegistry creates an empty registry for rootDir. Call Scan to populate it.
func NewRegistry(rootDir string, filter Filter, logger *slog.Logger) *Registry {
	return &Registry{
		rootDir: filepath.Clean(rootDir),
		filter:  filter,
		logger:  logger,
		files:   make(map[Key]File),
		folded:  make(map[string]Key),
	}
}

// ProjectRoot returns the absolute project root path.
func (r *Registry) ProjectRoot() string {
	return r.rootDir
}

// Scan walks the project root and replaces the file listing.
func (r *Registry) Scan() ScanResult {
	found := make(map[Key]File)

	filepath.WalkDir(r.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != r.rootDir && r.filter != nil && r.filter.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if r.filter != nil && r.filter.ShouldIgnore(path) {
			return nil
		}
		key, err := KeyFromPath(r.rootDir, path)
		if err != nil {
			r.logger.Warn("skipping path outside root", "path", path)
			return nil
		}
		found[key] = File{Key: key, Path: path}
		return nil
	})

	keys := make([]Key, 0, len(found))
	folded := make(map[string]Key, len(found))
	for key := range found {
		keys = append(keys, key)
		folded[strings.ToLower(string(key))] = key
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	r.mu.Lock()
	defer r.mu.Unlock()

	var result ScanResult
	for key := range found {
		if _, exists := r.files[key]; !exists {
			result.Added++
		}
	}
	for key := range r.files {
		if _, exists := found[key]; !exists {
			result.Removed++
		}
	}
	result.Total = len(found)

	r.files = found
	r.sortedKeys = keys
	r.folded = folded
	return result
}

// Files returns all file resources in key order.
func (r *Registry) Files() []File {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]File, 0, len(r.sortedKeys))
	for _, key := range r.sortedKeys {
		result = append(result, r.files[key])
	}
	return result
}

// FileCount returns the number of known file resources.
func (r *Registry) FileCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// Lookup returns the key of a known file by absolute path, or the empty key.
func (r *Registry) Lookup(absolutePath string) Key {
	key, err := KeyFromPath(r.rootDir, absolutePath)
	if err != nil {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.files[key]; ok {
		return key
	}
	if caseInsensitive {
		return r.folded[strings.ToLower(string(key))]
	}
	return ""
}
