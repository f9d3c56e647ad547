// Package resource identifies project files by root-relative keys and keeps
// the sorted listing of files that the search engine scans.
package resource

import (
	"errors"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrOutsideRoot is returned when a path does not fall under the project root.
var ErrOutsideRoot = errors.New("path is outside the project root")

// caseInsensitive reports whether keys compare case-insensitively on this platform.
var caseInsensitive = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// Key is a slash-separated, project-root-relative resource identifier.
// The empty key means "not found / not applicable".
type Key string

// String returns the key as a plain string.
func (k Key) String() string { return string(k) }

// IsEmpty reports whether k is the empty key.
func (k Key) IsEmpty() bool { return k == "" }

// Name returns the last segment of the key.
func (k Key) Name() string { return path.Base(string(k)) }

// Parent returns the key of the containing folder, or the empty key at the root.
func (k Key) Parent() Key {
	dir := path.Dir(string(k))
	if dir == "." || dir == "/" {
		return ""
	}
	return Key(dir)
}

// Equal compares two keys, ignoring case where the filesystem does.
func (k Key) Equal(other Key) bool {
	if caseInsensitive {
		return strings.EqualFold(string(k), string(other))
	}
	return k == other
}

// KeyFromPath converts an absolute path under rootDir into a resource key.
// The root prefix is matched case-insensitively where the filesystem is;
// separators are normalized to '/'.
func KeyFromPath(rootDir string, absolutePath string) (Key, error) {
	root := filepath.Clean(rootDir)
	p := filepath.Clean(absolutePath)

	if len(p) <= len(root) || !hasRootPrefix(p, root) {
		return "", ErrOutsideRoot
	}

	rest := p[len(root):]
	if !isSeparator(rest[0]) && !isSeparator(root[len(root)-1]) {
		return "", ErrOutsideRoot
	}
	rest = strings.TrimLeft(rest, `/\`)
	if rest == "" {
		return "", ErrOutsideRoot
	}

	rest = strings.ReplaceAll(filepath.ToSlash(rest), `\`, "/")
	return Key(rest), nil
}

func hasRootPrefix(p string, root string) bool {
	if caseInsensitive {
		return strings.EqualFold(p[:len(root)], root)
	}
	return p[:len(root)] == root
}

// Path reconstructs the absolute path of k under rootDir.
func (k Key) Path(rootDir string) string {
	return filepath.Join(rootDir, filepath.FromSlash(string(k)))
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}
