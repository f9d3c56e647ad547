// Package ignore decides which project paths are housekeeping noise that must
// never surface as resource changes.
package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"

	"github.com/lexandro/resourcewatch/resource"
)

// Matcher determines whether a path below the project root should be ignored.
// It combines the built-in housekeeping rules, the OS hidden/system attribute,
// optional .gitignore rules, and custom doublestar patterns.
// Thread-safe: Reload() acquires a write lock, ShouldIgnore()/ShouldIgnoreDir() acquire a read lock.
type Matcher struct {
	mu             sync.RWMutex
	rootDir        string
	metadataFolder string
	useGitignore   bool
	gitIgnore      gitignore.GitIgnore
	customPatterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string
	MetadataFolder string   // defaults to DefaultMetadataFolder
	UseGitignore   bool     // also honour <root>/.gitignore
	CustomPatterns []string // doublestar patterns matched against resource keys and names
}

// NewMatcher creates an ignore matcher rooted at options.RootDir.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:        filepath.Clean(options.RootDir),
		metadataFolder: options.MetadataFolder,
		useGitignore:   options.UseGitignore,
		customPatterns: options.CustomPatterns,
	}
	if matcher.metadataFolder == "" {
		matcher.metadataFolder = DefaultMetadataFolder
	}
	if matcher.useGitignore {
		matcher.gitIgnore = loadIgnoreFile(filepath.Join(matcher.rootDir, ".gitignore"), matcher.rootDir)
	}
	return matcher
}

// RootDir returns the project root the matcher was created for.
func (m *Matcher) RootDir() string {
	return m.rootDir
}

// ShouldIgnore returns true if the given absolute path should never be reported.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	return m.shouldIgnore(absolutePath, false)
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely during traversal.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	return m.shouldIgnore(absolutePath, true)
}

func (m *Matcher) shouldIgnore(absolutePath string, isDir bool) bool {
	if matchesName(filepath.Base(absolutePath)) {
		return true
	}

	key, err := resource.KeyFromPath(m.rootDir, absolutePath)
	if err == nil {
		if m.matchesSegments(string(key)) {
			return true
		}
	}

	// Hidden/system files created by the OS or office tools
	if hasHiddenOrSystemAttribute(absolutePath) {
		return true
	}

	if err != nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.gitIgnore != nil {
		if !isDir {
			if info, statErr := os.Stat(absolutePath); statErr == nil {
				isDir = info.IsDir()
			}
		}
		match := m.gitIgnore.Relative(string(key), isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(string(key))
}

// matchesName applies the file name rules (dotfiles, ~ prefixed, .tmp, Python bytecode).
func matchesName(name string) bool {
	lower := strings.ToLower(name)
	if lower == "__pycache__" {
		return true
	}
	for _, prefix := range IgnoredNamePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, suffix := range IgnoredNameSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// matchesSegments checks the metadata folder at the root and ignored folders at any depth.
func (m *Matcher) matchesSegments(key string) bool {
	parts := strings.Split(key, "/")
	if strings.EqualFold(parts[0], m.metadataFolder) {
		return true
	}
	for _, part := range parts {
		for _, segment := range IgnoredSegments {
			if strings.EqualFold(part, segment) {
				return true
			}
		}
	}
	return false
}

// matchesCustomPatterns checks the key and its base name against user-provided patterns.
func (m *Matcher) matchesCustomPatterns(key string) bool {
	baseName := filepath.Base(key)
	for _, pattern := range m.customPatterns {
		pattern = strings.ReplaceAll(pattern, "\\", "/")
		if matched, err := doublestar.Match(pattern, key); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// Reload re-reads .gitignore from disk.
// A manual rescan calls it before walking the tree.
func (m *Matcher) Reload() {
	if !m.useGitignore {
		return
	}
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
