//go:build !windows

package ignore

// hasHiddenOrSystemAttribute is a no-op outside Windows; hidden files there
// are dotfiles, which the name rules already cover.
func hasHiddenOrSystemAttribute(absolutePath string) bool {
	return false
}
