//go:build windows

package ignore

import "golang.org/x/sys/windows"

// hasHiddenOrSystemAttribute reports whether the file carries the Windows
// hidden or system attribute. Missing files report false.
func hasHiddenOrSystemAttribute(absolutePath string) bool {
	pathPtr, err := windows.UTF16PtrFromString(absolutePath)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(pathPtr)
	if err != nil || attrs == windows.INVALID_FILE_ATTRIBUTES {
		return false
	}
	return attrs&(windows.FILE_ATTRIBUTE_HIDDEN|windows.FILE_ATTRIBUTE_SYSTEM) != 0
}
