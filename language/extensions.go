package language

import (
	"path/filepath"
	"strings"
)

// MetadataExtensions are the application's own project and web-app files.
var MetadataExtensions = map[string]bool{
	".celbridge": true,
	".webapp":    true,
}

// BinaryExtensions are formats that are never scanned as text.
var BinaryExtensions = map[string]bool{
	// Images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true, ".tif": true, ".psd": true,
	".heic": true, ".raw": true,
	// Archives
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".bz2": true,
	".xz": true, ".rar": true, ".7z": true, ".zst": true,
	// Audio / video
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".aac": true,
	".m4a": true, ".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".webm": true, ".wmv": true,
	// Office documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".odt": true, ".ods": true, ".odp": true,
	// Fonts
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	// Compiled code
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".o": true,
	".a": true, ".lib": true, ".obj": true, ".class": true, ".jar": true,
	".pyc": true, ".pyo": true, ".pyd": true, ".wasm": true, ".pdb": true,
	// Databases
	".db": true, ".sqlite": true, ".sqlite3": true, ".mdb": true,
	// Installers
	".msi": true, ".dmg": true, ".pkg": true, ".deb": true, ".rpm": true,
	".apk": true, ".iso": true,
}

// extension returns the lowercased extension of a path, including the dot.
func extension(filePath string) string {
	return strings.ToLower(filepath.Ext(filePath))
}

// IsMetadataFile reports whether the path is an application metadata file.
func IsMetadataFile(filePath string) bool {
	return MetadataExtensions[extension(filePath)]
}

// IsBinaryExtension reports whether the path has a known binary extension.
func IsBinaryExtension(filePath string) bool {
	return BinaryExtensions[extension(filePath)]
}
