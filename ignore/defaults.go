package ignore

// DefaultMetadataFolder is the project's own metadata folder directly under the root.
const DefaultMetadataFolder = "celbridge"

// IgnoredSegments are folder names that are ignored at any depth.
var IgnoredSegments = []string{
	".git",
	".vs",
	"bin",
	"obj",
	"__pycache__",
}

// IgnoredNamePrefixes match the start of a file or folder name.
var IgnoredNamePrefixes = []string{
	// Dotfiles
	".",
	// Editor backups plus Office lock/temp files (~$Book.xlsx, ~WRL0001.tmp)
	"~",
}

// IgnoredNameSuffixes match the end of a file name.
var IgnoredNameSuffixes = []string{
	".tmp",

	// Python bytecode
	".pyc",
	".pyo",
	".pyd",
}
