package exclude

// DefaultExcludedNames are path components that are never useful in a
// launcher shortlist. They are dropped anywhere in the tree, in addition to
// the user-configured excluded names.
var DefaultExcludedNames = []string{
	// Version control metadata
	".git",
	".svn",
	".hg",

	// Dependency and build trees
	"node_modules",
	"__pycache__",
	".venv",
	"venv",

	// Caches
	".cache",
	".npm",
	".cargo",
	".gradle",

	// Trash
	".Trash",
	"$RECYCLE.BIN",

	// Editor state
	".idea",
	".vscode",

	// OS noise
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
}
