package provider

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Kind classifies a filesystem entry for bucketing and filtering.
type Kind int

const (
	KindDocument  Kind = iota // regular files
	KindDirectory             // plain folders
	KindApplication
	// KindArtifact marks entries that are not launchable filesystem content:
	// sockets, devices, pipes. The engine's match predicate rejects these.
	KindArtifact
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindDirectory:
		return "directory"
	case KindApplication:
		return "application"
	default:
		return "artifact"
	}
}

// appExtensions are file suffixes treated as launchable applications.
var appExtensions = map[string]bool{
	".desktop":  true,
	".exe":      true,
	".appimage": true,
}

// KindFor classifies an entry from its path, directory flag, and mode bits.
// A directory named *.app is an application bundle; an executable regular
// file with no extension counts as an application too.
func KindFor(path string, isDir bool, mode fs.FileMode) Kind {
	if isDir {
		if strings.HasSuffix(path, ".app") {
			return KindApplication
		}
		return KindDirectory
	}
	if mode&(fs.ModeSocket|fs.ModeDevice|fs.ModeNamedPipe|fs.ModeIrregular) != 0 {
		return KindArtifact
	}
	ext := strings.ToLower(filepath.Ext(path))
	if appExtensions[ext] {
		return KindApplication
	}
	if ext == "" && mode.Perm()&0111 != 0 {
		return KindApplication
	}
	return KindDocument
}
