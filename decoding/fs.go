package decoding

import (
	"os"
	"path/filepath"
)

// MappingDocumentName is the filename of the root mapping document under a
// metadata root.
const MappingDocumentName = "devices.xml"

// Filesystem is the locator's view of the board filesystem. It exists as an
// interface so tests and non-OS deployments can substitute their own probing.
type Filesystem interface {
	// MappingDocumentPath returns the path of the root mapping document and
	// whether one is present.
	MappingDocumentPath() (string, bool)

	// DirectoryExists reports whether path exists and is a directory.
	DirectoryExists(path string) bool
}

// OSFilesystem probes the operating system filesystem under Root.
type OSFilesystem struct {
	Root string
}

func (fs OSFilesystem) MappingDocumentPath() (string, bool) {
	p := filepath.Join(fs.Root, MappingDocumentName)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func (fs OSFilesystem) DirectoryExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
