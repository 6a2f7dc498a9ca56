package browse

import (
	"os"
	"path/filepath"
)

// ResolveExisting returns the deepest existing ancestor of path, or path
// itself (cleaned) when it exists. A path may stop existing between the GUI
// enumerating it and a follow-up request arriving; resolution walks upward
// until something on disk answers, so the caller always gets a watchable
// location.
//
// The walk bottoms out at the filesystem root (filepath.Dir returns its own
// argument), which is returned even if it cannot be stat'd. No error is
// ever returned; the function only reads metadata.
func ResolveExisting(path string) string {
	p := filepath.Clean(path)
	for {
		// Lstat, not Stat: a dangling symlink still exists as a watch target.
		if _, err := os.Lstat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return parent
		}
		p = parent
	}
}
