// Package browse implements directory enumeration, file reading, and
// climb-up path resolution for the FileDeck shell.
package browse

// Kind discriminates the two entry variants.
type Kind string

const (
	// KindFile marks a regular (non-directory) entry.
	KindFile Kind = "file"
	// KindDirectory marks a directory entry.
	KindDirectory Kind = "directory"
)

// Entry is a single filesystem entry as presented to the GUI.
//
// For files, exactly one of Content and Preview is set: listing populates
// Preview (a bounded excerpt), opening populates Content (the full text).
// For directories, ChildCount counts only non-hidden children.
type Entry struct {
	Kind       Kind    `json:"kind"`
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	Content    *string `json:"content,omitempty"`
	Preview    *string `json:"preview,omitempty"`
	ChildCount *int    `json:"child_count,omitempty"`
}

// FileEntry builds a file entry with a preview excerpt.
func FileEntry(name, path, preview string) Entry {
	return Entry{Kind: KindFile, Name: name, Path: path, Preview: &preview}
}

// OpenedFileEntry builds a file entry with full content and no preview.
func OpenedFileEntry(name, path, content string) Entry {
	return Entry{Kind: KindFile, Name: name, Path: path, Content: &content}
}

// DirectoryEntry builds a directory entry.
func DirectoryEntry(name, path string, childCount int) Entry {
	return Entry{Kind: KindDirectory, Name: name, Path: path, ChildCount: &childCount}
}
