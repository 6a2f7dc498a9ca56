package browse

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "github.com/filedeckapp/filedeck-server/internal/errors"
)

// DefaultPreviewLength is the preview bound used when none is configured.
const DefaultPreviewLength = 100

// Browser lists directories and reads files on behalf of the GUI.
//
// Filesystem calls carry no timeout: a stalled mount blocks the issuing
// command until the kernel returns. The context is threaded through for
// parity with the rest of the codebase, not for syscall cancellation.
type Browser struct {
	logger        *slog.Logger
	previewLength int
}

// NewBrowser creates a browser. previewLength bounds file previews in
// characters; values <= 0 fall back to DefaultPreviewLength.
func NewBrowser(logger *slog.Logger, previewLength int) *Browser {
	if previewLength <= 0 {
		previewLength = DefaultPreviewLength
	}
	return &Browser{
		logger:        logger,
		previewLength: previewLength,
	}
}

// ListDir returns the entries one level under path, skipping dotfiles.
// Directories carry their non-hidden child count; files carry a preview of
// at most the configured length. Unreadable or non-UTF-8 files degrade to
// an empty preview rather than failing the whole listing.
// Entries are sorted directories-first, then case-insensitively by name.
func (b *Browser) ListDir(ctx context.Context, path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, apperrors.FromOS(err, path)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(path, name)

		if de.IsDir() {
			entries = append(entries, DirectoryEntry(name, fullPath, b.countVisibleChildren(fullPath)))
			continue
		}

		entries = append(entries, FileEntry(name, fullPath, b.readPreview(fullPath)))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind == KindDirectory
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// ListPaths flattens the paths under root. With deep=true it collects every
// non-directory path depth-first, descending into subdirectories (hidden
// entries included; only ListDir filters dotfiles). With deep=false it
// returns the immediate entries' paths regardless of type.
func (b *Browser) ListPaths(ctx context.Context, root string, deep bool) ([]string, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, apperrors.FromOS(err, root)
	}

	paths := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fullPath := filepath.Join(root, de.Name())
		if de.IsDir() && deep {
			nested, err := b.ListPaths(ctx, fullPath, deep)
			if err != nil {
				// Keep walking past unreadable subtrees; the root itself
				// already proved readable.
				b.logger.Warn("skipping unreadable subtree", "path", fullPath, "error", err)
				continue
			}
			paths = append(paths, nested...)
		} else {
			paths = append(paths, fullPath)
		}
	}

	return paths, nil
}

// IsDir reports whether path exists and is a directory.
// A nonexistent path is false, not an error.
func (b *Browser) IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// OpenFile reads path fully and returns a file entry with Content set and
// Preview omitted. Read failures and non-UTF-8 content surface as typed
// recoverable errors.
func (b *Browser) OpenFile(ctx context.Context, path string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.FromOS(err, path)
	}

	if !utf8.Valid(data) {
		return nil, apperrors.InvalidUTF8f("file is not valid UTF-8 text: %s", path)
	}

	entry := OpenedFileEntry(filepath.Base(path), path, string(data))
	return &entry, nil
}

// countVisibleChildren counts the non-hidden entries directly under dir.
// An unreadable directory counts as empty; the listing still renders.
func (b *Browser) countVisibleChildren(dir string) int {
	children, err := os.ReadDir(dir)
	if err != nil {
		b.logger.Debug("failed to count children", "path", dir, "error", err)
		return 0
	}

	count := 0
	for _, child := range children {
		if !strings.HasPrefix(child.Name(), ".") {
			count++
		}
	}
	return count
}

// readPreview returns the first previewLength characters of the file.
// Unreadable or non-UTF-8 files yield an empty preview.
func (b *Browser) readPreview(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		b.logger.Debug("failed to read preview", "path", path, "error", err)
		return ""
	}
	if !utf8.Valid(data) {
		b.logger.Debug("skipping preview for non-UTF-8 file", "path", path)
		return ""
	}
	return truncate(string(data), b.previewLength)
}

// truncate bounds s to n characters (runes, not bytes).
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
