package api

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"

	"github.com/filedeckapp/filedeck-server/internal/browse"
)

func (s *Server) registerFilesystemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listDirectory",
		Method:      http.MethodGet,
		Path:        "/api/v1/fs/list",
		Summary:     "List a directory",
		Description: "Returns the visible entries one level under the given path, with previews for files and child counts for directories.",
		Tags:        []string{"Filesystem"},
	}, s.handleListDirectory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPaths",
		Method:      http.MethodGet,
		Path:        "/api/v1/fs/paths",
		Summary:     "List paths under a directory",
		Description: "Returns the flat paths under the given directory. With deep=true, recurses and returns every file path in the subtree.",
		Tags:        []string{"Filesystem"},
	}, s.handleListPaths)

	huma.Register(s.api, huma.Operation{
		OperationID: "statPath",
		Method:      http.MethodGet,
		Path:        "/api/v1/fs/stat",
		Summary:     "Check whether a path is a directory",
		Description: "Reports whether the path exists and is a directory. A nonexistent path reports false rather than an error.",
		Tags:        []string{"Filesystem"},
	}, s.handleStatPath)

	huma.Register(s.api, huma.Operation{
		OperationID: "openFile",
		Method:      http.MethodGet,
		Path:        "/api/v1/fs/file",
		Summary:     "Open a file",
		Description: "Reads the file fully and returns its UTF-8 content. Binary files are rejected with INVALID_UTF8.",
		Tags:        []string{"Filesystem"},
	}, s.handleOpenFile)
}

// === DTOs ===

// PathInput carries the path parameter common to filesystem operations.
type PathInput struct {
	Path string `query:"path" required:"true" minLength:"1" doc:"Absolute filesystem path"`
}

// ListDirectoryResponse contains a shallow directory listing.
type ListDirectoryResponse struct {
	Path    string         `json:"path" doc:"The listed directory"`
	Entries []browse.Entry `json:"entries" doc:"Visible entries, directories first"`
}

// ListDirectoryOutput wraps the listing for Huma.
type ListDirectoryOutput struct {
	Body ListDirectoryResponse
}

// ListPathsInput contains parameters for the flat path listing.
type ListPathsInput struct {
	Path string `query:"path" required:"true" minLength:"1" doc:"Directory to list"`
	Deep bool   `query:"deep" default:"false" doc:"Recurse into subdirectories, returning file paths only"`
}

// ListPathsResponse contains the flat path listing.
type ListPathsResponse struct {
	Paths []string `json:"paths" doc:"Paths under the directory"`
}

// ListPathsOutput wraps the path listing for Huma.
type ListPathsOutput struct {
	Body ListPathsResponse
}

// StatPathResponse reports directory-ness of a path.
type StatPathResponse struct {
	Path  string `json:"path" doc:"The checked path"`
	IsDir bool   `json:"is_dir" doc:"True if the path exists and is a directory"`
}

// StatPathOutput wraps the stat response for Huma.
type StatPathOutput struct {
	Body StatPathResponse
}

// OpenFileResponse contains a fully-read file.
type OpenFileResponse struct {
	Entry browse.Entry `json:"entry" doc:"File entry with full content"`
}

// OpenFileOutput wraps the opened file for Huma.
type OpenFileOutput struct {
	Body OpenFileResponse
}

// === Handlers ===

func (s *Server) handleListDirectory(ctx context.Context, input *PathInput) (*ListDirectoryOutput, error) {
	path := filepath.Clean(input.Path)

	entries, err := s.browser.ListDir(ctx, path)
	if err != nil {
		return nil, err
	}

	return &ListDirectoryOutput{
		Body: ListDirectoryResponse{
			Path:    path,
			Entries: entries,
		},
	}, nil
}

func (s *Server) handleListPaths(ctx context.Context, input *ListPathsInput) (*ListPathsOutput, error) {
	path := filepath.Clean(input.Path)

	paths, err := s.browser.ListPaths(ctx, path, input.Deep)
	if err != nil {
		return nil, err
	}

	return &ListPathsOutput{
		Body: ListPathsResponse{
			Paths: paths,
		},
	}, nil
}

func (s *Server) handleStatPath(_ context.Context, input *PathInput) (*StatPathOutput, error) {
	path := filepath.Clean(input.Path)

	return &StatPathOutput{
		Body: StatPathResponse{
			Path:  path,
			IsDir: s.browser.IsDir(path),
		},
	}, nil
}

func (s *Server) handleOpenFile(ctx context.Context, input *PathInput) (*OpenFileOutput, error) {
	path := filepath.Clean(input.Path)

	entry, err := s.browser.OpenFile(ctx, path)
	if err != nil {
		return nil, err
	}

	return &OpenFileOutput{
		Body: OpenFileResponse{
			Entry: *entry,
		},
	}, nil
}
