package api

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"

	"github.com/filedeckapp/filedeck-server/internal/sse"
)

func (s *Server) registerWatchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "armWatch",
		Method:        http.MethodPost,
		Path:          "/api/v1/watches",
		Summary:       "Arm a filesystem watch",
		Description:   "Starts watching the path recursively. A nonexistent path is resolved to its nearest existing ancestor first. Arming a path that is already watched succeeds.",
		Tags:          []string{"Watches"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleArmWatch)

	huma.Register(s.api, huma.Operation{
		OperationID:   "disarmWatch",
		Method:        http.MethodDelete,
		Path:          "/api/v1/watches",
		Summary:       "Disarm a filesystem watch",
		Description:   "Stops watching the path and everything beneath it. Disarming a path that is not watched returns NOT_WATCHING.",
		Tags:          []string{"Watches"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDisarmWatch)
}

// === DTOs ===

// WatchRequest names the watch target.
type WatchRequest struct {
	Path string `json:"path" required:"true" minLength:"1" doc:"Filesystem path to watch"`
}

// WatchInput wraps the watch request body for Huma.
type WatchInput struct {
	Body WatchRequest
}

// WatchOutput is the empty success response for watch mutations.
type WatchOutput struct{}

// === Handlers ===

func (s *Server) handleArmWatch(_ context.Context, input *WatchInput) (*WatchOutput, error) {
	path := filepath.Clean(input.Body.Path)

	if err := s.registry.Arm(path); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewWatchArmedEvent(path))
	return &WatchOutput{}, nil
}

func (s *Server) handleDisarmWatch(_ context.Context, input *WatchInput) (*WatchOutput, error) {
	path := filepath.Clean(input.Body.Path)

	if err := s.registry.Disarm(path); err != nil {
		return nil, err
	}

	s.sseManager.Emit(sse.NewWatchDisarmedEvent(path))
	return &WatchOutput{}, nil
}
