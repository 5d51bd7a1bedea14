package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// SSEEvent represents a single server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "console", "complete", "error"
	Data string `json:"data"` // JSON-encoded data
}

// CompleteUpdate is the payload of the final "complete" event
type CompleteUpdate struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// handleRender renders a scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	grid, stats, err := newRaytracer(sceneObj, req).Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			// Client disconnected
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("render failed: %w", err))
		return
	}

	var buf bytes.Buffer
	if err := output.EncodePreview(&buf, grid, req.Format, req.Scale); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to encode image: %w", err))
		return
	}

	s.logger.Info("render served", "scene", req.Scene, "width", grid.Width, "height", grid.Height,
		"format", req.Format, "rays", stats.TotalRays(), "duration", stats.Duration)

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Rays", strconv.Itoa(stats.TotalRays()))
	w.Header().Set("X-Render-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderStream renders a scene while streaming the renderer's log as
// SSE console events, then sends the image in a final "complete" event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := parseRenderRequest(r)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	consoleChan := make(chan ConsoleMessage, 256)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	raytracer := newRaytracer(sceneObj, req)
	raytracer.SetLogger(slog.New(NewConsoleHandler(renderID, slog.LevelDebug, consoleChan)))

	type renderResult struct {
		grid  *core.PixelGrid
		stats renderer.RenderStats
		err   error
	}
	done := make(chan renderResult, 1)
	go func() {
		grid, stats, err := raytracer.Render(ctx)
		done <- renderResult{grid, stats, err}
	}()

	// This goroutine is the only writer to w
	for {
		select {
		case msg := <-consoleChan:
			if !s.writeConsoleMessage(w, msg) {
				return
			}
		case result := <-done:
			s.drainConsole(w, consoleChan)
			if result.err != nil {
				if ctx.Err() == nil {
					s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", result.err)})
				}
				return
			}
			s.writeComplete(w, result.grid, result.stats)
			return
		case <-ctx.Done():
			// Client disconnected; the render sees the same context and stops
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			if !s.writeConsoleMessage(w, msg) {
				return
			}
		default:
			return
		}
	}
}

func (s *Server) writeConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("failed to marshal console message", "error", err)
		return true
	}
	return s.writeSSEEvent(w, SSEEvent{Type: "console", Data: string(data)})
}

func (s *Server) writeComplete(w http.ResponseWriter, grid *core.PixelGrid, stats renderer.RenderStats) {
	imageData, err := imageToBase64PNG(grid)
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("failed to encode image: %v", err)})
		return
	}

	data, err := json.Marshal(CompleteUpdate{
		Width:     grid.Width,
		Height:    grid.Height,
		ImageData: imageData,
		Stats:     newStats(stats),
	})
	if err != nil {
		s.writeSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}
	s.writeSSEEvent(w, SSEEvent{Type: "complete", Data: string(data)})
}

// writeSSEEvent writes and flushes one event, reporting whether the client is still reachable
func (s *Server) writeSSEEvent(w http.ResponseWriter, event SSEEvent) bool {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return false
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return true
}

// imageToBase64PNG encodes the grid as a base64 PNG
func imageToBase64PNG(grid *core.PixelGrid) (string, error) {
	var buf bytes.Buffer
	if err := output.EncodePreview(&buf, grid, output.FormatPNG, 1); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
