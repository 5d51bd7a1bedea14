package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits
const (
	MinSize      = 1
	MaxSize      = 2000
	MaxDepth     = 50
	MaxScale     = 8
	DefaultScene = "default"
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewServer creates a new web server. Scene files are discovered in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		logger:    core.Logger(),
		mux:       http.NewServeMux(),
	}

	// API endpoints
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/render-stream", s.handleRenderStream)
	s.mux.HandleFunc("GET /api/inspect", s.handleInspect)
	s.mux.HandleFunc("GET /api/scenes", s.handleScenes)
	s.mux.HandleFunc("GET /api/scene", s.handleScene)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	return s
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "addr", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene        string        `json:"scene"`  // Built-in scene name or "file:<name>"
	Width        int           `json:"width"`  // Image width, 0 for the scene default
	Height       int           `json:"height"` // Image height, 0 for the scene default
	MaxDepth     int           `json:"maxDepth"`
	BoundShadows bool          `json:"boundShadows"`
	Format       output.Format `json:"format"`
	Scale        int           `json:"scale"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels   int   `json:"totalPixels"`
	TotalRays     int   `json:"totalRays"`
	PrimaryRays   int   `json:"primaryRays"`
	ReflectedRays int   `json:"reflectedRays"`
	ShadowRays    int   `json:"shadowRays"`
	HitRays       int   `json:"hitRays"`
	MaxDepthHits  int   `json:"maxDepthHits"`
	ElapsedMs     int64 `json:"elapsedMs"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:   stats.TotalPixels,
		TotalRays:     stats.TotalRays(),
		PrimaryRays:   stats.PrimaryRays,
		ReflectedRays: stats.ReflectedRays,
		ShadowRays:    stats.ShadowRays,
		HitRays:       stats.HitRays,
		MaxDepthHits:  stats.MaxDepthHits,
		ElapsedMs:     stats.Duration.Milliseconds(),
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleScene returns the JSON description of a scene
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
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
	desc, err := scene.Describe(sceneObj)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := loaders.EncodeScene(w, desc); err != nil {
		s.logger.Warn("failed to write scene", "error", err)
	}
}

// parseRenderRequest parses and validates query parameters
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = DefaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, MinSize, MaxSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinSize, MaxSize); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 0, 1, MaxDepth); err != nil {
		return nil, err
	}
	if req.Scale, err = parseIntParam(query, "scale", 1, 1, MaxScale); err != nil {
		return nil, err
	}
	if v := query.Get("boundShadows"); v != "" {
		if req.BoundShadows, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid boundShadows: %s", v)
		}
	}

	req.Format = output.FormatPNG
	if v := query.Get("format"); v != "" {
		if req.Format, err = output.ParseFormat(v); err != nil {
			return nil, err
		}
	}

	if req.Width*req.Height > 1000*1000 {
		core.Logger().Warn("large render requested", "width", req.Width, "height", req.Height)
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// errSceneNotFound marks requests for scenes that do not exist
var errSceneNotFound = errors.New("scene not found")

// createScene builds the requested built-in scene or scene file
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	for _, info := range listSceneFiles(s.scenesDir) {
		if info.ID != req.Scene {
			continue
		}
		sceneObj, err := loaders.LoadSceneFile(info.FilePath)
		if err != nil {
			return nil, err
		}
		if req.Width > 0 || req.Height > 0 {
			return resize(sceneObj, req.Width, req.Height)
		}
		return sceneObj, nil
	}

	sceneObj, err := scene.ByName(req.Scene, req.Width, req.Height)
	if errors.Is(err, scene.ErrUnknownScene) {
		return nil, fmt.Errorf("%w: %s", errSceneNotFound, req.Scene)
	}
	return sceneObj, err
}

func listSceneFiles(dir string) []scene.SceneInfo {
	infos, err := scene.ListJSONScenes(dir)
	if err != nil {
		return nil
	}
	return infos
}

// resize rebuilds a file scene at a different resolution
func resize(s *scene.Scene, width, height int) (*scene.Scene, error) {
	desc, err := scene.Describe(s)
	if err != nil {
		return nil, err
	}
	if width > 0 {
		desc.Camera.Width = width
	}
	if height > 0 {
		desc.Camera.Height = height
	}
	return scene.Build(desc)
}

// newRaytracer applies the request's render overrides to the scene's configuration
func newRaytracer(sceneObj *scene.Scene, req *RenderRequest) *renderer.Raytracer {
	config := sceneObj.RenderConfig()
	if req.MaxDepth > 0 {
		config.MaxDepth = req.MaxDepth
	}
	config.BoundShadowRays = req.BoundShadows
	return renderer.NewRaytracer(sceneObj, config)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errSceneNotFound):
		return http.StatusNotFound
	case errors.Is(err, scene.ErrInvalidScene):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
