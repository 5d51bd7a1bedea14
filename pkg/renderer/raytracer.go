package renderer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// DefaultMaxDepth is the recursion limit for reflected rays
const DefaultMaxDepth = 5

// RenderConfig contains rendering configuration
type RenderConfig struct {
	MaxDepth   int // Maximum ray recursion depth
	NumWorkers int // Parallel workers, <= 0 for one per CPU
	TileSize   int // Tile edge length in pixels

	// BoundShadowRays limits the occlusion test to geometry between the
	// surface and the light. When false any hit along the shadow ray,
	// including one beyond the light, shadows the point.
	BoundShadowRays bool
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		MaxDepth:   DefaultMaxDepth,
		NumWorkers: 0,
		TileSize:   32,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() Camera
	GetPrimitives() []geometry.Primitive
	GetLights() []*lights.PointLight
}

// Raytracer traces rays through a read-only scene
type Raytracer struct {
	scene      Scene
	camera     Camera
	primitives []geometry.Primitive
	lights     []*lights.PointLight
	config     RenderConfig
	logger     *slog.Logger
}

// NewRaytracer creates a new raytracer. Zero-valued config fields fall back to defaults.
func NewRaytracer(scene Scene, config RenderConfig) *Raytracer {
	defaults := DefaultRenderConfig()
	if config.MaxDepth <= 0 {
		config.MaxDepth = defaults.MaxDepth
	}
	if config.TileSize <= 0 {
		config.TileSize = defaults.TileSize
	}
	return &Raytracer{
		scene:      scene,
		camera:     scene.GetCamera(),
		primitives: scene.GetPrimitives(),
		lights:     scene.GetLights(),
		config:     config,
		logger:     core.Logger(),
	}
}

// SetLogger routes this raytracer's log output to l instead of the
// process-wide logger. A nil l silences it.
func (rt *Raytracer) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	rt.logger = l
}

// Config returns the effective render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// nearestHit finds the closest primitive hit by the ray, ignoring skip
func (rt *Raytracer) nearestHit(ray core.Ray, skip geometry.Primitive) (geometry.Primitive, float64, bool) {
	var closest geometry.Primitive
	closestSoFar := 0.0

	for _, prim := range rt.primitives {
		if prim == skip {
			continue
		}
		if t, hit := prim.Intersect(ray); hit && (closest == nil || t < closestSoFar) {
			closest = prim
			closestSoFar = t
		}
	}

	return closest, closestSoFar, closest != nil
}

// occluded reports whether any primitive other than skip blocks the ray toward a light
func (rt *Raytracer) occluded(ray core.Ray, lightDistance float64, skip geometry.Primitive) bool {
	for _, prim := range rt.primitives {
		if prim == skip {
			continue
		}
		if t, hit := prim.Intersect(ray); hit && (!rt.config.BoundShadowRays || t < lightDistance) {
			return true
		}
	}
	return false
}

// TraceRay returns the color seen along ray at the given recursion depth.
// The result is unclamped; at depth >= MaxDepth or on a miss it is black.
func (rt *Raytracer) TraceRay(ray core.Ray, depth int) (core.Vec3, error) {
	var stats RenderStats
	return rt.traceRay(ray, depth, nil, &stats)
}

// traceRay is TraceRay for a ray leaving the surface of from (nil for camera rays).
// Sphere and plane are convex, so a ray leaving one can never hit it again.
func (rt *Raytracer) traceRay(ray core.Ray, depth int, from geometry.Primitive, stats *RenderStats) (core.Vec3, error) {
	if depth >= rt.config.MaxDepth {
		stats.MaxDepthHits++
		return core.Zero, nil
	}

	prim, dist, isHit := rt.nearestHit(ray, from)
	if !isHit {
		return core.Zero, nil
	}
	stats.HitRays++

	point := ray.At(dist)
	normal, err := prim.SurfaceNormal(point)
	if err != nil {
		return core.Zero, err
	}
	mat := prim.GetMaterial()

	// Ambient
	color := mat.Color.Multiply(mat.Ambient)

	// Lambertian shading with hard shadows
	for _, light := range rt.lights {
		toLight, lightDistance, err := light.DirectionFrom(point)
		if err != nil {
			return core.Zero, err
		}
		stats.ShadowRays++
		shadowRay := core.Ray{Origin: point, Direction: toLight}
		if rt.occluded(shadowRay, lightDistance, prim) {
			continue
		}
		if intensity := normal.Dot(toLight); intensity > 0 {
			color = color.Add(mat.Color.Multiply(mat.Lambert * intensity))
		}
	}

	// Mirror reflection; a zero coefficient would only add black
	if mat.Specular == 0 {
		return color, nil
	}
	reflected, err := core.NewRay(point, ray.Direction.Reflect(normal))
	if err != nil {
		return core.Zero, fmt.Errorf("reflected ray: %w", err)
	}
	stats.ReflectedRays++
	reflectedColor, err := rt.traceRay(reflected, depth+1, prim, stats)
	if err != nil {
		return core.Zero, err
	}
	return color.Add(reflectedColor.Multiply(mat.Specular)), nil
}

// RenderPixel traces the primary ray for pixel (x, y)
func (rt *Raytracer) RenderPixel(x, y int) (core.Vec3, error) {
	var stats RenderStats
	return rt.renderPixel(x, y, &stats)
}

func (rt *Raytracer) renderPixel(x, y int, stats *RenderStats) (core.Vec3, error) {
	ray, err := rt.camera.RayAt(x, y)
	if err != nil {
		return core.Zero, fmt.Errorf("pixel (%d, %d): camera ray: %w", x, y, err)
	}
	stats.PrimaryRays++
	color, err := rt.traceRay(ray, 0, nil, stats)
	if err != nil {
		return core.Zero, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
	}
	return color, nil
}

// RenderBounds renders pixels within bounds into grid. It stops at the first
// failing pixel.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, grid *core.PixelGrid) (RenderStats, error) {
	var stats RenderStats

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, err := rt.renderPixel(x, y, &stats)
			if err != nil {
				return stats, err
			}
			grid.Set(x, y, color)
			stats.TotalPixels++
		}
	}

	return stats, nil
}

// Render traces every pixel of the camera's image in parallel tiles.
// The grid is returned only once every tile has finished; any pixel error
// aborts the render.
func (rt *Raytracer) Render(ctx context.Context) (*core.PixelGrid, RenderStats, error) {
	startTime := time.Now()
	width, height := rt.camera.Resolution()
	grid := core.NewPixelGrid(width, height)
	tiles := NewTileGrid(width, height, rt.config.TileSize)

	tileCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewWorkerPool(rt, rt.config.NumWorkers, len(tiles))
	rt.logger.Info("render started",
		"width", width, "height", height,
		"primitives", len(rt.primitives), "lights", len(rt.lights),
		"tiles", len(tiles), "workers", pool.GetNumWorkers(),
		"maxDepth", rt.config.MaxDepth)

	pool.Start(tileCtx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Grid: grid})
	}

	var stats RenderStats
	var pixelErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			// Tiles skipped after cancellation report the context error
			if pixelErr == nil && tileCtx.Err() == nil {
				pixelErr = result.Error
			}
			cancel()
			continue
		}
		stats.Merge(result.Stats)
	}
	pool.Stop()

	err := pixelErr
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		rt.logger.Warn("render aborted", "error", err)
		return nil, stats, err
	}

	stats.Duration = time.Since(startTime)
	rt.logger.Info("render finished", "duration", stats.Duration, "rays", stats.TotalRays())
	return grid, stats, nil
}
