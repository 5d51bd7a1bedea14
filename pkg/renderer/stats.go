package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels   int           // Number of pixels rendered
	PrimaryRays   int           // Camera rays traced
	ReflectedRays int           // Secondary rays traced for mirror reflection
	ShadowRays    int           // Occlusion tests toward lights
	HitRays       int           // Rays (primary or reflected) that hit a primitive
	MaxDepthHits  int           // Recursions cut off by the depth limit
	Duration      time.Duration // Wall time of the render
}

// TotalRays returns the number of rays of any kind
func (s RenderStats) TotalRays() int {
	return s.PrimaryRays + s.ReflectedRays + s.ShadowRays
}

// Merge adds the counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.PrimaryRays += other.PrimaryRays
	s.ReflectedRays += other.ReflectedRays
	s.ShadowRays += other.ShadowRays
	s.HitRays += other.HitRays
	s.MaxDepthHits += other.MaxDepthHits
}
