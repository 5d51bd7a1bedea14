package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}
	if opts.sceneName != "default" || opts.scale != 1 || len(opts.outputs) != 0 {
		t.Errorf("Unexpected defaults %+v", opts)
	}

	opts, err = parseFlags([]string{"-scene", "mirror", "-out", "a.ppm, b.png,,c.bmp", "-depth", "3", "-bound-shadows"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}
	if len(opts.outputs) != 3 || opts.outputs[1] != "b.png" {
		t.Errorf("Expected three outputs, got %q", opts.outputs)
	}
	if opts.maxDepth != 3 || !opts.boundShadows || opts.sceneName != "mirror" {
		t.Errorf("Unexpected options %+v", opts)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown output format", []string{"-out", "render.gif"}},
		{"negative width", []string{"-width", "-1"}},
		{"negative depth", []string{"-depth", "-2"}},
		{"zero scale", []string{"-scale", "0"}},
		{"unknown flag", []string{"-samples", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args, io.Discard); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}

	var usage bytes.Buffer
	if _, err := parseFlags([]string{"-help"}, &usage); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(usage.String(), "-bound-shadows") {
		t.Errorf("Expected usage to list flags, got %q", usage.String())
	}
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneName   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"mirror scene", "mirror", false},
		{"single scene", "single", false},
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, name, err := createScene(options{sceneName: tt.sceneName, width: 16, height: 12})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneName)
				}
				if s != nil {
					t.Errorf("Expected nil scene for '%s'", tt.sceneName)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneName, err)
			}
			if name != tt.sceneName {
				t.Errorf("Expected name %q, got %q", tt.sceneName, name)
			}
			w, h := s.GetCamera().Resolution()
			if w != 16 || h != 12 {
				t.Errorf("Expected 16x12, got %dx%d", w, h)
			}
		})
	}
}

func TestCreateScene_FromFile(t *testing.T) {
	original, err := scene.NewMirrorScene(40, 30)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "my-mirror.json")
	if err := loaders.SaveSceneFile(path, original); err != nil {
		t.Fatal(err)
	}

	s, name, err := createScene(options{sceneFile: path, width: 20})
	if err != nil {
		t.Fatalf("createScene() error: %v", err)
	}
	if name != "my-mirror" {
		t.Errorf("Expected name from file, got %q", name)
	}
	w, h := s.GetCamera().Resolution()
	if w != 20 || h != 30 {
		t.Errorf("Expected width override to 20x30, got %dx%d", w, h)
	}

	if _, _, err := createScene(options{sceneFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("Expected error for missing scene file")
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"default", filepath.Join("output", "default")},
		{"mirror", filepath.Join("output", "mirror")},
		{"", filepath.Join("output", "scene")},
	}

	for _, tt := range tests {
		if got := createOutputDir(tt.name); got != tt.expected {
			t.Errorf("createOutputDir(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestDefaultOutputs(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	outputs := defaultOutputs("output/default", now)

	expected := []string{
		filepath.Join("output", "default", "render_20240309_140507.ppm"),
		filepath.Join("output", "default", "render_20240309_140507.png"),
	}
	if len(outputs) != 2 || outputs[0] != expected[0] || outputs[1] != expected[1] {
		t.Errorf("defaultOutputs() = %q, want %q", outputs, expected)
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, renderer.RenderStats{TotalPixels: 1234567, PrimaryRays: 1234567, ShadowRays: 2000000})

	if !strings.Contains(buf.String(), "Pixels: 1,234,567, rays: 3,234,567") {
		t.Errorf("Expected grouped counts, got %q", buf.String())
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	ppmPath := filepath.Join(dir, "out.ppm")
	pngPath := filepath.Join(dir, "out.png")
	scenePath := filepath.Join(dir, "scene.json")

	var stdout bytes.Buffer
	args := []string{
		"-scene", "single", "-width", "24", "-height", "16",
		"-out", ppmPath + "," + pngPath,
		"-dump-scene", scenePath,
		"-workers", "2",
	}
	if err := run(context.Background(), args, &stdout, io.Discard); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	grid, err := loaders.LoadImage(ppmPath)
	if err != nil {
		t.Fatalf("Failed to load PPM output: %v", err)
	}
	if grid.Width != 24 || grid.Height != 16 {
		t.Errorf("Expected 24x16 output, got %dx%d", grid.Width, grid.Height)
	}

	fromPNG, err := loaders.LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG output: %v", err)
	}
	diff, err := output.Compare(grid, fromPNG)
	if err != nil {
		t.Fatal(err)
	}
	if diff.MaxDelta != 0 {
		t.Errorf("PNG and PPM outputs differ: %+v", diff)
	}

	if _, err := os.Stat(scenePath); err != nil {
		t.Errorf("Expected scene description to be written: %v", err)
	}
	for _, want := range []string{"Render completed", "Render saved as " + ppmPath, "Render saved as " + pngPath} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, stdout.String())
		}
	}

	// Rendering again with -compare against the first result reports no difference
	stdout.Reset()
	args = []string{"-file", scenePath, "-out", filepath.Join(dir, "again.bmp"), "-compare", ppmPath}
	if err := run(context.Background(), args, &stdout, io.Discard); err != nil {
		t.Fatalf("run() with -compare error: %v", err)
	}
	if !strings.Contains(stdout.String(), "0 of 384 pixels differ") {
		t.Errorf("Expected identical re-render, got:\n%s", stdout.String())
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "out.ppm")
	err := run(ctx, []string{"-scene", "single", "-width", "8", "-height", "8", "-out", out}, io.Discard, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Error("Expected no output file for a cancelled render")
	}
}
