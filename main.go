package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	sceneName    string
	sceneFile    string
	outputs      []string
	width        int
	height       int
	maxDepth     int
	workers      int
	scale        int
	boundShadows bool
	verbose      bool
	compare      string
	dumpScene    string
	list         bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var outList string

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.sceneName, "scene", "default", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	fs.StringVar(&opts.sceneFile, "file", "", "Load the scene from a JSON file instead of -scene")
	fs.StringVar(&outList, "out", "", "Comma-separated output files (.ppm, .png, .bmp, .jpg); default output/<scene>/render_<timestamp>.{ppm,png}")
	fs.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.maxDepth, "depth", 0, fmt.Sprintf("Maximum recursion depth (0 = scene default, else %d)", renderer.DefaultMaxDepth))
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&opts.scale, "scale", 1, "Integer upscale factor for raster outputs")
	fs.BoolVar(&opts.boundShadows, "bound-shadows", false, "Ignore occluders beyond the light when testing shadows")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.StringVar(&opts.compare, "compare", "", "Reference image to compare the render against")
	fs.StringVar(&opts.dumpScene, "dump-scene", "", "Write the scene description as JSON to this file")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	help := fs.Bool("help", false, "Show help information")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Whitted Raytracer")
		fmt.Fprintln(stderr, "Usage: raytracer [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if *help {
		fs.Usage()
		return opts, flag.ErrHelp
	}

	if opts.width < 0 || opts.height < 0 {
		return opts, fmt.Errorf("image size %dx%d must not be negative", opts.width, opts.height)
	}
	if opts.maxDepth < 0 {
		return opts, fmt.Errorf("depth %d must not be negative", opts.maxDepth)
	}
	if opts.scale < 1 {
		return opts, fmt.Errorf("scale %d must be at least 1", opts.scale)
	}

	for _, out := range strings.Split(outList, ",") {
		if out = strings.TrimSpace(out); out != "" {
			if _, err := output.ParseFormat(filepath.Ext(out)); err != nil {
				return opts, err
			}
			opts.outputs = append(opts.outputs, out)
		}
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer core.SetLogger(nil)

	if opts.list {
		return listScenes(stdout)
	}

	fmt.Fprintln(stdout, "Starting Whitted Raytracer...")

	selectedScene, name, err := createScene(opts)
	if err != nil {
		return err
	}

	if opts.dumpScene != "" {
		if err := loaders.SaveSceneFile(opts.dumpScene, selectedScene); err != nil {
			return fmt.Errorf("failed to write scene description: %w", err)
		}
		fmt.Fprintf(stdout, "Scene description saved as %s\n", opts.dumpScene)
	}

	config := selectedScene.RenderConfig()
	if opts.maxDepth > 0 {
		config.MaxDepth = opts.maxDepth
	}
	config.NumWorkers = opts.workers
	config.BoundShadowRays = opts.boundShadows

	width, height := selectedScene.GetCamera().Resolution()
	fmt.Fprintf(stdout, "Rendering %s at %dx%d (max depth %d)...\n", name, width, height, config.MaxDepth)

	raytracer := renderer.NewRaytracer(selectedScene, config)
	grid, stats, err := raytracer.Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	printStats(stdout, stats)

	outputs := opts.outputs
	if len(outputs) == 0 {
		outputs = defaultOutputs(createOutputDir(name), time.Now())
	}
	for _, path := range outputs {
		if err := output.SaveFile(path, grid, opts.scale); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Render saved as %s\n", path)
	}

	if opts.compare != "" {
		return compareWithReference(stdout, grid, opts.compare)
	}
	return nil
}

// createScene builds the scene selected by -file or -scene and returns it
// with the name used for the output directory
func createScene(opts options) (*scene.Scene, string, error) {
	if opts.sceneFile == "" {
		s, err := scene.ByName(opts.sceneName, opts.width, opts.height)
		if err != nil {
			return nil, "", err
		}
		return s, opts.sceneName, nil
	}

	f, err := os.Open(opts.sceneFile)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	desc, err := loaders.DecodeScene(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", opts.sceneFile, err)
	}
	if opts.width > 0 {
		desc.Camera.Width = opts.width
	}
	if opts.height > 0 {
		desc.Camera.Height = opts.height
	}

	s, err := scene.Build(desc)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", opts.sceneFile, err)
	}

	base := filepath.Base(opts.sceneFile)
	return s, strings.TrimSuffix(base, filepath.Ext(base)), nil
}

// createOutputDir returns the directory renders of the named scene are saved to
func createOutputDir(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "scene"
	}
	return filepath.Join("output", base)
}

func defaultOutputs(dir string, now time.Time) []string {
	stem := filepath.Join(dir, "render_"+now.Format("20060102_150405"))
	return []string{stem + ".ppm", stem + ".png"}
}

func printStats(w io.Writer, stats renderer.RenderStats) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Render completed in %v\n", stats.Duration.Round(time.Millisecond))
	p.Fprintf(w, "Pixels: %d, rays: %d (%d primary, %d reflected, %d shadow)\n",
		stats.TotalPixels, stats.TotalRays(), stats.PrimaryRays, stats.ReflectedRays, stats.ShadowRays)
	p.Fprintf(w, "Hits: %d, depth limit reached: %d\n", stats.HitRays, stats.MaxDepthHits)
}

func listScenes(w io.Writer) error {
	response, err := scene.ListAllScenes("scenes")
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, s := range group.Scenes {
			id := s.ID
			if s.FilePath != "" {
				id = s.FilePath
			}
			fmt.Fprintf(w, "  %-24s %s\n", id, s.Description)
		}
	}
	return nil
}

func compareWithReference(w io.Writer, grid *core.PixelGrid, path string) error {
	reference, err := loaders.LoadImage(path)
	if err != nil {
		return err
	}
	diff, err := output.Compare(grid, reference)
	if err != nil {
		return fmt.Errorf("compare with %s: %w", path, err)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Compared with %s: %d of %d pixels differ, max delta %d, RMSE %.3f\n",
		path, diff.DifferingPixels, diff.TotalPixels, diff.MaxDelta, diff.RMSE)
	return nil
}
