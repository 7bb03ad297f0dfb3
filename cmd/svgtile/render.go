package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"seehuhn.de/go/svgrender"
	"seehuhn.de/go/svgrender/testcases"
)

// renderOpts holds the flags of the render command. Flags which are set
// override the configuration file.
type renderOpts struct {
	outDir       string
	mode         string
	samplingRate int
	cacheSize    int
	workers      int
}

func (c *cli) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [scene...]",
		Short: "Render scenes to PNG files and report cache statistics",
		Long:  "Render the named sample scenes, or all of them if none are given, and write one PNG file per scene.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			flags := cmd.Flags()
			if flags.Changed("mode") {
				cfg.Cache.Mode = opts.mode
			}
			if flags.Changed("sampling-rate") {
				cfg.Cache.SamplingRate = opts.samplingRate
			}
			if flags.Changed("cache-size") {
				cfg.Cache.Size = opts.cacheSize
			}
			if flags.Changed("workers") {
				cfg.Render.Workers = opts.workers
			}

			names, err := sceneNames(args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), names, cfg, opts.outDir)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "cache mode: snapshot (default), shared, isolated")
	cmd.Flags().IntVar(&opts.samplingRate, "sampling-rate", 0, "quantization steps per device pixel")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 0, "maximum number of cached tile pairs")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "number of bands rendered concurrently")

	return cmd
}

// sceneNames validates the requested scene names. No names means all
// scenes, in alphabetical order.
func sceneNames(args []string) ([]string, error) {
	if len(args) == 0 {
		return slices.Sorted(maps.Keys(testcases.All)), nil
	}
	for _, name := range args {
		if _, ok := testcases.All[name]; !ok {
			return nil, fmt.Errorf("unknown scene %q", name)
		}
	}
	return args, nil
}

func (c *cli) runRender(ctx context.Context, names []string, cfg config, outDir string) error {
	cacheOpts, err := cfg.cacheOptions()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	var total svgrender.CacheStats
	for _, name := range names {
		sc := testcases.All[name]
		prog := newProgress(c.logger)

		img := image.NewRGBA(image.Rect(0, 0, sc.Width, sc.Height))
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

		r := svgrender.NewRenderer(img, cfg.rendererOptions()...)
		stats, err := svgrender.RenderScene(ctx, r, sc, cacheOpts...)
		if err != nil {
			return err
		}
		total = total.Add(stats)

		fname := filepath.Join(outDir, name+".png")
		if err := writePNG(fname, img); err != nil {
			return err
		}
		prog.done("rendered "+name,
			"file", fname,
			"entries", stats.Entries,
			"hits", stats.Hits,
			"misses", stats.Misses,
			"rejected", stats.Rejected)
	}

	if len(names) > 1 {
		c.logger.Info("total",
			"scenes", len(names),
			"entries", total.Entries,
			"hits", total.Hits,
			"misses", total.Misses,
			"hit rate", hitRate(total))
	}
	return nil
}

func hitRate(s svgrender.CacheStats) string {
	n := s.Hits + s.Misses
	if n == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(s.Hits)/float64(n))
}

func writePNG(fname string, img image.Image) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fname, err)
	}
	return f.Close()
}
