package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"seehuhn.de/go/svgrender"
)

// config is the contents of the optional configuration file. Zero values
// select the library defaults.
//
//	[cache]
//	size = 4096
//	sampling_rate = 8
//	mode = "shared"
//
//	[render]
//	workers = 4
//	band_height = 64
type config struct {
	Cache  cacheConfig  `toml:"cache"`
	Render renderConfig `toml:"render"`
}

type cacheConfig struct {
	Size         int    `toml:"size"`
	SamplingRate int    `toml:"sampling_rate"`
	Mode         string `toml:"mode"`
}

type renderConfig struct {
	Workers    int `toml:"workers"`
	BandHeight int `toml:"band_height"`
}

// loadConfig reads a configuration file. Unknown keys are an error, so
// that typos do not go unnoticed.
func loadConfig(path string) (config, error) {
	var cfg config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return config{}, fmt.Errorf("reading config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return config{}, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if _, err := svgrender.ParseCacheMode(cfg.Cache.Mode); err != nil {
		return config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// cacheOptions converts the cache section into library options.
func (cfg config) cacheOptions() ([]svgrender.CacheOption, error) {
	mode, err := svgrender.ParseCacheMode(cfg.Cache.Mode)
	if err != nil {
		return nil, err
	}
	return []svgrender.CacheOption{
		svgrender.WithCacheSize(cfg.Cache.Size),
		svgrender.WithSamplingRate(cfg.Cache.SamplingRate),
		svgrender.WithCacheMode(mode),
	}, nil
}

// rendererOptions converts the render section into library options.
func (cfg config) rendererOptions() []svgrender.RendererOption {
	return []svgrender.RendererOption{
		svgrender.WithWorkers(cfg.Render.Workers),
		svgrender.WithBandHeight(cfg.Render.BandHeight),
	}
}
