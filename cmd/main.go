package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openmocap/pose2motion/pkg/config"
	"github.com/openmocap/pose2motion/pkg/encoder"
	"github.com/openmocap/pose2motion/pkg/model"
	"github.com/openmocap/pose2motion/pkg/usecase"
	"github.com/openmocap/pose2motion/pkg/utils"
)

var (
	logLevel   string
	dirPath    string
	outDir     string
	configPath string
	format     string
	alpha      float64
	fps        float64
	reduce     bool
)

func init() {
	flag.StringVar(&logLevel, "logLevel", "INFO", "set log level")
	flag.StringVar(&dirPath, "dirPath", "", "directory containing *_landmarks.json files")
	flag.StringVar(&outDir, "outDir", "", "output directory (defaults to dirPath)")
	flag.StringVar(&configPath, "config", "", "optional YAML config path")
	flag.StringVar(&format, "format", "all", "output format: bvh, glb or all")
	flag.Float64Var(&alpha, "alpha", 0, "smoothing factor in (0,1], overrides config")
	flag.Float64Var(&fps, "fps", 0, "capture frame rate, overrides config")
	flag.BoolVar(&reduce, "reduce", false, "thin animation keyframes")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch logLevel {
	case "INFO":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func main() {
	if dirPath == "" {
		log.Error().Msg("dirPath must be provided")
		os.Exit(1)
	}
	if outDir == "" {
		outDir = dirPath
	}
	if format != "bvh" && format != "glb" && format != "all" {
		log.Error().Str("format", format).Msg("format must be bvh, glb or all")
		os.Exit(1)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load config")
			os.Exit(1)
		}
		cfg = loaded
	}
	if alpha > 0 {
		cfg.Alpha = alpha
	}
	if fps > 0 {
		cfg.Fps = fps
	}
	if reduce {
		cfg.Reduce = true
	}

	sequences, err := usecase.Unpack(dirPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to unpack")
		os.Exit(1)
	}

	enc := encoder.NewGltfEncoder()
	opts := usecase.AnimationOptions{
		Reduce:            cfg.Reduce,
		PositionTolerance: cfg.PositionTolerance,
		RotationTolerance: cfg.RotationTolerance,
		MinSpacing:        cfg.ReduceSpacing,
	}

	outputs := make(map[string][]byte)
	var mu sync.Mutex
	var wg sync.WaitGroup
	errCh := make(chan error, len(sequences))

	for i, seq := range sequences {
		wg.Add(1)

		go func(i int, seq *model.Sequence) {
			defer wg.Done()

			log.Info().Msgf("Export [%d/%d] %s", i+1, len(sequences), filepath.Base(seq.Path))

			smoothed, err := usecase.Smooth(seq.Frames, cfg.Alpha)
			if err != nil {
				errCh <- err
				return
			}

			if format == "bvh" || format == "all" {
				data, err := usecase.ExportBvh(smoothed, cfg.Fps)
				if err != nil {
					errCh <- err
					return
				}
				mu.Lock()
				outputs[outputPath(seq.Path, ".bvh")] = data
				mu.Unlock()
			}

			if format == "glb" || format == "all" {
				data, err := usecase.ExportAnimation(smoothed, enc, opts)
				if err != nil {
					errCh <- err
					return
				}
				mu.Lock()
				outputs[outputPath(seq.Path, ".glb")] = data
				mu.Unlock()
			}
		}(i, seq)
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		log.Error().Err(err).Msg("Failed to export")
		os.Exit(1)
	}

	if err := utils.WriteMotionFiles(outputs); err != nil {
		log.Error().Err(err).Msg("Failed to write outputs")
		os.Exit(1)
	}

	log.Info().Msg("Done!")
}

func outputPath(inputPath, ext string) string {
	name := strings.Replace(filepath.Base(inputPath), utils.LandmarkFileSuffix, ext, 1)
	return filepath.Join(outDir, name)
}
