package utils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LandmarkFileSuffix marks the pose-estimation output files consumed
// by the pipeline.
const LandmarkFileSuffix = "_landmarks.json"

// GetLandmarkFilePaths lists the landmark JSON files directly under
// dirPath, without descending into subdirectories.
func GetLandmarkFilePaths(dirPath string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != dirPath && info.IsDir() {
			// only the top level
			return filepath.SkipDir
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), LandmarkFileSuffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// NewProgressBar creates a bar with elapsed/remaining time display.
func NewProgressBar(total int) *pb.ProgressBar {
	template := `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`
	return pb.ProgressBarTemplate(template).Start(total)
}

// WriteMotionFiles writes the serialized outputs in parallel, keyed by
// destination path. The first write error is returned.
func WriteMotionFiles(outputs map[string][]byte) error {
	errCh := make(chan error, len(outputs))
	var wg sync.WaitGroup

	for path, data := range outputs {
		wg.Add(1)
		go func(path string, data []byte) {
			defer wg.Done()

			if err := os.WriteFile(path, data, 0o644); err != nil {
				log.Error().Err(err).Str("path", path).Msg("failed to write motion file")
				errCh <- errors.Wrapf(err, "failed to write %s", path)
				return
			}
			log.Info().Str("path", filepath.Base(path)).Msg("wrote motion file")
		}(path, data)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return <-errCh
	}
	return nil
}
