package usecase

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/openmocap/pose2motion/pkg/model"
	"github.com/openmocap/pose2motion/pkg/utils"
)

// Unpack loads every landmark JSON file directly under dirPath into a
// validated sequence, one per capture.
func Unpack(dirPath string) ([]*model.Sequence, error) {
	log.Info().Msg("Start: Unpack =============================")

	jsonPaths, err := utils.GetLandmarkFilePaths(dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list landmark files in %s", dirPath)
	}
	if len(jsonPaths) == 0 {
		return nil, errors.Errorf("no landmark files found in %s", dirPath)
	}

	sequences := make([]*model.Sequence, len(jsonPaths))

	bar := utils.NewProgressBar(len(jsonPaths))
	for i, path := range jsonPaths {
		bar.Increment()
		log.Info().Str("path", filepath.Base(path)).Msgf("[%d/%d] Unpack ...", i+1, len(jsonPaths))

		seq, err := readSequence(path)
		if err != nil {
			return nil, err
		}
		sequences[i] = seq
	}
	bar.Finish()

	log.Info().Msg("End: Unpack =============================")

	return sequences, nil
}

func readSequence(path string) (*model.Sequence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	seq := &model.Sequence{Path: path}
	if err := json.NewDecoder(file).Decode(seq); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	if err := validateSequence(seq); err != nil {
		return nil, errors.Wrapf(err, "invalid sequence %s", path)
	}
	return seq, nil
}

// validateSequence enforces the input contract: a non-empty frame
// list, strictly increasing timestamps, and a constant landmark count
// across all frames.
func validateSequence(seq *model.Sequence) error {
	if len(seq.Frames) == 0 {
		return errors.New("sequence has no frames")
	}

	count := len(seq.Frames[0].Landmarks)
	for i, frame := range seq.Frames {
		if i > 0 && frame.Timestamp <= seq.Frames[i-1].Timestamp {
			return errors.Errorf("timestamps not strictly increasing at frame %d", i)
		}
		if len(frame.Landmarks) != count {
			return errors.Errorf("frame %d has %d landmarks, expected %d", i, len(frame.Landmarks), count)
		}
	}
	return nil
}
