package model

// LandmarkCount is the fixed number of slots in one pose sample.
// The layout follows the MediaPipe pose topology; only a subset of
// the indices below is consumed by the export pipeline.
const LandmarkCount = 33

// Landmark indices consumed by the pipeline.
const (
	LandmarkNose          = 0
	LandmarkLeftShoulder  = 11
	LandmarkRightShoulder = 12
	LandmarkLeftElbow     = 13
	LandmarkRightElbow    = 14
	LandmarkLeftWrist     = 15
	LandmarkRightWrist    = 16
	LandmarkLeftHip       = 23
	LandmarkRightHip      = 24
	LandmarkLeftKnee      = 25
	LandmarkRightKnee     = 26
	LandmarkLeftAnkle     = 27
	LandmarkRightAnkle    = 28
)

// Landmark is one tracked anatomical point in meters, with the
// detector's optional confidence score.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
}

// Frame is one timestamped snapshot of all landmarks.
type Frame struct {
	Timestamp float64    `json:"timestamp"`
	Landmarks []Landmark `json:"landmarks"`
}

// Sequence is the landmark stream unpacked from one input file.
type Sequence struct {
	Path   string  `json:"-"`
	Frames []Frame `json:"frames"`
}
