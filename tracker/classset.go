package tracker

import (
	"sort"

	"github.com/fieldvision/go-fieldtrack/detect"
)

// virtual pixel frame dimensions used internally by the trackers, detections
// arrive in normalized 0-1 coordinates and are scaled up so the motion model
// operates at a consistent pixel scale regardless of source resolution
const (
	virtualWidth  = 1920.0
	virtualHeight = 1080.0
)

// ClassConfig pairs a detection class with the tracker parameters to use
// for it
type ClassConfig struct {
	ClassName string
	Params    Params
}

// DefaultPlayerParams returns tracker parameters tuned for tracking people
// on a sports field
func DefaultPlayerParams() Params {
	return Params{
		ActivationThreshold: 0.3,
		MatchThreshold:      0.8,
		MissBuffer:          30,
	}
}

// DefaultBallParams returns tracker parameters tuned for tracking a ball,
// which is small, fast moving and frequently occluded
func DefaultBallParams() Params {
	return Params{
		ActivationThreshold: 0.25,
		MatchThreshold:      0.7,
		MissBuffer:          10,
	}
}

// TrackedDetection is a detection that has been associated with a track
type TrackedDetection struct {
	// TrackID is the stable identity assigned by the tracker
	TrackID int
	// FrameNumber is the source video frame the detection was made on
	FrameNumber int
	// Timestamp is the frame time in seconds from the start of the video
	Timestamp float64
	// Box is the bounding box in normalized 0-1 coordinates
	Box detect.Box
	// Center is the box center in normalized 0-1 coordinates
	Center detect.Point
	// Confidence is the detection confidence score
	Confidence float32
	// ClassName is the detection class label
	ClassName string
}

// ClassTrackerSet partitions detections by class and runs an independent
// tracking engine for each class so identities never cross classes and each
// class can use its own tuning
type ClassTrackerSet struct {
	frameRate float64
	entries   []classEntry
}

type classEntry struct {
	name   string
	engine *Engine
}

// NewClassTrackerSet creates a tracker set with one engine per configured
// class.  Detections of classes without a configuration are dropped.
func NewClassTrackerSet(frameRate float64, configs []ClassConfig) *ClassTrackerSet {

	s := &ClassTrackerSet{
		frameRate: frameRate,
	}

	for _, cfg := range configs {
		s.entries = append(s.entries, classEntry{
			name:   cfg.ClassName,
			engine: NewEngine(cfg.Params),
		})
	}

	// fixed class order keeps update results and id assignment repeatable
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].name < s.entries[j].name
	})

	return s
}

// ClassNames returns the configured class names in their processing order
func (s *ClassTrackerSet) ClassNames() []string {

	names := make([]string, len(s.entries))

	for i, e := range s.entries {
		names[i] = e.name
	}

	return names
}

// Update advances every class tracker one frame and returns the tracked
// detections grouped by class name.  Classes with no active tracks map to an
// empty slice.
func (s *ClassTrackerSet) Update(detections []detect.Detection,
	frameNumber int) (map[string][]TrackedDetection, error) {

	timestamp := 0.0

	if s.frameRate > 0 {
		timestamp = float64(frameNumber) / s.frameRate
	}

	results := make(map[string][]TrackedDetection, len(s.entries))

	for _, e := range s.entries {

		objects := objectsForClass(detections, e.name)

		tracks, err := e.engine.Update(objects)

		if err != nil {
			return nil, err
		}

		tracked := make([]TrackedDetection, 0, len(tracks))

		for _, t := range tracks {
			rect := t.Rect()

			box := detect.Box{
				X: rect.X() / virtualWidth,
				Y: rect.Y() / virtualHeight,
				W: rect.Width() / virtualWidth,
				H: rect.Height() / virtualHeight,
			}

			tracked = append(tracked, TrackedDetection{
				TrackID:     t.TrackID(),
				FrameNumber: frameNumber,
				Timestamp:   timestamp,
				Box:         box,
				Center:      box.Center(),
				Confidence:  t.Score(),
				ClassName:   e.name,
			})
		}

		results[e.name] = tracked
	}

	return results, nil
}

// Reset clears all class trackers back to their initial state
func (s *ClassTrackerSet) Reset() {
	for _, e := range s.entries {
		e.engine.Reset()
	}
}

// objectsForClass converts the detections of the given class into tracker
// objects in the virtual pixel frame
func objectsForClass(detections []detect.Detection, className string) []Object {

	var objects []Object

	for _, d := range detections {
		if d.ClassName != className {
			continue
		}

		rect := NewRect(
			d.Box.X*virtualWidth,
			d.Box.Y*virtualHeight,
			d.Box.W*virtualWidth,
			d.Box.H*virtualHeight,
		)

		objects = append(objects, NewObject(rect, d.ClassID, d.Confidence))
	}

	return objects
}
