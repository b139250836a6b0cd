package detect

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// YOLOv8Config holds the settings used to create a YOLOv8 detector
type YOLOv8Config struct {
	// ModelPath is the file path to the ONNX model
	ModelPath string
	// LibraryPath is the file path to the onnxruntime shared library.  When
	// empty the default library search path is used.
	LibraryPath string
	// InputWidth is the width of the model input tensor
	InputWidth int
	// InputHeight is the height of the model input tensor
	InputHeight int
	// NMSThreshold is the IoU threshold used for non-maximum suppression
	NMSThreshold float32
	// Labels are the class labels the model was trained with
	Labels []string
}

// YOLOv8COCOConfig returns a detector configuration for a standard YOLOv8
// model trained on the COCO dataset
func YOLOv8COCOConfig(modelPath string) YOLOv8Config {
	return YOLOv8Config{
		ModelPath:    modelPath,
		InputWidth:   640,
		InputHeight:  640,
		NMSThreshold: 0.45,
		Labels:       COCOLabels,
	}
}

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initialises the onnxruntime environment once per process
func initRuntime(libraryPath string) error {

	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}

		ortInitErr = ort.InitializeEnvironment()
	})

	return ortInitErr
}

// YOLOv8 runs object detection using a YOLOv8 ONNX model.  It implements
// the Detector interface.  A YOLOv8 instance serialises inference calls, use
// a Pool to run detections concurrently.
type YOLOv8 struct {
	cfg     YOLOv8Config
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	// resizer caches the letterbox parameters for the last seen frame size
	resizer *Resizer
	mu      sync.Mutex
	closed  bool
}

// NewYOLOv8 loads the ONNX model at the configured path and returns a
// detector ready for inference.  A failure to create the session is returned
// as a *ModelLoadError.
func NewYOLOv8(cfg YOLOv8Config) (*YOLOv8, error) {

	if cfg.InputWidth == 0 {
		cfg.InputWidth = 640
	}

	if cfg.InputHeight == 0 {
		cfg.InputHeight = 640
	}

	if cfg.NMSThreshold == 0 {
		cfg.NMSThreshold = 0.45
	}

	if len(cfg.Labels) == 0 {
		cfg.Labels = COCOLabels
	}

	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, &ModelLoadError{Path: cfg.ModelPath, Err: err}
	}

	inputShape := ort.NewShape(1, 3, int64(cfg.InputHeight),
		int64(cfg.InputWidth))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)

	if err != nil {
		return nil, &ModelLoadError{Path: cfg.ModelPath,
			Err: errors.Wrap(err, "error creating input tensor")}
	}

	boxCount := (cfg.InputWidth / 8 * cfg.InputHeight / 8) +
		(cfg.InputWidth / 16 * cfg.InputHeight / 16) +
		(cfg.InputWidth / 32 * cfg.InputHeight / 32)

	outputShape := ort.NewShape(1, int64(4+len(cfg.Labels)), int64(boxCount))

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)

	if err != nil {
		inputTensor.Destroy()
		return nil, &ModelLoadError{Path: cfg.ModelPath,
			Err: errors.Wrap(err, "error creating output tensor")}
	}

	options, err := ort.NewSessionOptions()

	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, &ModelLoadError{Path: cfg.ModelPath,
			Err: errors.Wrap(err, "error creating session options")}
	}

	defer options.Destroy()

	options.SetIntraOpNumThreads(4)
	options.SetInterOpNumThreads(2)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)

	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, &ModelLoadError{Path: cfg.ModelPath, Err: err}
	}

	return &YOLOv8{
		cfg:     cfg,
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// Detect runs inference on the given frame and returns the detected objects
// with box coordinates normalized to the 0-1 range of the source frame
func (y *YOLOv8) Detect(ctx context.Context, frame image.Image,
	opts Options) ([]Detection, error) {

	if !validFrame(frame) {
		return nil, ErrInvalidFrame
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	y.mu.Lock()
	defer y.mu.Unlock()

	if y.closed {
		return nil, errors.New("detector is closed")
	}

	bounds := frame.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	if y.resizer == nil || y.resizer.SrcWidth() != srcW ||
		y.resizer.SrcHeight() != srcH {
		y.resizer = NewResizer(srcW, srcH, y.cfg.InputWidth, y.cfg.InputHeight)
	}

	scaled := y.resizer.LetterBoxResize(frame,
		color.RGBA{R: 114, G: 114, B: 114, A: 255})

	y.fillInput(scaled)

	if err := y.session.Run(); err != nil {
		return nil, errors.Wrap(err, "error running inference")
	}

	detections := y.decodeOutput(opts)

	detections = nonMaxSuppression(detections, y.cfg.NMSThreshold)

	return detections, nil
}

// fillInput writes the scaled frame into the input tensor in CHW layout
// with pixel values normalized to 0-1
func (y *YOLOv8) fillInput(img *image.RGBA) {

	data := y.input.GetData()

	w := y.cfg.InputWidth
	h := y.cfg.InputHeight
	channelSize := w * h

	for yy := 0; yy < h; yy++ {
		row := img.Pix[yy*img.Stride:]

		for xx := 0; xx < w; xx++ {
			idx := yy*w + xx
			pix := row[xx*4:]

			data[idx] = float32(pix[0]) / 255.0
			data[channelSize+idx] = float32(pix[1]) / 255.0
			data[2*channelSize+idx] = float32(pix[2]) / 255.0
		}
	}
}

// decodeOutput converts the raw model output into detections in the source
// frame's normalized coordinate space
func (y *YOLOv8) decodeOutput(opts Options) []Detection {
	return decodeBoxes(y.output.GetData(), y.cfg.Labels, y.resizer, opts)
}

// decodeBoxes decodes a YOLOv8 output tensor laid out as rows of
// (cx, cy, w, h, class scores...) striped across the box count.  Box
// coordinates are mapped from the letterboxed input space back to the
// source frame and normalized to 0-1.
func decodeBoxes(data []float32, labels []string, r *Resizer,
	opts Options) []Detection {

	classCount := len(labels)
	boxCount := len(data) / (4 + classCount)

	scale := r.ScaleFactor()
	xPad := float32(r.XPad())
	yPad := float32(r.YPad())
	srcW := float32(r.SrcWidth())
	srcH := float32(r.SrcHeight())

	var detections []Detection

	for i := 0; i < boxCount; i++ {

		// find the best scoring class for this box
		bestClass := -1
		bestScore := float32(0)

		for c := 0; c < classCount; c++ {
			score := data[(4+c)*boxCount+i]

			if score > bestScore {
				bestScore = score
				bestClass = c
			}
		}

		if bestScore < opts.ConfThreshold || bestClass < 0 {
			continue
		}

		if !classWanted(opts.Classes, bestClass) {
			continue
		}

		// box is center x, center y, width, height in letterboxed space
		cx := data[i]
		cy := data[boxCount+i]
		bw := data[2*boxCount+i]
		bh := data[3*boxCount+i]

		// undo the letterbox transform back to source pixels
		x := (cx - bw/2 - xPad) / scale
		yy := (cy - bh/2 - yPad) / scale
		w := bw / scale
		h := bh / scale

		// clamp to the source frame
		x = clamp(x, 0, srcW)
		yy = clamp(yy, 0, srcH)
		w = clamp(w, 0, srcW-x)
		h = clamp(h, 0, srcH-yy)

		if w <= 0 || h <= 0 {
			continue
		}

		detections = append(detections, Detection{
			Box: Box{
				X: x / srcW,
				Y: yy / srcH,
				W: w / srcW,
				H: h / srcH,
			},
			Confidence: bestScore,
			ClassID:    bestClass,
			ClassName:  labelFor(labels, bestClass),
		})
	}

	return detections
}

// Close releases the session and tensor resources.  The detector must not be
// used after Close.
func (y *YOLOv8) Close() error {

	y.mu.Lock()
	defer y.mu.Unlock()

	if y.closed {
		return nil
	}

	y.closed = true

	err := y.session.Destroy()
	y.input.Destroy()
	y.output.Destroy()

	return err
}

// classWanted reports whether the class index passes the class filter.  An
// empty filter allows all classes.
func classWanted(classes []int, classID int) bool {

	if len(classes) == 0 {
		return true
	}

	for _, c := range classes {
		if c == classID {
			return true
		}
	}

	return false
}

func clamp(v, lo, hi float32) float32 {

	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
