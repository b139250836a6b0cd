package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/fieldvision/go-fieldtrack"
	"github.com/fieldvision/go-fieldtrack/detect"
)

func main() {

	modelFile := flag.String("m", "../data/yolov8n.onnx", "YOLOv8 ONNX model file")
	frameDir := flag.String("d", "../data/frames", "Directory of frame images to process")
	outFile := flag.String("o", "result.json", "JSON file to write tracking results to")
	ortLib := flag.String("l", "", "Path to onnxruntime shared library, blank uses default search path")
	fps := flag.Float64("f", 30, "Frame rate of the source footage")
	stride := flag.Int("k", 0, "Number of frames to skip between processed frames")
	maxFrames := flag.Int("x", 0, "Maximum number of frames to process, 0 for all")
	poolSize := flag.Int("s", 1, "Size of detector pool")

	flag.Parse()

	err := run(*modelFile, *frameDir, *outFile, *ortLib, *fps, *stride,
		*maxFrames, *poolSize)

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(modelFile, frameDir, outFile, ortLib string, fps float64,
	stride, maxFrames, poolSize int) error {

	// create detector pool
	pool, err := detect.NewPool(poolSize, func() (detect.Detector, error) {
		cfg := detect.YOLOv8COCOConfig(modelFile)
		cfg.LibraryPath = ortLib
		return detect.NewYOLOv8(cfg)
	})

	if err != nil {
		return err
	}

	defer pool.Close()

	cfg := fieldtrack.DefaultConfig()
	cfg.FrameRate = fps
	cfg.Stride = stride
	cfg.MaxFrames = maxFrames

	runner, err := fieldtrack.NewRunner(pool, cfg)

	if err != nil {
		return err
	}

	src, err := fieldtrack.NewImageDirSource(frameDir, fps)

	if err != nil {
		return err
	}

	start := time.Now()

	job, err := runner.Submit(context.Background(), src)

	if err != nil {
		return err
	}

	log.Printf("Submitted job %s", job.ID())

	// report progress while the job runs
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-job.Done():
			break loop

		case <-ticker.C:
			processed, total := job.Progress()
			log.Printf("Processed %d of %d frames", processed, total)
		}
	}

	result, err := job.Result()

	if err != nil && !errors.Is(err, fieldtrack.ErrJobCancelled) {
		return err
	}

	log.Printf("Finished in %s: %d tracks, %d ball detections, %d frames",
		time.Since(start).Round(time.Millisecond),
		result.Metadata.TrackCount,
		result.Metadata.BallDetectionCount,
		result.Metadata.ProcessedFrames)

	sink := &fieldtrack.JSONFileSink{Path: outFile, Indent: true}

	if err := sink.Write(result); err != nil {
		return err
	}

	log.Printf("Results saved to %s", outFile)

	return nil
}
