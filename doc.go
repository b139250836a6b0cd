/*
Package fieldtrack provides a tracking-by-detection pipeline for sports
video.  Frames are read from a FrameSource, passed through an object
detector, and the resulting detections are associated into stable per-class
track identities by the tracker package.  The pipeline accumulates player
track histories and a ball timeline into a single Result.

The detect package supplies a YOLOv8 ONNX detector and a detector pool, the
tracker package implements the confidence-gated IoU association engine.  Use
Pipeline.Process for synchronous processing of a single source, or a Runner
to submit concurrent jobs sharing a detector pool.
*/
package fieldtrack
