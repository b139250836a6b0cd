package detect

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// COCO class indexes for the objects this system tracks
const (
	ClassPerson     = 0
	ClassSportsBall = 32
)

// Labels for the tracked COCO classes
const (
	LabelPerson     = "person"
	LabelSportsBall = "sports ball"
)

// COCOLabels are the 80 class labels of models trained on the COCO dataset
var COCOLabels = []string{
	"person", "bicycle", "car", "motorbike", "aeroplane", "bus", "train",
	"truck", "boat", "traffic light", "fire hydrant", "stop sign",
	"parking meter", "bench", "bird", "cat", "dog", "horse", "sheep",
	"cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella",
	"handbag", "tie", "suitcase", "frisbee", "skis", "snowboard",
	"sports ball", "kite", "baseball bat", "baseball glove", "skateboard",
	"surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork",
	"knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"sofa", "pottedplant", "bed", "diningtable", "toilet", "tvmonitor",
	"laptop", "mouse", "remote", "keyboard", "cell phone", "microwave",
	"oven", "toaster", "sink", "refrigerator", "book", "clock", "vase",
	"scissors", "teddy bear", "hair drier", "toothbrush",
}

// LoadLabels reads the labels used to train the model from the given text
// file.  It should contain one label per line.
func LoadLabels(file string) ([]string, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening labels file")
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels []string

	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading labels file")
	}

	return labels, nil
}

// labelFor returns the label for the given class index from the label
// table, or a generated name when the index is out of range
func labelFor(labels []string, classID int) string {

	if classID >= 0 && classID < len(labels) {
		return labels[classID]
	}

	return "class_" + strconv.Itoa(classID)
}
