// Package render draws detected face geometry onto frames: landmark
// outlines, bounding boxes and labels.  It exists for visual debugging of
// the detection pipeline, the core never depends on it.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/facekit/facekit"
)

// closedFeatures are drawn as closed outlines, the last point connects
// back to the first
var closedFeatures = map[facekit.FaceFeature]bool{
	facekit.RightEye:   true,
	facekit.LeftEye:    true,
	facekit.Mouth:      true,
	facekit.InnerMouth: true,
}

// pt converts a landmark point into pixel coordinates
func pt(p facekit.Point) image.Point {
	return image.Pt(int(p.X+0.5), int(p.Y+0.5))
}

// Point draws a single landmark point on the frame
func Point(img *gocv.Mat, p facekit.Point, size int, clr color.RGBA) {
	gocv.Circle(img, pt(p), size, clr, -1)
}

// Line draws a point sequence as a connected line on the frame.  A closed
// line connects the last point back to the first.
func Line(img *gocv.Mat, points facekit.PointSequence, closed bool,
	clr color.RGBA, thickness int) {

	if len(points) == 1 {
		Point(img, points[0], thickness, clr)
		return
	}

	for i := 0; i < len(points)-1; i++ {
		gocv.Line(img, pt(points[i]), pt(points[i+1]), clr, thickness)
	}

	if closed && len(points) > 2 {
		gocv.Line(img, pt(points[len(points)-1]), pt(points[0]), clr, thickness)
	}
}

// FaceLandmarks draws every landmark feature of the face onto the frame,
// multi point features as their outline and single point features as
// points.  Features detected by the minimal landmark model come out as
// points, so they render the same way here.
func FaceLandmarks(img *gocv.Mat, face facekit.Face, thickness int) {

	for feature, points := range face.Landmarks {
		Line(img, points, closedFeatures[feature], FeatureColor(feature), thickness)
	}
}

// FaceBounds draws the face bounding box with an optional label above it
func FaceBounds(img *gocv.Mat, face facekit.Face, label string, font Font,
	lineThickness int) {

	rect := image.Rect(
		int(face.Bounds.Min.X), int(face.Bounds.Min.Y),
		int(face.Bounds.Max.X), int(face.Bounds.Max.Y),
	)

	gocv.Rectangle(img, rect, Green, lineThickness)

	if label == "" {
		return
	}

	textSize := gocv.GetTextSize(label, font.Face, font.Scale, font.Thickness)

	// filled box behind the label text
	labelRect := image.Rect(
		rect.Min.X-font.LeftPad,
		rect.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
		rect.Min.X+textSize.X+font.RightPad,
		rect.Min.Y,
	)

	gocv.Rectangle(img, labelRect, Green, -1)

	gocv.PutTextWithParams(img, label,
		image.Pt(rect.Min.X, rect.Min.Y-font.BottomPad),
		font.Face, font.Scale, font.Color, font.Thickness,
		font.LineType, false)
}
