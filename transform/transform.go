// Package transform provides common frame transformation helpers.
//
// Face detection cost grows with the number of pixels considered, so
// downscaling a frame with Scale or Resize before detection is the usual
// optimization.  The helpers compose, each one takes a frame, leaves it
// untouched and returns a newly allocated frame the caller must Close.
package transform

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// DefaultInterpolation is the interpolation used by transforms that
// require an interpolation method
const DefaultInterpolation = gocv.InterpolationArea

// Scale resizes a frame up or down by a uniform factor.  A factor of 1
// returns a plain copy.
func Scale(frame gocv.Mat, factor float64) (gocv.Mat, error) {

	if factor <= 0 {
		return gocv.Mat{}, fmt.Errorf("scale factor must be positive, got %f", factor)
	}

	if factor == 1 {
		return frame.Clone(), nil
	}

	dst := gocv.NewMat()
	gocv.Resize(frame, &dst, image.Point{}, factor, factor, DefaultInterpolation)

	return dst, nil
}

// Resize resizes a frame to the given width and height.  When one of the
// dimensions is zero the other is derived from it, keeping the original
// aspect ratio.
func Resize(frame gocv.Mat, width, height int) (gocv.Mat, error) {

	if width <= 0 && height <= 0 {
		return gocv.Mat{}, fmt.Errorf("resize needs a positive width or height")
	}

	srcW := frame.Cols()
	srcH := frame.Rows()

	if width <= 0 {
		width = srcW * height / srcH
		if width == 0 {
			width = 1
		}
	}

	if height <= 0 {
		height = srcH * width / srcW
		if height == 0 {
			height = 1
		}
	}

	dst := gocv.NewMat()
	gocv.Resize(frame, &dst, image.Pt(width, height), 0, 0, DefaultInterpolation)

	return dst, nil
}

// Rotate rotates a frame by the given number of degrees while keeping the
// whole frame visible, the output canvas grows to contain the rotated
// source.  Rotations other than multiples of 90 degrees produce larger
// frames, so use with care before detection.
func Rotate(frame gocv.Mat, degrees float64) gocv.Mat {

	if math.Mod(math.Abs(degrees), 360) == 0 {
		return frame.Clone()
	}

	width := frame.Cols()
	height := frame.Rows()
	center := image.Pt(width/2, height/2)

	m := gocv.GetRotationMatrix2D(center, -degrees, 1.0)
	defer m.Close()

	cos := math.Abs(m.GetDoubleAt(0, 0))
	sin := math.Abs(m.GetDoubleAt(0, 1))

	// expanded canvas dimensions
	newWidth := int(float64(height)*sin + float64(width)*cos)
	newHeight := int(float64(height)*cos + float64(width)*sin)

	// re-center the rotation within the expanded canvas
	m.SetDoubleAt(0, 2, m.GetDoubleAt(0, 2)+float64(newWidth)/2-float64(center.X))
	m.SetDoubleAt(1, 2, m.GetDoubleAt(1, 2)+float64(newHeight)/2-float64(center.Y))

	dst := gocv.NewMat()
	gocv.WarpAffine(frame, &dst, m, image.Pt(newWidth, newHeight))

	return dst
}

// Crop extracts the region between a top-left and bottom-right point
func Crop(frame gocv.Mat, start, end image.Point) (gocv.Mat, error) {

	if end.X <= start.X || end.Y <= start.Y {
		return gocv.Mat{}, fmt.Errorf(
			"crop start %v must come before end %v", start, end)
	}

	// clip to the frame bounds
	rect := image.Rect(start.X, start.Y, end.X, end.Y).
		Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows()))

	if rect.Empty() {
		return gocv.Mat{}, fmt.Errorf(
			"crop region %v lies outside the frame", image.Rect(start.X, start.Y, end.X, end.Y))
	}

	region := frame.Region(rect)
	defer region.Close()

	return region.Clone(), nil
}

// Translate shifts a frame by the given pixel deltas while keeping its
// original size, vacated space is zero filled
func Translate(frame gocv.Mat, deltaX, deltaY int) gocv.Mat {

	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer m.Close()

	m.SetDoubleAt(0, 0, 1)
	m.SetDoubleAt(0, 2, float64(deltaX))
	m.SetDoubleAt(1, 1, 1)
	m.SetDoubleAt(1, 2, float64(deltaY))

	dst := gocv.NewMat()
	gocv.WarpAffine(frame, &dst, m, image.Pt(frame.Cols(), frame.Rows()))

	return dst
}

// Flip mirrors a frame over the x axis, the y axis, or both
func Flip(frame gocv.Mat, xAxis, yAxis bool) gocv.Mat {

	if !xAxis && !yAxis {
		return frame.Clone()
	}

	var flipCode int

	switch {
	case xAxis && yAxis:
		flipCode = -1
	case yAxis:
		flipCode = 1
	default:
		flipCode = 0
	}

	dst := gocv.NewMat()
	gocv.Flip(frame, &dst, flipCode)

	return dst
}

// Adjust changes the brightness and sharpness of a frame.  Brightness is
// an additive offset, sharpness a multiplicative gain with 1.0 leaving the
// frame unchanged.
func Adjust(frame gocv.Mat, brightness float64, sharpness float64) gocv.Mat {

	dst := gocv.NewMat()
	gocv.ConvertScaleAbs(frame, &dst, sharpness, brightness)

	return dst
}

// Grayscale converts a BGR frame to grayscale
func Grayscale(frame gocv.Mat) gocv.Mat {

	dst := gocv.NewMat()
	gocv.CvtColor(frame, &dst, gocv.ColorBGRToGray)

	return dst
}
