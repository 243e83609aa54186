package render

import (
	"image/color"

	"github.com/facekit/facekit"
)

var (
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Cyan   = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Purple = color.RGBA{R: 160, G: 32, B: 240, A: 255}
	Orange = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// featureColors assigns each face feature a stable color so overlays stay
// readable when several features are drawn together
var featureColors = map[facekit.FaceFeature]color.RGBA{
	facekit.Jaw:          Green,
	facekit.RightEyebrow: Orange,
	facekit.LeftEyebrow:  Orange,
	facekit.Nose:         Yellow,
	facekit.RightEye:     Cyan,
	facekit.LeftEye:      Cyan,
	facekit.Mouth:        Red,
	facekit.InnerMouth:   Purple,
	facekit.Forehead:     Blue,
}

// FeatureColor returns the overlay color for a face feature
func FeatureColor(feature facekit.FaceFeature) color.RGBA {

	if clr, ok := featureColors[feature]; ok {
		return clr
	}

	return White
}
