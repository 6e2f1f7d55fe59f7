package extract

import (
	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/layout"
)

// Normalizer maps pixel centroids to pitch coordinates. Length follows the
// page y axis, width the x axis, and both are flipped so the attacked goal
// sits at the origin of the pitch frame.
type Normalizer struct {
	cal   FieldCalibration
	pitch layout.Pitch
}

func NewNormalizer(cal FieldCalibration, pitch layout.Pitch) Normalizer {
	return Normalizer{cal: cal, pitch: pitch}
}

func (n Normalizer) Normalize(p shot.Point) (length, width float64) {
	length = n.pitch.Length - (p.Y-n.pitch.LengthOffset)*n.cal.LengthFactor
	width = n.pitch.Width - (p.X-n.pitch.WidthOffset)*n.cal.WidthFactor
	return length, width
}

// Inverse recovers the pixel centroid for pitch coordinates.
func (n Normalizer) Inverse(length, width float64) shot.Point {
	return shot.Point{
		X: n.pitch.WidthOffset + (n.pitch.Width-width)/n.cal.WidthFactor,
		Y: n.pitch.LengthOffset + (n.pitch.Length-length)/n.cal.LengthFactor,
	}
}

// InEnvelope reports whether the coordinates fall on the pitch, widened by
// the layout tolerance.
func (n Normalizer) InEnvelope(length, width float64) bool {
	return InPitch(n.pitch, length, width)
}

// InPitch is InEnvelope without a calibration.
func InPitch(pitch layout.Pitch, length, width float64) bool {
	tol := pitch.Tolerance
	return length >= -tol && length <= pitch.Length+tol &&
		width >= -tol && width <= pitch.Width+tol
}
