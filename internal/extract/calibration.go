package extract

import (
	"math"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-reports/internal/domain/page"
	"github.com/riskibarqy/match-reports/internal/layout"
)

// FieldCalibration converts pixel distances on one page to pitch units.
type FieldCalibration struct {
	PixelLength  float64
	PixelWidth   float64
	LengthFactor float64
	WidthFactor  float64
	// Candidates is the number of primitives that matched the glyph window.
	// More than one is ambiguous; the last one scanned is used.
	Candidates int
}

func (c FieldCalibration) Ambiguous() bool {
	return c.Candidates > 1
}

// Calibrate locates the reference glyph among curves and derives the
// pixel-to-pitch factors.
func Calibrate(curves []page.Primitive, cfg layout.Calibration, pitch layout.Pitch) (FieldCalibration, error) {
	var (
		out   FieldCalibration
		found bool
	)
	for _, curve := range curves {
		if !(cfg.MinX0 < curve.X0 && curve.X0 < cfg.MaxX0 && curve.Y0 < cfg.MaxY0) {
			continue
		}
		out.Candidates++
		out.PixelWidth = math.Abs(curve.X1 - curve.X0)
		out.PixelLength = math.Abs(curve.Y1 - curve.Y0)
		found = true
	}
	if !found {
		return FieldCalibration{}, crerr.Wrapf(ErrCalibrationNotFound, "no glyph in %d curves", len(curves))
	}
	if out.PixelLength == 0 || out.PixelWidth == 0 {
		return FieldCalibration{Candidates: out.Candidates}, crerr.Wrapf(ErrCalibrationNotFound,
			"degenerate glyph %.3fx%.3f", out.PixelWidth, out.PixelLength)
	}
	out.LengthFactor = pitch.Length / out.PixelLength
	out.WidthFactor = pitch.Width / out.PixelWidth
	return out, nil
}
