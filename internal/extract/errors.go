package extract

import crerr "github.com/cockroachdb/errors"

var (
	// ErrCalibrationNotFound means no primitive matched the calibration glyph
	// window, or the match had a zero dimension.
	ErrCalibrationNotFound = crerr.New("field calibration not found")
	// ErrShotMapNotFound means no page in the scan range carried the shot marker.
	ErrShotMapNotFound = crerr.New("shot map not found")
	// ErrParseAmbiguity is only ever reported as a diagnostic.
	ErrParseAmbiguity = crerr.New("parse ambiguity")
)
