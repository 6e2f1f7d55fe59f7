package extract

import (
	"math"

	"github.com/riskibarqy/match-reports/internal/domain/page"
	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/layout"
)

// RawShot is a classified shot marker before normalization.
type RawShot struct {
	Map        shot.Map
	Kind       page.Kind
	Centroid   shot.Point
	PointCount int
	Target     shot.Target
	Goal       bool
}

// ShotDiagnostics describes one extraction pass.
type ShotDiagnostics struct {
	Scanned             int
	Kept                int
	DiscardedPointCount int
	DiscardedWindow     int
	DiscardedCeiling    int
	// MinX0 and MaxX1 bound the markers that passed the window filter.
	MinX0     float64
	MaxX1     float64
	HasBounds bool
}

func (d *ShotDiagnostics) track(p page.Primitive) {
	if !d.HasBounds {
		d.MinX0, d.MaxX1, d.HasBounds = p.X0, p.X1, true
		return
	}
	d.MinX0 = math.Min(d.MinX0, p.X0)
	d.MaxX1 = math.Max(d.MaxX1, p.X1)
}

// ExtractShots filters and classifies shot markers with policy. Curves come
// first in scan order, then rects in scan order.
func ExtractShots(curves, rects []page.Primitive, policy layout.ShotPolicy) ([]RawShot, ShotDiagnostics) {
	var diag ShotDiagnostics
	out := make([]RawShot, 0, len(curves)+len(rects))

	for _, curve := range curves {
		diag.Scanned++
		points := curve.Points()
		if policy.Excludes(points) {
			diag.DiscardedPointCount++
			continue
		}
		if !inWindow(curve, policy, &diag) {
			continue
		}
		c := centroid(curve)
		out = append(out, RawShot{
			Map:        policy.Map,
			Kind:       page.KindCurve,
			Centroid:   c,
			PointCount: points,
			Target:     curveTarget(c, points, policy),
			Goal:       points == policy.GoalPointCount,
		})
	}

	for _, rect := range rects {
		diag.Scanned++
		if !inWindow(rect, policy, &diag) {
			continue
		}
		c := centroid(rect)
		target := shot.TargetBlocked
		if policy.RectRule == layout.RectWindow {
			target = windowTarget(c, policy.OnTargetWindow)
		}
		out = append(out, RawShot{
			Map:      policy.Map,
			Kind:     page.KindRect,
			Centroid: c,
			Target:   target,
		})
	}

	diag.Kept = len(out)
	return out, diag
}

func inWindow(p page.Primitive, policy layout.ShotPolicy, diag *ShotDiagnostics) bool {
	if Area(p) >= policy.MaxArea || !policy.X0.Contains(p.X0) || !policy.Y0.Contains(p.Y0) {
		diag.DiscardedWindow++
		return false
	}
	diag.track(p)
	if !policy.Y1.Contains(p.Y1) {
		diag.DiscardedCeiling++
		return false
	}
	return true
}

func curveTarget(c shot.Point, points int, policy layout.ShotPolicy) shot.Target {
	if policy.CurveTarget == layout.TargetByWindow {
		return windowTarget(c, policy.OnTargetWindow)
	}
	for _, n := range policy.OnTargetPointCounts {
		if n == points {
			return shot.TargetOnTarget
		}
	}
	return shot.TargetOffTarget
}

func windowTarget(c shot.Point, w layout.Window) shot.Target {
	if w.Contains(c.X, c.Y) {
		return shot.TargetOnTarget
	}
	return shot.TargetOffTarget
}

// Area is the bounding-box area of p.
func Area(p page.Primitive) float64 {
	return math.Abs(p.X1-p.X0) * math.Abs(p.Y1-p.Y0)
}

func centroid(p page.Primitive) shot.Point {
	return shot.Point{X: (p.X0 + p.X1) / 2, Y: (p.Y0 + p.Y1) / 2}
}
