package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/match-reports/internal/domain/page"
	"github.com/riskibarqy/match-reports/internal/domain/shot"
	"github.com/riskibarqy/match-reports/internal/layout"
)

func policy(t *testing.T, m shot.Map) layout.ShotPolicy {
	t.Helper()
	p, ok := layout.Default().Policy(m)
	require.True(t, ok)
	return p
}

func TestExtractShotsSingleGoalOnTarget(t *testing.T) {
	t.Parallel()

	// 10x5 box centered at (205, 652.5), inside the on-target window.
	shots, diag := ExtractShots([]page.Primitive{curve(200, 210, 650, 655, 5)}, nil, policy(t, shot.MapGoalMouth))

	require.Len(t, shots, 1)
	assert.True(t, shots[0].Goal)
	assert.Equal(t, shot.TargetOnTarget, shots[0].Target)
	assert.Equal(t, shot.Point{X: 205, Y: 652.5}, shots[0].Centroid)
	assert.Equal(t, 1, diag.Kept)
}

func TestExtractShotsGoalMouthFilters(t *testing.T) {
	t.Parallel()

	p := policy(t, shot.MapGoalMouth)
	curves := []page.Primitive{
		curve(200, 210, 650, 655, 6),   // excluded point count
		curve(200, 210, 650, 655, 101), // too many points
		curve(200, 240, 650, 660, 4),   // area 400
		curve(200, 210, 500, 505, 4),   // y0 below window
		curve(550, 560, 700, 705, 4),   // off target, right of goal
		curve(100, 110, 620, 625, 4),   // on target
	}
	rects := []page.Primitive{
		rect(300, 310, 650, 660), // on target by window
		rect(20, 30, 750, 760),   // off target by window
	}

	shots, diag := ExtractShots(curves, rects, p)
	require.Len(t, shots, 4)
	assert.Equal(t, shot.TargetOffTarget, shots[0].Target)
	assert.Equal(t, shot.TargetOnTarget, shots[1].Target)
	assert.Equal(t, page.KindRect, shots[2].Kind)
	assert.Equal(t, shot.TargetOnTarget, shots[2].Target)
	assert.False(t, shots[2].Goal)
	assert.Equal(t, shot.TargetOffTarget, shots[3].Target)

	assert.Equal(t, 8, diag.Scanned)
	assert.Equal(t, 2, diag.DiscardedPointCount)
	assert.Equal(t, 2, diag.DiscardedWindow)
	assert.True(t, diag.HasBounds)
	assert.Equal(t, 20.0, diag.MinX0)
	assert.Equal(t, 560.0, diag.MaxX1)
}

func TestExtractShotsOriginPolicy(t *testing.T) {
	t.Parallel()

	p := policy(t, shot.MapOrigin)
	curves := []page.Primitive{
		curve(100, 108, 400, 408, 4),   // on target
		curve(120, 128, 410, 418, 5),   // goal marker
		curve(140, 148, 420, 428, 3),   // off target
		curve(160, 168, 470, 480, 4),   // y1 above ceiling
		curve(310, 318, 400, 408, 4),   // x0 outside window
		curve(100, 108, 400, 408, 400), // point counts are not capped here
	}
	rects := []page.Primitive{
		rect(200, 206, 430, 436), // always blocked
	}

	shots, diag := ExtractShots(curves, rects, p)
	require.Len(t, shots, 5)

	assert.Equal(t, shot.TargetOnTarget, shots[0].Target)
	assert.False(t, shots[0].Goal)
	assert.True(t, shots[1].Goal)
	assert.Equal(t, shot.TargetOffTarget, shots[2].Target)
	assert.Equal(t, shot.TargetOffTarget, shots[3].Target)
	assert.Equal(t, 400, shots[3].PointCount)
	assert.Equal(t, shot.TargetBlocked, shots[4].Target)
	assert.False(t, shots[4].Goal)

	assert.Equal(t, 1, diag.DiscardedCeiling)
	assert.Equal(t, 1, diag.DiscardedWindow)
	assert.Equal(t, 206.0, diag.MaxX1)
}

func TestExtractShotsClassificationIsExclusive(t *testing.T) {
	t.Parallel()

	var curves, rects []page.Primitive
	for x := 0.0; x < 600; x += 37 {
		for y := 340.0; y < 800; y += 23 {
			for pts := 3; pts <= 7; pts++ {
				curves = append(curves, curve(x, x+8, y, y+8, pts))
			}
			rects = append(rects, rect(x, x+6, y, y+6))
		}
	}

	for _, m := range []shot.Map{shot.MapOrigin, shot.MapGoalMouth} {
		p := policy(t, m)
		shots, diag := ExtractShots(curves, rects, p)
		require.NotEmpty(t, shots, m)
		assert.Equal(t, diag.Scanned, len(curves)+len(rects))
		for _, s := range shots {
			if !s.Target.Valid() {
				t.Fatalf("%s: invalid target %q", m, s.Target)
			}
			if s.Kind == page.KindRect && s.Goal {
				t.Fatalf("%s: rect marked as goal", m)
			}
			if m == shot.MapOrigin && s.Kind == page.KindRect && s.Target != shot.TargetBlocked {
				t.Fatalf("origin rect classified %q", s.Target)
			}
			if m == shot.MapGoalMouth && s.Target == shot.TargetBlocked {
				t.Fatalf("goal-mouth marker classified blocked")
			}
		}
	}
}

func TestExtractShotsEndToEndNormalized(t *testing.T) {
	t.Parallel()

	l := layout.Default()
	pg := page.Page{Primitives: []page.Primitive{
		curve(20, 520, 150, 450, 40),
		curve(100, 108, 400, 408, 5),
	}}

	cal, err := Calibrate(pg.Curves(), l.Calibration, l.Pitch)
	require.NoError(t, err)
	shots, _ := ExtractShots(pg.Curves(), pg.Rects(), policy(t, shot.MapOrigin))
	require.Len(t, shots, 1)

	n := NewNormalizer(cal, l.Pitch)
	length, width := n.Normalize(shots[0].Centroid)
	assert.True(t, n.InEnvelope(length, width))
	assert.InDelta(t, 60-(404-286.74831)*0.2, length, 1e-9)
	assert.InDelta(t, 75-(104-22.15223)*0.15, width, 1e-9)
}
