package statline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/match-reports/internal/extract"
	"github.com/riskibarqy/match-reports/internal/layout"
)

func testSchema(t *testing.T) layout.Schema {
	t.Helper()
	s, err := layout.NewSchema(
		layout.Single("Goals", "goals"),
		layout.Single("xG", "xg"),
		layout.Composite("Shots", "Shots", "Shots_pct"),
		layout.Composite("Shots / on target", "shots", "shots_on_target", "shots_on_target_pct"),
		layout.Composite("Offsides", "offsides", "offsides_pct"),
		layout.Single("Possession, %", "possession_pct"),
		layout.Composite("Dribbles / successful", "dribbles", "dribbles_successful", "dribbles_successful_pct"),
		layout.Single("Fouls", "fouls"),
	)
	require.NoError(t, err)
	return s
}

func TestParseLineCompositeWithoutPercent(t *testing.T) {
	t.Parallel()

	res, err := ParseLine("Shots 12 (6) 9 (4)", testSchema(t))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 1)

	a := res.Assignments[0]
	assert.Equal(t, map[string]string{"Shots": "12", "Shots_pct": "6"}, a.Team1)
	assert.Equal(t, map[string]string{"Shots": "9", "Shots_pct": "4"}, a.Team2)
	assert.False(t, a.ZeroFilled)
	assert.Empty(t, res.Diagnostics)
}

func TestParseLineZeroFillsEmptyComposite(t *testing.T) {
	t.Parallel()

	res, err := ParseLine("Offsides 0 0", testSchema(t))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 1)

	a := res.Assignments[0]
	assert.True(t, a.ZeroFilled)
	assert.Equal(t, map[string]string{"offsides": "0", "offsides_pct": "0"}, a.Team1)
	assert.Equal(t, map[string]string{"offsides": "0", "offsides_pct": "0"}, a.Team2)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], extract.ErrParseAmbiguity)
}

func TestParseLinePercentHalves(t *testing.T) {
	t.Parallel()

	res, err := ParseLine("Shots / on target 12/6 50% 9/4 44%", testSchema(t))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 1)

	a := res.Assignments[0]
	assert.Equal(t, "6", a.Team1["shots_on_target"])
	assert.Equal(t, "50%", a.Team1["shots_on_target_pct"])
	assert.Equal(t, "9", a.Team2["shots"])
	assert.Equal(t, "44%", a.Team2["shots_on_target_pct"])
	assert.Empty(t, res.Diagnostics)
}

func TestParseLinePercentZeroFillsOneTeam(t *testing.T) {
	t.Parallel()

	res, err := ParseLine("Shots / on target 0/0 12/5 42%", testSchema(t))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 1)

	a := res.Assignments[0]
	assert.True(t, a.ZeroFilled)
	assert.Equal(t, map[string]string{"shots": "0", "shots_on_target": "0", "shots_on_target_pct": "0"}, a.Team1)
	assert.Equal(t, map[string]string{"shots": "12", "shots_on_target": "5", "shots_on_target_pct": "42%"}, a.Team2)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], extract.ErrParseAmbiguity)
}

func TestParseLineSplitsPackedStat(t *testing.T) {
	t.Parallel()

	res, err := ParseLine("Goals 2 1 xG 1.53 0.87", testSchema(t))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 2)

	assert.Equal(t, "2", res.Assignments[0].Team1["goals"])
	assert.Equal(t, "1", res.Assignments[0].Team2["goals"])
	assert.Equal(t, "xG", res.Assignments[1].Label)
	assert.Equal(t, "1.53", res.Assignments[1].Team1["xg"])
	assert.Equal(t, "0.87", res.Assignments[1].Team2["xg"])
}

func TestParseLineSplitsOnlyOnce(t *testing.T) {
	t.Parallel()

	res, err := ParseLine("Goals 2 1 xG 1.53 0.87 Fouls 10 12", testSchema(t))
	require.ErrorIs(t, err, ErrTableSchemaMismatch)
	require.Len(t, res.Assignments, 1)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], extract.ErrParseAmbiguity)
}

func TestParseLineMismatch(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)
	cases := map[string]string{
		"unknown label":          "Throw-ins 20 18",
		"single value":           "Fouls 10",
		"composite two nonzero":  "Offsides 3 1",
		"too many plain values":  "Fouls 10 12 14",
		"percent under capacity": "Shots / on target 5 40%",
	}
	for name, line := range cases {
		if _, err := ParseLine(line, schema); err == nil {
			t.Fatalf("%s: expected mismatch for %q", name, line)
		} else {
			assert.ErrorIs(t, err, ErrTableSchemaMismatch, name)
		}
	}
}

func TestParseLineFlagsShortCompositeWithoutPercent(t *testing.T) {
	t.Parallel()

	res, err := ParseLine("Shots 12 (6) 9", testSchema(t))
	require.NoError(t, err)
	require.Len(t, res.Assignments, 1)

	a := res.Assignments[0]
	assert.Equal(t, map[string]string{"Shots": "12", "Shots_pct": "6"}, a.Team1)
	assert.Equal(t, map[string]string{"Shots": "9"}, a.Team2)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], extract.ErrParseAmbiguity)
}
