// Package layout holds the vendor-specific constants of the match report:
// page indexes, coordinate windows, point-count rules, tokenizer cutoffs and
// the stat schema. Everything that drifts with the report format lives here.
package layout

import (
	"math"

	"github.com/riskibarqy/match-reports/internal/domain/shot"
)

const VersionWyscoutV1 = "wyscout-v1"

type Layout struct {
	Version     string       `yaml:"version" validate:"required"`
	Vendor      string       `yaml:"vendor"`
	Pages       Pages        `yaml:"pages"`
	Calibration Calibration  `yaml:"calibration"`
	Pitch       Pitch        `yaml:"pitch"`
	Policies    []ShotPolicy `yaml:"shot_policies" validate:"required,min=1,dive"`
	Stats       Stats        `yaml:"stats"`
}

// Pages uses zero-based page and cell indexes.
type Pages struct {
	CompetitionPage int    `yaml:"competition_page" validate:"gte=0"`
	CompetitionCell int    `yaml:"competition_cell" validate:"gte=0"`
	LineupPage      int    `yaml:"lineup_page" validate:"gte=0"`
	LineupCell      int    `yaml:"lineup_cell" validate:"gte=0"`
	StarterCount    int    `yaml:"starter_count" validate:"gt=0"`
	BacklineTag     string `yaml:"backline_tag" validate:"required"`
	StatsPage       int    `yaml:"stats_page" validate:"gte=0"`
	StatsHeaderCell int    `yaml:"stats_header_cell" validate:"gte=0"`
	StatsBodyCell   int    `yaml:"stats_body_cell" validate:"gte=0"`
	ShotScanFrom    int    `yaml:"shot_scan_from" validate:"gte=0"`
	ShotScanTo      int    `yaml:"shot_scan_to" validate:"gtefield=ShotScanFrom"`
	ShotHeaderCell  int    `yaml:"shot_header_cell" validate:"gte=0"`
	ShotMarker      string `yaml:"shot_marker" validate:"required"`
}

// Calibration selects the reference glyph: MinX0 < x0 < MaxX0 and y0 < MaxY0.
type Calibration struct {
	MinX0 float64 `yaml:"min_x0"`
	MaxX0 float64 `yaml:"max_x0" validate:"gtfield=MinX0"`
	MaxY0 float64 `yaml:"max_y0"`
}

type Pitch struct {
	Length       float64 `yaml:"length" validate:"gt=0"`
	Width        float64 `yaml:"width" validate:"gt=0"`
	LengthOffset float64 `yaml:"length_offset"`
	WidthOffset  float64 `yaml:"width_offset"`
	Tolerance    float64 `yaml:"tolerance" validate:"gte=0"`
}

// Range is an open interval; use ±Inf for a one-sided bound.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Contains(v float64) bool {
	return r.Min < v && v < r.Max
}

// Unbounded accepts every finite value.
func Unbounded() Range {
	return Range{Min: math.Inf(-1), Max: math.Inf(1)}
}

func Below(max float64) Range {
	return Range{Min: math.Inf(-1), Max: max}
}

type Window struct {
	X Range `yaml:"x"`
	Y Range `yaml:"y"`
}

func (w Window) Contains(x, y float64) bool {
	return w.X.Contains(x) && w.Y.Contains(y)
}

const (
	TargetByWindow     = "window"
	TargetByPointCount = "point_count"

	RectBlocked = "blocked"
	RectWindow  = "window"
)

// ShotPolicy is one named filter/classification rule set for a shot map.
type ShotPolicy struct {
	Map shot.Map `yaml:"map" validate:"required,oneof=origin goal_mouth"`
	// MaxPointCount discards curves with more points; 0 disables the check.
	MaxPointCount       int     `yaml:"max_point_count" validate:"gte=0"`
	ExcludedPointCounts []int   `yaml:"excluded_point_counts"`
	MaxArea             float64 `yaml:"max_area" validate:"gt=0"`
	X0                  Range   `yaml:"x0"`
	Y0                  Range   `yaml:"y0"`
	Y1                  Range   `yaml:"y1"`
	CurveTarget         string  `yaml:"curve_target" validate:"required,oneof=window point_count"`
	OnTargetWindow      Window  `yaml:"on_target_window"`
	OnTargetPointCounts []int   `yaml:"on_target_point_counts"`
	GoalPointCount      int     `yaml:"goal_point_count" validate:"gt=0"`
	RectRule            string  `yaml:"rect_rule" validate:"required,oneof=blocked window"`
}

func (p ShotPolicy) Excludes(points int) bool {
	if p.MaxPointCount > 0 && points > p.MaxPointCount {
		return true
	}
	for _, n := range p.ExcludedPointCounts {
		if n == points {
			return true
		}
	}
	return false
}

type Stats struct {
	Entries       []SchemaEntry `yaml:"schema" validate:"required,min=1"`
	StopLabel     string        `yaml:"stop_label"`
	HelperColumns []string      `yaml:"helper_columns"`
	// DecorativeMaxLen: tokens shorter than this may be dropped as decoration.
	DecorativeMaxLen int `yaml:"decorative_max_len" validate:"gt=0"`
}

// Policy returns the shot policy for m.
func (l Layout) Policy(m shot.Map) (ShotPolicy, bool) {
	for _, p := range l.Policies {
		if p.Map == m {
			return p, true
		}
	}
	return ShotPolicy{}, false
}

// Default returns the layout of the report generation this module was fit to.
func Default() Layout {
	return WyscoutV1()
}

func WyscoutV1() Layout {
	return Layout{
		Version: VersionWyscoutV1,
		Vendor:  "wyscout",
		Pages: Pages{
			CompetitionPage: 0,
			CompetitionCell: 1,
			LineupPage:      1,
			LineupCell:      2,
			StarterCount:    11,
			BacklineTag:     "B",
			StatsPage:       4,
			StatsHeaderCell: 0,
			StatsBodyCell:   1,
			ShotScanFrom:    11,
			ShotScanTo:      14,
			ShotHeaderCell:  0,
			ShotMarker:      "SHOTS",
		},
		Calibration: Calibration{MinX0: 15, MaxX0: 24, MaxY0: 300},
		Pitch: Pitch{
			Length:       60,
			Width:        75,
			LengthOffset: 286.74831,
			WidthOffset:  22.15223,
			Tolerance:    1.5,
		},
		Policies: []ShotPolicy{
			{
				Map:                 shot.MapOrigin,
				MaxArea:             300,
				X0:                  Below(300),
				Y0:                  Range{Min: 350, Max: 500},
				Y1:                  Below(478),
				CurveTarget:         TargetByPointCount,
				OnTargetPointCounts: []int{4},
				GoalPointCount:      5,
				RectRule:            RectBlocked,
			},
			{
				Map:                 shot.MapGoalMouth,
				MaxPointCount:       100,
				ExcludedPointCounts: []int{6},
				MaxArea:             300,
				X0:                  Unbounded(),
				Y0:                  Range{Min: 600, Max: 790},
				Y1:                  Unbounded(),
				CurveTarget:         TargetByWindow,
				OnTargetWindow: Window{
					X: Range{Min: 85, Max: 510},
					Y: Range{Min: 600, Max: 740},
				},
				GoalPointCount: 5,
				RectRule:       RectWindow,
			},
		},
		Stats: Stats{
			Entries:          wyscoutV1Schema(),
			StopLabel:        "Dribbles",
			HelperColumns:    []string{"x", "G"},
			DecorativeMaxLen: 7,
		},
	}
}

func wyscoutV1Schema() []SchemaEntry {
	return []SchemaEntry{
		Single("Goals", "goals"),
		Single("xG", "xg"),
		Composite("Shots / on target", "shots", "shots_on_target", "shots_on_target_pct"),
		Composite("Passes / accurate", "passes", "passes_accurate", "passes_accurate_pct"),
		Single("Possession, %", "possession_pct"),
		Composite("Losses / low / medium / high", "losses", "losses_low", "losses_medium", "losses_high"),
		Composite("Recoveries / low / medium / high", "recoveries", "recoveries_low", "recoveries_medium", "recoveries_high"),
		Composite("Duels / won", "duels", "duels_won", "duels_won_pct"),
		Composite("Shots from outside the box / on target", "shots_outside_box", "shots_outside_box_on_target", "x"),
		Composite("Positional attacks / with shots", "positional_attacks", "positional_attacks_with_shots", "positional_attacks_with_shots_pct"),
		Composite("Counterattacks / with shots", "counterattacks", "counterattacks_with_shots", "counterattacks_with_shots_pct"),
		Composite("Set pieces / with shots", "set_pieces", "set_pieces_with_shots", "set_pieces_with_shots_pct"),
		Composite("Corners / with shots", "corners", "corners_with_shots", "corners_with_shots_pct"),
		Composite("Free kicks / with shots", "free_kicks", "free_kicks_with_shots", "free_kicks_with_shots_pct"),
		Composite("Penalties / converted", "penalties", "penalties_converted", "G"),
		Composite("Crosses / accurate", "crosses", "crosses_accurate", "crosses_accurate_pct"),
		Single("Deep completed crosses", "deep_completed_crosses"),
		Single("Deep completed passes", "deep_completed_passes"),
		Composite("Penalty area entries (runs / crosses)", "penalty_area_entries", "penalty_area_entries_runs", "penalty_area_entries_crosses"),
		Single("Touches in penalty area", "touches_in_penalty_area"),
		Composite("Offensive duels / won", "offensive_duels", "offensive_duels_won", "offensive_duels_won_pct"),
		Single("Offsides", "offsides"),
		Single("Conceded goals", "conceded_goals"),
		Composite("Shots against / on target", "shots_against", "shots_against_on_target", "shots_against_on_target_pct"),
		Composite("Defensive duels / won", "defensive_duels", "defensive_duels_won", "defensive_duels_won_pct"),
		Composite("Aerial duels / won", "aerial_duels", "aerial_duels_won", "aerial_duels_won_pct"),
		Composite("Sliding tackles / successful", "sliding_tackles", "sliding_tackles_successful", "sliding_tackles_successful_pct"),
		Single("Interceptions", "interceptions"),
		Single("Clearances", "clearances"),
		Single("Fouls", "fouls"),
		Single("Yellow cards", "yellow_cards"),
		Single("Red cards", "red_cards"),
		Composite("Forward passes / accurate", "forward_passes", "forward_passes_accurate", "forward_passes_accurate_pct"),
		Composite("Back passes / accurate", "back_passes", "back_passes_accurate", "back_passes_accurate_pct"),
		Composite("Long passes / accurate", "long_passes", "long_passes_accurate", "long_passes_accurate_pct"),
		Composite("Passes to final third / accurate", "final_third_passes", "final_third_passes_accurate", "final_third_passes_accurate_pct"),
		Composite("Progressive passes / accurate", "progressive_passes", "progressive_passes_accurate", "progressive_passes_accurate_pct"),
		Single("Average pass length", "average_pass_length"),
		Single("Match tempo", "match_tempo"),
		Single("Average passes per possession", "average_passes_per_possession"),
		Single("PPDA", "ppda"),
		Composite("Dribbles / successful", "dribbles", "dribbles_successful", "dribbles_successful_pct"),
	}
}
