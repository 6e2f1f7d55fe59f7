package shot

import "time"

type Target string

const (
	TargetOnTarget  Target = "on_target"
	TargetOffTarget Target = "off_target"
	TargetBlocked   Target = "blocked"
)

func (t Target) Valid() bool {
	switch t {
	case TargetOnTarget, TargetOffTarget, TargetBlocked:
		return true
	default:
		return false
	}
}

// Map names the shot map a marker was drawn on.
type Map string

const (
	MapOrigin    Map = "origin"
	MapGoalMouth Map = "goal_mouth"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is one extracted shot. Raw holds the pixel centroid; Length and Width
// are the pitch-relative coordinates derived from the page calibration.
type Event struct {
	Map         Map       `json:"map"`
	Raw         Point     `json:"raw"`
	Length      float64   `json:"length_translated"`
	Width       float64   `json:"width_translated"`
	Target      Target    `json:"target"`
	Goal        bool      `json:"goal"`
	Team        string    `json:"team_name"`
	Opponent    string    `json:"opponent_team_name"`
	MatchDate   time.Time `json:"matchdate"`
	Backline    int       `json:"backline_num"`
	OppBackline int       `json:"opp_backline_num"`
}
