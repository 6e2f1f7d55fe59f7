package extract

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Lineups are the starting positions of both teams in sheet order.
type Lineups struct {
	Home []string
	Away []string
}

// ParseLineups reads position codes from the lineup cell. Codes alternate
// between the two teams; only the first starters of each are kept.
func ParseLineups(cell string, starters int) (Lineups, error) {
	codes := positionPattern.FindAllString(cell, -1)
	if len(codes) < 2 {
		return Lineups{}, crerr.Newf("lineup cell: %d position codes", len(codes))
	}
	var out Lineups
	for idx, code := range codes {
		if idx%2 == 0 {
			out.Home = append(out.Home, code)
		} else {
			out.Away = append(out.Away, code)
		}
	}
	out.Home = firstN(out.Home, starters)
	out.Away = firstN(out.Away, starters)
	return out, nil
}

// Backline counts positions containing tag, e.g. "LCB" or "RB" for "B".
func Backline(positions []string, tag string) int {
	n := 0
	for _, pos := range positions {
		if strings.Contains(pos, tag) {
			n++
		}
	}
	return n
}

func firstN(items []string, n int) []string {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
