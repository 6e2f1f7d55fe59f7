package statline

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-reports/internal/extract"
	"github.com/riskibarqy/match-reports/internal/layout"
)

// ErrTableSchemaMismatch means a stat label is not in the schema or its value
// count does not fit the schema entry.
var ErrTableSchemaMismatch = crerr.New("table schema mismatch")

// Assignment is one stat label resolved into per-team column values. Columns
// missing from a team map keep their default.
type Assignment struct {
	Label      string
	Columns    []string
	Team1      map[string]string
	Team2      map[string]string
	ZeroFilled bool
}

// LineResult holds every segment assigned from one line plus the heuristic
// edge cases hit along the way. Diagnostics wrap extract.ErrParseAmbiguity.
type LineResult struct {
	Assignments []Assignment
	Diagnostics []error
}

// ParseLine tokenizes line, splits off a packed second stat and assigns both
// segments with schema. Segments assigned before a mismatch are kept in the
// result.
func ParseLine(line string, schema layout.Schema) (LineResult, error) {
	return Parser{schema: schema, maxDecorative: decorativeMaxLen}.ParseLine(line)
}

func parseTokens(tokens []string, schema layout.Schema) (LineResult, error) {
	var res LineResult
	if len(tokens) == 0 {
		return res, crerr.Wrap(ErrTableSchemaMismatch, "empty line")
	}

	first, rest := splitSegments(tokens)
	segments := [][]string{first}
	if len(rest) > 0 {
		if again, _ := splitSegments(rest); len(again) != len(rest) {
			res.Diagnostics = append(res.Diagnostics, crerr.Wrapf(extract.ErrParseAmbiguity,
				"segment %q packs more than one further stat", rest[0]))
		}
		segments = append(segments, rest)
	}

	for _, seg := range segments {
		assignment, diag, err := assign(seg, schema)
		if err != nil {
			return res, err
		}
		if diag != nil {
			res.Diagnostics = append(res.Diagnostics, diag)
		}
		res.Assignments = append(res.Assignments, assignment)
	}
	return res, nil
}

// splitSegments cuts tokens once, at the first value followed by a token
// carrying letters.
func splitSegments(tokens []string) ([]string, []string) {
	if len(tokens) < 2 {
		return tokens, nil
	}
	prevValue := isValue(tokens[0])
	for idx := 1; idx < len(tokens); idx++ {
		if hasLetter(tokens[idx]) && prevValue {
			return tokens[:idx], tokens[idx:]
		}
		prevValue = isValue(tokens[idx])
	}
	return tokens, nil
}

// assign resolves one segment. ambiguity is set for accepted edge cases; err
// is set when the segment cannot be assigned at all.
func assign(seg []string, schema layout.Schema) (out Assignment, ambiguity error, err error) {
	label := seg[0]
	entry, ok := schema.Lookup(label)
	if !ok {
		return Assignment{}, nil, crerr.Wrapf(ErrTableSchemaMismatch, "unknown label %q", label)
	}
	cols := entry.Columns()
	n := len(cols)
	vals := seg[1:]
	out = Assignment{
		Label:   label,
		Columns: cols,
		Team1:   make(map[string]string, n),
		Team2:   make(map[string]string, n),
	}

	switch {
	case len(vals) < 2:
		return Assignment{}, nil, crerr.Wrapf(ErrTableSchemaMismatch, "%q: %d values", label, len(vals))

	case len(vals) == 2:
		if entry.IsComposite() {
			if vals[0] == "0" && vals[1] == "0" {
				out.ZeroFilled = true
				zeroFill(out.Team1, cols)
				zeroFill(out.Team2, cols)
				return out, crerr.Wrapf(extract.ErrParseAmbiguity, "%q: both teams zero-filled", label), nil
			}
			return Assignment{}, nil, crerr.Wrapf(ErrTableSchemaMismatch,
				"%q: 2 values for %d columns", label, n)
		}
		out.Team1[cols[0]] = vals[0]
		out.Team2[cols[0]] = vals[1]
		return out, nil, nil

	case !anyPercent(vals):
		if len(vals) > 2*n {
			return Assignment{}, nil, crerr.Wrapf(ErrTableSchemaMismatch,
				"%q: %d values for %d columns", label, len(vals), n)
		}
		var diag error
		if len(vals) != 2*n {
			diag = crerr.Wrapf(extract.ErrParseAmbiguity,
				"%q: %d values filled positionally into %d columns", label, len(vals), 2*n)
		}
		for idx, v := range vals {
			if idx < n {
				out.Team1[cols[idx]] = v
			} else {
				out.Team2[cols[idx-n]] = v
			}
		}
		return out, diag, nil

	default:
		if len(vals) < n {
			return Assignment{}, nil, crerr.Wrapf(ErrTableSchemaMismatch,
				"%q: %d values for %d columns", label, len(vals), n)
		}
		var diag error
		if len(vals) != 2*n {
			diag = crerr.Wrapf(extract.ErrParseAmbiguity,
				"%q: %d values split as first %d and last %d", label, len(vals), n, n)
		}
		zero1 := fillTeam(out.Team1, vals[:n], cols)
		zero2 := fillTeam(out.Team2, vals[len(vals)-n:], cols)
		out.ZeroFilled = zero1 || zero2
		return out, diag, nil
	}
}

// fillTeam assigns one team's slice; a slice whose second value is "0" with
// no percentage is the vendor's empty rendering and is zero-filled.
func fillTeam(team map[string]string, vals []string, cols []string) bool {
	if len(vals) > 1 && vals[1] == "0" && !anyPercent(vals) {
		zeroFill(team, cols)
		return true
	}
	for idx, v := range vals {
		team[cols[idx]] = v
	}
	return false
}

func zeroFill(team map[string]string, cols []string) {
	for _, col := range cols {
		team[col] = "0"
	}
}

func anyPercent(vals []string) bool {
	for _, v := range vals {
		if IsPercent(v) {
			return true
		}
	}
	return false
}
