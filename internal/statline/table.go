package statline

import (
	"strings"

	"github.com/riskibarqy/match-reports/internal/layout"
)

// Parser applies one layout's stat schema and tokenizer cutoffs.
type Parser struct {
	schema        layout.Schema
	stop          string
	maxDecorative int
}

func NewParser(stats layout.Stats) (Parser, error) {
	schema, err := layout.NewSchema(stats.Entries...)
	if err != nil {
		return Parser{}, err
	}
	maxDecorative := stats.DecorativeMaxLen
	if maxDecorative <= 0 {
		maxDecorative = decorativeMaxLen
	}
	return Parser{schema: schema, stop: stats.StopLabel, maxDecorative: maxDecorative}, nil
}

func (p Parser) Schema() layout.Schema {
	return p.schema
}

func (p Parser) ParseLine(line string) (LineResult, error) {
	return parseTokens(tokenize(line, p.maxDecorative), p.schema)
}

// Diagnostic is a per-line problem that did not stop the table.
type Diagnostic struct {
	Line int
	Text string
	Err  error
}

// Table is the per-team raw values of one stats table, keyed by column.
type Table struct {
	Team1       map[string]string
	Team2       map[string]string
	Parsed      int
	Diagnostics []Diagnostic
}

// ParseTable parses every line of cell that carries a number or percentage
// and stops after the line whose label contains stop. Line failures are
// collected as diagnostics; the rest of the table is still parsed.
func ParseTable(cell string, schema layout.Schema, stop string) Table {
	return Parser{schema: schema, stop: stop, maxDecorative: decorativeMaxLen}.ParseTable(cell)
}

func (p Parser) ParseTable(cell string) Table {
	table := Table{
		Team1: make(map[string]string),
		Team2: make(map[string]string),
	}
	for idx, line := range strings.Split(cell, "\n") {
		tokens := tokenize(line, p.maxDecorative)
		if !anyValue(tokens) {
			continue
		}
		res, err := parseTokens(tokens, p.schema)
		for _, diag := range res.Diagnostics {
			table.Diagnostics = append(table.Diagnostics, Diagnostic{Line: idx + 1, Text: line, Err: diag})
		}
		if err != nil {
			table.Diagnostics = append(table.Diagnostics, Diagnostic{Line: idx + 1, Text: line, Err: err})
		}
		stop := false
		for _, a := range res.Assignments {
			for col, v := range a.Team1 {
				table.Team1[col] = v
			}
			for col, v := range a.Team2 {
				table.Team2[col] = v
			}
			if p.stop != "" && strings.Contains(a.Label, p.stop) {
				stop = true
			}
		}
		table.Parsed++
		if stop || (p.stop != "" && len(tokens) > 0 && strings.Contains(tokens[0], p.stop)) {
			break
		}
	}
	return table
}

func anyValue(tokens []string) bool {
	for _, tok := range tokens {
		if isValue(tok) {
			return true
		}
	}
	return false
}
