package statline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "parenthetical values unwrapped",
			line: "Shots 12 (6) 9 (4)",
			want: []string{"Shots", "12", "6", "9", "4"},
		},
		{
			name: "label words rejoined and fractions split",
			line: "Shots / on target 12/6 50% 9/4 44%",
			want: []string{"Shots / on target", "12", "6", "50%", "9", "4", "44%"},
		},
		{
			name: "percent sign kept inside label",
			line: "Possession, % 55% 45%",
			want: []string{"Possession, %", "55%", "45%"},
		},
		{
			name: "decorative fragments dropped",
			line: "Duels / won 98 (x) 45 46% 102 % 50 49%",
			want: []string{"Duels / won", "98", "45", "46%", "102", "50", "49%"},
		},
		{
			name: "parenthetical label text kept",
			line: "Penalty area entries (runs / crosses) 20 (12/8) 15 (9/6)",
			want: []string{"Penalty area entries (runs / crosses)", "20", "12", "8", "15", "9", "6"},
		},
		{
			name: "packed second stat keeps its own label",
			line: "Goals 2 1 xG 1.53 0.87",
			want: []string{"Goals", "2", "1", "xG", "1.53", "0.87"},
		},
		{
			name: "blank line",
			line: "   ",
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.line)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNumberHelpers(t *testing.T) {
	t.Parallel()

	if !IsNumber("1.53") || IsNumber("55%") || IsNumber("xG") {
		t.Fatalf("IsNumber misclassifies")
	}
	if !IsPercent("55%") || !IsPercent("12.5%") || IsPercent("%") || IsPercent("x%") {
		t.Fatalf("IsPercent misclassifies")
	}
}
