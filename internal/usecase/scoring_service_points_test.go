package usecase

import "testing"

func TestPointValue(t *testing.T) {
	cases := []struct {
		name    string
		pick    string
		outcome string
		want    int
	}{
		{name: "exact home win", pick: "home_win", outcome: "home_win", want: 3},
		{name: "exact away win", pick: "away_win", outcome: "away_win", want: 3},
		{name: "exact draw", pick: "draw", outcome: "draw", want: 1},
		{name: "wrong side", pick: "home_win", outcome: "away_win", want: 0},
		{name: "picked draw got win", pick: "draw", outcome: "home_win", want: 0},
		{name: "picked win got draw", pick: "away_win", outcome: "draw", want: 0},
		{name: "camel case pick matches", pick: "homeWin", outcome: "home_win", want: 3},
		{name: "camel case outcome matches", pick: "away_win", outcome: "awayWin", want: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PointValue(tc.pick, tc.outcome)
			if got != tc.want {
				t.Fatalf("PointValue(%q, %q) = %d, want %d", tc.pick, tc.outcome, got, tc.want)
			}
		})
	}
}
