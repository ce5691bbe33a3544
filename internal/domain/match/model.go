package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

const (
	OutcomeHomeWin = "home_win"
	OutcomeDraw    = "draw"
	OutcomeAwayWin = "away_win"
)

// Match is one schedulable fixture between two teams. Result is only set
// once the match is finished; correcting it later re-triggers scoring.
type Match struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    string
	Result    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReadyToScore reports whether the match has reached a scoreable state.
func (m Match) ReadyToScore() bool {
	return NormalizeStatus(m.Status) == StatusFinished && m.Result != nil && IsValidOutcome(*m.Result)
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	switch status {
	case "", "upcoming":
		// Early records used "upcoming" for scheduled matches.
		return StatusScheduled
	case "live", "in-progress":
		return StatusInProgress
	default:
		return status
	}
}

func IsValidStatus(value string) bool {
	switch NormalizeStatus(value) {
	case StatusScheduled, StatusInProgress, StatusFinished:
		return true
	default:
		return false
	}
}

// NormalizeOutcome maps accepted spellings (homeWin/home_win etc) onto the
// canonical outcome constants. Returns "" for anything unrecognized.
func NormalizeOutcome(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "home_win", "homewin", "home-win":
		return OutcomeHomeWin
	case "draw":
		return OutcomeDraw
	case "away_win", "awaywin", "away-win":
		return OutcomeAwayWin
	default:
		return ""
	}
}

func IsValidOutcome(value string) bool {
	return NormalizeOutcome(value) != ""
}
