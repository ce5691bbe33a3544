package memory

import (
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/domain/profile"
)

const (
	MatchIDArsenalChelsea   = "match-ars-che-20260905"
	MatchIDLiverpoolSpurs   = "match-liv-tot-20260905"
	MatchIDCityUnited       = "match-mci-mun-20260906"
	MatchIDVillaNewcastle   = "match-avl-new-20260908"
	MatchIDEvertonWestHam   = "match-eve-whu-20260829"
)

func SeedMatches() []match.Match {
	finished := match.OutcomeHomeWin

	return []match.Match{
		{
			ID:        MatchIDArsenalChelsea,
			HomeTeam:  "Arsenal",
			AwayTeam:  "Chelsea",
			KickoffAt: time.Date(2026, time.September, 5, 11, 30, 0, 0, time.UTC),
			Status:    match.StatusScheduled,
		},
		{
			ID:        MatchIDLiverpoolSpurs,
			HomeTeam:  "Liverpool",
			AwayTeam:  "Tottenham Hotspur",
			KickoffAt: time.Date(2026, time.September, 5, 16, 30, 0, 0, time.UTC),
			Status:    match.StatusScheduled,
		},
		{
			ID:        MatchIDCityUnited,
			HomeTeam:  "Manchester City",
			AwayTeam:  "Manchester United",
			KickoffAt: time.Date(2026, time.September, 6, 15, 0, 0, 0, time.UTC),
			Status:    match.StatusScheduled,
		},
		{
			ID:        MatchIDVillaNewcastle,
			HomeTeam:  "Aston Villa",
			AwayTeam:  "Newcastle United",
			KickoffAt: time.Date(2026, time.September, 8, 19, 0, 0, 0, time.UTC),
			Status:    match.StatusScheduled,
		},
		{
			ID:        MatchIDEvertonWestHam,
			HomeTeam:  "Everton",
			AwayTeam:  "West Ham United",
			KickoffAt: time.Date(2026, time.August, 29, 14, 0, 0, 0, time.UTC),
			Status:    match.StatusFinished,
			Result:    &finished,
		},
	}
}

func SeedProfiles() []profile.Profile {
	return []profile.Profile{
		{UserID: "user-amara", Username: "amara", Email: "amara@example.com"},
		{UserID: "user-bayo", Username: "bayo", Email: "bayo@example.com"},
		{UserID: "user-chidi", Username: "chidi", Email: "chidi@example.com"},
		{UserID: "user-dayo", Username: "dayo", Email: "dayo@example.com", IsBanned: true},
	}
}
