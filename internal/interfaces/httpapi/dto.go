package httpapi

import (
	"time"

	"github.com/Marvel4tech/greenbal/internal/domain/leaderboard"
	"github.com/Marvel4tech/greenbal/internal/domain/match"
	"github.com/Marvel4tech/greenbal/internal/domain/prediction"
	"github.com/Marvel4tech/greenbal/internal/usecase"
)

type matchDTO struct {
	ID        string  `json:"id"`
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	KickoffAt string  `json:"kickoff_at"`
	Status    string  `json:"status"`
	Result    *string `json:"result,omitempty"`
}

func matchToDTO(item match.Match) matchDTO {
	return matchDTO{
		ID:        item.ID,
		HomeTeam:  item.HomeTeam,
		AwayTeam:  item.AwayTeam,
		KickoffAt: item.KickoffAt.UTC().Format(time.RFC3339),
		Status:    item.Status,
		Result:    item.Result,
	}
}

type predictionDTO struct {
	ID        string `json:"id"`
	MatchID   string `json:"match_id"`
	Pick      string `json:"pick"`
	Points    *int   `json:"points,omitempty"`
	ScoredAt  string `json:"scored_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

func predictionToDTO(item prediction.Prediction) predictionDTO {
	dto := predictionDTO{
		ID:        item.ID,
		MatchID:   item.MatchID,
		Pick:      item.Pick,
		Points:    item.Points,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.ScoredAt != nil {
		dto.ScoredAt = item.ScoredAt.UTC().Format(time.RFC3339)
	}
	return dto
}

type leaderboardRowDTO struct {
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	PointsTotal      int    `json:"points_total"`
	CorrectTotal     int    `json:"correct_total"`
	PredictionsTotal int    `json:"predictions_total"`
}

func leaderboardRowToDTO(row leaderboard.Aggregate) leaderboardRowDTO {
	return leaderboardRowDTO{
		UserID:           row.UserID,
		Username:         row.Username,
		PointsTotal:      row.PointsTotal,
		CorrectTotal:     row.CorrectTotal,
		PredictionsTotal: row.PredictionsTotal,
	}
}

type leaderboardRankDTO struct {
	Position int               `json:"position"`
	Row      leaderboardRowDTO `json:"row"`
}

type leaderboardPageDTO struct {
	Kind      string              `json:"kind"`
	WeekStart string              `json:"week_start,omitempty"`
	Rows      []leaderboardRowDTO `json:"rows"`
	Viewer    *leaderboardRankDTO `json:"viewer,omitempty"`
}

func leaderboardPageToDTO(page usecase.Page) leaderboardPageDTO {
	dto := leaderboardPageDTO{
		Kind: page.Kind,
		Rows: make([]leaderboardRowDTO, 0, len(page.Rows)),
	}
	if page.WeekStart != nil {
		dto.WeekStart = page.WeekStart.UTC().Format("2006-01-02")
	}
	for _, row := range page.Rows {
		dto.Rows = append(dto.Rows, leaderboardRowToDTO(row))
	}
	if page.Viewer != nil {
		dto.Viewer = &leaderboardRankDTO{
			Position: page.Viewer.Position,
			Row:      leaderboardRowToDTO(page.Viewer.Row),
		}
	}
	return dto
}

type updateResultDTO struct {
	Match          matchDTO `json:"match"`
	ScoredCount    int      `json:"scored_count"`
	UsersAffected  int      `json:"users_affected"`
	ScoringPending bool     `json:"scoring_pending"`
}
