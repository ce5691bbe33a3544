package prediction

import "time"

// Prediction is one user's outcome guess for one match. Points stays nil
// until the scoring engine has visited the row; ScoredAt records the most
// recent visit even when the awarded value did not change.
type Prediction struct {
	ID        string
	UserID    string
	MatchID   string
	Pick      string
	Points    *int
	ScoredAt  *time.Time
	CreatedAt time.Time
}

// CurrentPoints returns the awarded points, treating never-scored as zero.
func (p Prediction) CurrentPoints() int {
	if p.Points == nil {
		return 0
	}
	return *p.Points
}
