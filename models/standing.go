package models

import "time"

// StandingRow — строка турнирной таблицы. Полностью производная от
// результатов матчей: пересчитывается, никогда не правится напрямую.
type StandingRow struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	GroupLabel   *string   `json:"group_label,omitempty" db:"group_label"`
	TeamID       int       `json:"team_id" db:"team_id"`
	Played       int       `json:"played" db:"played"`
	Wins         int       `json:"wins" db:"wins"`
	Draws        int       `json:"draws" db:"draws"`
	Losses       int       `json:"losses" db:"losses"`
	GoalsFor     int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst int       `json:"goals_against" db:"goals_against"`
	Points       int       `json:"points" db:"points"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// GoalDifference — разница забитых и пропущенных.
func (s *StandingRow) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}
