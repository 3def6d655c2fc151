package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusPlayed    MatchStatus = "played"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// Match — матч турнира. Для группового этапа заполнен GroupLabel,
// для сетки на вылет — Round/BracketUID и связка со следующим матчем.
// Команды могут быть nil в матчах поздних раундов, пока не определены
// победители предыдущих.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	GroupLabel   *string     `json:"group_label,omitempty" db:"group_label"`
	Round        *int        `json:"round,omitempty" db:"round"`
	BracketUID   *string     `json:"bracket_uid,omitempty" db:"bracket_uid"`
	HomeTeamID   *int        `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID   *int        `json:"away_team_id,omitempty" db:"away_team_id"`
	ScheduledAt  time.Time   `json:"scheduled_at" db:"scheduled_at"`
	HomeGoals    *int        `json:"home_goals,omitempty" db:"home_goals"`
	AwayGoals    *int        `json:"away_goals,omitempty" db:"away_goals"`
	Status       MatchStatus `json:"status" db:"status"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	RecordedBy   *int        `json:"recorded_by,omitempty" db:"recorded_by"`

	// Навигация по сетке на вылет: куда попадает победитель.
	NextMatchID   *int `json:"next_match_id,omitempty" db:"next_match_id"`
	NextMatchSlot *int `json:"next_match_slot,omitempty" db:"next_match_slot"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsKnockout сообщает, относится ли матч к сетке на вылет.
func (m *Match) IsKnockout() bool {
	return m.Round != nil && m.GroupLabel == nil
}
