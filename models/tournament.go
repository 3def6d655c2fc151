package models

import "time"

// TournamentStatus представляет статусы жизненного цикла турнира, соответствующие CHECK в БД.
type TournamentStatus string

const (
	StatusPreparation        TournamentStatus = "preparation"
	StatusRegistrationOpen   TournamentStatus = "registration_open"
	StatusRegistrationClosed TournamentStatus = "registration_closed"
	StatusInProgress         TournamentStatus = "in_progress"
	StatusFinished           TournamentStatus = "finished"
	StatusCancelled          TournamentStatus = "cancelled"
)

// TournamentFormat определяет схему розыгрыша.
type TournamentFormat string

const (
	FormatGroupsThenKnockout TournamentFormat = "groups_then_knockout"
	FormatSingleElimination  TournamentFormat = "single_elimination"
	FormatRoundRobin         TournamentFormat = "round_robin"
)

// Tournament представляет турнир на одной из площадок центра.
type Tournament struct {
	ID                   int              `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Description          *string          `json:"description,omitempty" db:"description"`
	FieldID              int              `json:"field_id" db:"field_id"`
	CreatorID            int              `json:"creator_id" db:"creator_id"`
	RegistrationDeadline time.Time        `json:"registration_deadline" db:"registration_deadline"`
	StartDate            time.Time        `json:"start_date" db:"start_date"`
	EndDate              time.Time        `json:"end_date" db:"end_date"`
	EntryFee             float64          `json:"entry_fee" db:"entry_fee"`
	TotalPrize           float64          `json:"total_prize" db:"total_prize"`
	RewardDescription    *string          `json:"reward_description,omitempty" db:"reward_description"`
	Format               TournamentFormat `json:"format" db:"format"`
	MaxTeams             int              `json:"max_teams" db:"max_teams"`
	Ruleset              *string          `json:"ruleset,omitempty" db:"ruleset"`
	Status               TournamentStatus `json:"status" db:"status"`
	ChampionTeamID       *int             `json:"champion_team_id,omitempty" db:"champion_team_id"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`

	// Токен подтверждения пережеребьёвки. Наружу не отдаётся.
	RedrawTokenHash      *string    `json:"-" db:"redraw_token_hash"`
	RedrawTokenExpiresAt *time.Time `json:"-" db:"redraw_token_expires_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Field          *Field          `json:"field,omitempty" db:"-"`
	Participations []Participation `json:"participations,omitempty" db:"-"`
	Matches        []Match         `json:"matches,omitempty" db:"-"`
	Standings      []StandingRow   `json:"standings,omitempty" db:"-"`
}

// IsTerminal сообщает, завершён ли жизненный цикл турнира.
func (s TournamentStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}
