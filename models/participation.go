package models

import "time"

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

// Participation — заявка команды на участие в турнире.
type Participation struct {
	ID              int                 `json:"id" db:"id"`
	TournamentID    int                 `json:"tournament_id" db:"tournament_id"`
	TeamID          int                 `json:"team_id" db:"team_id"`
	Status          ParticipationStatus `json:"status" db:"status"`
	RejectionReason *string             `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ReviewedBy      *int                `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time          `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
