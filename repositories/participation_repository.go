package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mas2205/UrbanFootCenter-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrParticipationNotFound          = errors.New("participation not found")
	ErrParticipationConflict          = errors.New("participation conflict: team already holds an active request for this tournament")
	ErrParticipationTeamInvalid       = errors.New("participation team conflict or invalid")
	ErrParticipationTournamentInvalid = errors.New("participation tournament conflict or invalid")
)

type ParticipationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participation) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participation, error)
	// FindActiveByTeamAndTournament возвращает (nil, nil), если у команды
	// нет неотклонённой заявки на этот турнир.
	FindActiveByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) (*models.Participation, error)
	CountApproved(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	UpdateReview(ctx context.Context, exec SQLExecutor, id int, status models.ParticipationStatus, reason *string, reviewerID int, reviewedAt time.Time) error
	ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipationStatus, includeTeam bool) ([]*models.Participation, error)
	ListApprovedTeams(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Team, error)
}

type postgresParticipationRepository struct {
	db *sql.DB
}

func NewPostgresParticipationRepository(db *sql.DB) ParticipationRepository {
	return &postgresParticipationRepository{db: db}
}

func (r *postgresParticipationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipationRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participation) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO participations (tournament_id, team_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.TournamentID,
		p.TeamID,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "participations_team_id_tournament_id_active_key" {
					return ErrParticipationConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "participations_team_id_fkey":
					return ErrParticipationTeamInvalid
				case "participations_tournament_id_fkey":
					return ErrParticipationTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

func (r *postgresParticipationRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participation, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, team_id, status, rejection_reason, reviewed_by, reviewed_at, created_at
		FROM participations
		WHERE id = $1`

	p := &models.Participation{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TournamentID, &p.TeamID, &p.Status,
		&p.RejectionReason, &p.ReviewedBy, &p.ReviewedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipationNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipationRepository) FindActiveByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) (*models.Participation, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, team_id, status, rejection_reason, reviewed_by, reviewed_at, created_at
		FROM participations
		WHERE team_id = $1 AND tournament_id = $2 AND status <> $3`

	p := &models.Participation{}
	err := executor.QueryRowContext(ctx, query, teamID, tournamentID, models.ParticipationRejected).Scan(
		&p.ID, &p.TournamentID, &p.TeamID, &p.Status,
		&p.RejectionReason, &p.ReviewedBy, &p.ReviewedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipationRepository) CountApproved(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM participations WHERE tournament_id = $1 AND status = $2`

	var count int
	if err := executor.QueryRowContext(ctx, query, tournamentID, models.ParticipationApproved).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved participations for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresParticipationRepository) UpdateReview(ctx context.Context, exec SQLExecutor, id int, status models.ParticipationStatus, reason *string, reviewerID int, reviewedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE participations
		SET status = $1, rejection_reason = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query, status, reason, reviewerID, reviewedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipationNotFound)
}

func (r *postgresParticipationRepository) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipationStatus, includeTeam bool) ([]*models.Participation, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT p.id, p.tournament_id, p.team_id, p.status, p.rejection_reason, p.reviewed_by, p.reviewed_at, p.created_at`)
	if includeTeam {
		queryBuilder.WriteString(`, t.id, t.name, t.captain_id, t.color, t.created_at`)
	}
	queryBuilder.WriteString(` FROM participations p`)
	if includeTeam {
		queryBuilder.WriteString(` JOIN teams t ON p.team_id = t.id`)
	}
	queryBuilder.WriteString(` WHERE p.tournament_id = $1`)

	args := []interface{}{tournamentID}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND p.status = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY p.created_at ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participations := make([]*models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		dest := []interface{}{
			&p.ID, &p.TournamentID, &p.TeamID, &p.Status,
			&p.RejectionReason, &p.ReviewedBy, &p.ReviewedAt, &p.CreatedAt,
		}
		var team models.Team
		if includeTeam {
			dest = append(dest, &team.ID, &team.Name, &team.CaptainID, &team.Color, &team.CreatedAt)
		}
		if scanErr := rows.Scan(dest...); scanErr != nil {
			return nil, scanErr
		}
		if includeTeam {
			p.Team = &team
		}
		participations = append(participations, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return participations, nil
}

func (r *postgresParticipationRepository) ListApprovedTeams(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT t.id, t.name, t.captain_id, t.color, t.created_at
		FROM participations p
		JOIN teams t ON p.team_id = t.id
		WHERE p.tournament_id = $1 AND p.status = $2
		ORDER BY p.created_at ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID, models.ParticipationApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.Name, &t.CaptainID, &t.Color, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}
